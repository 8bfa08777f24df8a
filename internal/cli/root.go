// Package cli implements the operator commands run by cmd/admin.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"smartgriev/backend/internal/access"
	"smartgriev/backend/internal/bootstrap"
	"smartgriev/backend/internal/models"

	"github.com/spf13/cobra"
)

// Loader builds the application for a command run.
type Loader func(ctx context.Context) (*bootstrap.App, error)

type appKey struct{}

// NewRootCmd returns the admin command tree. The app is built once per run
// before any subcommand executes. Run the tree with Execute so the app is
// closed afterwards.
func NewRootCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "admin",
		Short:         "SmartGriev administration commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app, err := load(cmd.Context())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, app))
			return nil
		},
	}

	cmd.AddCommand(
		newMigrateCmd(),
		newSeedDepartmentsCmd(),
		newSetRoleCmd(),
		newUpdateStatusCmd(),
		newReclassifyCmd(),
		newAnalyticsCmd(),
	)
	return cmd
}

// Execute runs root and closes the app the command loaded, whether or not the
// command succeeded.
func Execute(ctx context.Context, root *cobra.Command) error {
	cmd, err := root.ExecuteContextC(ctx)
	if cmd != nil {
		if app := appFrom(cmd); app != nil {
			app.Close()
		}
	}
	return err
}

func appFrom(cmd *cobra.Command) *bootstrap.App {
	ctx := cmd.Context()
	if ctx == nil {
		return nil
	}
	app, _ := ctx.Value(appKey{}).(*bootstrap.App)
	return app
}

// operator is the actor recorded for changes made from the command line.
func operator(id string) access.Actor {
	return access.Actor{ID: id, Name: "Administrator", Role: models.RoleAdmin}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
