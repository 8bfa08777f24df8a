package cli

import (
	"fmt"
	"strings"

	"smartgriev/backend/internal/analysis"
	"smartgriev/backend/internal/bootstrap"
	"smartgriev/backend/internal/config"
	"smartgriev/backend/internal/models"

	"github.com/spf13/cobra"
)

const defaultOperatorID = "admin-cli"

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The schema is migrated while the app is built.
			app := appFrom(cmd)
			if app.Config.DatabaseDriver != config.DriverPostgres {
				fmt.Fprintf(cmd.OutOrStdout(), "Driver %s keeps no schema.\n", app.Config.DatabaseDriver)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations complete.")
			return nil
		},
	}
}

func newSeedDepartmentsCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed-departments",
		Short: "Write the built-in routing departments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			ctx := cmd.Context()
			if err := bootstrap.SeedDepartments(ctx, app.Store, force); err != nil {
				return err
			}
			departments, err := app.Store.GetDepartments(ctx)
			if err != nil {
				return fmt.Errorf("failed to load departments: %w", err)
			}
			for _, d := range departments {
				fmt.Fprintf(cmd.OutOrStdout(), "%-4s %-20s %s\n", d.Code, d.Name, strings.Join(d.Keywords, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite keywords of existing departments")
	return cmd
}

func newSetRoleCmd() *cobra.Command {
	var department string

	cmd := &cobra.Command{
		Use:   "set-role <user_id> <role> [department]",
		Short: "Change a user's role (CITIZEN, OFFICER, ADMIN)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 3 {
				department = args[2]
			}
			var dept *string
			if department != "" {
				dept = &department
			}
			profile, err := appFrom(cmd).Auth.SetRole(cmd.Context(), args[0], args[1], dept)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s is now %s.\n", profile.ID, profile.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&department, "department", "", "Department an officer works for")
	return cmd
}

func newUpdateStatusCmd() *cobra.Command {
	var comment, actorID string

	cmd := &cobra.Command{
		Use:   "update-status <complaint_id> <status>",
		Short: "Move a complaint to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := appFrom(cmd).Complaints.UpdateStatus(cmd.Context(), operator(actorID), args[0], args[1], comment)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Complaint %s is now %s.\n", c.ID, c.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", "Comment stored in the history entry")
	cmd.Flags().StringVar(&actorID, "actor", defaultOperatorID, "User ID recorded as the author of the change")
	return cmd
}

func newReclassifyCmd() *cobra.Command {
	var actorID string

	cmd := &cobra.Command{
		Use:   "reclassify <complaint_id>",
		Short: "Re-run classification for a stored complaint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := appFrom(cmd).Complaints.Reclassify(cmd.Context(), operator(actorID), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Complaint %s routed to %s (%s, confidence %.2f).\n",
				c.ID, c.Department, c.Priority, c.ConfidenceScore)
			return nil
		},
	}

	cmd.Flags().StringVar(&actorID, "actor", defaultOperatorID, "User ID recorded as the author of the change")
	return cmd
}

type analyticsReport struct {
	Summary      analysis.Summary  `json:"summary"`
	ByStatus     []analysis.Bucket `json:"byStatus,omitempty"`
	ByDepartment []analysis.Bucket `json:"byDepartment,omitempty"`
	ByPriority   []analysis.Bucket `json:"byPriority,omitempty"`
}

func newAnalyticsCmd() *cobra.Command {
	var (
		byStatus, byDepartment, byPriority bool
		output                             string
	)

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Print complaint totals and resolution time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			complaints, err := app.Store.ListComplaints(cmd.Context(), models.ComplaintFilter{})
			if err != nil {
				return fmt.Errorf("failed to load complaints: %w", err)
			}

			report := analyticsReport{Summary: analysis.Summarize(complaints)}
			if byStatus {
				report.ByStatus = analysis.ByStatus(complaints)
			}
			if byDepartment {
				report.ByDepartment = analysis.ByDepartment(complaints)
			}
			if byPriority {
				report.ByPriority = analysis.ByPriority(complaints)
			}

			out := cmd.OutOrStdout()
			switch output {
			case "json":
				return printJSON(out, report)
			case "text":
			default:
				return fmt.Errorf("unsupported output %q (text, json)", output)
			}

			s := report.Summary
			fmt.Fprintf(out, "Total: %d\nPending: %d\nResolved: %d\nAverage resolution: %s\n",
				s.Total, s.Pending, s.Resolved, s.AvgResolutionTime)
			for _, section := range []struct {
				title   string
				buckets []analysis.Bucket
			}{
				{"By status", report.ByStatus},
				{"By department", report.ByDepartment},
				{"By priority", report.ByPriority},
			} {
				if len(section.buckets) == 0 {
					continue
				}
				fmt.Fprintf(out, "\n%s:\n", section.title)
				for _, b := range section.buckets {
					fmt.Fprintf(out, "  %-20s %d\n", b.Key, b.Count)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&byDepartment, "by-department", false, "Include counts per department")
	cmd.Flags().BoolVar(&byStatus, "by-status", false, "Include counts per status")
	cmd.Flags().BoolVar(&byPriority, "by-priority", false, "Include counts per priority")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, json)")
	return cmd
}
