package main

import (
	"context"
	"fmt"
	"os"

	"smartgriev/backend/internal/bootstrap"
	"smartgriev/backend/internal/cli"
	"smartgriev/backend/internal/config"
	"smartgriev/backend/internal/logging"
)

func main() {
	root := cli.NewRootCmd(func(ctx context.Context) (*bootstrap.App, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		logger, err := logging.New(cfg.LogLevel, logging.FormatConsole)
		if err != nil {
			return nil, err
		}
		return bootstrap.New(ctx, cfg, logger)
	})

	if err := cli.Execute(context.Background(), root); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
