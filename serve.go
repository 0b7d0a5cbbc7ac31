package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msomdec/ricettario/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply migrations and run the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		// Graceful shutdown on SIGINT/SIGTERM.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		backend, err := app.OpenBackend(ctx, cfg)
		if err != nil {
			return err
		}
		defer backend.Close()

		if err := backend.DB.Migrate(ctx); err != nil {
			return err
		}
		slog.Info("database migrations applied", "backend", backend.Name)

		return app.NewServer(cfg, backend).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
