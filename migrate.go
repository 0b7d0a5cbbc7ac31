package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msomdec/ricettario/internal/app"
)

var dryRun bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long:  `Apply the embedded schema migrations to the configured backend. Firestore needs none.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		ctx := cmd.Context()

		backend, err := app.OpenBackend(ctx, cfg)
		if err != nil {
			return err
		}
		defer backend.Close()

		pending, err := backend.DB.PendingMigrations(ctx)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no pending migrations")
			return nil
		}
		for _, name := range pending {
			fmt.Fprintln(cmd.OutOrStdout(), "pending:", name)
		}
		if dryRun {
			return nil
		}

		if err := backend.DB.Migrate(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(pending))
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "List pending migrations without applying them")
	rootCmd.AddCommand(migrateCmd)
}
