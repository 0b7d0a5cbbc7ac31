package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/msomdec/ricettario/internal/config"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "ricettario",
	Short: "A small recipe sharing site",
	Long: `Ricettario lets signed-in cooks publish recipes with a photo, ingredients and steps.
Everyone can browse them; only the author can edit a recipe.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		logOpts := &slog.HandlerOptions{Level: level}
		logger := slog.New(slog.NewMultiHandler(
			slog.NewTextHandler(os.Stdout, logOpts),
			slog.NewJSONHandler(os.Stderr, logOpts),
		))
		slog.SetDefault(logger)
	},
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads and validates the configuration named by --config.
func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		fatal("failed to load configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("invalid configuration", err)
	}
	return cfg
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}
