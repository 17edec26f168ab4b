package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"moodmatch/internal/config"
	"moodmatch/internal/logging"
)

var (
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "moodctl",
	Short: "Offline tools for the moodmatch emotion pipeline",
	Long: `moodctl runs the face, normalization and inference stages of a scan
against local image files and inspects the configured taxonomy versions.
It reads the same configuration as the server (CONFIG_FILE, .env and
environment overrides) but needs no database, cache or broker.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config failed: %w", err)
		}
		cfg = loaded
		level := cfg.Log.Level
		if logLevel != "" {
			level = logLevel
		}
		logging.Init(logging.Config{Level: level, Format: "console", Output: cmd.ErrOrStderr()})
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log.level (trace, debug, info, warn, error)")
	rootCmd.AddCommand(predictCmd, taxonomyCmd)
}
