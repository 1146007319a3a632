package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"notesapp/internal/config"
	"notesapp/internal/logger"
)

var (
	logLevel string
	envFile  string
	cfg      config.Config
)

var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "A small note-taking service backed by PostgreSQL",
	Long: `notes serves create, list, update, delete and search operations on
short text notes. Run "notes init-db" once to create the schema and indexes.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
		cfg = config.Load()
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		logger.New(cfg.LogLevel)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.S().Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command; without a subcommand it serves.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log level: DEVELOPMENT, PRODUCTION or a zap level")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file to load")
}
