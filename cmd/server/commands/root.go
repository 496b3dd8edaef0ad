package commands

import (
	"fmt"
	"os"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/config"
	"github.com/dossiman/coursera-fullstack-web-dev/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	logLevel  string
	logFormat string
)

// rootCmd runs the server when no subcommand is given
var rootCmd = &cobra.Command{
	Use:   "confusion",
	Short: "conFusion restaurant API",
	Long: `conFusion serves the restaurant's dishes and their comments over HTTP.

Examples:
  confusion serve                                   # Start the API server
  confusion migrate up                              # Apply Postgres migrations
  confusion admin create --username root --password s3cret`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level, overrides LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (json or pretty), overrides LOG_FORMAT")
}

// setup loads configuration and builds the logger every command shares
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	return cfg, logger.New(cfg.Log.Level, cfg.Log.Format), nil
}
