// Package cmd contains the passiton server CLI.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/passiton/backend/internal/config"
)

var (
	logLevel string
	cfg      config.Config
	logger   *slog.Logger
	version  = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "passiton",
	Short: "Student marketplace backend",
	Long: `passiton serves the campus marketplace API: listings, opportunities,
college lookup and the session gate in front of the web pages.

Example usage:
  passiton serve               # Start the HTTP server
  passiton migrate             # Apply PostgreSQL schema migrations
  passiton seed                # Load demo recruiters and opportunities`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default from LOG_LEVEL)")
}

func initConfig() error {
	cfg = config.Load()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger = newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		logger.Warn(w)
	}
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// newLogger writes JSON in production and text elsewhere.
func newLogger(c config.Config, w *os.File) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.LogLevel)}
	if c.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
