package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/skillverse/internal/config"
	"github.com/sakif/skillverse/internal/logging"
)

var rootFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

var rootCmd = &cobra.Command{
	Use:   "skillverse",
	Short: "Skillverse learning platform API server",
	Long: `Skillverse serves the learning platform API (user sync, courses, feedback,
admin sessions, the course assistant and media uploads) and the built web app.`,
	Example: `skillverse --config config.yml
  skillverse migrate
  skillverse admin create --username root --password 's3cret-pass'`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFlags.ConfigFile, "config", "c", "", "Path to a YAML config file (env vars and .env are always read)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config")
	rootCmd.PersistentFlags().StringVar(&rootFlags.LogFormat, "log-format", "", "Log format (text, json); overrides the config")
}

// loadConfig reads the configuration and builds the logger from it, with the
// command line flags taking precedence.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(rootFlags.ConfigFile)
	if err != nil {
		return nil, flagLogger(), err
	}
	if rootFlags.LogLevel != "" {
		cfg.Log.Level = rootFlags.LogLevel
	}
	if rootFlags.LogFormat != "" {
		cfg.Log.Format = rootFlags.LogFormat
	}
	return cfg, logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr), nil
}

// flagLogger is used by commands that need no server configuration.
func flagLogger() *slog.Logger {
	level, format := rootFlags.LogLevel, rootFlags.LogFormat
	if level == "" {
		level = "info"
	}
	if format == "" {
		format = "text"
	}
	return logging.New(level, format, os.Stderr)
}
