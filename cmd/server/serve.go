package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sakif/skillverse/internal/logging"
	"github.com/sakif/skillverse/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server (default command)",
	Example: `skillverse serve --config config.yml
skillverse serve --log-level debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return logging.Fatal(logger, "failed to load config", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := server.OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		return logging.Fatal(logger, "failed to open database", err)
	}

	srv, err := server.New(ctx, cfg, store, logger)
	if err != nil {
		store.Close()
		return logging.Fatal(logger, "failed to create server", err)
	}

	if err := srv.Start(ctx); err != nil {
		return logging.Fatal(logger, "server error", err)
	}
	return nil
}
