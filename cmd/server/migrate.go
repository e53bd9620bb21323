package main

import (
	"github.com/spf13/cobra"

	"github.com/sakif/skillverse/internal/logging"
	"github.com/sakif/skillverse/internal/server"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return logging.Fatal(logger, "failed to load config", err)
		}

		// OpenStore migrates before returning.
		store, err := server.OpenStore(cmd.Context(), cfg.Database, logger)
		if err != nil {
			return logging.Fatal(logger, "migration failed", err)
		}
		defer store.Close()

		logger.Info("schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
