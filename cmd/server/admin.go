package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sakif/skillverse/internal/auth"
	"github.com/sakif/skillverse/internal/logging"
	"github.com/sakif/skillverse/internal/server"
	"github.com/sakif/skillverse/internal/service"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var adminCreateFlags struct {
	Username string
	Password string
}

var adminCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create an admin, or reset the password of an existing one",
	Example: `skillverse admin create --username root --password 'correct-horse-battery'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return logging.Fatal(logger, "failed to load config", err)
		}

		store, err := server.OpenStore(cmd.Context(), cfg.Database, logger)
		if err != nil {
			return logging.Fatal(logger, "failed to open database", err)
		}
		defer store.Close()

		// Creating an admin needs no token service.
		admins := service.NewAdminService(store, store, nil, auth.NewPasswordService(), logger)
		admin, err := admins.CreateAdmin(cmd.Context(), adminCreateFlags.Username, adminCreateFlags.Password)
		if err != nil {
			return logging.Fatal(logger, "failed to create admin", err)
		}

		logger.Info("admin saved", slog.String("id", admin.ID), slog.String("username", admin.Username))
		fmt.Fprintf(cmd.OutOrStdout(), "admin %q ready\n", admin.Username)
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminCreateFlags.Username, "username", "", "Admin username")
	adminCreateCmd.Flags().StringVar(&adminCreateFlags.Password, "password", "", "Admin password (at least 8 characters)")
	_ = adminCreateCmd.MarkFlagRequired("username")
	_ = adminCreateCmd.MarkFlagRequired("password")

	adminCmd.AddCommand(adminCreateCmd)
	rootCmd.AddCommand(adminCmd)
}
