package cmd

import (
	"github.com/princinho/dealsbackend/database"
	"github.com/princinho/dealsbackend/server"
	"github.com/spf13/cobra"
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the admin and manager roles and the ADMIN_EMAIL account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := database.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer server.CloseDB(db)

		if err := database.Migrate(db); err != nil {
			return err
		}
		return database.SeedAdminUser(cmd.Context(), db, logger, cfg.AdminEmail, cfg.AdminPassword)
	},
}
