package cmd

import (
	"ledger-backend/config"
	"ledger-backend/database"
	"ledger-backend/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.WithComponent("migrate")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := database.Connect(cfg); err != nil {
			return err
		}
		if err := database.Migrate(database.DB); err != nil {
			return err
		}
		log.Info().Str("db_driver", cfg.DBDriver).Msg("Schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
