package commands

import (
	"log"

	"github.com/spf13/cobra"

	"properties-api/database"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "migrate",
		Short:   "Create or update the users and properties tables",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(cfg)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Println("Migrations applied")
			return nil
		},
	}
}
