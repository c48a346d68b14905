package commands

import (
	"github.com/spf13/cobra"

	"properties-api/config"
)

var cfg *config.Config

// Execute corre la línea de comandos crm
func Execute() error {
	root := &cobra.Command{
		Use:           "crm",
		Short:         "Real-estate CRM properties API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(serveCmd(), migrateCmd(), userCmd(), checkHashCmd())
	return root.Execute()
}

// loadConfig es el PreRunE de los comandos que necesitan el entorno
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}
