package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"properties-api/utils"
)

// checkHashCmd verifica una contraseña contra un hash bcrypt guardado
// No necesita base de datos
func checkHashCmd() *cobra.Command {
	var hash, password string

	cmd := &cobra.Command{
		Use:   "checkhash",
		Short: "Check a password against a bcrypt hash",
		RunE: func(cmd *cobra.Command, args []string) error {
			cost, err := utils.HashCost(hash)
			if err != nil {
				return err
			}
			if err := utils.VerifyPassword(password, hash); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password matches (bcrypt cost %d)\n", cost)
			return nil
		},
	}

	cmd.Flags().StringVar(&hash, "hash", "", "bcrypt hash")
	cmd.Flags().StringVar(&password, "password", "", "plain-text password")
	cmd.MarkFlagRequired("hash")
	cmd.MarkFlagRequired("password")
	return cmd
}
