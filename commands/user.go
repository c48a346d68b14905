package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"properties-api/database"
	"properties-api/dto"
	"properties-api/repositories"
	"properties-api/services"
	"properties-api/utils"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage property owners",
	}
	cmd.AddCommand(userCreateCmd())
	return cmd
}

func userCreateCmd() *cobra.Command {
	var req dto.CreateUserRequest

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create an owner that properties can reference",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(cfg)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}

			service := services.NewUserService(repositories.NewUserRepository(db), utils.SystemClock{})
			user, err := service.CreateUser(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created user %d (%s)\n", user.ID, user.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "unique username")
	cmd.Flags().StringVar(&req.Email, "email", "", "unique email")
	cmd.Flags().StringVar(&req.Password, "password", "", "password, stored as a bcrypt hash")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().BoolVar(&req.Admin, "admin", false, "create an administrator")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("first-name")
	cmd.MarkFlagRequired("last-name")
	return cmd
}
