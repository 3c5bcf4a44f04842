package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ba5maa/FileBlogSystem/internal/auth"
	"github.com/ba5maa/FileBlogSystem/internal/domain"
	"github.com/ba5maa/FileBlogSystem/internal/repository"
	"github.com/ba5maa/FileBlogSystem/internal/validator"
)

// NewUserCmd groups the user account commands.
func NewUserCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "manage user accounts",
	}
	cmd.AddCommand(newUserCreateCmd(deps), newUserListCmd(deps))
	return cmd
}

func newUserCreateCmd(deps *Deps) *cobra.Command {
	var input domain.UserInput

	cmd := &cobra.Command{
		Use:   "create USERNAME",
		Short: "create a user profile in the content root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Username = args[0]
			if input.Password == "" {
				var err error
				if input.Password, err = deps.ReadPassword("Password: "); err != nil {
					return err
				}
			}

			if err := validator.NewValidator().ValidateUserCreate(&input); err != nil {
				return describeValidation(err)
			}

			root, err := deps.root()
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(input.Password)
			if err != nil {
				return err
			}

			user, err := repository.NewFileUserRepository(root).Create(cmd.Context(), domain.CreateUserRequest{
				Username:       input.Username,
				Email:          input.Email,
				HashedPassword: hash,
				Roles:          input.Roles,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %s [%s]\n", user.Username, strings.Join(user.Roles, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "email address (required)")
	cmd.Flags().StringSliceVar(&input.Roles, "role", nil, "role to grant, Admin or Author (repeatable)")
	cmd.Flags().StringVar(&input.Password, "password", "", "password instead of prompting")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newUserListCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list user accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := deps.root()
			if err != nil {
				return err
			}
			users, err := repository.NewFileUserRepository(root).List(cmd.Context())
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", u.Username, u.Email, strings.Join(u.Roles, ","))
			}
			return nil
		},
	}
}

func describeValidation(err error) error {
	fields := validator.ConvertValidationErrors(err)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return fmt.Errorf("invalid user: %s", strings.Join(parts, "; "))
}
