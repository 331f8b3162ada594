package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/mediashelf/internal/entrypoint"
)

func newUsersCommand(load loader) *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Manage API users",
	}

	var name, email string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user and print its API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(load, func(app *entrypoint.App) error {
				user, token, err := app.Users.CreateUser(cmd.Context(), name, email)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Created user %d (%s)\n", user.ID, user.DisplayName)
				fmt.Fprintf(out, "Token: %s\n", token)
				fmt.Fprintln(out, "The token is shown only once.")
				return nil
			})
		},
	}
	create.Flags().StringVar(&name, "name", "", "Display name (required)")
	create.Flags().StringVar(&email, "email", "", "Contact email")
	_ = create.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(load, func(app *entrypoint.App) error {
				all, err := app.Users.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(all) == 0 {
					fmt.Fprintln(out, "No users.")
					return nil
				}
				for _, u := range all {
					fmt.Fprintf(out, "%-6d %-24s %s\n", u.ID, u.DisplayName, u.Email)
				}
				return nil
			})
		},
	}

	users.AddCommand(create, list)
	return users
}
