package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/mediashelf/internal/entrypoint"
)

func newCleanupCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete interactions whose content no longer exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(load, func(app *entrypoint.App) error {
				deleted, err := app.Interactions.DeleteOrphans(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d orphan interactions\n", deleted)
				return nil
			})
		},
	}
}
