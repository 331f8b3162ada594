package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/mediashelf/internal/entrypoint"
)

func newEnrichCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:     "enrich <provider> <external-id...>",
		Short:   "Import content from a provider into the catalog",
		Example: `  mediashelf enrich tmdb 27205 603`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(load, func(app *entrypoint.App) error {
				outcomes, err := app.Orchestrator.EnrichBatch(cmd.Context(), args[0], args[1:])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				failed := 0
				for _, o := range outcomes {
					switch {
					case o.Error != "":
						failed++
						fmt.Fprintf(out, "%-14s error: %s\n", o.ExternalID, o.Error)
					case o.Created:
						fmt.Fprintf(out, "%-14s created content %d\n", o.ExternalID, o.ContentID)
					default:
						fmt.Fprintf(out, "%-14s exists as content %d\n", o.ExternalID, o.ContentID)
					}
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d ids failed", failed, len(outcomes))
				}
				return nil
			})
		},
	}
}
