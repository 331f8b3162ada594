package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlokans/mediashelf/internal/entrypoint"
	"github.com/mrlokans/mediashelf/internal/providers"
)

func newSearchCommand(load loader) *cobra.Command {
	var limit, page int

	cmd := &cobra.Command{
		Use:   "search <provider> <query...>",
		Short: "Search a provider for candidates",
		Example: `  mediashelf search tmdb inception
  mediashelf search book "the left hand of darkness" --limit 5`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args[1:], " ")
			return withApp(load, func(app *entrypoint.App) error {
				results, err := app.Orchestrator.Search(cmd.Context(), args[0], query,
					providers.SearchOptions{Limit: limit, Page: page})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(results) == 0 {
					fmt.Fprintln(out, "No results.")
					return nil
				}
				for _, r := range results {
					if r.Subtitle != "" {
						fmt.Fprintf(out, "%-14s %s (%s)\n", r.ExternalID, r.Title, r.Subtitle)
					} else {
						fmt.Fprintf(out, "%-14s %s\n", r.ExternalID, r.Title)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", providers.DefaultSearchLimit, "Maximum results")
	cmd.Flags().IntVar(&page, "page", 1, "Result page")
	return cmd
}
