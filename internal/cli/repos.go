package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitfolio/gitfolio/internal/present"
)

func newReposCmd(app *App) *cobra.Command {
	var (
		filter   string
		language string
		sortFlag string
		all      bool
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "repos",
		Short: "List repositories as cards",
		Long: "Fetch the configured user's public repositories and render them as\n" +
			"styled cards. Results are cached; stale data is served while a\n" +
			"background refresh runs.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, err := app.Client()
			if err != nil {
				return err
			}

			if pageSize > 0 {
				app.Config.PageSize = pageSize
			}
			presenter := app.Presenter()
			token := presenter.BeginRequest()

			records, err := client.FetchRepos(ctx)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), app.Renderer(cmd).FetchFailedPanel())
				return err
			}
			presenter.Apply(token, records)

			if filter != "" {
				presenter.SetTextFilter(filter)
			}
			if language != "" {
				presenter.SetLanguageFilter(language)
			}
			if sortFlag != "" {
				key, ok := present.ParseSortKey(sortFlag)
				if !ok {
					return fmt.Errorf("unknown sort key %q (expected name, updated, or stars)", sortFlag)
				}
				presenter.SetSortKey(key)
			}
			if all {
				presenter.LoadRemaining()
			}

			if err := app.Renderer(cmd).Cards(cmd.OutOrStdout(), presenter.Visible()); err != nil {
				return err
			}
			snapshot := presenter.Snapshot()
			if hidden := snapshot.Hidden + snapshot.Remaining; hidden > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d more repositories hidden. Use --all to show everything.\n", hidden)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "show repositories whose name or description contains this text")
	cmd.Flags().StringVarP(&language, "language", "l", "", "show repositories written in this language")
	cmd.Flags().StringVarP(&sortFlag, "sort", "s", "", "sort order: name, updated, or stars")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "show all repositories instead of the first page")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "cards per page (default from config)")

	return cmd
}
