package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitfolio/gitfolio/internal/github"
)

func newSearchCmd(app *App) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the user's repositories",
		Long: "Search the configured user's repositories through the GitHub search\n" +
			"API. The query is matched against names, descriptions, and readmes.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := app.Client()
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			records, err := client.SearchRepos(ctx, query, language)
			if err != nil {
				if github.IsRateLimited(err) {
					return fmt.Errorf("search rate limit exceeded, try again shortly: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), app.Renderer(cmd).FetchFailedPanel())
				return err
			}

			return app.Renderer(cmd).Cards(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "restrict results to this language")

	return cmd
}
