package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitfolio/gitfolio/internal/github"
)

func newRepoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo <name>",
		Short: "Show a single repository card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := app.Client()
			if err != nil {
				return err
			}

			repo, err := client.FetchRepo(ctx, args[0])
			if err != nil {
				if github.IsNotFound(err) {
					return fmt.Errorf("repository %s/%s not found", app.Config.Username, args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), app.Renderer(cmd).FetchFailedPanel())
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), app.Renderer(cmd).Card(repo))
			if url := repo.HTMLURL; url != "" {
				fmt.Fprintln(cmd.OutOrStdout(), url)
			}
			return nil
		},
	}

	return cmd
}
