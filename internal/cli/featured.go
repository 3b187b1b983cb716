package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gitfolio/gitfolio/internal/tui"
)

func newFeaturedCmd(app *App) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "featured",
		Short: "Show the featured repository carousel",
		Long: "Pick the most recently pushed, described repositories and present them\n" +
			"as a carousel. Interactive mode lets you page through the cards with\n" +
			"the arrow keys; otherwise all featured cards are printed in order.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, err := app.Client()
			if err != nil {
				return err
			}

			records, err := client.FetchFeaturedRepos(ctx)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), app.Renderer(cmd).FetchFailedPanel())
				return err
			}

			presenter := app.Presenter()
			presenter.SetFeatured(records)

			renderer := app.Renderer(cmd)

			out, isFile := cmd.OutOrStdout().(*os.File)
			if interactive && app.Prefs.Animations && isFile && isTerminal(out) {
				model := tui.NewCarousel(presenter, renderer)
				if _, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(out)).Run(); err != nil {
					return fmt.Errorf("failed to run carousel: %w", err)
				}
				return nil
			}

			featured := presenter.Featured()
			if len(featured) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderer.NoResultsPanel())
				return nil
			}
			for i, repo := range featured {
				fmt.Fprintln(cmd.OutOrStdout(), renderer.FeaturedCard(repo, i, len(featured)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "page through the carousel interactively")

	return cmd
}
