package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitfolio/gitfolio/internal/github"
	"github.com/gitfolio/gitfolio/internal/present"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		output  string
		title   string
		noProf  bool
		maxRepo int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a static HTML portfolio page",
		Long: "Fetch the user's profile and repositories and write a self-contained\n" +
			"HTML page. All repository text is escaped, so descriptions containing\n" +
			"markup render as text instead of executing.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, err := app.Client()
			if err != nil {
				return err
			}

			var profile *github.Profile
			if !noProf {
				p, err := client.GetUserProfile(ctx)
				if err != nil {
					app.Logger.Warn().Err(err).Msg("profile unavailable, exporting repositories only")
				} else {
					profile = &p
				}
			}

			records, err := client.FetchRepos(ctx)
			if err != nil {
				return err
			}
			if maxRepo > 0 && len(records) > maxRepo {
				records = records[:maxRepo]
			}

			if title == "" {
				title = app.Config.Username + " · portfolio"
			}

			page := present.HTMLPage{
				Title:        title,
				Profile:      profile,
				Repositories: records,
				GeneratedAt:  time.Now(),
			}

			out := cmd.OutOrStdout()
			if output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				out = f
			}

			if err := present.RenderHTML(out, page); err != nil {
				return fmt.Errorf("failed to render portfolio page: %w", err)
			}
			if output != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d repositories to %s\n", len(records), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "portfolio.html", "output file, or - for stdout")
	cmd.Flags().StringVar(&title, "title", "", "page title")
	cmd.Flags().BoolVar(&noProf, "no-profile", false, "omit the profile header")
	cmd.Flags().IntVar(&maxRepo, "max", 0, "export at most this many repositories")

	return cmd
}
