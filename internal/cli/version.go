package cli

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/gitfolio/gitfolio/internal/github"
)

// releaseRepo is where gitfolio releases are published.
const (
	releaseOwner = "gitfolio"
	releaseRepo  = "gitfolio"
)

func newVersionCmd(app *App, version string) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the gitfolio version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "gitfolio %s\n", version)
			if !check {
				return nil
			}

			// The release lookup names its repository explicitly, so no
			// configured username is needed here.
			client, err := github.NewClient(app.Cache, github.Config{})
			if err != nil {
				return err
			}
			release, err := client.LatestRelease(cmd.Context(), releaseOwner, releaseRepo)
			if err != nil {
				return fmt.Errorf("failed to check for updates: %w", err)
			}

			current, err := semver.NewVersion(version)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Latest release: %s\n", release.TagName)
				return nil
			}
			latest, err := semver.NewVersion(release.TagName)
			if err != nil {
				return fmt.Errorf("failed to parse release tag %q: %w", release.TagName, err)
			}

			if latest.GreaterThan(current) {
				fmt.Fprintf(cmd.OutOrStdout(), "Update available: %s -> %s (%s)\n",
					current, latest, release.HTMLURL)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "gitfolio is up to date.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "check for a newer release")

	return cmd
}
