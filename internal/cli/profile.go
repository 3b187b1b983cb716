package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProfileCmd(app *App) *cobra.Command {
	var showRate bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the user's GitHub profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, err := app.Client()
			if err != nil {
				return err
			}

			profile, err := client.GetUserProfile(ctx)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), app.Renderer(cmd).FetchFailedPanel())
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), app.Renderer(cmd).ProfileCard(profile))

			if showRate {
				limits, err := client.RateLimit(ctx)
				if err != nil {
					return fmt.Errorf("failed to fetch rate limits: %w", err)
				}
				core := limits.Resources.Core
				fmt.Fprintf(cmd.OutOrStdout(), "API rate limit: %d/%d remaining, resets %s\n",
					core.Remaining, core.Limit, core.ResetTime().Local().Format("15:04:05"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showRate, "rate", false, "also show the current API rate limit")

	return cmd
}
