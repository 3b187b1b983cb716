package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errCacheDisabled = errors.New("cache is disabled (--no-cache or cache.enabled: false)")

func newCacheCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the local repository cache",
	}

	cmd.AddCommand(
		newCacheStatsCmd(app),
		newCacheClearCmd(app),
		newCacheCleanupCmd(app),
	)

	return cmd
}

func newCacheStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts and memory usage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.Cache == nil {
				return errCacheDisabled
			}
			stats := app.Cache.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entries:   %d (%d fresh, %d stale, %d expired)\n",
				stats.TotalEntries, stats.Valid, stats.Stale, stats.Expired)
			fmt.Fprintf(out, "Hits:      %d\n", stats.TotalHits)
			fmt.Fprintf(out, "Memory:    %s\n", formatBytes(stats.MemoryUsageBytes))
			fmt.Fprintf(out, "Directory: %s\n", app.Config.StoreDir())
			return nil
		},
	}
}

func newCacheClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.Cache == nil {
				return errCacheDisabled
			}
			removed := app.Cache.Clear(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached entries.\n", removed)
			return nil
		},
	}
}

func newCacheCleanupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Drop entries past their stale window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.Cache == nil {
				return errCacheDisabled
			}
			removed := app.Cache.CleanupExpired(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries.\n", removed)
			return nil
		},
	}
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
