// Package cli wires the gitfolio command tree. It is the only place that
// constructs the store, cache, GitHub client, and presenter; everything
// below it receives its collaborators explicitly.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gitfolio/gitfolio/internal/cache"
	"github.com/gitfolio/gitfolio/internal/config"
	"github.com/gitfolio/gitfolio/internal/github"
	"github.com/gitfolio/gitfolio/internal/logging"
	"github.com/gitfolio/gitfolio/internal/present"
	"github.com/gitfolio/gitfolio/internal/store"
)

// maxRenderWidth caps card width on very wide terminals.
const maxRenderWidth = 100

// App holds the wired collaborators shared by all commands. It is built
// once per invocation in the root command's PersistentPreRunE.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  *store.FileStore
	Cache  *cache.Manager
	Prefs  config.Preferences
	Theme  present.Theme

	client *github.Client
}

// NewRootCmd creates the root gitfolio command.
func NewRootCmd(version string) *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "gitfolio",
		Short: "Render a GitHub portfolio in your terminal",
		Long: "gitfolio fetches a user's public GitHub repositories, caches them locally\n" +
			"with stale-while-revalidate semantics, and renders them as cards: styled\n" +
			"terminal output, an interactive featured carousel, or a static HTML page.",
		Version:       version,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "path to config file")
	cmd.PersistentFlags().StringP("username", "u", "", "GitHub username (overrides config)")
	cmd.PersistentFlags().Bool("no-cache", false, "bypass the repository cache")
	cmd.PersistentFlags().String("cache-ttl", "", "cache freshness window, seconds or duration (e.g. 300, 5m)")

	cmd.AddCommand(
		newReposCmd(app),
		newFeaturedCmd(app),
		newRepoCmd(app),
		newSearchCmd(app),
		newProfileCmd(app),
		newExportCmd(app),
		newCacheCmd(app),
		newThemeCmd(app),
		newVersionCmd(app, version),
	)

	return cmd
}

const rootCmdExample = `  # Render your repositories as cards
  gitfolio repos --username octocat

  # Filter, facet, and sort the card list
  gitfolio repos --filter cli --language Go --sort stars

  # Browse the featured carousel interactively
  gitfolio featured --interactive

  # Export a static portfolio page
  gitfolio export --output portfolio.html

  # Inspect or clear the local cache
  gitfolio cache stats
  gitfolio cache clear`

// setup resolves config, builds the logger, and constructs the store and
// cache. Network clients are built lazily because several commands never
// touch the API.
func (a *App) setup(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if username, _ := cmd.Flags().GetString("username"); username != "" {
		cfg.Username = username
	}
	if ttl, _ := cmd.Flags().GetString("cache-ttl"); ttl != "" {
		cfg.Cache.FreshTTL = ttl
	}

	logCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Out:    cmd.ErrOrStderr(),
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logCfg.Level = "debug"
	}

	// Reuse a trace ID already carried by the caller's context (set when
	// the CLI is embedded); otherwise mint one for this invocation.
	traceID := logging.GetOrGenerateTraceID(cmd.Context())
	logger := logging.New(logCfg).With().Str("trace_id", traceID).Logger()

	ctx := logger.WithContext(cmd.Context())
	ctx = logging.ContextWithTraceID(ctx, traceID)
	cmd.SetContext(ctx)

	a.Config = cfg
	a.Logger = logging.ComponentLogger(logger, "cli")

	// The store is best-effort: if it cannot be created, preferences and
	// the cache simply do not survive this run.
	st, storeErr := store.NewFileStore(cfg.StoreDir())
	if storeErr != nil {
		a.Logger.Warn().Err(storeErr).
			Str("dir", cfg.StoreDir()).
			Msg("persistent store unavailable, continuing without persistence")
	} else {
		a.Store = st
	}

	noCache, _ := cmd.Flags().GetBool("no-cache")
	if cfg.Cache.Enabled && !noCache {
		var cacheStore cache.Store
		if a.Store != nil {
			cacheStore = a.Store
		}
		a.Cache = cache.NewManager(ctx, cacheStore, cache.Config{
			Capacity:    cfg.Cache.Capacity,
			FreshWindow: cfg.FreshWindow(),
			StaleWindow: cfg.StaleWindow(),
		})
	}

	a.Prefs = config.DefaultPreferences()
	if a.Store != nil {
		a.Prefs = config.LoadPreferences(ctx, a.Store)
	}

	theme, themeErr := present.ThemeByName(a.Prefs.Theme)
	if themeErr != nil {
		a.Logger.Warn().Err(themeErr).Msg("falling back to auto theme")
		theme = present.AutoTheme()
	}
	a.Theme = theme

	a.Logger.Debug().Str("command", cmd.Name()).Msg("command started")
	return nil
}

// Client returns the GitHub client, constructing it on first use.
func (a *App) Client() (*github.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	if a.Config.Username == "" {
		return nil, fmt.Errorf(
			"no GitHub username configured: pass --username, set %s, or add username to the config file",
			config.EnvUsername)
	}
	c, err := github.NewClient(a.Cache, github.Config{Username: a.Config.Username})
	if err != nil {
		return nil, err
	}
	a.client = c
	return c, nil
}

// Presenter builds a presenter from the resolved config.
func (a *App) Presenter() *present.Presenter {
	return present.New(present.Config{
		PageSize: a.Config.PageSize,
		Locale:   a.Config.Locale,
	})
}

// Renderer builds a card renderer sized to the command's output terminal.
func (a *App) Renderer(cmd *cobra.Command) *present.Renderer {
	width := 0
	if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = w
			if width > maxRenderWidth {
				width = maxRenderWidth
			}
		}
	}
	return present.NewRenderer(a.Theme, width)
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
