// Package config loads gitfolio configuration. Precedence, lowest to
// highest: compiled defaults, the YAML config file, GITFOLIO_* environment
// variables, CLI flags (applied by the caller).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized by gitfolio.
const (
	EnvUsername     = "GITFOLIO_USERNAME"
	EnvConfigFile   = "GITFOLIO_CONFIG"
	EnvLogLevel     = "GITFOLIO_LOG_LEVEL"
	EnvCacheEnabled = "GITFOLIO_CACHE_ENABLED"
	EnvCacheDir     = "GITFOLIO_CACHE_DIR"
	EnvCacheFresh   = "GITFOLIO_CACHE_FRESH_TTL"
	EnvCacheStale   = "GITFOLIO_CACHE_STALE_TTL"
)

// Defaults.
const (
	DefaultPageSize      = 6
	DefaultCacheCapacity = 100
	DefaultFreshTTL      = 5 * time.Minute
	DefaultStaleTTL      = 24 * time.Hour

	configFileName = "config.yaml"
	storeDirName   = "store"
)

// Config is the resolved gitfolio configuration.
type Config struct {
	// Username is the GitHub account to present.
	Username string `yaml:"username"`

	// PageSize is the number of cards revealed per page.
	PageSize int `yaml:"page_size"`

	// Locale selects collation for name sorting (BCP 47 tag).
	Locale string `yaml:"locale"`

	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// CacheConfig configures the repository cache.
type CacheConfig struct {
	// Enabled turns persistent caching on or off.
	Enabled bool `yaml:"enabled"`

	// Dir is the store directory. Empty means <config dir>/store.
	Dir string `yaml:"dir"`

	// Capacity is the entry ceiling before least-hits eviction.
	Capacity int `yaml:"capacity"`

	// FreshTTL and StaleTTL accept either integer seconds ("300") or a
	// duration string ("5m").
	FreshTTL string `yaml:"fresh_ttl"`
	StaleTTL string `yaml:"stale_ttl"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	// Level is the minimum log level.
	Level string `yaml:"level"`

	// Format is "console" or "json".
	Format string `yaml:"format"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		PageSize: DefaultPageSize,
		Locale:   "en",
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: DefaultCacheCapacity,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load resolves configuration from the given file (or the default location
// when path is empty), then applies environment overrides. A missing config
// file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path == "" {
		path = filepath.Join(Dir(), configFileName)
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults + env only.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Cache.Capacity <= 0 {
		cfg.Cache.Capacity = DefaultCacheCapacity
	}

	return cfg, nil
}

// applyEnv overlays GITFOLIO_* environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvUsername); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv(EnvCacheEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Cache.Enabled = enabled
		}
	}
	if v := os.Getenv(EnvCacheFresh); v != "" {
		cfg.Cache.FreshTTL = v
	}
	if v := os.Getenv(EnvCacheStale); v != "" {
		cfg.Cache.StaleTTL = v
	}
}

// Dir returns the gitfolio config directory (~/.gitfolio). Falls back to
// the working directory when the home directory cannot be determined.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gitfolio"
	}
	return filepath.Join(home, ".gitfolio")
}

// StoreDir returns the persistent store directory for cfg.
func (c *Config) StoreDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return filepath.Join(Dir(), storeDirName)
}

// FreshWindow parses the configured fresh TTL, falling back to the default
// on empty or invalid values.
func (c *Config) FreshWindow() time.Duration {
	return parseWindow(c.Cache.FreshTTL, DefaultFreshTTL)
}

// StaleWindow parses the configured stale TTL, falling back to the default
// on empty or invalid values.
func (c *Config) StaleWindow() time.Duration {
	return parseWindow(c.Cache.StaleTTL, DefaultStaleTTL)
}

// parseWindow accepts integer seconds ("300") or a duration string ("5m").
func parseWindow(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	if seconds, err := strconv.Atoi(s); err == nil {
		if seconds < 0 {
			return fallback
		}
		return time.Duration(seconds) * time.Second
	}
	if d, err := time.ParseDuration(s); err == nil && d >= 0 {
		return d
	}
	return fallback
}
