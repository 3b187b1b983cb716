// Package github is a read-only client for the public GitHub REST API.
//
// Every endpoint follows the same cache-through pattern: a fresh or stale
// cache hit is returned immediately (a stale hit additionally triggers a
// deduplicated background revalidation), and a miss goes to the network with
// bounded retries and exponential backoff before being written through to
// the cache. All requests are unauthenticated and subject to the public
// rate limit. The client never mutates anything upstream.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gitfolio/gitfolio/internal/cache"
	"github.com/gitfolio/gitfolio/internal/logging"
)

// Client defaults.
const (
	DefaultBaseURL    = "https://api.github.com"
	DefaultMaxRetries = 3
	DefaultRetryDelay = 500 * time.Millisecond
	DefaultTimeout    = 10 * time.Second

	userAgent    = "gitfolio"
	reposPerPage = 100

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 8 << 20
)

// Per-endpoint fresh windows. The stale window is always the cache default.
const (
	reposFreshWindow    = 5 * time.Minute
	featuredFreshWindow = 5 * time.Minute
	repoFreshWindow     = 5 * time.Minute
	searchFreshWindow   = 2 * time.Minute
	profileFreshWindow  = 30 * time.Minute
	releaseFreshWindow  = 6 * time.Hour
)

// ErrNoUsername is returned by the user-scoped endpoints when the client
// was built without a username. Repository-scoped endpoints such as
// LatestRelease and RateLimit do not need one.
var ErrNoUsername = errors.New("github username is required")

// Config controls client construction. Zero values fall back to the
// package defaults.
type Config struct {
	// Username is the GitHub account whose repositories are fetched.
	Username string

	// BaseURL overrides the API root, mainly for tests.
	BaseURL string

	// HTTPClient overrides the transport.
	HTTPClient *http.Client

	// MaxRetries is the total number of attempts per request.
	MaxRetries int

	// RetryDelay is the base backoff delay; attempt n waits
	// RetryDelay * 2^n before retrying.
	RetryDelay time.Duration

	// Timeout aborts a single attempt that takes too long.
	Timeout time.Duration
}

// Client fetches repository data for a single GitHub user. A nil cache
// manager disables caching; every call then goes to the network.
type Client struct {
	username   string
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration

	cache *cache.Manager

	// refreshGroup collapses concurrent background revalidations per key.
	refreshGroup singleflight.Group
}

// NewClient creates a client backed by cacheManager. The username may be
// empty; only the user-scoped endpoints require one.
func NewClient(cacheManager *cache.Manager, cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		username:   cfg.Username,
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		timeout:    cfg.Timeout,
		cache:      cacheManager,
	}, nil
}

// Username returns the account the client fetches for.
func (c *Client) Username() string {
	return c.username
}

// requireUsername guards the user-scoped endpoints.
func (c *Client) requireUsername() error {
	if c.username == "" {
		return ErrNoUsername
	}
	return nil
}

// FetchRepos returns the user's public repositories, most recently updated
// first as returned by the API.
func (c *Client) FetchRepos(ctx context.Context) ([]Repository, error) {
	if err := c.requireUsername(); err != nil {
		return nil, fmt.Errorf("failed to fetch repositories: %w", err)
	}
	repos, err := cachedFetch(ctx, c, "repos:"+c.username, reposFreshWindow, "repository list",
		func(ctx context.Context) ([]Repository, error) {
			var repos []Repository
			query := url.Values{"per_page": {strconv.Itoa(reposPerPage)}}
			if err := c.doJSON(ctx, "/users/"+c.username+"/repos", query, &repos, "repository list"); err != nil {
				return nil, err
			}
			return repos, nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repositories: %w", err)
	}
	return repos, nil
}

// FetchFeaturedRepos returns the featured subset: the five most recently
// updated repositories that carry a description, with star count as the
// tie-break. Cached under its own key so the carousel does not pay for a
// full list decode.
func (c *Client) FetchFeaturedRepos(ctx context.Context) ([]Repository, error) {
	if err := c.requireUsername(); err != nil {
		return nil, fmt.Errorf("failed to fetch featured repositories: %w", err)
	}
	featured, err := cachedFetch(ctx, c, "featured:"+c.username, featuredFreshWindow, "featured repository list",
		func(ctx context.Context) ([]Repository, error) {
			repos, err := c.FetchRepos(ctx)
			if err != nil {
				return nil, err
			}
			return Featured(repos, FeaturedSize), nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch featured repositories: %w", err)
	}
	return featured, nil
}

// FetchRepo returns a single repository by name.
func (c *Client) FetchRepo(ctx context.Context, name string) (Repository, error) {
	if err := c.requireUsername(); err != nil {
		return Repository{}, fmt.Errorf("failed to fetch repository %s: %w", name, err)
	}
	repo, err := cachedFetch(ctx, c, "repo:"+c.username+"/"+name, repoFreshWindow, "repository",
		func(ctx context.Context) (Repository, error) {
			var repo Repository
			if err := c.doJSON(ctx, "/repos/"+c.username+"/"+name, nil, &repo, "repository"); err != nil {
				return Repository{}, err
			}
			return repo, nil
		})
	if err != nil {
		return Repository{}, fmt.Errorf("failed to fetch repository %s: %w", name, err)
	}
	return repo, nil
}

// SearchRepos searches the user's repositories by free-text query,
// optionally restricted to an exact language match. Search results use a
// shorter fresh window than the listing endpoints.
func (c *Client) SearchRepos(ctx context.Context, query, language string) ([]Repository, error) {
	if err := c.requireUsername(); err != nil {
		return nil, fmt.Errorf("failed to search repositories: %w", err)
	}
	q := query + " user:" + c.username
	if language != "" {
		q += " language:" + language
	}

	repos, err := cachedFetch(ctx, c, "search:"+c.username+":"+q, searchFreshWindow, "search result",
		func(ctx context.Context) ([]Repository, error) {
			var result searchResult
			values := url.Values{"q": {q}, "per_page": {strconv.Itoa(reposPerPage)}}
			if err := c.doJSON(ctx, "/search/repositories", values, &result, "search result"); err != nil {
				return nil, err
			}
			return result.Items, nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to search repositories: %w", err)
	}
	return repos, nil
}

// GetUserProfile returns the user's profile. Profiles change rarely, so
// they get a longer fresh window.
func (c *Client) GetUserProfile(ctx context.Context) (Profile, error) {
	if err := c.requireUsername(); err != nil {
		return Profile{}, fmt.Errorf("failed to fetch user profile: %w", err)
	}
	profile, err := cachedFetch(ctx, c, "profile:"+c.username, profileFreshWindow, "user profile",
		func(ctx context.Context) (Profile, error) {
			var profile Profile
			if err := c.doJSON(ctx, "/users/"+c.username, nil, &profile, "user profile"); err != nil {
				return Profile{}, err
			}
			return profile, nil
		})
	if err != nil {
		return Profile{}, fmt.Errorf("failed to fetch user profile: %w", err)
	}
	return profile, nil
}

// RateLimit reports the current public rate-limit state. Never cached: the
// answer is only useful live.
func (c *Client) RateLimit(ctx context.Context) (RateLimits, error) {
	var limits RateLimits
	if err := c.doJSON(ctx, "/rate_limit", nil, &limits, "rate limit"); err != nil {
		return RateLimits{}, fmt.Errorf("failed to fetch rate limit: %w", err)
	}
	return limits, nil
}

// LatestRelease returns the latest published release of owner/repo. Used by
// the update check.
func (c *Client) LatestRelease(ctx context.Context, owner, repo string) (Release, error) {
	release, err := cachedFetch(ctx, c, "release:"+owner+"/"+repo, releaseFreshWindow, "release",
		func(ctx context.Context) (Release, error) {
			var release Release
			if err := c.doJSON(ctx, "/repos/"+owner+"/"+repo+"/releases/latest", nil, &release, "release"); err != nil {
				return Release{}, err
			}
			return release, nil
		})
	if err != nil {
		return Release{}, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	return release, nil
}

// cachedFetch implements the cache-through read path shared by all
// endpoints. A fresh or stale hit is returned immediately; a stale hit also
// spawns a background revalidation, deduplicated per key so overlapping
// stale reads cause at most one network fetch. A miss calls fetch and writes
// the result through.
func cachedFetch[T any](
	ctx context.Context,
	c *Client,
	key string,
	fresh time.Duration,
	subject string,
	fetch func(context.Context) (T, error),
) (T, error) {
	var zero T

	if c.cache != nil {
		if res := c.cache.Get(ctx, key); res != nil {
			var cached T
			if err := json.Unmarshal(res.Data, &cached); err != nil {
				// A cached payload we can no longer decode is a miss.
				logging.FromContext(ctx).Warn().
					Str("component", "github").
					Str("key", key).
					Err(&ValidationError{Subject: "cached " + subject, Err: err}).
					Msg("discarding undecodable cache entry")
				c.cache.Delete(ctx, key)
			} else {
				if res.IsStale {
					c.revalidate(ctx, key, fresh, subject, func(ctx context.Context) (any, error) {
						return fetch(ctx)
					})
				}
				return cached, nil
			}
		}
	}

	val, err := fetch(ctx)
	if err != nil {
		return zero, err
	}
	c.writeThrough(ctx, key, fresh, subject, val)
	return val, nil
}

// revalidate refreshes key in the background. The fetch runs on a context
// detached from the caller's cancellation so a finished command does not
// abort the refresh mid-flight.
func (c *Client) revalidate(ctx context.Context, key string, fresh time.Duration, subject string, fetch func(context.Context) (any, error)) {
	bgCtx := context.WithoutCancel(ctx)
	go func() {
		_, err, _ := c.refreshGroup.Do(key, func() (any, error) {
			val, err := fetch(bgCtx)
			if err != nil {
				return nil, err
			}
			c.writeThrough(bgCtx, key, fresh, subject, val)
			return val, nil
		})
		if err != nil {
			// Stale data keeps serving until its grace window ends.
			logging.FromContext(bgCtx).Debug().
				Str("component", "github").
				Str("key", key).
				Err(err).
				Msg("background revalidation failed")
		}
	}()
}

// writeThrough stores val in the cache. Serialization failures are logged
// and swallowed: caching is an optimization, not a contract.
func (c *Client) writeThrough(ctx context.Context, key string, fresh time.Duration, subject string, val any) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "github").
			Str("key", key).
			Err(&ValidationError{Subject: subject, Err: err}).
			Msg("failed to serialize response for caching")
		return
	}
	c.cache.Set(ctx, key, data, fresh)
}

// doJSON issues a GET against path and decodes the JSON response into out.
// Failed attempts (transport errors, timeouts, and non-2xx statuses) are
// retried up to the configured attempt budget with exponential backoff.
func (c *Client) doJSON(ctx context.Context, path string, query url.Values, out any, subject string) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	log := logging.FromContext(ctx)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			// Backoff: retryDelay * 2^n after the nth failed attempt.
			delay := c.retryDelay << (attempt - 1)
			log.Debug().
				Str("component", "github").
				Str("url", requestURL).
				Int("attempt", attempt).
				Dur("delay", delay).
				Err(lastErr).
				Msg("retrying request")

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return &RequestError{URL: requestURL, Err: ctx.Err()}
			case <-timer.C:
			}
		}

		if err := c.attempt(ctx, requestURL, out, subject); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return lastErr
}

// attempt performs a single HTTP GET with the per-request timeout applied.
func (c *Client) attempt(ctx context.Context, requestURL string, out any, subject string) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, requestURL, nil)
	if err != nil {
		return &RequestError{URL: requestURL, Err: err}
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{URL: requestURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &RequestError{URL: requestURL, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{
			URL:        requestURL,
			StatusCode: resp.StatusCode,
			Message:    apiErrorMessage(body),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &ValidationError{Subject: subject, Err: err}
	}
	return nil
}

// apiErrorMessage extracts the "message" field GitHub includes in error
// responses. Returns an empty string when the body is not that shape.
func apiErrorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
