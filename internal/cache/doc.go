// Package cache provides a capacity-bounded expiring cache with
// stale-while-revalidate read semantics for GitHub API responses.
//
// Entries carry two horizons: a fresh window during which data is served
// as-is, and a longer grace window during which data is still served but
// flagged so the caller can refresh it in the background. Entries past the
// grace window are purged on access. Key features:
//   - Least-hits eviction at a configurable capacity ceiling (default 100)
//     with deterministic insertion-order tie-breaks
//   - Full-map persistence through a durable store after every mutation
//   - Storage failures degrade to an in-memory cache instead of erroring
//
// The cache is designed for CLI workflows where the same repository data is
// requested repeatedly within a short window and a slightly outdated answer
// beats a network round trip.
package cache
