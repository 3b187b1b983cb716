package cache

import (
	"encoding/json"
	"errors"
	"time"
)

// Entry is a single cached value with freshness metadata.
//
// An entry moves through three states as time passes:
//   - fresh: now <= FreshUntil, safe to use without revalidation
//   - stale: FreshUntil < now <= StaleUntil, usable but should trigger a
//     background refresh
//   - dead: now > StaleUntil, must be purged and treated as absent
//
// CreatedAt <= FreshUntil <= StaleUntil always holds for entries produced by
// NewEntry.
type Entry struct {
	// Key is the cache key.
	Key string `json:"key"`

	// Data is the cached value (JSON-serializable).
	Data json.RawMessage `json:"data"`

	// CreatedAt is the timestamp when the entry was written.
	CreatedAt time.Time `json:"created_at"`

	// FreshUntil is the timestamp after which the data is expired but still
	// usable.
	FreshUntil time.Time `json:"fresh_until"`

	// StaleUntil is the timestamp after which the entry is purged entirely.
	StaleUntil time.Time `json:"stale_until"`

	// Hits counts reads of this entry. Used for eviction ranking.
	Hits int `json:"hits"`
}

// NewEntry creates an entry whose fresh window is freshFor and whose total
// lifetime is staleFor, both measured from now. A staleFor shorter than
// freshFor is raised to freshFor to preserve the ordering invariant.
func NewEntry(key string, data json.RawMessage, now time.Time, freshFor, staleFor time.Duration) *Entry {
	if staleFor < freshFor {
		staleFor = freshFor
	}
	return &Entry{
		Key:        key,
		Data:       data,
		CreatedAt:  now,
		FreshUntil: now.Add(freshFor),
		StaleUntil: now.Add(staleFor),
	}
}

// IsFresh reports whether the entry is within its fresh window at now.
func (e *Entry) IsFresh(now time.Time) bool {
	return !now.After(e.FreshUntil)
}

// IsStale reports whether the entry is past its fresh window but still
// within its grace window at now.
func (e *Entry) IsStale(now time.Time) bool {
	return now.After(e.FreshUntil) && !now.After(e.StaleUntil)
}

// IsDead reports whether the entry is past its grace window at now.
func (e *Entry) IsDead(now time.Time) bool {
	return now.After(e.StaleUntil)
}

// Age returns the duration since the entry was written.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

// sizeBytes estimates the in-memory footprint of the entry for Stats.
func (e *Entry) sizeBytes() int {
	return len(e.Key) + len(e.Data) + entryOverheadBytes
}

// entryOverheadBytes approximates the fixed per-entry bookkeeping cost.
const entryOverheadBytes = 96

// MarshalJSON implements json.Marshaler. Times are formatted as RFC3339 for
// readability in persisted files.
func (e *Entry) MarshalJSON() ([]byte, error) {
	type Alias Entry
	return json.Marshal(&struct {
		*Alias

		CreatedAt  string `json:"created_at"`
		FreshUntil string `json:"fresh_until"`
		StaleUntil string `json:"stale_until"`
	}{
		Alias:      (*Alias)(e),
		CreatedAt:  e.CreatedAt.Format(time.RFC3339Nano),
		FreshUntil: e.FreshUntil.Format(time.RFC3339Nano),
		StaleUntil: e.StaleUntil.Format(time.RFC3339Nano),
	})
}

// UnmarshalJSON implements json.Unmarshaler, parsing RFC3339 timestamps.
func (e *Entry) UnmarshalJSON(data []byte) error {
	if e == nil {
		return errors.New("cannot unmarshal into nil Entry")
	}
	type Alias Entry
	aux := &struct {
		*Alias

		CreatedAt  string `json:"created_at"`
		FreshUntil string `json:"fresh_until"`
		StaleUntil string `json:"stale_until"`
	}{
		Alias: (*Alias)(e),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, aux.CreatedAt); err != nil {
		return err
	}
	if e.FreshUntil, err = time.Parse(time.RFC3339Nano, aux.FreshUntil); err != nil {
		return err
	}
	if e.StaleUntil, err = time.Parse(time.RFC3339Nano, aux.StaleUntil); err != nil {
		return err
	}
	return nil
}
