package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry_Invariant(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		freshFor time.Duration
		staleFor time.Duration
	}{
		{name: "stale window longer than fresh", freshFor: 5 * time.Minute, staleFor: 24 * time.Hour},
		{name: "equal windows", freshFor: time.Minute, staleFor: time.Minute},
		{name: "stale shorter than fresh is raised", freshFor: time.Hour, staleFor: time.Minute},
		{name: "zero fresh window", freshFor: 0, staleFor: time.Hour},
		{name: "both zero", freshFor: 0, staleFor: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := NewEntry("k", json.RawMessage(`1`), now, tt.freshFor, tt.staleFor)

			assert.False(t, e.FreshUntil.Before(e.CreatedAt), "CreatedAt <= FreshUntil")
			assert.False(t, e.StaleUntil.Before(e.FreshUntil), "FreshUntil <= StaleUntil")
		})
	}
}

func TestEntry_States(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := NewEntry("k", json.RawMessage(`1`), now, time.Minute, time.Hour)

	tests := []struct {
		name      string
		at        time.Time
		wantFresh bool
		wantStale bool
		wantDead  bool
	}{
		{name: "at creation", at: now, wantFresh: true},
		{name: "at fresh boundary", at: now.Add(time.Minute), wantFresh: true},
		{name: "just past fresh boundary", at: now.Add(time.Minute + time.Nanosecond), wantStale: true},
		{name: "within grace window", at: now.Add(30 * time.Minute), wantStale: true},
		{name: "at stale boundary", at: now.Add(time.Hour), wantStale: true},
		{name: "past stale boundary", at: now.Add(time.Hour + time.Nanosecond), wantDead: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantFresh, e.IsFresh(tt.at), "IsFresh")
			assert.Equal(t, tt.wantStale, e.IsStale(tt.at), "IsStale")
			assert.Equal(t, tt.wantDead, e.IsDead(tt.at), "IsDead")
		})
	}
}

func TestEntry_Age(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := NewEntry("k", nil, now, time.Minute, time.Hour)

	assert.Equal(t, 90*time.Second, e.Age(now.Add(90*time.Second)))
}

func TestEntry_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	original := NewEntry("repos:octocat", json.RawMessage(`{"stars":42}`), now, 5*time.Minute, 24*time.Hour)
	original.Hits = 7

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored Entry
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, original.Key, restored.Key)
	assert.Equal(t, original.Hits, restored.Hits)
	assert.True(t, original.CreatedAt.Equal(restored.CreatedAt))
	assert.True(t, original.FreshUntil.Equal(restored.FreshUntil))
	assert.True(t, original.StaleUntil.Equal(restored.StaleUntil))
	assert.JSONEq(t, `{"stars":42}`, string(restored.Data))
}

func TestEntry_UnmarshalRejectsBadTimestamps(t *testing.T) {
	t.Parallel()

	var e Entry
	err := json.Unmarshal([]byte(`{"key":"k","created_at":"not-a-time","fresh_until":"x","stale_until":"y"}`), &e)
	require.Error(t, err)
}
