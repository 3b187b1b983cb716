package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gitfolio/gitfolio/internal/logging"
)

// Defaults for manager construction.
const (
	// DefaultCapacity is the maximum number of entries kept before eviction.
	DefaultCapacity = 100

	// DefaultFreshWindow is the default freshness window for new entries.
	DefaultFreshWindow = 5 * time.Minute

	// DefaultStaleWindow is the grace window after which entries are purged.
	DefaultStaleWindow = 24 * time.Hour

	// DefaultStoreKey is the store key holding the serialized cache map.
	DefaultStoreKey = "github_cache"
)

// Store is the persistence interface the manager writes through. It is
// satisfied by store.FileStore. All methods are best-effort.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, bool)
	Write(ctx context.Context, key string, value []byte) bool
	Remove(ctx context.Context, key string)
}

// Result is the outcome of a cache read.
type Result struct {
	// Data is the cached payload.
	Data json.RawMessage

	// IsExpired is true when the entry is past its fresh window.
	IsExpired bool

	// IsStale is true when the entry is past its fresh window but still
	// within its grace window. Callers should serve the data and trigger a
	// background refresh.
	IsStale bool
}

// Stats summarizes the cache contents.
type Stats struct {
	TotalEntries     int `json:"total_entries"`
	Expired          int `json:"expired"`
	Stale            int `json:"stale"`
	Valid            int `json:"valid"`
	TotalHits        int `json:"total_hits"`
	MemoryUsageBytes int `json:"memory_usage_bytes"`
}

// Config controls manager construction. Zero values fall back to the
// package defaults.
type Config struct {
	Capacity    int
	FreshWindow time.Duration
	StaleWindow time.Duration
	StoreKey    string
}

// Manager is a capacity-bounded expiring cache with stale-while-revalidate
// read semantics. The full entry map is persisted through the backing store
// after every mutation, so cached data survives process restarts.
//
// Eviction removes the entry with the fewest accumulated hits; ties are
// broken by insertion order (oldest first). Thread-safe.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*Entry

	// order records insertion order for deterministic eviction tie-breaks.
	order []string

	store    Store
	storeKey string

	capacity    int
	freshWindow time.Duration
	staleWindow time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewManager creates a manager backed by st. A nil st disables persistence;
// the cache then lives only for the process lifetime. Previously persisted
// entries are loaded eagerly; a corrupt persisted blob is discarded.
func NewManager(ctx context.Context, st Store, cfg Config) *Manager {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.FreshWindow <= 0 {
		cfg.FreshWindow = DefaultFreshWindow
	}
	if cfg.StaleWindow <= 0 {
		cfg.StaleWindow = DefaultStaleWindow
	}
	if cfg.StoreKey == "" {
		cfg.StoreKey = DefaultStoreKey
	}

	m := &Manager{
		entries:     make(map[string]*Entry),
		store:       st,
		storeKey:    cfg.StoreKey,
		capacity:    cfg.Capacity,
		freshWindow: cfg.FreshWindow,
		staleWindow: cfg.StaleWindow,
		now:         time.Now,
	}
	m.load(ctx)
	return m
}

// Get returns the entry stored under key, or nil when the key is absent or
// dead. A dead entry is purged as a side effect. The returned flags tell the
// caller whether the data is past its fresh window, so the caller decides
// whether to trigger a background refresh.
func (m *Manager) Get(ctx context.Context, key string) *Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil
	}

	now := m.now()
	if entry.IsDead(now) {
		m.removeLocked(key)
		m.persistLocked(ctx)
		return nil
	}

	entry.Hits++
	m.persistLocked(ctx)

	expired := !entry.IsFresh(now)
	return &Result{
		Data:      entry.Data,
		IsExpired: expired,
		IsStale:   entry.IsStale(now),
	}
}

// Set stores data under key. An optional freshWindow overrides the
// manager's default fresh window for this entry; the stale window is always
// the manager default. When the cache is at capacity the least-hit entry is
// evicted first.
//
// The returned bool reports whether the mutation was persisted. A
// persistence failure does not roll back the in-memory write: the cache
// stays usable for the current process even if it cannot survive a restart.
func (m *Manager) Set(ctx context.Context, key string, data json.RawMessage, freshWindow ...time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	fresh := m.freshWindow
	if len(freshWindow) > 0 && freshWindow[0] >= 0 {
		fresh = freshWindow[0]
	}

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.capacity {
		m.evictLocked(ctx)
	}

	if _, exists := m.entries[key]; !exists {
		m.order = append(m.order, key)
	}
	m.entries[key] = NewEntry(key, data, m.now(), fresh, m.staleWindow)

	return m.persistLocked(ctx)
}

// Delete removes the entry stored under key. Returns true when an entry was
// removed.
func (m *Manager) Delete(ctx context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; !ok {
		return false
	}
	m.removeLocked(key)
	m.persistLocked(ctx)
	return true
}

// Clear removes every entry and returns the number removed.
func (m *Manager) Clear(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := len(m.entries)
	m.entries = make(map[string]*Entry)
	m.order = nil
	m.persistLocked(ctx)
	return count
}

// CleanupExpired purges all dead entries and returns the number purged.
func (m *Manager) CleanupExpired(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.purgeDeadLocked(ctx)
}

// Compress purges all entries past their grace window, reclaiming space.
func (m *Manager) Compress(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.purgeDeadLocked(ctx)
}

// Stats reports the current cache contents.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var s Stats
	s.TotalEntries = len(m.entries)
	for _, entry := range m.entries {
		s.TotalHits += entry.Hits
		s.MemoryUsageBytes += entry.sizeBytes()
		switch {
		case entry.IsFresh(now):
			s.Valid++
		case entry.IsStale(now):
			s.Expired++
			s.Stale++
		default:
			s.Expired++
		}
	}
	return s
}

// Len returns the number of entries currently held.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// purgeDeadLocked removes dead entries. Caller must hold mu.
func (m *Manager) purgeDeadLocked(ctx context.Context) int {
	now := m.now()
	var removed int
	for _, key := range append([]string(nil), m.order...) {
		if entry, ok := m.entries[key]; ok && entry.IsDead(now) {
			m.removeLocked(key)
			removed++
		}
	}
	if removed > 0 {
		m.persistLocked(ctx)
	}
	return removed
}

// evictLocked removes the entry with the fewest hits, breaking ties by
// insertion order. Caller must hold mu.
func (m *Manager) evictLocked(ctx context.Context) {
	victim := ""
	minHits := -1
	for _, key := range m.order {
		entry, ok := m.entries[key]
		if !ok {
			continue
		}
		if minHits < 0 || entry.Hits < minHits {
			victim = key
			minHits = entry.Hits
		}
	}
	if victim == "" {
		return
	}

	logging.FromContext(ctx).Debug().
		Str("component", "cache").
		Str("key", victim).
		Int("hits", minHits).
		Msg("evicting least-hit cache entry")
	m.removeLocked(victim)
}

// removeLocked deletes key from the map and the insertion-order list.
// Caller must hold mu.
func (m *Manager) removeLocked(key string) {
	delete(m.entries, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// persistLocked serializes the full entry map through the store. Caller
// must hold mu. Failures degrade to an in-memory-only cache.
func (m *Manager) persistLocked(ctx context.Context) bool {
	if m.store == nil {
		return false
	}

	snapshot := persistedCache{
		Order:   m.order,
		Entries: m.entries,
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "cache").
			Err(err).
			Msg("failed to serialize cache for persistence")
		return false
	}
	return m.store.Write(ctx, m.storeKey, data)
}

// load restores previously persisted entries, dropping any that are already
// dead. A corrupt blob resets the cache to empty.
func (m *Manager) load(ctx context.Context) {
	if m.store == nil {
		return
	}

	data, ok := m.store.Read(ctx, m.storeKey)
	if !ok {
		return
	}

	var snapshot persistedCache
	if err := json.Unmarshal(data, &snapshot); err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "cache").
			Err(err).
			Msg("discarding corrupt persisted cache")
		m.store.Remove(ctx, m.storeKey)
		return
	}

	now := m.now()
	for _, key := range snapshot.Order {
		entry, ok := snapshot.Entries[key]
		if !ok || entry == nil || entry.IsDead(now) {
			continue
		}
		m.entries[key] = entry
		m.order = append(m.order, key)
	}
}

// persistedCache is the on-disk layout: the serialized cache map plus the
// insertion order needed to keep eviction tie-breaks deterministic across
// restarts.
type persistedCache struct {
	Order   []string          `json:"order"`
	Entries map[string]*Entry `json:"entries"`
}
