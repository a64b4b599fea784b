// Package cache stores serialized calculator responses keyed by their
// canonical input, so repeated submissions of the same form are served
// without recomputation.
package cache

import (
	"context"
	"sync"
	"time"
)

// defaultMaxEntries bounds a MemoryCache between sweeps.
const defaultMaxEntries = 10000

// Cache is a string key/value store with a fixed entry lifetime.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
}

// MemoryCache is an in-process Cache used when no Redis address is configured.
// Expired entries are swept at most once per ttl, from Set. When the cache
// is full after a sweep, an arbitrary entry is evicted.
type MemoryCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]memoryEntry
	lastSweep  time.Time
	now        func() time.Time
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryCache creates a MemoryCache. A ttl of zero keeps entries until
// the size limit forces them out.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:        ttl,
		maxEntries: defaultMaxEntries,
		entries:    make(map[string]memoryEntry),
		now:        time.Now,
	}
}

// Get returns the value for key if present and not expired.
func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return "", false
	}
	if e.expired(m.now()) {
		delete(m.entries, key)
		return "", false
	}
	return e.value, true
}

// Set stores value under key.
func (m *MemoryCache) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.ttl > 0 && now.Sub(m.lastSweep) >= m.ttl {
		m.sweep(now)
	}

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.sweep(now)
		for k := range m.entries {
			if len(m.entries) < m.maxEntries {
				break
			}
			delete(m.entries, k)
		}
	}

	e := memoryEntry{value: value}
	if m.ttl > 0 {
		e.expiresAt = now.Add(m.ttl)
	}
	m.entries[key] = e
	return nil
}

// Len reports how many entries are held, expired or not.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// sweep removes expired entries. Caller holds mu.
func (m *MemoryCache) sweep(now time.Time) {
	for k, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, k)
		}
	}
	m.lastSweep = now
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}
