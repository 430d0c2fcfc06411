package querycache

import (
	"context"
	"strings"
	"sync"
)

// Key identifies one cached server response. Build keys from the resource
// name plus its parameters, mirroring the query keys the pages use,
// e.g. NewKey("bid", bidID).
type Key string

// NewKey joins key parts with "/".
func NewKey(parts ...string) Key {
	return Key(strings.Join(parts, "/"))
}

// Cache is a concurrency-safe keyed store of server responses. Entries have
// no TTL: staleness is bounded only by explicit invalidation after a
// mutation, or by the process ending.
type Cache struct {
	mu            sync.RWMutex
	entries       map[Key]any
	invalidations map[Key]int
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries:       make(map[Key]any),
		invalidations: make(map[Key]int),
	}
}

// Get returns the cached value for key, if present.
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[key]
	return v, ok
}

// Put stores a value under key, replacing any previous entry.
func (c *Cache) Put(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Invalidate discards the entries for the given keys so the next read
// re-fetches from the server. Missing keys still count as invalidated;
// the counter tracks the discipline, not the hit.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
		c.invalidations[key]++
	}
}

// Invalidations returns how many times key has been invalidated.
func (c *Cache) Invalidations(key Key) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.invalidations[key]
}

// Clear drops every entry. Called on logout so no per-account data survives
// the session.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]any)
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Fetch returns the cached value for key, fetching and storing it on a miss.
// Concurrent fetches of the same cold key may each call fetch; the last
// write wins, which matches the server-owned-truth model.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	var zero T
	value, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	c.Put(key, value)
	return value, nil
}
