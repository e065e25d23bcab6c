// Package cache provides a small TTL cache used for donor profiles.
//
// The cache is injected as a collaborator so it can be swapped for a
// distributed implementation without touching scoring logic. Correctness
// never depends on it: entries expire on TTL and are explicitly invalidated
// when the keyed donor records a new donation.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value   V
	expires time.Time
}

// TTL is a mutex-guarded map with per-entry expiry
type TTL[K comparable, V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[K]entry[V]
	clock   func() time.Time
}

// NewTTL creates a cache whose entries live for the given duration.
// A non-positive TTL disables caching entirely (every Get misses), which
// keeps call sites free of conditionals.
func NewTTL[K comparable, V any](ttl time.Duration) *TTL[K, V] {
	return &TTL[K, V]{
		ttl:     ttl,
		entries: make(map[K]entry[V]),
		clock:   time.Now,
	}
}

// Get returns the cached value and whether it was present and unexpired
func (c *TTL[K, V]) Get(key K) (V, bool) {
	var zero V
	if c.ttl <= 0 {
		return zero, false
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.clock().After(e.expires) {
		return zero, false
	}
	return e.value, true
}

// Set stores a value under the key with a fresh TTL
func (c *TTL[K, V]) Set(key K, value V) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expires: c.clock().Add(c.ttl)}
}

// Invalidate removes the key immediately. Called when the underlying data
// changes (e.g. the donor makes a new donation).
func (c *TTL[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Purge drops every entry
func (c *TTL[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]entry[V])
}

// Len returns the number of stored entries, expired or not
func (c *TTL[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
