package wfm

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cacheEntry holds one immutable cached value and its expiry instant.
type cacheEntry struct {
	v   any
	exp time.Time
}

// TTLCache is a thread-safe in-memory cache with a fixed time-to-live.
// Entries are immutable once written and invalidated only by expiry.
// A singleflight.Group collapses concurrent fetches for the same key into a
// single upstream call.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	group   singleflight.Group
}

// NewTTLCache creates an empty cache whose entries expire after ttl.
func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Get returns the cached value for key if it exists and has not expired.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.exp) {
		return nil, false
	}
	return e.v, true
}

// Put stores a value under key with the cache's TTL.
func (c *TTLCache) Put(key string, v any) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{v: v, exp: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Do returns the cached value for key, or runs fetch exactly once across
// concurrent callers and caches its result. A fetch error is returned to
// every waiting caller and nothing is cached.
func (c *TTLCache) Do(key string, fetch func() (any, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check: another caller may have populated the entry between the
		// miss above and our turn in the flight group.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		c.Put(key, v)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry and returns how many were removed.
func (c *TTLCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]cacheEntry)
	return n
}
