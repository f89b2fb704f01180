package store

import (
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// ResponseCache is a concurrency-safe in-memory cache of rendered responses
// with a per-entry TTL.
type ResponseCache struct {
	mu sync.RWMutex

	// key: request key, value: rendered body
	data map[string]entry

	now func() time.Time
}

// NewResponseCache creates an empty ResponseCache.
func NewResponseCache() *ResponseCache {
	return &ResponseCache{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// Get returns the value for key if it exists and has not expired.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl. A non-positive ttl is a no-op.
func (c *ResponseCache) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
}

// DeleteExpired drops expired entries and reports how many were removed.
func (c *ResponseCache) DeleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.data {
		if !now.Before(e.expiresAt) {
			delete(c.data, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored entries, expired ones included.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
