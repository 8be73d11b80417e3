package store

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	body      []byte
	expiresAt time.Time
}

// MemoryCache is a concurrency-safe in-memory response cache.
type MemoryCache struct {
	mu sync.RWMutex

	// key: request signature
	data  map[string]memoryEntry
	order []string

	// max number of entries kept (0 = unlimited)
	maxEntries int

	now func() time.Time
}

// NewMemoryCache creates a new MemoryCache.
// If maxEntries is <= 0, it is treated as unlimited.
func NewMemoryCache(maxEntries int) *MemoryCache {
	return &MemoryCache{
		data:       make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the cached body for key if present and not expired.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.data[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.data[key]; ok && !c.now().Before(cur.expiresAt) {
			c.remove(key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.body, true, nil
}

// Set stores body under key and enforces retention.
func (c *MemoryCache) Set(_ context.Context, key string, body []byte, ttl time.Duration) error {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.data[key]; ok {
		c.remove(key)
	}
	c.data[key] = memoryEntry{
		body:      append([]byte(nil), body...),
		expiresAt: now.Add(ttl),
	}
	c.order = append(c.order, key)

	// Enforce retention by count, oldest first.
	if c.maxEntries > 0 && len(c.order) > c.maxEntries {
		over := len(c.order) - c.maxEntries
		for _, k := range c.order[:over] {
			delete(c.data, k)
		}
		c.order = c.order[over:]
	}

	// Enforce retention by age.
	i := 0
	for ; i < len(c.order); i++ {
		if now.Before(c.data[c.order[i]].expiresAt) {
			break
		}
		delete(c.data, c.order[i])
	}
	c.order = c.order[i:]

	return nil
}

// Len returns the number of live and not-yet-evicted entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// remove deletes key; callers must hold the write lock.
func (c *MemoryCache) remove(key string) {
	delete(c.data, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
