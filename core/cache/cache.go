package cache

import (
	"sync"
	"time"
)

// Cache is a small thread-safe in-process key-value store with optional
// per-entry TTL. It backs process-local state such as the push updater's
// last-known-good quantities; nothing in it survives a restart.
type Cache struct {
	mu    sync.RWMutex
	items map[string]item
}

type item struct {
	value     interface{}
	expiresAt int64 // unix nanos; 0 means no expiration
}

func New() *Cache {
	return &Cache{items: make(map[string]item)}
}

// Set stores a value. A zero ttl means the entry never expires.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UnixNano()
	}
	c.mu.Lock()
	c.items[key] = item{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Get returns the value for key, or false when absent or expired.
// Expired entries are removed on access.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if it.expiresAt > 0 && time.Now().UnixNano() > it.expiresAt {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, false
	}
	return it.value, true
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Len counts stored entries, expired ones included until next access.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
