// Package cache is the small keyed read cache behind the resource services.
// Reads are stale-tolerant; services invalidate entries only after a
// mutation's success acknowledgment, never before.
package cache

import (
	"strings"
	"sync"
)

type Cache struct {
	mu      sync.RWMutex
	entries map[string]interface{}
}

func New() *Cache {
	return &Cache{entries: make(map[string]interface{})}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	val, ok := c.entries[key]
	return val, ok
}

func (c *Cache) Set(key string, val interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = val
}

func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}

// InvalidatePrefix drops every entry whose key starts with prefix.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}
