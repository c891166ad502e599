package station

import "sync"

// Cache holds the most recently looked-up station for the lifetime of the
// process. Last write wins; there is no expiry.
// It is safe for concurrent use.
type Cache struct {
	mu     sync.RWMutex
	record Record
	ok     bool
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Get returns a copy of the cached record and whether one was ever set.
func (c *Cache) Get() (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.record, c.ok
}

// Set replaces the cached record.
func (c *Cache) Set(r Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record = r
	c.ok = true
}
