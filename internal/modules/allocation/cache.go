package allocation

import "sync"

// Cache is the process-wide store of trained allocation weights, keyed by
// the canonical request key. Entries are written once per key and never
// invalidated or evicted for the lifetime of the process; unbounded growth
// is an accepted limitation.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]float64
}

// NewCache creates an empty weight cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]float64)}
}

// Get returns the cached weight vector for a key, if present.
func (c *Cache) Get(key string) ([]float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	w, ok := c.entries[key]
	return w, ok
}

// Put stores a weight vector for a key.
func (c *Cache) Put(key string, weights []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = weights
}

// Len returns the number of cached universes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
