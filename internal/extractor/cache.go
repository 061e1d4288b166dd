package extractor

import "sync"

// boundedCache is a size-limited map with first-in first-out eviction.
// It lives inside one Engine, so one run never sees another run's entries.
type boundedCache[V any] struct {
	mu      sync.Mutex
	limit   int
	entries map[string]V
	order   []string
}

func newBoundedCache[V any](limit int) *boundedCache[V] {
	return &boundedCache[V]{
		limit:   limit,
		entries: make(map[string]V),
	}
}

func (c *boundedCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *boundedCache[V]) put(key string, value V) {
	if c.limit <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = value
		return
	}
	if len(c.order) >= c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = value
	c.order = append(c.order, key)
}

func (c *boundedCache[V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
