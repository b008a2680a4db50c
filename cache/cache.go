// Package cache provides the short-TTL store for rendered pages. The index
// page is the only consumer: it is the hottest path and its content changes
// slowly, so serving a body up to one TTL old is an acceptable trade.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// PageCache stores rendered response bodies under string keys for a fixed TTL.
// Concurrent refreshes are last-writer-wins; the cached artifact is a pure
// function of committed state, so any writer's value is valid.
type PageCache struct {
	ttl   time.Duration
	store *gocache.Cache
}

// NewPageCache returns a PageCache whose entries expire after ttl.
func NewPageCache(ttl time.Duration) *PageCache {
	return &PageCache{
		ttl:   ttl,
		store: gocache.New(ttl, 2*ttl),
	}
}

// Get returns the cached body for key, if present and not expired.
func (c *PageCache) Get(key string) ([]byte, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

// Set stores a copy of body under key for the cache's TTL.
func (c *PageCache) Set(key string, body []byte) {
	buf := make([]byte, len(body))
	copy(buf, body)
	c.store.Set(key, buf, c.ttl)
}

// Flush drops all entries.
func (c *PageCache) Flush() {
	c.store.Flush()
}
