package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sangkips/pedidos-api/pkg/orderview"
)

type lruEntry struct {
	view      orderview.View
	expiresAt time.Time
}

// LRUViewCache keeps the most recently used views in process memory
type LRUViewCache struct {
	entries *lru.Cache[string, lruEntry]
	now     func() time.Time
}

func NewLRUViewCache(size int) (*LRUViewCache, error) {
	if size < 1 {
		size = 1
	}
	entries, err := lru.New[string, lruEntry](size)
	if err != nil {
		return nil, err
	}
	return &LRUViewCache{entries: entries, now: time.Now}, nil
}

func (c *LRUViewCache) Get(_ context.Context, key string) (*orderview.View, bool, error) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.entries.Remove(key)
		return nil, false, nil
	}
	view := entry.view
	return &view, true, nil
}

// Set stores value; a ttl of zero keeps it until it is evicted
func (c *LRUViewCache) Set(_ context.Context, key string, value *orderview.View, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	entry := lruEntry{view: *value}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.entries.Add(key, entry)
	return nil
}

func (c *LRUViewCache) Len() int {
	return c.entries.Len()
}
