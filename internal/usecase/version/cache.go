package version

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Latest is the cached outcome of latest-version discovery. Found is false
// when the corpus holds no versioned documents; that outcome is cached too.
type Latest struct {
	Score int64
	Found bool
}

// Cache holds discovered latest-version values for the process lifetime.
// Implementations are safe for concurrent use but deliberately do not
// serialize computation: concurrent first requests may each run compute and
// last-writer-wins. The value is stable enough in practice that a duplicate
// computation costs one extra facet query, not correctness.
type Cache interface {
	GetOrCompute(ctx context.Context, key string, compute func(context.Context) (Latest, error)) (Latest, error)
	// Seed pre-populates an entry, primarily for tests.
	Seed(key string, value Latest)
}

// LRUCache backs Cache with a small LRU map. Entries are never invalidated
// until process restart; the LRU bound only guards against unbounded keys.
type LRUCache struct {
	entries *lru.Cache[string, Latest]
}

func NewLRUCache(size int) (*LRUCache, error) {
	entries, err := lru.New[string, Latest](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create version cache: %w", err)
	}
	return &LRUCache{entries: entries}, nil
}

func (c *LRUCache) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (Latest, error)) (Latest, error) {
	if v, ok := c.entries.Get(key); ok {
		return v, nil
	}
	v, err := compute(ctx)
	if err != nil {
		return Latest{}, err
	}
	c.entries.Add(key, v)
	return v, nil
}

func (c *LRUCache) Seed(key string, value Latest) {
	c.entries.Add(key, value)
}
