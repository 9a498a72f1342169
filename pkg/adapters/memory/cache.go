// Package memory provides an in-process TransformCache.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/aretw0/turing/pkg/domain"
)

// Cache implements ports.TransformCache in memory.
// Safe for concurrent use.
type Cache struct {
	data map[string]*domain.TransformEntry
	mu   sync.RWMutex
}

// NewCache creates an empty in-memory cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*domain.TransformEntry),
	}
}

// Get returns a copy of the entry stored under key.
func (c *Cache) Get(ctx context.Context, key string) (*domain.TransformEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return clone(entry), nil
}

// Put stores a copy of entry.
func (c *Cache) Put(ctx context.Context, key string, entry *domain.TransformEntry) error {
	copied := clone(entry)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = copied
	return nil
}

// Delete removes the entry.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func clone(e *domain.TransformEntry) *domain.TransformEntry {
	out := *e
	out.Codes = maps.Clone(e.Codes)
	out.StateCodes = maps.Clone(e.StateCodes)
	return &out
}
