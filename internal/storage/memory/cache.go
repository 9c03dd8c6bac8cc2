// Package memory is the in-memory speech cache used when no cache path is
// configured, and by tests.
package memory

import (
	"context"
	"sync"

	"github.com/voxhire/voxhire/internal/storage"
)

type entry struct {
	data        []byte
	contentType string
}

// Cache is a map-backed storage.SpeechCache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

var _ storage.SpeechCache = (*Cache)(nil)

// New creates an empty in-memory cache.
func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, "", false
	}
	return e.data, e.contentType, true
}

func (c *Cache) Put(_ context.Context, key string, data []byte, contentType string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{data: data, contentType: contentType}
	return nil
}

func (c *Cache) Close() error { return nil }
