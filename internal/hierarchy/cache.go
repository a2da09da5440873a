package hierarchy

import (
	"sync"

	"github.com/mbelozerov/caseline/internal/domain"
)

// Key identifies a cached tree. Plan ids are only unique within a project,
// so the project name is part of the key.
type Key struct {
	Project string
	PlanID  int64
}

// Cache memoizes built suite trees for the lifetime of the process.
// Entries never expire; any suite mutation under a plan invalidates that
// plan's whole entry.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]*domain.SuiteNode
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Key]*domain.SuiteNode)}
}

// Get returns the cached tree for the key, if present.
func (c *Cache) Get(key Key) (*domain.SuiteNode, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	root, ok := c.entries[key]
	return root, ok
}

// Put stores a tree under the key, replacing any previous entry.
func (c *Cache) Put(key Key, root *domain.SuiteNode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = root
}

// Invalidate drops the entry for the key, forcing a re-fetch on next access.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of cached plans.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
