package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	appcatalog "github.com/sitestock/backend/internal/application/catalog"
	"github.com/sitestock/backend/internal/domain/catalog"
)

// InMemoryMaterialCache implements MaterialCache with a process-local map.
// Suitable for single-instance deployments and tests; entries expire lazily
// on read.
type InMemoryMaterialCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]inMemoryEntry
	ttl     time.Duration
}

type inMemoryEntry struct {
	material  catalog.Material
	expiresAt time.Time
}

// NewInMemoryMaterialCache creates a new in-memory material cache
func NewInMemoryMaterialCache(ttl time.Duration) *InMemoryMaterialCache {
	if ttl <= 0 {
		ttl = defaultMaterialTTL
	}
	return &InMemoryMaterialCache{
		entries: make(map[uuid.UUID]inMemoryEntry),
		ttl:     ttl,
	}
}

// Get returns the cached material for the id, if present and not expired
func (c *InMemoryMaterialCache) Get(_ context.Context, id uuid.UUID) (*catalog.Material, bool) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, id)
		c.mu.Unlock()
		return nil, false
	}

	material := entry.material
	return &material, true
}

// Set stores a copy of the material under its id
func (c *InMemoryMaterialCache) Set(_ context.Context, material *catalog.Material) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[material.ID] = inMemoryEntry{
		material:  *material,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Invalidate removes a material from the cache
func (c *InMemoryMaterialCache) Invalidate(_ context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Len returns the number of live entries; used by tests
func (c *InMemoryMaterialCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryMaterialCache implements MaterialCache
var _ appcatalog.MaterialCache = (*InMemoryMaterialCache)(nil)
