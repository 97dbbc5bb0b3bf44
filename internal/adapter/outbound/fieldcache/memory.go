package fieldcache

import (
	"context"
	"sync"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

// MemoryTier is the process-local tier. Its contents are lost on restart.
type MemoryTier struct {
	mu      sync.RWMutex
	entries map[string]domain.CacheEntry
}

// NewMemoryTier creates an empty process-local tier.
func NewMemoryTier() *MemoryTier {
	return &MemoryTier{entries: make(map[string]domain.CacheEntry)}
}

func (t *MemoryTier) Load(_ context.Context, entity string) (domain.CacheEntry, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[entity]
	return e, ok, nil
}

func (t *MemoryTier) Store(_ context.Context, entity string, entry domain.CacheEntry) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[entity] = entry
	return nil
}

func (t *MemoryTier) Delete(_ context.Context, entity string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, entity)
	return nil
}

func (t *MemoryTier) Clear(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[string]domain.CacheEntry)
	return nil
}
