// Package fieldcache stores field schemas in two tiers: a process-local map
// and a directory of JSON files that survives restarts.
package fieldcache

import (
	"context"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

// Tier is one storage level of the cache. Implementations do not interpret
// expiry; they store and return entries as given.
type Tier interface {
	// Load returns the entry for entity. A missing entry is (zero, false, nil).
	Load(ctx context.Context, entity string) (domain.CacheEntry, bool, error)
	// Store replaces the entry for entity.
	Store(ctx context.Context, entity string, entry domain.CacheEntry) error
	// Delete removes the entry for entity. Deleting a missing entry is not an error.
	Delete(ctx context.Context, entity string) error
	// Clear removes every entry.
	Clear(ctx context.Context) error
}
