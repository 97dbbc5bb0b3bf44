package usecase

import (
	"context"
	"time"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

// --- Upstream API ---

// Gateway issues a single authenticated request to the Freshservice API.
// Implementations unwrap response envelopes, extract pagination metadata and
// report failures as *domain.UpstreamError. They never retry.
type Gateway interface {
	Call(ctx context.Context, call domain.Call) (*domain.Response, error)
}

// --- Field Schema Cache ---

// FieldCache is the two-tier, time-expiring store of field schemas.
// A cache miss is not an error.
type FieldCache interface {
	// Get returns a valid schema for entity, or false if none is cached.
	// It never triggers a network fetch.
	Get(ctx context.Context, entity string) (domain.FieldSchema, bool)
	// Put stores schema for entity in both tiers, persisted tier first.
	Put(ctx context.Context, entity string, schema domain.FieldSchema, ttl time.Duration) error
	// Invalidate removes entity from both tiers. It is idempotent.
	Invalidate(ctx context.Context, entity string) error
	// InvalidateAll removes every entity from both tiers.
	InvalidateAll(ctx context.Context) error
}

// FieldDiscoverer resolves the live field schema of an entity.
type FieldDiscoverer interface {
	Discover(ctx context.Context, entity string) (domain.FieldSchema, error)
}

// --- Transformation Rules ---

// RuleSet is the static table of transformation rules of the active scopes.
type RuleSet interface {
	// Rule returns the rule registered for (resource, action).
	Rule(resource, action string) (domain.Rule, bool)
	// Actions lists the actions registered for resource, sorted.
	Actions(resource string) []string
}
