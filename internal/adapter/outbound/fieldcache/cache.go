package fieldcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

const meterName = "github.com/i2y/freshservice-mcp/internal/adapter/outbound/fieldcache"

// Cache implements usecase.FieldCache on top of a process-local tier and a
// persisted tier. The local tier is always consulted first. Operations on
// the same entity are serialized; InvalidateAll excludes all of them.
type Cache struct {
	local     Tier
	persisted Tier
	now       func() time.Time
	logger    *slog.Logger
	meters    metric.MeterProvider
	lookups   metric.Int64Counter

	mu   sync.RWMutex
	keys keyedMutex
}

// Option customizes a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithMeterProvider records lookup metrics through mp instead of the
// global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Cache) { c.meters = mp }
}

// New creates a cache over the given tiers. Lookups are counted on the
// fieldcache.lookups metric, labelled by outcome.
func New(local, persisted Tier, logger *slog.Logger, opts ...Option) *Cache {
	c := &Cache{
		local:     local,
		persisted: persisted,
		now:       time.Now,
		logger:    logger.With("component", "field_cache"),
		meters:    otel.GetMeterProvider(),
		keys:      keyedMutex{locks: make(map[string]*sync.Mutex)},
	}
	for _, opt := range opts {
		opt(c)
	}
	lookups, err := c.meters.Meter(meterName).Int64Counter("fieldcache.lookups",
		metric.WithDescription("Field schema cache lookups by outcome"))
	if err != nil {
		c.logger.Warn("Failed to create cache lookup counter", slog.Any("error", err))
	}
	c.lookups = lookups
	return c
}

// NewTwoTier creates a cache with a fresh memory tier and a disk tier in dir.
func NewTwoTier(dir string, logger *slog.Logger, opts ...Option) (*Cache, error) {
	disk, err := NewDiskTier(dir)
	if err != nil {
		return nil, err
	}
	c := New(NewMemoryTier(), disk, logger, opts...)
	c.logger.Debug("Field cache ready", slog.String("dir", disk.Dir()))
	return c, nil
}

// Get returns a valid schema for entity. On a local miss it consults the
// persisted tier and promotes a valid entry into the local tier. Expired
// entries are reported as absent but left in place.
func (c *Cache) Get(ctx context.Context, entity string) (domain.FieldSchema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	unlock := c.keys.lock(entity)
	defer unlock()

	log := c.logger.With(slog.String("entity", entity))
	now := c.now()

	// 1. Process-local tier
	entry, ok, err := c.local.Load(ctx, entity)
	if err != nil {
		log.Warn("Failed to read local cache tier", slog.Any("error", err))
	} else if ok && entry.ValidAt(now) {
		c.record(ctx, "local_hit")
		log.Debug("Field schema served from memory")
		return entry.Schema, true
	}

	// 2. Persisted tier
	entry, ok, err = c.persisted.Load(ctx, entity)
	if err != nil {
		log.Warn("Ignoring unreadable persisted cache entry", slog.Any("error", err))
		c.record(ctx, "miss")
		return domain.FieldSchema{}, false
	}
	if !ok || !entry.ValidAt(now) {
		c.record(ctx, "miss")
		log.Debug("Field schema cache miss", slog.Bool("expired", ok))
		return domain.FieldSchema{}, false
	}

	if err := c.local.Store(ctx, entity, entry); err != nil {
		log.Warn("Failed to promote persisted entry", slog.Any("error", err))
	}
	c.record(ctx, "persisted_hit")
	log.Debug("Field schema promoted from disk")
	return entry.Schema, true
}

// Put stores schema for entity with the given ttl. The persisted tier is
// written before the local tier. A persisted-tier failure is returned, but
// the local tier is still updated.
func (c *Cache) Put(ctx context.Context, entity string, schema domain.FieldSchema, ttl time.Duration) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	unlock := c.keys.lock(entity)
	defer unlock()

	entry := domain.CacheEntry{Schema: schema, CreatedAt: c.now(), TTL: ttl}

	persistErr := c.persisted.Store(ctx, entity, entry)
	if persistErr != nil {
		c.logger.Warn("Failed to persist field schema", slog.String("entity", entity), slog.Any("error", persistErr))
	}
	if err := c.local.Store(ctx, entity, entry); err != nil {
		return errors.Join(persistErr, err)
	}
	if persistErr != nil {
		return fmt.Errorf("persisted tier: %w", persistErr)
	}
	return nil
}

// Invalidate removes entity from both tiers. The persisted tier goes first
// so an interrupted invalidation cannot resurrect the entry through promotion.
func (c *Cache) Invalidate(ctx context.Context, entity string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	unlock := c.keys.lock(entity)
	defer unlock()

	persistErr := c.persisted.Delete(ctx, entity)
	localErr := c.local.Delete(ctx, entity)
	c.logger.Debug("Invalidated field schema", slog.String("entity", entity))
	return errors.Join(persistErr, localErr)
}

// InvalidateAll empties both tiers.
func (c *Cache) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	persistErr := c.persisted.Clear(ctx)
	localErr := c.local.Clear(ctx)
	c.logger.Info("Cleared all field schemas")
	return errors.Join(persistErr, localErr)
}

func (c *Cache) record(ctx context.Context, outcome string) {
	if c.lookups == nil {
		return
	}
	c.lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// keyedMutex hands out one mutex per key. The key space is the small static
// set of entities, so mutexes are never freed.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
	return m.Unlock
}
