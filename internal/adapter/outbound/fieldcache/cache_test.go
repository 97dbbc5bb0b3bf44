package fieldcache_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/freshservice-mcp/internal/adapter/outbound/fieldcache"
	"github.com/i2y/freshservice-mcp/internal/domain"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// testClock is a manually advanced clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// faultyTier wraps a tier and fails selected operations.
type faultyTier struct {
	fieldcache.Tier
	failLoad  bool
	failStore bool
	loads     int
}

func (f *faultyTier) Load(ctx context.Context, entity string) (domain.CacheEntry, bool, error) {
	f.loads++
	if f.failLoad {
		return domain.CacheEntry{}, false, errors.New("disk unreadable")
	}
	return f.Tier.Load(ctx, entity)
}

func (f *faultyTier) Store(ctx context.Context, entity string, entry domain.CacheEntry) error {
	if f.failStore {
		return errors.New("disk full")
	}
	return f.Tier.Store(ctx, entity, entry)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSchema(entity string) domain.FieldSchema {
	return domain.FieldSchema{
		Entity:    entity,
		FetchedAt: epoch,
		Fields: []domain.FieldDefinition{
			{Name: "priority", Label: "Priority", Type: "default_priority", Required: true,
				Choices: []domain.FieldChoice{{ID: 1.0, Value: "Low"}, {ID: 2.0, Value: "Medium"}}},
			{Name: "cf_region", Label: "Region", Type: "custom_dropdown"},
		},
	}
}

func newDiskTier(t *testing.T) *fieldcache.DiskTier {
	t.Helper()
	disk, err := fieldcache.NewDiskTier(t.TempDir())
	require.NoError(t, err)
	return disk
}

func TestCache_GetPut(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: epoch}
	cache := fieldcache.New(fieldcache.NewMemoryTier(), newDiskTier(t), testLogger(), fieldcache.WithClock(clock.Now))

	_, ok := cache.Get(ctx, "change")
	assert.False(t, ok, "empty cache must miss")

	require.NoError(t, cache.Put(ctx, "change", testSchema("change"), time.Hour))

	got, ok := cache.Get(ctx, "change")
	require.True(t, ok)
	assert.Equal(t, testSchema("change"), got)

	clock.Advance(time.Hour - time.Nanosecond)
	_, ok = cache.Get(ctx, "change")
	assert.True(t, ok, "entry is valid strictly before the TTL elapses")

	clock.Advance(time.Nanosecond)
	_, ok = cache.Get(ctx, "change")
	assert.False(t, ok, "entry is expired once the TTL has elapsed")
}

func TestCache_TTLProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("entry is present iff elapsed < ttl", prop.ForAll(
		func(ttlSecs, elapsedSecs int) bool {
			ctx := context.Background()
			clock := &testClock{now: epoch}
			disk, err := fieldcache.NewDiskTier(t.TempDir())
			if err != nil {
				return false
			}
			cache := fieldcache.New(fieldcache.NewMemoryTier(), disk, testLogger(), fieldcache.WithClock(clock.Now))
			if err := cache.Put(ctx, "ticket", testSchema("ticket"), time.Duration(ttlSecs)*time.Second); err != nil {
				return false
			}
			clock.Advance(time.Duration(elapsedSecs) * time.Second)
			_, ok := cache.Get(ctx, "ticket")
			return ok == (elapsedSecs < ttlSecs)
		},
		gen.IntRange(1, 7200),
		gen.IntRange(0, 14400),
	))

	properties.TestingRun(t)
}

func TestCache_PromotesPersistedEntry(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: epoch}
	disk := newDiskTier(t)

	// A previous process wrote the entry.
	writer := fieldcache.New(fieldcache.NewMemoryTier(), disk, testLogger(), fieldcache.WithClock(clock.Now))
	require.NoError(t, writer.Put(ctx, "problem", testSchema("problem"), time.Hour))

	local := fieldcache.NewMemoryTier()
	persisted := &faultyTier{Tier: disk}
	cache := fieldcache.New(local, persisted, testLogger(), fieldcache.WithClock(clock.Now))

	got, ok := cache.Get(ctx, "problem")
	require.True(t, ok)
	assert.Equal(t, testSchema("problem"), got)
	assert.Equal(t, 1, persisted.loads)

	// The promoted entry now answers even with the persisted tier failing.
	persisted.failLoad = true
	got, ok = cache.Get(ctx, "problem")
	require.True(t, ok)
	assert.Equal(t, testSchema("problem"), got)
	assert.Equal(t, 1, persisted.loads, "local hit must not touch the persisted tier")

	entry, ok, err := local.Load(ctx, "problem")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, epoch.Equal(entry.CreatedAt), "promotion keeps the original creation time")
}

func TestCache_UnreadablePersistedTierIsAMiss(t *testing.T) {
	ctx := context.Background()
	persisted := &faultyTier{Tier: newDiskTier(t), failLoad: true}
	cache := fieldcache.New(fieldcache.NewMemoryTier(), persisted, testLogger())

	_, ok := cache.Get(ctx, "agent")
	assert.False(t, ok)
}

func TestCache_ExpiredPersistedEntryIsNotPromoted(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: epoch}
	disk := newDiskTier(t)
	writer := fieldcache.New(fieldcache.NewMemoryTier(), disk, testLogger(), fieldcache.WithClock(clock.Now))
	require.NoError(t, writer.Put(ctx, "release", testSchema("release"), time.Minute))

	clock.Advance(2 * time.Minute)
	local := fieldcache.NewMemoryTier()
	cache := fieldcache.New(local, disk, testLogger(), fieldcache.WithClock(clock.Now))

	_, ok := cache.Get(ctx, "release")
	assert.False(t, ok)
	_, found, err := local.Load(ctx, "release")
	require.NoError(t, err)
	assert.False(t, found)

	// Expired entries are not deleted by Get.
	_, found, err = disk.Load(ctx, "release")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestCache_PutPersistFailureStillWritesLocal(t *testing.T) {
	ctx := context.Background()
	persisted := &faultyTier{Tier: newDiskTier(t), failStore: true}
	cache := fieldcache.New(fieldcache.NewMemoryTier(), persisted, testLogger())

	err := cache.Put(ctx, "ticket", testSchema("ticket"), time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	got, ok := cache.Get(ctx, "ticket")
	require.True(t, ok)
	assert.Equal(t, testSchema("ticket"), got)
}

func TestCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	disk := newDiskTier(t)
	cache := fieldcache.New(fieldcache.NewMemoryTier(), disk, testLogger())

	require.NoError(t, cache.Put(ctx, "change", testSchema("change"), time.Hour))
	require.NoError(t, cache.Put(ctx, "ticket", testSchema("ticket"), time.Hour))

	require.NoError(t, cache.Invalidate(ctx, "change"))
	_, ok := cache.Get(ctx, "change")
	assert.False(t, ok)
	_, found, err := disk.Load(ctx, "change")
	require.NoError(t, err)
	assert.False(t, found, "persisted copy must be removed too")

	// Idempotent.
	require.NoError(t, cache.Invalidate(ctx, "change"))
	require.NoError(t, cache.Invalidate(ctx, "never-cached"))

	_, ok = cache.Get(ctx, "ticket")
	assert.True(t, ok, "other entities are untouched")

	require.NoError(t, cache.InvalidateAll(ctx))
	_, ok = cache.Get(ctx, "ticket")
	assert.False(t, ok)
	require.NoError(t, cache.InvalidateAll(ctx))
}

func TestCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	cache, err := fieldcache.NewTwoTier(t.TempDir(), testLogger())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entity := []string{"ticket", "change"}[i%2]
			for j := 0; j < 20; j++ {
				_ = cache.Put(ctx, entity, testSchema(entity), time.Hour)
				if got, ok := cache.Get(ctx, entity); ok {
					assert.Equal(t, entity, got.Entity)
				}
				if j%7 == 0 {
					_ = cache.Invalidate(ctx, entity)
				}
			}
		}(i)
	}
	wg.Wait()
}
