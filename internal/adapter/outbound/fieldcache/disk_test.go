package fieldcache_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/freshservice-mcp/internal/adapter/outbound/fieldcache"
	"github.com/i2y/freshservice-mcp/internal/domain"
)

func TestDiskTier_RoundTrip(t *testing.T) {
	ctx := context.Background()
	disk := newDiskTier(t)
	entry := domain.CacheEntry{Schema: testSchema("asset_type"), CreatedAt: epoch, TTL: 90 * time.Minute}

	require.NoError(t, disk.Store(ctx, "asset_type", entry))

	got, ok, err := disk.Load(ctx, "asset_type")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry.TTL, got.TTL)
	assert.True(t, entry.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, entry.Schema.Fields, got.Schema.Fields)

	files, err := os.ReadDir(disk.Dir())
	require.NoError(t, err)
	require.Len(t, files, 1, "no temp files are left behind")
	assert.True(t, strings.HasSuffix(files[0].Name(), ".fsfields.json"))
	assert.Len(t, files[0].Name(), 64+len(".fsfields.json"))
}

func TestDiskTier_Overwrite(t *testing.T) {
	ctx := context.Background()
	disk := newDiskTier(t)

	first := domain.CacheEntry{Schema: testSchema("ticket"), CreatedAt: epoch, TTL: time.Hour}
	second := domain.CacheEntry{Schema: domain.FieldSchema{Entity: "ticket"}, CreatedAt: epoch.Add(time.Hour), TTL: time.Hour}
	require.NoError(t, disk.Store(ctx, "ticket", first))
	require.NoError(t, disk.Store(ctx, "ticket", second))

	got, ok, err := disk.Load(ctx, "ticket")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, got.Schema.Fields)
}

func TestDiskTier_Missing(t *testing.T) {
	_, ok, err := newDiskTier(t).Load(context.Background(), "change")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDiskTier_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	disk := newDiskTier(t)
	require.NoError(t, disk.Store(ctx, "change", domain.CacheEntry{Schema: testSchema("change"), CreatedAt: epoch, TTL: time.Hour}))

	files, err := filepath.Glob(filepath.Join(disk.Dir(), "*.fsfields.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.NoError(t, os.WriteFile(files[0], []byte(`{"entity":"change","sch`), 0o644))

	_, ok, err := disk.Load(ctx, "change")
	require.Error(t, err)
	assert.False(t, ok)

	// The cache treats it as a miss.
	cache := fieldcache.New(fieldcache.NewMemoryTier(), disk, testLogger())
	_, ok = cache.Get(ctx, "change")
	assert.False(t, ok)
}

func TestDiskTier_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	disk := newDiskTier(t)
	entry := domain.CacheEntry{Schema: testSchema("x"), CreatedAt: epoch, TTL: time.Hour}
	require.NoError(t, disk.Store(ctx, "ticket", entry))
	require.NoError(t, disk.Store(ctx, "change", entry))
	require.NoError(t, os.WriteFile(filepath.Join(disk.Dir(), ".fsfields-stale.tmp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(disk.Dir(), "README"), []byte("keep"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(disk.Dir(), "settings.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(disk.Dir(), "download.tmp"), []byte("x"), 0o644))

	require.NoError(t, disk.Delete(ctx, "ticket"))
	require.NoError(t, disk.Delete(ctx, "ticket"))
	_, ok, err := disk.Load(ctx, "ticket")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, disk.Clear(ctx))
	files, err := os.ReadDir(disk.Dir())
	require.NoError(t, err)
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name())
	}
	assert.ElementsMatch(t, []string{"README", "download.tmp", "settings.json"}, names,
		"Clear only removes cache entries and their temp files")
}
