package fieldcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

// record is the on-disk representation of a cache entry.
type record struct {
	Entity    string             `json:"entity"`
	CreatedAt time.Time          `json:"created_at"`
	TTL       string             `json:"ttl"`
	Schema    domain.FieldSchema `json:"schema"`
}

const (
	entrySuffix = ".fsfields.json"
	tempPattern = ".fsfields-*.tmp"
)

// DiskTier is the persisted tier: one JSON file per entity, named after the
// SHA-256 of the entity key plus entrySuffix. Other files in the directory
// are never touched. Files are replaced by writing a temporary file
// and renaming it over the old one, so readers never observe a partial write.
type DiskTier struct {
	dir string
}

// NewDiskTier creates a persisted tier rooted at dir, creating it if needed.
func NewDiskTier(dir string) (*DiskTier, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure cache dir %s: %w", dir, err)
	}
	return &DiskTier{dir: dir}, nil
}

// Dir returns the directory backing the tier.
func (t *DiskTier) Dir() string { return t.dir }

func (t *DiskTier) path(entity string) string {
	sum := sha256.Sum256([]byte(entity))
	return filepath.Join(t.dir, hex.EncodeToString(sum[:])+entrySuffix)
}

func (t *DiskTier) Load(_ context.Context, entity string) (domain.CacheEntry, bool, error) {
	data, err := os.ReadFile(t.path(entity))
	if errors.Is(err, os.ErrNotExist) {
		return domain.CacheEntry{}, false, nil
	}
	if err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("failed to read cache entry for %s: %w", entity, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("corrupt cache entry for %s: %w", entity, err)
	}
	if rec.Entity != entity {
		return domain.CacheEntry{}, false, fmt.Errorf("cache entry for %s holds entity %q", entity, rec.Entity)
	}
	ttl, err := time.ParseDuration(rec.TTL)
	if err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("corrupt ttl in cache entry for %s: %w", entity, err)
	}
	return domain.CacheEntry{Schema: rec.Schema, CreatedAt: rec.CreatedAt, TTL: ttl}, true, nil
}

func (t *DiskTier) Store(_ context.Context, entity string, entry domain.CacheEntry) error {
	data, err := json.Marshal(record{
		Entity:    entity,
		CreatedAt: entry.CreatedAt,
		TTL:       entry.TTL.String(),
		Schema:    entry.Schema,
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry for %s: %w", entity, err)
	}

	// Write to temp, then rename.
	tmp, err := os.CreateTemp(t.dir, tempPattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write cache entry for %s: %w", entity, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write cache entry for %s: %w", entity, err)
	}
	if err := os.Rename(tmpPath, t.path(entity)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to commit cache entry for %s: %w", entity, err)
	}
	return nil
}

func (t *DiskTier) Delete(_ context.Context, entity string) error {
	err := os.Remove(t.path(entity))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete cache entry for %s: %w", entity, err)
	}
	return nil
}

func (t *DiskTier) Clear(_ context.Context) error {
	var errs []error
	for _, pattern := range []string{"*" + entrySuffix, tempPattern} {
		matches, err := filepath.Glob(filepath.Join(t.dir, pattern))
		if err != nil {
			return fmt.Errorf("failed to list cache dir: %w", err)
		}
		for _, m := range matches {
			if err := os.Remove(m); err != nil && !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
