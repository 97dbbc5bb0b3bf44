package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

const (
	fieldPageSize = 100
	maxFieldPages = 50
)

// DiscoverFieldsUseCase resolves the form-field definitions configured in
// the Freshservice organisation, serving them from the FieldCache when
// possible and refreshing them through the Gateway otherwise.
type DiscoverFieldsUseCase struct {
	cache     FieldCache
	gateway   Gateway
	endpoints map[string]domain.FieldEndpoint
	ttl       time.Duration
	now       func() time.Time
	group     singleflight.Group
	logger    *slog.Logger
}

// NewDiscoverFieldsUseCase creates a new DiscoverFieldsUseCase. endpoints
// maps each discoverable entity to its field endpoint; ttl is applied to
// every schema stored in the cache.
func NewDiscoverFieldsUseCase(
	cache FieldCache,
	gateway Gateway,
	endpoints map[string]domain.FieldEndpoint,
	ttl time.Duration,
	logger *slog.Logger,
) *DiscoverFieldsUseCase {
	return &DiscoverFieldsUseCase{
		cache:     cache,
		gateway:   gateway,
		endpoints: endpoints,
		ttl:       ttl,
		now:       time.Now,
		logger:    logger.With("usecase", "DiscoverFields"),
	}
}

// Entities lists the entities whose fields can be discovered, sorted.
func (uc *DiscoverFieldsUseCase) Entities() []string {
	out := make([]string, 0, len(uc.endpoints))
	for e := range uc.endpoints {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Discover returns the field schema of entity from the cache, fetching and
// caching it on a miss or after expiry.
func (uc *DiscoverFieldsUseCase) Discover(ctx context.Context, entity string) (domain.FieldSchema, error) {
	log := uc.logger.With(slog.String("entity", entity))
	ep, err := uc.endpoint(entity)
	if err != nil {
		return domain.FieldSchema{}, err
	}

	if schema, ok := uc.cache.Get(ctx, entity); ok {
		log.Debug("Field schema cache hit")
		return schema, nil
	}

	log.Info("Field schema not cached, fetching from Freshservice")
	return uc.refresh(ctx, entity, ep)
}

// ForceRefresh bypasses the cache read and always re-fetches entity,
// writing the result through to both tiers. If the fetch fails while a
// valid entry is still cached, that entry is returned instead of the error.
func (uc *DiscoverFieldsUseCase) ForceRefresh(ctx context.Context, entity string) (domain.FieldSchema, error) {
	log := uc.logger.With(slog.String("entity", entity))
	ep, err := uc.endpoint(entity)
	if err != nil {
		return domain.FieldSchema{}, err
	}

	schema, err := uc.refresh(ctx, entity, ep)
	if err == nil {
		return schema, nil
	}
	if cached, ok := uc.cache.Get(ctx, entity); ok {
		log.Warn("Field refresh failed, serving cached schema", slog.Any("error", err))
		return cached, nil
	}
	return domain.FieldSchema{}, err
}

// Clear drops the cached schema of entity.
func (uc *DiscoverFieldsUseCase) Clear(ctx context.Context, entity string) error {
	if _, err := uc.endpoint(entity); err != nil {
		return err
	}
	if err := uc.cache.Invalidate(ctx, entity); err != nil {
		return fmt.Errorf("failed to clear %s fields: %w", entity, err)
	}
	uc.logger.Info("Cleared field cache", slog.String("entity", entity))
	return nil
}

// ClearAll drops every cached schema.
func (uc *DiscoverFieldsUseCase) ClearAll(ctx context.Context) error {
	if err := uc.cache.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("failed to clear field caches: %w", err)
	}
	return nil
}

func (uc *DiscoverFieldsUseCase) endpoint(entity string) (domain.FieldEndpoint, error) {
	ep, ok := uc.endpoints[entity]
	if !ok {
		return domain.FieldEndpoint{}, &domain.ValidationError{
			Message: fmt.Sprintf("unknown entity type '%s'. Valid types: %v", entity, uc.Entities()),
		}
	}
	return ep, nil
}

// refresh fetches entity and stores it. Concurrent refreshes of the same
// entity share one upstream fetch, which runs detached from any single
// caller's cancellation; each caller stops waiting when its own ctx ends.
func (uc *DiscoverFieldsUseCase) refresh(ctx context.Context, entity string, ep domain.FieldEndpoint) (domain.FieldSchema, error) {
	ch := uc.group.DoChan(entity, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		schema, err := uc.fetch(fetchCtx, entity, ep)
		if err != nil {
			return nil, err
		}
		if err := uc.cache.Put(fetchCtx, entity, schema, uc.ttl); err != nil {
			// The local tier still holds the schema.
			uc.logger.Warn("Failed to cache field schema", slog.String("entity", entity), slog.Any("error", err))
		}
		return schema, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return domain.FieldSchema{}, fmt.Errorf("failed to fetch %s fields: %w", entity, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		uc.logger.Error("Failed to fetch field schema", slog.String("entity", entity), slog.Any("error", res.Err))
		return domain.FieldSchema{}, fmt.Errorf("failed to fetch %s fields: %w", entity, res.Err)
	}
	schema := res.Val.(domain.FieldSchema)
	uc.logger.Info("Fetched field schema",
		slog.String("entity", entity),
		slog.Int("field_count", len(schema.Fields)),
		slog.Bool("shared", res.Shared))
	return schema, nil
}

func (uc *DiscoverFieldsUseCase) fetch(ctx context.Context, entity string, ep domain.FieldEndpoint) (domain.FieldSchema, error) {
	if !ep.Paginated {
		resp, err := uc.gateway.Call(ctx, domain.Call{Method: http.MethodGet, Path: ep.Path})
		if err != nil {
			return domain.FieldSchema{}, err
		}
		schema, err := parseFieldSchema(entity, resp.Payload, uc.now())
		if err != nil {
			return domain.FieldSchema{}, &domain.UpstreamError{
				Kind: domain.UpstreamDecode, Method: http.MethodGet, Path: ep.Path, StatusCode: resp.StatusCode, Err: err,
			}
		}
		return schema, nil
	}

	var all []any
	for page := 1; page <= maxFieldPages; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(fieldPageSize))
		resp, err := uc.gateway.Call(ctx, domain.Call{Method: http.MethodGet, Path: ep.Path, Query: query})
		if err != nil {
			return domain.FieldSchema{}, err
		}
		items, ok := findList(resp.Payload)
		if !ok {
			return domain.FieldSchema{}, &domain.UpstreamError{
				Kind: domain.UpstreamDecode, Method: http.MethodGet, Path: ep.Path, StatusCode: resp.StatusCode, Err: errNoFieldList,
			}
		}
		if len(items) == 0 {
			break
		}
		all = append(all, items...)
		if len(items) < fieldPageSize {
			break
		}
	}
	return parseFieldSchema(entity, all, uc.now())
}
