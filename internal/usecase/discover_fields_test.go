package usecase_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/i2y/freshservice-mcp/internal/adapter/outbound/fieldcache"
	"github.com/i2y/freshservice-mcp/internal/catalog"
	"github.com/i2y/freshservice-mcp/internal/domain"
	"github.com/i2y/freshservice-mcp/internal/usecase"
)

func ticketFieldsPayload() map[string]any {
	return map[string]any{"ticket_fields": []any{
		map[string]any{
			"name":                "priority",
			"label":               "Priority",
			"field_type":          "default_priority",
			"required_for_agents": true,
			"choices": []any{
				map[string]any{"id": 1.0, "value": "Low"},
				map[string]any{"id": 2.0, "value": "Medium"},
			},
		},
		map[string]any{
			"name":          "category",
			"label":         "Category",
			"field_type":    "default_category",
			"choices":       []any{"Hardware", "Software"},
			"nested_fields": []any{map[string]any{"name": "sub_category", "label": "Sub category"}},
		},
		map[string]any{"label": "nameless fields are skipped"},
	}}
}

func newDiscoverer(t *testing.T, gw usecase.Gateway) (*usecase.DiscoverFieldsUseCase, *fieldcache.Cache) {
	t.Helper()
	return newDiscovererIn(t, gw, t.TempDir())
}

func newDiscovererIn(t *testing.T, gw usecase.Gateway, dir string) (*usecase.DiscoverFieldsUseCase, *fieldcache.Cache) {
	t.Helper()
	cache, err := fieldcache.NewTwoTier(dir, discardLogger())
	require.NoError(t, err)
	return usecase.NewDiscoverFieldsUseCase(cache, gw, catalog.FieldEndpoints(), time.Hour, discardLogger()), cache
}

func TestDiscoverFields_CachedWithinTTL(t *testing.T) {
	ctx := context.Background()
	gw := new(MockGateway)
	gw.On("Call", mock.Anything, callTo(http.MethodGet, "ticket_form_fields")).
		Return(&domain.Response{StatusCode: 200, Payload: ticketFieldsPayload()}, nil).Once()

	uc, _ := newDiscoverer(t, gw)

	first, err := uc.Discover(ctx, "ticket")
	require.NoError(t, err)
	second, err := uc.Discover(ctx, "ticket")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "ticket", first.Entity)
	assert.Equal(t, []string{"priority", "category", "sub_category"}, first.Names())

	priority, ok := first.Field("priority")
	require.True(t, ok)
	assert.True(t, priority.Required)
	assert.Equal(t, "default_priority", priority.Type)
	assert.Equal(t, []domain.FieldChoice{{ID: 1.0, Value: "Low"}, {ID: 2.0, Value: "Medium"}}, priority.Choices)

	category, _ := first.Field("category")
	assert.Equal(t, []domain.FieldChoice{{Value: "Hardware"}, {Value: "Software"}}, category.Choices)

	gw.AssertNumberOfCalls(t, "Call", 1)
}

func TestDiscoverFields_UnknownEntity(t *testing.T) {
	gw := new(MockGateway)
	uc, _ := newDiscoverer(t, gw)

	_, err := uc.Discover(context.Background(), "spaceship")

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "unknown entity type 'spaceship'")
	assert.ErrorIs(t, uc.Clear(context.Background(), "spaceship"), domain.ErrValidation)
	gw.AssertNotCalled(t, "Call", mock.Anything, mock.Anything)
}

func TestDiscoverFields_ForceRefresh(t *testing.T) {
	ctx := context.Background()
	updated := map[string]any{"change_fields": []any{map[string]any{"name": "risk"}}}
	outage := &domain.UpstreamError{Kind: domain.UpstreamTransport, Method: http.MethodGet, Path: "change_form_fields", Err: fmt.Errorf("connection refused")}

	t.Run("always fetches and writes through", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Call", mock.Anything, callTo(http.MethodGet, "change_form_fields")).
			Return(&domain.Response{Payload: ticketFieldsPayload()}, nil).Once()
		gw.On("Call", mock.Anything, callTo(http.MethodGet, "change_form_fields")).
			Return(&domain.Response{Payload: updated}, nil).Once()
		uc, cache := newDiscoverer(t, gw)

		_, err := uc.Discover(ctx, "change")
		require.NoError(t, err)
		refreshed, err := uc.ForceRefresh(ctx, "change")
		require.NoError(t, err)
		assert.Equal(t, []string{"risk"}, refreshed.Names())

		cached, ok := cache.Get(ctx, "change")
		require.True(t, ok)
		assert.Equal(t, []string{"risk"}, cached.Names())
		gw.AssertNumberOfCalls(t, "Call", 2)
	})

	t.Run("falls back to a valid cached schema", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Call", mock.Anything, callTo(http.MethodGet, "change_form_fields")).
			Return(&domain.Response{Payload: updated}, nil).Once()
		gw.On("Call", mock.Anything, callTo(http.MethodGet, "change_form_fields")).
			Return(nil, outage).Once()
		uc, _ := newDiscoverer(t, gw)

		_, err := uc.Discover(ctx, "change")
		require.NoError(t, err)
		schema, err := uc.ForceRefresh(ctx, "change")
		require.NoError(t, err)
		assert.Equal(t, []string{"risk"}, schema.Names())
	})

	t.Run("fails without a cached schema", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Call", mock.Anything, callTo(http.MethodGet, "change_form_fields")).Return(nil, outage).Once()
		uc, _ := newDiscoverer(t, gw)

		_, err := uc.ForceRefresh(ctx, "change")
		require.ErrorIs(t, err, domain.ErrUpstream)
		assert.Contains(t, err.Error(), "failed to fetch change fields")
	})
}

func TestDiscoverFields_MalformedPayload(t *testing.T) {
	gw := new(MockGateway)
	gw.On("Call", mock.Anything, callTo(http.MethodGet, "agent_fields")).
		Return(&domain.Response{StatusCode: 200, Payload: "not a list"}, nil).Once()
	uc, cache := newDiscoverer(t, gw)

	_, err := uc.Discover(context.Background(), "agent")

	var ue *domain.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, domain.UpstreamDecode, ue.Kind)
	_, ok := cache.Get(context.Background(), "agent")
	assert.False(t, ok, "failed fetches are not cached")
}

func TestDiscoverFields_PaginatedEntity(t *testing.T) {
	fullPage := make([]any, 100)
	for i := range fullPage {
		fullPage[i] = map[string]any{"name": fmt.Sprintf("type_%d", i)}
	}
	lastPage := []any{map[string]any{"name": "laptop"}, map[string]any{"name": "server"}}

	page := func(n string) any {
		return mock.MatchedBy(func(c domain.Call) bool {
			return c.Path == "asset_types" && c.Query.Get("page") == n && c.Query.Get("per_page") == "100"
		})
	}
	gw := new(MockGateway)
	gw.On("Call", mock.Anything, page("1")).Return(&domain.Response{Payload: fullPage}, nil).Once()
	gw.On("Call", mock.Anything, page("2")).Return(&domain.Response{Payload: lastPage}, nil).Once()
	uc, _ := newDiscoverer(t, gw)

	schema, err := uc.Discover(context.Background(), "asset_type")

	require.NoError(t, err)
	assert.Len(t, schema.Fields, 102)
	assert.Equal(t, "server", schema.Fields[101].Name)
	gw.AssertExpectations(t)
}

func TestDiscoverFields_MalformedPage(t *testing.T) {
	ctx := context.Background()
	gw := new(MockGateway)
	gw.On("Call", mock.Anything, callTo(http.MethodGet, "asset_types")).
		Return(&domain.Response{StatusCode: 200, Payload: map[string]any{"message": "maintenance"}}, nil).Twice()
	uc, cache := newDiscoverer(t, gw)

	_, err := uc.Discover(ctx, "asset_type")

	var ue *domain.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, domain.UpstreamDecode, ue.Kind)
	assert.Equal(t, "asset_types", ue.Path)
	_, ok := cache.Get(ctx, "asset_type")
	assert.False(t, ok, "a page without a field list is not cached as an empty schema")

	_, err = uc.Discover(ctx, "asset_type")
	require.ErrorIs(t, err, domain.ErrUpstream)
	gw.AssertNumberOfCalls(t, "Call", 2)
}

func TestDiscoverFields_PersistsAcrossProcesses(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	gw := new(MockGateway)
	gw.On("Call", mock.Anything, callTo(http.MethodGet, "ticket_form_fields")).
		Return(&domain.Response{StatusCode: 200, Payload: ticketFieldsPayload()}, nil).Once()
	uc, _ := newDiscovererIn(t, gw, dir)

	discovered, err := uc.Discover(ctx, "ticket")
	require.NoError(t, err)

	// A fresh process starts with an empty memory tier over the same dir.
	disk, err := fieldcache.NewDiskTier(dir)
	require.NoError(t, err)
	restarted := fieldcache.New(fieldcache.NewMemoryTier(), disk, discardLogger())

	schema, ok := restarted.Get(ctx, "ticket")
	require.True(t, ok)
	assert.Equal(t, discovered.Names(), schema.Names())
	assert.True(t, discovered.FetchedAt.Equal(schema.FetchedAt))

	again := usecase.NewDiscoverFieldsUseCase(restarted, gw, catalog.FieldEndpoints(), time.Hour, discardLogger())
	_, err = again.Discover(ctx, "ticket")
	require.NoError(t, err)
	gw.AssertNumberOfCalls(t, "Call", 1)
}

// blockingGateway holds every call until release is closed or the call's
// context ends.
type blockingGateway struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	calls   atomic.Int32
}

func (g *blockingGateway) Call(ctx context.Context, _ domain.Call) (*domain.Response, error) {
	g.calls.Add(1)
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
		return &domain.Response{StatusCode: 200, Payload: ticketFieldsPayload()}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestDiscoverFields_SharedFetchSurvivesCallerCancel(t *testing.T) {
	gw := &blockingGateway{started: make(chan struct{}), release: make(chan struct{})}
	uc, cache := newDiscoverer(t, gw)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := uc.Discover(ctxA, "change")
		errA <- err
	}()
	<-gw.started

	type result struct {
		schema domain.FieldSchema
		err    error
	}
	resB := make(chan result, 1)
	go func() {
		schema, err := uc.Discover(context.Background(), "change")
		resB <- result{schema, err}
	}()
	// Give B time to join the in-flight fetch.
	time.Sleep(50 * time.Millisecond)

	cancelA()
	err := <-errA
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "failed to fetch change fields")

	close(gw.release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, []string{"priority", "category", "sub_category"}, b.schema.Names())
	assert.EqualValues(t, 1, gw.calls.Load())

	_, ok := cache.Get(context.Background(), "change")
	assert.True(t, ok, "the shared fetch is cached even though its first caller left")
}

func TestDiscoverFields_Clear(t *testing.T) {
	ctx := context.Background()
	gw := new(MockGateway)
	gw.On("Call", mock.Anything, callTo(http.MethodGet, "ticket_form_fields")).
		Return(&domain.Response{Payload: ticketFieldsPayload()}, nil).Times(3)
	uc, _ := newDiscoverer(t, gw)

	_, err := uc.Discover(ctx, "ticket")
	require.NoError(t, err)
	require.NoError(t, uc.Clear(ctx, "ticket"))
	require.NoError(t, uc.Clear(ctx, "ticket"))
	_, err = uc.Discover(ctx, "ticket")
	require.NoError(t, err)
	require.NoError(t, uc.ClearAll(ctx))
	_, err = uc.Discover(ctx, "ticket")
	require.NoError(t, err)

	gw.AssertNumberOfCalls(t, "Call", 3)
	assert.Equal(t, []string{"agent", "asset_type", "change", "department", "problem", "release", "requester", "ticket"}, uc.Entities())
}
