package usecase_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

// MockGateway is a mock implementation of the Gateway interface.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Call(ctx context.Context, call domain.Call) (*domain.Response, error) {
	args := m.Called(ctx, call)
	resp, _ := args.Get(0).(*domain.Response)
	return resp, args.Error(1)
}

// MockFieldDiscoverer is a mock implementation of the FieldDiscoverer interface.
type MockFieldDiscoverer struct {
	mock.Mock
}

func (m *MockFieldDiscoverer) Discover(ctx context.Context, entity string) (domain.FieldSchema, error) {
	args := m.Called(ctx, entity)
	return args.Get(0).(domain.FieldSchema), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// callTo matches an upstream call by method and path.
func callTo(method, path string) any {
	return mock.MatchedBy(func(c domain.Call) bool {
		return c.Method == method && c.Path == path
	})
}
