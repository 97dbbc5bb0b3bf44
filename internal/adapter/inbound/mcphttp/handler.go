package mcphttp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

// FieldAdmin is the field discovery surface exposed to operators.
type FieldAdmin interface {
	ForceRefresh(ctx context.Context, entity string) (domain.FieldSchema, error)
	Clear(ctx context.Context, entity string) error
	ClearAll(ctx context.Context) error
}

// Handlers struct holds dependencies for the HTTP handlers.
type Handlers struct {
	fields FieldAdmin
	logger *slog.Logger
}

// NewHandlers creates a new Handlers struct.
func NewHandlers(fields FieldAdmin, logger *slog.Logger) *Handlers {
	return &Handlers{
		fields: fields,
		logger: logger.With("component", "mcphttp_handler"),
	}
}

// RegisterAdminRoutes sets up the HTTP routes for admin endpoints.
func (h *Handlers) RegisterAdminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("POST /admin/fields/{entity}/refresh", h.handleRefresh)
	mux.HandleFunc("DELETE /admin/fields/{entity}", h.handleClear)
	mux.HandleFunc("DELETE /admin/fields", h.handleClearAll)
}

func (h *Handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRefresh implements POST /admin/fields/{entity}/refresh
func (h *Handlers) handleRefresh(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	h.logger.Info("Received field refresh request", slog.String("entity", entity))

	schema, err := h.fields.ForceRefresh(r.Context(), entity)
	if err != nil {
		h.logger.Error("Failed to refresh fields", slog.String("entity", entity), slog.Any("error", err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entity":      entity,
		"fetched_at":  schema.FetchedAt,
		"field_count": len(schema.Fields),
	})
}

// handleClear implements DELETE /admin/fields/{entity}
func (h *Handlers) handleClear(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	if err := h.fields.Clear(r.Context(), entity); err != nil {
		h.logger.Error("Failed to clear fields", slog.String("entity", entity), slog.Any("error", err))
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClearAll implements DELETE /admin/fields
func (h *Handlers) handleClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.fields.ClearAll(r.Context()); err != nil {
		h.logger.Error("Failed to clear field caches", slog.Any("error", err))
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUpstream):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
