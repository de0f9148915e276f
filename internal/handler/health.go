package handler

import (
	"net/http"

	"github.com/nova-ai/movie-recommender/internal/catalog"
	"github.com/nova-ai/movie-recommender/internal/events"
	"github.com/nova-ai/movie-recommender/internal/vecindex"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	store     *catalog.Store
	index     *vecindex.Index
	publisher *events.Publisher
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store *catalog.Store, index *vecindex.Index, publisher *events.Publisher) *HealthHandler {
	return &HealthHandler{
		store:     store,
		index:     index,
		publisher: publisher,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.store == nil || !h.store.Loaded() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "catalog not loaded",
		})
		return
	}

	if h.index == nil || h.index.Count() == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "vector index not loaded",
		})
		return
	}

	// The event publisher is optional; only report it when configured.
	if h.publisher != nil && !h.publisher.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "event stream not connected",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
