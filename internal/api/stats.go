package api

import (
	"net/http"
	"strconv"

	"github.com/openpioneer/marketplace-notify/internal/events"
	"github.com/openpioneer/marketplace-notify/internal/store"
	ws "github.com/openpioneer/marketplace-notify/internal/websocket"
)

// StatsHandler serves operational metrics and the dispatch audit trail.
type StatsHandler struct {
	store    *store.PostgresStore
	deferred *events.DeferredPublisher
	hub      *ws.Hub
}

func NewStatsHandler(s *store.PostgresStore, deferred *events.DeferredPublisher, hub *ws.Hub) *StatsHandler {
	return &StatsHandler{store: s, deferred: deferred, hub: hub}
}

// Metrics returns aggregated system metrics.
func (h *StatsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.store.GetSystemMetrics(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get metrics")
		return
	}

	queueDepth, err := h.deferred.QueueDepth(r.Context())
	if err != nil {
		queueDepth = 0
	}

	type metricsResponse struct {
		store.SystemMetrics
		QueueDepth       int64 `json:"queue_depth"`
		WebSocketClients int   `json:"websocket_clients"`
	}

	respondJSON(w, http.StatusOK, metricsResponse{
		SystemMetrics:    *metrics,
		QueueDepth:       queueDepth,
		WebSocketClients: h.hub.ClientCount(),
	})
}

// Dispatches lists the dispatch attempt audit trail.
func (h *StatsHandler) Dispatches(w http.ResponseWriter, r *http.Request) {
	eventType := r.URL.Query().Get("event_type")
	status := r.URL.Query().Get("status")
	limitStr := r.URL.Query().Get("limit")

	limit := 50
	if limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	attempts, err := h.store.ListDispatchAttempts(r.Context(), eventType, status, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list dispatch attempts")
		return
	}

	respondJSON(w, http.StatusOK, attempts)
}
