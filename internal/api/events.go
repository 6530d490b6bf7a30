package api

import (
	"encoding/json"
	"net/http"

	"github.com/openpioneer/marketplace-notify/internal/events"
)

// Delivery modes accepted by the publish endpoint.
const (
	ModeImmediate = "immediate"
	ModeDeferred  = "deferred"
)

// EventHandler lets domain operations publish events over HTTP, choosing
// between the low-latency immediate path and the durable deferred path.
type EventHandler struct {
	immediate events.Publisher
	deferred  events.Publisher
}

func NewEventHandler(immediate, deferred events.Publisher) *EventHandler {
	return &EventHandler{immediate: immediate, deferred: deferred}
}

type publishEventRequest struct {
	Type     string         `json:"type"`
	Payload  map[string]any `json:"payload"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Mode     string         `json:"mode,omitempty"`
}

type publishEventResponse struct {
	EventType string `json:"event_type"`
	Mode      string `json:"mode"`
}

func (h *EventHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req publishEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Type == "" {
		respondError(w, http.StatusBadRequest, "type is required")
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = ModeDeferred
	}

	var publisher events.Publisher
	switch mode {
	case ModeImmediate:
		publisher = h.immediate
	case ModeDeferred:
		publisher = h.deferred
	default:
		respondError(w, http.StatusBadRequest, "mode must be immediate or deferred")
		return
	}

	event := events.Event{
		Type:     req.Type,
		Payload:  req.Payload,
		Metadata: req.Metadata,
	}

	if err := publisher.Publish(r.Context(), event); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to publish event")
		return
	}

	respondJSON(w, http.StatusAccepted, publishEventResponse{
		EventType: req.Type,
		Mode:      mode,
	})
}
