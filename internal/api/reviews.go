package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/openpioneer/marketplace-notify/internal/events"
)

// The lowest tier on the review rating scale. Trust Protect forces a rating
// down to this value when it fires.
const ratingVeryNegative = 0

// ReviewHandler applies Trust Protect adjustments. The review mutation
// itself lives with the review collaborator; this endpoint routes the
// resulting notification through the event system on the immediate path so
// the reviewer hears about the adjustment right away.
type ReviewHandler struct {
	publisher events.Publisher
	logger    *slog.Logger
}

func NewReviewHandler(publisher events.Publisher, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{publisher: publisher, logger: logger}
}

type trustProtectRequest struct {
	ReviewGiverID  string `json:"review_giver_id"`
	AdjustedRating int    `json:"adjusted_rating"`
}

func (h *ReviewHandler) ApplyTrustProtect(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")

	var req trustProtectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ReviewGiverID == "" {
		respondError(w, http.StatusBadRequest, "review_giver_id is required")
		return
	}

	notified := false
	if req.AdjustedRating == ratingVeryNegative {
		event := events.NewTrustProtectEvent(req.ReviewGiverID, reviewID)
		if err := h.publisher.Publish(r.Context(), event); err != nil {
			h.logger.Warn("failed to publish trust-protect event",
				"review_id", reviewID,
				"error", err,
			)
		} else {
			notified = true
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"review_id": reviewID,
		"notified":  notified,
	})
}
