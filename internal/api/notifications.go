package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/openpioneer/marketplace-notify/internal/domain"
	"github.com/openpioneer/marketplace-notify/internal/store"
)

// NotificationHandler serves the user-facing notification surface. The
// recipient is identified by the X-User-ID header set by the (out of scope)
// auth middleware in front of this service.
type NotificationHandler struct {
	store     *store.PostgresStore
	limiter   *store.RateLimiter
	rateLimit int
}

func NewNotificationHandler(s *store.PostgresStore, limiter *store.RateLimiter, rateLimit int) *NotificationHandler {
	return &NotificationHandler{store: s, limiter: limiter, rateLimit: rateLimit}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	recipientID := r.Header.Get("X-User-ID")
	if recipientID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	status := r.URL.Query().Get("status")
	if status != store.StatusCleared && status != store.StatusUncleared {
		status = ""
	}

	page, err := h.store.ListNotifications(r.Context(), recipientID, skip, limit, status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}

	respondJSON(w, http.StatusOK, page)
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	recipientID := r.Header.Get("X-User-ID")
	if recipientID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req domain.CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Reason == "" {
		respondError(w, http.StatusBadRequest, "reason is required")
		return
	}

	if h.limiter != nil && !h.limiter.Allow(r.Context(), recipientID, h.rateLimit) {
		respondError(w, http.StatusTooManyRequests, "too many notifications")
		return
	}

	notification, err := h.store.CreateNotification(r.Context(), recipientID, req.Reason)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create notification")
		return
	}

	respondJSON(w, http.StatusCreated, notification)
}

func (h *NotificationHandler) ToggleCleared(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	notification, err := h.store.ToggleNotificationCleared(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update notification")
		return
	}
	if notification == nil {
		respondError(w, http.StatusNotFound, "notification not found")
		return
	}

	respondJSON(w, http.StatusOK, notification)
}
