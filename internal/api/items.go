package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/openpioneer/marketplace-notify/internal/domain"
	"github.com/openpioneer/marketplace-notify/internal/listing"
	"github.com/openpioneer/marketplace-notify/internal/store"
)

// ItemHandler manages seller listings. Duration changes are charged or
// refunded against the seller's balance in whole weeks; the expiry date is
// always derived, never set by the caller.
type ItemHandler struct {
	store  *store.PostgresStore
	calc   *listing.ExpiryCalculator
	logger *slog.Logger
}

func NewItemHandler(s *store.PostgresStore, calc *listing.ExpiryCalculator, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{store: s, calc: calc, logger: logger}
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SellerID == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "seller_id and name are required")
		return
	}

	duration := listing.NormalizeDuration(req.Duration)
	level := req.StockLevel
	if level == "" {
		level = domain.StockAvailable1
	}

	if err := h.store.DeductBalance(r.Context(), req.SellerID, duration); err != nil {
		if errors.Is(err, store.ErrInsufficientBalance) {
			respondError(w, http.StatusPaymentRequired, "insufficient balance for listing duration")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to charge listing")
		return
	}

	now := time.Now()
	expiredBy := now.Add(time.Duration(duration) * listing.Week)

	item, err := h.store.CreateSellerItem(r.Context(), req.SellerID, req.Name, duration, expiredBy, level)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	existing, err := h.store.GetSellerItem(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "item not found")
		return
	}

	name := existing.Name
	if req.Name != nil {
		name = *req.Name
	}

	requestedDuration := existing.Duration
	if req.Duration != nil {
		requestedDuration = *req.Duration
	}

	now := time.Now()
	change := h.calc.ChangeInWeeks(existing, requestedDuration, now)

	switch {
	case change > 0:
		// Extending the listing: charge the extra weeks up front.
		if err := h.store.DeductBalance(r.Context(), existing.SellerID, change); err != nil {
			if errors.Is(err, store.ErrInsufficientBalance) {
				respondError(w, http.StatusPaymentRequired, "insufficient balance for duration extension")
				return
			}
			respondError(w, http.StatusInternalServerError, "failed to charge extension")
			return
		}
	case change < 0:
		if err := h.store.CreditBalance(r.Context(), existing.SellerID, -change, "refund"); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to refund weeks")
			return
		}
	}

	newDuration := existing.Duration
	if change != 0 || listing.IsExpired(existing, now) {
		newDuration = listing.NormalizeDuration(requestedDuration)
	}
	expiredBy := h.calc.NewExpiry(existing, requestedDuration, now)

	item, err := h.store.UpdateSellerItem(r.Context(), id, name, newDuration, expiredBy)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.store.GetSellerItem(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "item not found")
		return
	}

	respondJSON(w, http.StatusOK, item)
}
