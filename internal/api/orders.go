package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/openpioneer/marketplace-notify/internal/domain"
	"github.com/openpioneer/marketplace-notify/internal/events"
	"github.com/openpioneer/marketplace-notify/internal/listing"
	"github.com/openpioneer/marketplace-notify/internal/store"
)

// OrderHandler places and cancels orders. Stock transitions are validated by
// the stock state machine; the buyer is notified through the event system on
// the durable path.
type OrderHandler struct {
	store     *store.PostgresStore
	publisher events.Publisher
	logger    *slog.Logger
}

func NewOrderHandler(s *store.PostgresStore, publisher events.Publisher, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{store: s, publisher: publisher, logger: logger}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ItemID == "" || req.BuyerID == "" {
		respondError(w, http.StatusBadRequest, "item_id and buyer_id are required")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	item, err := h.store.GetSellerItem(r.Context(), req.ItemID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "item not found")
		return
	}

	next, err := listing.NextStockOnConsume(item.StockLevel, req.Quantity)
	if err != nil {
		var stockErr *listing.StockValidationError
		if errors.As(err, &stockErr) {
			respondError(w, http.StatusUnprocessableEntity, stockErr.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to validate stock")
		return
	}

	if next != nil {
		if err := h.store.SetStockLevel(r.Context(), item.ID, *next); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to update stock")
			return
		}
	}

	order, err := h.store.CreateOrder(r.Context(), req.ItemID, req.BuyerID, req.Quantity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	reason := fmt.Sprintf("Your order for %q has been placed.", item.Name)
	event := events.NewOrderCreatedEvent(req.BuyerID, reason)
	if err := h.publisher.Publish(r.Context(), event); err != nil {
		// The order stands; the notification is best effort.
		h.logger.Warn("failed to publish order event", "order_id", order.ID, "error", err)
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.store.CancelOrder(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to cancel order")
		return
	}
	if order == nil {
		respondError(w, http.StatusNotFound, "order not found or already cancelled")
		return
	}

	item, err := h.store.GetSellerItem(r.Context(), order.ItemID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get item")
		return
	}

	if item != nil {
		// Rolling back beyond tracked capacity is a silent no-op.
		if next := listing.NextStockOnRollback(item.StockLevel, order.Quantity); next != nil {
			if err := h.store.SetStockLevel(r.Context(), item.ID, *next); err != nil {
				respondError(w, http.StatusInternalServerError, "failed to restore stock")
				return
			}
		}
	}

	event := events.NewOrderCreatedEvent(order.BuyerID, "Your order has been cancelled and refunded.")
	if err := h.publisher.Publish(r.Context(), event); err != nil {
		h.logger.Warn("failed to publish cancellation event", "order_id", order.ID, "error", err)
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get order")
		return
	}
	if order == nil {
		respondError(w, http.StatusNotFound, "order not found")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
