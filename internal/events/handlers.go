package events

import (
	"context"
	"log/slog"

	"github.com/openpioneer/marketplace-notify/internal/domain"
)

// NotificationCreator persists a notification for a recipient. Implemented
// by the postgres store.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, recipientID, reason string) (*domain.Notification, error)
}

// Broadcaster pushes a freshly created notification to live feed clients.
// Implemented by the websocket hub; may be nil when no feed is attached.
type Broadcaster interface {
	BroadcastNotification(n domain.Notification)
}

const (
	sanctionedMessage   = "Your Sell Center is in a sanctioned area, so your map marker will no longer appear in searches."
	unsanctionedMessage = "Your Sell Center is no longer in a sanctioned area, so your map marker will now be visible in searches."
	trustProtectMessage = "Your review has been adjusted by Trust Protect. You can reverse the rating in the review screen."
)

// SanctionHandler notifies a seller whose sanction status flipped. A failed
// notification write is logged and swallowed: sanction processing must never
// block on notification delivery, and the registry insulates it a second
// time.
type SanctionHandler struct {
	notifications NotificationCreator
	feed          Broadcaster
	logger        *slog.Logger
}

func NewSanctionHandler(notifications NotificationCreator, feed Broadcaster, logger *slog.Logger) *SanctionHandler {
	return &SanctionHandler{notifications: notifications, feed: feed, logger: logger}
}

func (h *SanctionHandler) Supports(event Event) bool {
	return event.Type == TypeSanction
}

func (h *SanctionHandler) Handle(ctx context.Context, event Event) error {
	sellerID := stringField(event.Payload, "seller_id")
	if sellerID == "" {
		h.logger.Warn("sanction event missing seller_id")
		return nil
	}

	reason := unsanctionedMessage
	if boolField(event.Payload, "is_restricted") {
		reason = sanctionedMessage
	}

	n, err := h.notifications.CreateNotification(ctx, sellerID, reason)
	if err != nil {
		h.logger.Warn("failed to add sanction notification",
			"seller_id", sellerID,
			"error", err,
		)
		return nil
	}

	if h.feed != nil {
		h.feed.BroadcastNotification(*n)
	}
	return nil
}

// OrderHandler notifies the order's recipient with the freeform reason
// carried in the payload.
type OrderHandler struct {
	notifications NotificationCreator
	feed          Broadcaster
	logger        *slog.Logger
}

func NewOrderHandler(notifications NotificationCreator, feed Broadcaster, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{notifications: notifications, feed: feed, logger: logger}
}

func (h *OrderHandler) Supports(event Event) bool {
	return event.Type == TypeOrderCreated
}

func (h *OrderHandler) Handle(ctx context.Context, event Event) error {
	recipientID := stringField(event.Payload, "recipient_id")
	reason := stringField(event.Payload, "reason")
	if recipientID == "" || reason == "" {
		h.logger.Warn("order event missing recipient_id or reason")
		return nil
	}

	n, err := h.notifications.CreateNotification(ctx, recipientID, reason)
	if err != nil {
		h.logger.Warn("failed to add order notification",
			"recipient_id", recipientID,
			"error", err,
		)
		return nil
	}

	if h.feed != nil {
		h.feed.BroadcastNotification(*n)
	}
	return nil
}

// TrustProtectHandler notifies a review giver whose rating was forcibly
// adjusted down. The adjustment itself happens in the review operation; only
// the notification is routed through the event system.
type TrustProtectHandler struct {
	notifications NotificationCreator
	feed          Broadcaster
	logger        *slog.Logger
}

func NewTrustProtectHandler(notifications NotificationCreator, feed Broadcaster, logger *slog.Logger) *TrustProtectHandler {
	return &TrustProtectHandler{notifications: notifications, feed: feed, logger: logger}
}

func (h *TrustProtectHandler) Supports(event Event) bool {
	return event.Type == TypeTrustProtect
}

func (h *TrustProtectHandler) Handle(ctx context.Context, event Event) error {
	giverID := stringField(event.Payload, "review_giver_id")
	if giverID == "" {
		h.logger.Warn("trust-protect event missing review_giver_id")
		return nil
	}

	n, err := h.notifications.CreateNotification(ctx, giverID, trustProtectMessage)
	if err != nil {
		h.logger.Warn("failed to add trust-protect notification",
			"review_giver_id", giverID,
			"error", err,
		)
		return nil
	}

	if h.feed != nil {
		h.feed.BroadcastNotification(*n)
	}
	return nil
}
