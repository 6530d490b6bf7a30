package events

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/openpioneer/marketplace-notify/internal/domain"
)

// fakeCreator records created notifications and can be made to fail.
type fakeCreator struct {
	created []domain.Notification
	err     error
}

func (f *fakeCreator) CreateNotification(ctx context.Context, recipientID, reason string) (*domain.Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	n := domain.Notification{
		ID:          "n-1",
		RecipientID: recipientID,
		Reason:      reason,
		CreatedAt:   time.Now(),
	}
	f.created = append(f.created, n)
	return &n, nil
}

type fakeFeed struct {
	broadcasts []domain.Notification
}

func (f *fakeFeed) BroadcastNotification(n domain.Notification) {
	f.broadcasts = append(f.broadcasts, n)
}

func TestSanctionHandler_RestrictedMessage(t *testing.T) {
	creator := &fakeCreator{}
	feed := &fakeFeed{}
	h := NewSanctionHandler(creator, feed, testLogger())

	event := NewSanctionEvent("seller-1", true)
	if !h.Supports(event) {
		t.Fatal("sanction handler should support sanction events")
	}

	if err := h.Handle(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(creator.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(creator.created))
	}
	n := creator.created[0]
	if n.RecipientID != "seller-1" {
		t.Errorf("recipient %q, want seller-1", n.RecipientID)
	}
	if !strings.Contains(n.Reason, "no longer appear") {
		t.Errorf("expected restricted message, got %q", n.Reason)
	}
	if len(feed.broadcasts) != 1 {
		t.Errorf("broadcast %d messages, want 1", len(feed.broadcasts))
	}
}

func TestSanctionHandler_UnrestrictedMessage(t *testing.T) {
	creator := &fakeCreator{}
	h := NewSanctionHandler(creator, nil, testLogger())

	if err := h.Handle(context.Background(), NewSanctionEvent("seller-1", false)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(creator.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(creator.created))
	}
	if !strings.Contains(creator.created[0].Reason, "now be visible") {
		t.Errorf("expected unrestricted message, got %q", creator.created[0].Reason)
	}
}

func TestSanctionHandler_SwallowsStoreFailure(t *testing.T) {
	creator := &fakeCreator{err: errors.New("db down")}
	h := NewSanctionHandler(creator, nil, testLogger())

	if err := h.Handle(context.Background(), NewSanctionEvent("seller-1", true)); err != nil {
		t.Errorf("handler should swallow store failures, got %v", err)
	}
}

func TestSanctionHandler_IgnoresOtherEventTypes(t *testing.T) {
	h := NewSanctionHandler(&fakeCreator{}, nil, testLogger())
	if h.Supports(NewOrderCreatedEvent("buyer-1", "placed")) {
		t.Error("sanction handler should not support order events")
	}
}

func TestOrderHandler_CreatesNotificationFromPayload(t *testing.T) {
	creator := &fakeCreator{}
	h := NewOrderHandler(creator, nil, testLogger())

	event := NewOrderCreatedEvent("buyer-1", "Your order has been placed.")
	if !h.Supports(event) {
		t.Fatal("order handler should support order events")
	}

	if err := h.Handle(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(creator.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(creator.created))
	}
	if creator.created[0].Reason != "Your order has been placed." {
		t.Errorf("reason %q not taken from payload", creator.created[0].Reason)
	}
}

func TestOrderHandler_MissingPayloadFields(t *testing.T) {
	creator := &fakeCreator{}
	h := NewOrderHandler(creator, nil, testLogger())

	// A payload with the wrong value type must not produce a notification.
	err := h.Handle(context.Background(), Event{
		Type:    TypeOrderCreated,
		Payload: map[string]any{"recipient_id": 42},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(creator.created) != 0 {
		t.Errorf("created %d notifications for malformed payload, want 0", len(creator.created))
	}
}

func TestTrustProtectHandler_NotifiesReviewGiver(t *testing.T) {
	creator := &fakeCreator{}
	h := NewTrustProtectHandler(creator, nil, testLogger())

	event := NewTrustProtectEvent("giver-1", "review-9")
	if !h.Supports(event) {
		t.Fatal("trust-protect handler should support trust-protect events")
	}

	if err := h.Handle(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(creator.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(creator.created))
	}
	if creator.created[0].RecipientID != "giver-1" {
		t.Errorf("recipient %q, want giver-1", creator.created[0].RecipientID)
	}
	if !strings.Contains(creator.created[0].Reason, "Trust Protect") {
		t.Errorf("unexpected reason %q", creator.created[0].Reason)
	}
}

// A failing handler must not prevent another handler's side effect when both
// support the same event — dispatched through the real registry.
func TestDispatch_FailingHandlerDoesNotBlockNotification(t *testing.T) {
	registry := NewRegistry(testLogger())

	failing := &stubHandler{eventType: TypeOrderCreated, err: errors.New("boom")}
	creator := &fakeCreator{}
	registry.Register(failing)
	registry.Register(NewOrderHandler(creator, nil, testLogger()))

	registry.Dispatch(context.Background(), NewOrderCreatedEvent("buyer-1", "placed"))

	if len(creator.created) != 1 {
		t.Errorf("created %d notifications, want 1", len(creator.created))
	}
}
