package events

import (
	"context"
	"testing"
	"time"
)

func TestImmediatePublisher_DeliversToRegistry(t *testing.T) {
	registry := NewRegistry(testLogger())
	h := &stubHandler{eventType: TypeOrderCreated}
	registry.Register(h)

	pub := NewImmediatePublisher(registry, testLogger())
	pub.Start(context.Background())

	if err := pub.Publish(context.Background(), NewOrderCreatedEvent("buyer-1", "placed")); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	// Stop drains in-flight events before returning.
	pub.Stop()

	if got := h.calls.Load(); got != 1 {
		t.Errorf("handler called %d times, want 1", got)
	}
}

func TestImmediatePublisher_RejectsEmptyType(t *testing.T) {
	pub := NewImmediatePublisher(NewRegistry(testLogger()), testLogger())
	pub.Start(context.Background())
	defer pub.Stop()

	if err := pub.Publish(context.Background(), Event{}); err == nil {
		t.Error("expected error for empty event type")
	}
}

func TestImmediatePublisher_MultipleEventsInOrder(t *testing.T) {
	registry := NewRegistry(testLogger())
	h := &stubHandler{eventType: TypeSanction}
	registry.Register(h)

	pub := NewImmediatePublisher(registry, testLogger())
	pub.Start(context.Background())

	for i := 0; i < 5; i++ {
		if err := pub.Publish(context.Background(), NewSanctionEvent("seller-1", true)); err != nil {
			t.Fatalf("publish %d failed: %v", i, err)
		}
	}
	pub.Stop()

	if got := h.calls.Load(); got != 5 {
		t.Errorf("handler called %d times, want 5", got)
	}
}

func TestImmediatePublisher_PublishAfterCancelledContext(t *testing.T) {
	pub := NewImmediatePublisher(NewRegistry(testLogger()), testLogger())
	pub.Start(context.Background())
	defer pub.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The buffer has room, so the send wins the select or the context error
	// surfaces; either way Publish must return promptly.
	done := make(chan struct{})
	go func() {
		_ = pub.Publish(ctx, NewSanctionEvent("seller-1", true))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish did not return promptly")
	}
}
