package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupDeferred(t *testing.T) (*DeferredPublisher, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewDeferredPublisher(client, testLogger()), client
}

func TestDeferredPublisher_QueuesJob(t *testing.T) {
	pub, client := setupDeferred(t)
	ctx := context.Background()

	event := NewSanctionEvent("seller-1", true)
	if err := pub.Publish(ctx, event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	members, err := client.ZRange(ctx, DispatchQueueKey, 0, -1).Result()
	if err != nil {
		t.Fatalf("reading queue: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("queue holds %d jobs, want 1", len(members))
	}

	var job DispatchJob
	if err := json.Unmarshal([]byte(members[0]), &job); err != nil {
		t.Fatalf("unmarshaling job: %v", err)
	}

	if job.ID == "" {
		t.Error("job should carry a generated id")
	}
	if job.Attempt != 1 {
		t.Errorf("attempt = %d, want 1", job.Attempt)
	}
	if job.Event.Type != TypeSanction {
		t.Errorf("event type %q, want %q", job.Event.Type, TypeSanction)
	}
	if got, _ := job.Event.Payload["seller_id"].(string); got != "seller-1" {
		t.Errorf("seller_id %q, want seller-1", got)
	}
}

func TestDeferredPublisher_RejectsEmptyType(t *testing.T) {
	pub, _ := setupDeferred(t)

	if err := pub.Publish(context.Background(), Event{}); err == nil {
		t.Error("expected error for empty event type")
	}
}

func TestDeferredPublisher_QueueDepth(t *testing.T) {
	pub, _ := setupDeferred(t)
	ctx := context.Background()

	depth, err := pub.QueueDepth(ctx)
	if err != nil {
		t.Fatalf("queue depth: %v", err)
	}
	if depth != 0 {
		t.Errorf("empty queue depth = %d, want 0", depth)
	}

	for i := 0; i < 3; i++ {
		if err := pub.Publish(ctx, NewOrderCreatedEvent("buyer-1", "placed")); err != nil {
			t.Fatalf("publish %d failed: %v", i, err)
		}
	}

	depth, err = pub.QueueDepth(ctx)
	if err != nil {
		t.Fatalf("queue depth: %v", err)
	}
	if depth != 3 {
		t.Errorf("queue depth = %d, want 3", depth)
	}
}

func TestDispatchQueueKey_Constant(t *testing.T) {
	if DispatchQueueKey != "dispatch_queue" {
		t.Errorf("DispatchQueueKey = %q, want %q", DispatchQueueKey, "dispatch_queue")
	}
}
