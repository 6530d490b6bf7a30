package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DispatchQueueKey is the Redis sorted set holding queued dispatch jobs,
// scored by the time they become ready.
const DispatchQueueKey = "dispatch_queue"

// DispatchJob is one durable "run dispatch with this event" record. The
// worker may execute it more than once under crash/retry, so handlers must
// tolerate duplicate delivery.
type DispatchJob struct {
	ID      string `json:"id"`
	Event   Event  `json:"event"`
	Attempt int    `json:"attempt"`
}

// DeferredPublisher serializes events into the Redis dispatch queue. The
// event survives a process restart between publish and execution, at the
// cost of latency and at-least-once semantics.
type DeferredPublisher struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

func NewDeferredPublisher(redisClient *redis.Client, logger *slog.Logger) *DeferredPublisher {
	return &DeferredPublisher{redisClient: redisClient, logger: logger}
}

// Publish enqueues a dispatch job for the event. It returns once the job is
// durably queued.
func (p *DeferredPublisher) Publish(ctx context.Context, event Event) error {
	if event.Type == "" {
		return fmt.Errorf("event type is required")
	}

	job := DispatchJob{
		ID:      uuid.NewString(),
		Event:   event,
		Attempt: 1,
	}

	jobBytes, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshaling dispatch job: %w", err)
	}

	err = p.redisClient.ZAdd(ctx, DispatchQueueKey, redis.Z{
		Score:  float64(time.Now().UnixMicro()),
		Member: string(jobBytes),
	}).Err()
	if err != nil {
		return fmt.Errorf("queuing dispatch job: %w", err)
	}

	p.logger.Info("event published",
		"event_type", event.Type,
		"mode", "deferred",
		"job_id", job.ID,
	)
	return nil
}

// QueueDepth returns the number of jobs waiting in the dispatch queue.
func (p *DeferredPublisher) QueueDepth(ctx context.Context) (int64, error) {
	return p.redisClient.ZCard(ctx, DispatchQueueKey).Result()
}
