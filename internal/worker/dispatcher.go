package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/openpioneer/marketplace-notify/internal/events"
	"github.com/redis/go-redis/v9"
)

// Dispatcher polls the Redis dispatch queue on an interval and hands ready
// jobs to the worker pool. Claiming a job removes it from the queue first,
// so concurrent dispatcher instances never run the same job member twice.
type Dispatcher struct {
	redisClient  *redis.Client
	pool         *Pool
	logger       *slog.Logger
	pollInterval time.Duration
	batchSize    int64
}

// NewDispatcher creates a dispatcher pulling from the dispatch queue.
func NewDispatcher(redisClient *redis.Client, pool *Pool, pollInterval time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		redisClient:  redisClient,
		pool:         pool,
		logger:       logger,
		pollInterval: pollInterval,
		batchSize:    10,
	}
}

// Start begins the polling loop. It runs until the context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.logger.Info("dispatch queue poller started", "poll_interval", d.pollInterval)

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("dispatch queue poller stopping")
			return
		case <-ticker.C:
			d.poll(ctx)
		}
	}
}

// poll fetches a batch of ready jobs and submits them to the pool.
func (d *Dispatcher) poll(ctx context.Context) {
	now := float64(time.Now().UnixMicro())

	results, err := d.redisClient.ZRangeByScoreWithScores(ctx, events.DispatchQueueKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   formatFloat(now),
		Count: d.batchSize,
	}).Result()
	if err != nil {
		d.logger.Error("failed to poll dispatch queue", "error", err)
		return
	}

	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}

		// Remove from the queue first — if another instance already took
		// it, ZRem returns 0 and we skip.
		removed, err := d.redisClient.ZRem(ctx, events.DispatchQueueKey, member).Result()
		if err != nil {
			d.logger.Error("failed to remove job from dispatch queue", "error", err)
			continue
		}
		if removed == 0 {
			continue
		}

		var job events.DispatchJob
		if err := json.Unmarshal([]byte(member), &job); err != nil {
			// Poison member: dropping it here keeps the queue moving.
			d.logger.Error("dropping malformed dispatch job", "error", err)
			continue
		}

		d.pool.Submit(job)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
