package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements a per-recipient sliding window limiter on the
// notification create path, backed by a Redis sorted set. A Lua script
// atomically trims expired entries, checks the count, and records the new
// request.
type RateLimiter struct {
	redisClient *redis.Client
	logger      *slog.Logger
	script      *redis.Script
}

var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, member)
    redis.call('EXPIRE', key, window / 1000 + 1)
    return 1
else
    return 0
end
`)

func NewRateLimiter(redisClient *redis.Client, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		redisClient: redisClient,
		logger:      logger,
		script:      slidingWindowScript,
	}
}

func rateKey(recipientID string) string {
	return fmt.Sprintf("nrl:%s", recipientID)
}

// Allow checks whether another notification may be created for the recipient
// within the one-second window. A limit of zero disables limiting, and Redis
// failures fail open.
func (rl *RateLimiter) Allow(ctx context.Context, recipientID string, limit int) bool {
	if limit <= 0 {
		return true
	}

	key := rateKey(recipientID)
	now := time.Now().UnixMilli()
	window := int64(1000)
	member := fmt.Sprintf("%d:%d", now, time.Now().UnixNano()%10000)

	result, err := rl.script.Run(ctx, rl.redisClient, []string{key},
		now, window, limit, member,
	).Int64()
	if err != nil {
		rl.logger.Error("rate limiter script failed", "error", err, "recipient_id", recipientID)
		return true
	}

	if result == 0 {
		rl.logger.Debug("notification rate limited", "recipient_id", recipientID, "limit", limit)
		return false
	}

	return true
}
