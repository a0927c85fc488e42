package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "rl:"

// RedisStore shares rate-limit state across instances through fixed
// one-window counters. INCR is atomic, so a fleet never over-admits; the
// trade-off against the in-memory sliding window is that a burst straddling
// a window boundary can briefly see up to twice the budget.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedis constructs a Redis-backed store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit Limit) (Result, error) {
	now := s.now()
	windowSecs := int64(limit.Window / time.Second)
	if windowSecs < 1 {
		windowSecs = 1
	}
	index := now.Unix() / windowSecs
	bucket := redisKeyPrefix + key + ":" + strconv.FormatInt(index, 10)
	resetAt := time.Unix((index+1)*windowSecs, 0)

	// The window lives in the key, so the TTL only garbage-collects stale
	// buckets; refreshing it on every request cannot stretch the window.
	pipe := s.client.TxPipeline()
	countCmd := pipe.Incr(ctx, bucket)
	pipe.Expire(ctx, bucket, limit.Window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("rate limit incr: %w", err)
	}

	count := int(countCmd.Val())
	if count > limit.Requests {
		return Result{Allowed: false, Limit: limit.Requests, Remaining: 0, ResetAt: resetAt}, nil
	}
	return Result{
		Allowed:   true,
		Limit:     limit.Requests,
		Remaining: limit.Requests - count,
		ResetAt:   resetAt,
	}, nil
}
