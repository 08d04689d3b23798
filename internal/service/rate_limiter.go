package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cropsight/auth-service/pkg/database"
	"github.com/redis/go-redis/v9"
)

// MemoryRateLimiter is a process-local sliding-window limiter keyed by email.
// State is not shared across instances and resets on restart; in a
// horizontally scaled deployment the limit is per-instance.
type MemoryRateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	limit    int
	window   time.Duration
}

// NewMemoryRateLimiter creates an in-memory rate limiter. A background
// goroutine evicts idle keys so the map does not grow unbounded.
func NewMemoryRateLimiter(limit int, window time.Duration) *MemoryRateLimiter {
	rl := &MemoryRateLimiter{
		attempts: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
	go rl.cleanup()
	return rl
}

// Allow implements ResetRateLimiter.
func (rl *MemoryRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	recent := rl.attempts[key][:0]
	for _, t := range rl.attempts[key] {
		if now.Sub(t) < rl.window {
			recent = append(recent, t)
		}
	}

	if len(recent) >= rl.limit {
		rl.attempts[key] = recent
		return false, nil
	}

	rl.attempts[key] = append(recent, now)
	return true, nil
}

func (rl *MemoryRateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.mu.Lock()
		for key, times := range rl.attempts {
			if len(times) == 0 || now.Sub(times[len(times)-1]) > rl.window {
				delete(rl.attempts, key)
			}
		}
		rl.mu.Unlock()
	}
}

// RedisRateLimiter is a sliding-window-log limiter backed by a Redis sorted
// set. Unlike MemoryRateLimiter the window is shared across all instances.
type RedisRateLimiter struct {
	redis  *database.Redis
	limit  int
	window time.Duration
}

// NewRedisRateLimiter creates a Redis-backed rate limiter
func NewRedisRateLimiter(redis *database.Redis, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{redis: redis, limit: limit, window: window}
}

// Allow implements ResetRateLimiter.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-rl.window)
	redisKey := fmt.Sprintf("resetlimit:%s", key)

	err := rl.redis.Client.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.UnixNano())).Err()
	if err != nil {
		return false, fmt.Errorf("failed to clean old entries: %w", err)
	}

	count, err := rl.redis.Client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count entries: %w", err)
	}

	if count >= int64(rl.limit) {
		return false, nil
	}

	err = rl.redis.Client.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	}).Err()
	if err != nil {
		return false, fmt.Errorf("failed to record attempt: %w", err)
	}

	if err := rl.redis.Client.Expire(ctx, redisKey, rl.window+time.Minute).Err(); err != nil {
		// The key still self-cleans through ZRemRangeByScore on later calls.
		_ = err
	}

	return true, nil
}
