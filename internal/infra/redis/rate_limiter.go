// Package redis provides Redis-backed infrastructure: the per-user copy rate
// limiter.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter: INCR on a per-user, per-window key
// with an expiry slightly beyond the window. The quota is shared by every
// instance pointing at the same Redis.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// WithClock is test-only for deterministic windows.
func (l *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	l.now = now
	return l
}

func (l *RateLimiter) Allow(ctx context.Context, userID uuid.UUID) (bool, error) {
	key := l.key(userID)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	return incr.Val() <= int64(l.limit), nil
}

func (l *RateLimiter) key(userID uuid.UUID) string {
	bucket := l.now().Unix() / int64(l.window/time.Second)
	return fmt.Sprintf("quiz:copy:rl:%s:%d", userID, bucket)
}
