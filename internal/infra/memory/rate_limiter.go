package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RateLimiter is a fixed-window per-user counter, the in-process analogue of
// the Redis limiter.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[uuid.UUID]*window
}

type window struct {
	start time.Time
	count int
}

func NewRateLimiter(limit int, windowSize time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  windowSize,
		now:     time.Now,
		windows: make(map[uuid.UUID]*window),
	}
}

// WithClock is test-only for deterministic windows.
func (l *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	l.now = now
	return l
}

func (l *RateLimiter) Allow(_ context.Context, userID uuid.UUID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[userID]
	if !ok || now.Sub(w.start) >= l.window {
		w = &window{start: now}
		l.windows[userID] = w
	}
	if w.count >= l.limit {
		return false, nil
	}
	w.count++
	return true, nil
}
