package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRateLimiter(client, limit, window), mr
}

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter(t, 3, time.Hour)
	user := uuid.New()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, user)
		if err != nil {
			t.Fatalf("allow %d: %v", i+1, err)
		}
		if !ok {
			t.Fatalf("call %d should be within quota", i+1)
		}
	}
	ok, err := limiter.Allow(ctx, user)
	if err != nil {
		t.Fatalf("allow over limit: %v", err)
	}
	if ok {
		t.Fatalf("call over the quota must be denied")
	}
}

func TestRateLimiterIsPerUser(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter(t, 1, time.Hour)
	alice, bob := uuid.New(), uuid.New()

	if ok, _ := limiter.Allow(ctx, alice); !ok {
		t.Fatalf("alice's first call denied")
	}
	if ok, _ := limiter.Allow(ctx, alice); ok {
		t.Fatalf("alice's second call must be denied")
	}
	if ok, _ := limiter.Allow(ctx, bob); !ok {
		t.Fatalf("bob must have his own quota")
	}
}

func TestRateLimiterWindowRollover(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter(t, 1, time.Hour)
	user := uuid.New()

	base := time.Unix(1_700_000_000, 0)
	limiter.WithClock(func() time.Time { return base })

	if ok, _ := limiter.Allow(ctx, user); !ok {
		t.Fatalf("first window call denied")
	}
	if ok, _ := limiter.Allow(ctx, user); ok {
		t.Fatalf("quota must be exhausted")
	}

	base = base.Add(2 * time.Hour)
	ok, err := limiter.Allow(ctx, user)
	if err != nil {
		t.Fatalf("allow next window: %v", err)
	}
	if !ok {
		t.Fatalf("a new window must reset the quota")
	}
}

func TestRateLimiterKeysExpire(t *testing.T) {
	ctx := context.Background()
	limiter, mr := newTestLimiter(t, 5, time.Minute)
	user := uuid.New()

	if _, err := limiter.Allow(ctx, user); err != nil {
		t.Fatalf("allow: %v", err)
	}
	keys := mr.Keys()
	if len(keys) != 1 {
		t.Fatalf("expected one counter key, got %v", keys)
	}
	ttl := mr.TTL(keys[0])
	if ttl <= 0 || ttl > time.Minute+time.Second {
		t.Fatalf("counter ttl = %v, want (0, window+1s]", ttl)
	}
}
