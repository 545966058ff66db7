package profile

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Solvro/backend-testownik-sub000/internal/app"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Cached wraps a SettingsProvider with a TTL cache. Concurrent misses for the
// same user collapse into one upstream call, and expirations are spread with
// up to 10% jitter.
type Cached struct {
	upstream app.SettingsProvider
	ttl      time.Duration
	clock    func() time.Time
	sf       singleflight.Group
	rnd      *rand.Rand
	rndMu    sync.Mutex

	mu    sync.RWMutex
	cache map[uuid.UUID]cachedLimit
}

type cachedLimit struct {
	limit     int
	expiresAt time.Time
}

func NewCached(upstream app.SettingsProvider, ttl time.Duration) *Cached {
	return &Cached{
		upstream: upstream,
		ttl:      ttl,
		clock:    time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:    make(map[uuid.UUID]cachedLimit),
	}
}

// WithClock is test-only for deterministic expiry.
func (c *Cached) WithClock(now func() time.Time) *Cached {
	c.clock = now
	return c
}

func (c *Cached) MaxRepetitions(ctx context.Context, userID uuid.UUID) (int, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[userID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.limit, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(userID.String(), func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[userID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.limit, nil
		}
		c.mu.RUnlock()

		limit, err := c.upstream.MaxRepetitions(ctx, userID)
		if err != nil {
			return 0, err
		}

		c.mu.Lock()
		c.cache[userID] = cachedLimit{
			limit:     limit,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return limit, nil
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

func (c *Cached) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
