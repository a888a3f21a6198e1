// Package ratelimit implements fixed-window request limiting per client IP.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// Store keeps fixed-window hit counters.
type Store interface {
	// Increment counts one hit for key and returns the running count and when the window resets.
	Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
	// Decrement takes back one hit. Missing keys are left alone.
	Decrement(ctx context.Context, key string) error
}

// RedisStore shares counters across instances.
type RedisStore struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedisStore builds a store over an existing client.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

var decrementIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("DECR", KEYS[1])
end
return 0
`)

func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	var (
		incr *redis.IntCmd
		pttl *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, oops.With("operation", "ratelimit incr").With("key", key).Wrap(err)
	}

	ttl := pttl.Val()
	if ttl < 0 {
		// first hit in the window
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, time.Time{}, oops.With("operation", "ratelimit pexpire").With("key", key).Wrap(err)
		}
		ttl = window
	}
	return incr.Val(), s.now().Add(ttl), nil
}

func (s *RedisStore) Decrement(ctx context.Context, key string) error {
	if err := decrementIfExists.Run(ctx, s.client, []string{key}).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return oops.With("operation", "ratelimit decr").With("key", key).Wrap(err)
	}
	return nil
}

// MemoryStore keeps counters in process. Used when Redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*counter
	now     func() time.Time
	calls   int
}

type counter struct {
	hits    int64
	resetAt time.Time
}

// sweepEvery bounds how often expired windows are dropped.
const sweepEvery = 1024

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]*counter), now: time.Now}
}

func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.calls++
	if s.calls%sweepEvery == 0 {
		for k, c := range s.windows {
			if !c.resetAt.After(now) {
				delete(s.windows, k)
			}
		}
	}

	c, ok := s.windows[key]
	if !ok || !c.resetAt.After(now) {
		c = &counter{resetAt: now.Add(window)}
		s.windows[key] = c
	}
	c.hits++
	return c.hits, c.resetAt, nil
}

func (s *MemoryStore) Decrement(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.windows[key]; ok && c.hits > 0 {
		c.hits--
	}
	return nil
}
