package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL   = 30 * time.Second
	retryBackoff = 100 * time.Millisecond
	keyPrefix    = "partylink:lock:"
)

// Redis is a Locker shared by every process talking to the same Redis.
// A lock expires after ttl if its holder never releases it.
type Redis struct {
	client *redislock.Client
	ttl    time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Redis{client: redislock.New(rdb), ttl: ttl}
}

func (r *Redis) Acquire(ctx context.Context, key string) (Lock, error) {
	lk, err := r.client.Obtain(ctx, keyPrefix+key, r.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(retryBackoff),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", ErrNotObtained, key)
	}

	if err != nil {
		return nil, fmt.Errorf("obtaining redis lock: %w", err)
	}

	return redisLock{lk}, nil
}

type redisLock struct {
	lk *redislock.Lock
}

func (r redisLock) Release(ctx context.Context) error {
	if err := r.lk.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
		return fmt.Errorf("releasing redis lock: %w", err)
	}

	return nil
}
