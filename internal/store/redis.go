package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// redisTimeout bounds every round trip so a dead server degrades to an
// error instead of a hung UI callback.
const redisTimeout = 2 * time.Second

var _ types.Store = (*Redis)(nil)

// Redis is a Store backed by plain Redis strings. Keys are namespaced with
// the configured prefix.
type Redis struct {
	mu     sync.RWMutex
	closed bool
	rdb    *redis.Client
	prefix string
}

// OpenRedis connects to addr and pings it before returning.
func OpenRedis(addr string, db int, prefix string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return NewRedis(rdb, prefix), nil
}

// NewRedis wraps an existing client.
func NewRedis(rdb *redis.Client, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

// Get returns the value stored under key.
func (r *Redis) Get(key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return "", false, types.ErrStoreClosed
	}
	if key == "" {
		return "", false, types.ErrInvalidKey
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	v, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores value under key with no expiry.
func (r *Redis) Set(key, value string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return types.ErrStoreClosed
	}
	if key == "" {
		return types.ErrInvalidKey
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := r.rdb.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (r *Redis) Delete(key string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return types.ErrStoreClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := r.rdb.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Close closes the client. Idempotent.
func (r *Redis) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.rdb.Close()
}
