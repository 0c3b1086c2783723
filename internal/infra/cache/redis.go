package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of go-redis client methods used by Redis.
type RedisClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// Redis is a JSON-encoding TTL cache backed by a Redis instance,
// shared by every BFA replica.
type Redis[T any] struct {
	client RedisClient
	prefix string
	ttl    time.Duration
}

// NewRedis connects to url (redis://...) and verifies it with PING.
func NewRedis[T any](ctx context.Context, url, prefix string, ttl time.Duration) (*Redis[T], error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cache.redis: parse url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache.redis: ping failed: %w", err)
	}
	return NewRedisWithClient[T](client, prefix, ttl), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient[T any](client RedisClient, prefix string, ttl time.Duration) *Redis[T] {
	return &Redis[T]{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the decoded value, false on a miss.
func (r *Redis[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, false, fmt.Errorf("cache.redis: decode %q: %w", key, err)
	}
	return v, true, nil
}

// Set stores value with the cache TTL.
func (r *Redis[T]) Set(ctx context.Context, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache.redis: encode %q: %w", key, err)
	}
	return r.client.Set(ctx, r.prefix+key, raw, r.ttl).Err()
}

// Delete removes key.
func (r *Redis[T]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

// Ping checks connectivity; used by /healthz.
func (r *Redis[T]) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying connection.
func (r *Redis[T]) Close() error {
	return r.client.Close()
}
