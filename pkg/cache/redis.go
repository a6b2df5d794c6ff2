package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore adapts a Redis client to the Store protocol. Each protocol
// operation maps to a single Redis command against one hash key.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client. The caller owns the client
// lifecycle; this type never closes it.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{client: client}
}

// WriteFields writes the field map with HSET.
func (s *RedisStore) WriteFields(ctx context.Context, key string, fields map[string]string) error {
	if err := s.client.HSet(ctx, key, fields).Err(); err != nil {
		Errors.WithLabelValues("write").Inc()
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

// SetExpiry arms the countdown with EXPIRE.
func (s *RedisStore) SetExpiry(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		Errors.WithLabelValues("expire").Inc()
		return fmt.Errorf("redis expire: %w", err)
	}
	return nil
}

// ReadAllFields loads the field map with HGETALL. Redis returns an empty
// map for a missing or expired key; callers treat that as a miss.
func (s *RedisStore) ReadAllFields(ctx context.Context, key string) (map[string]string, error) {
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		Errors.WithLabelValues("read").Inc()
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	return fields, nil
}

// ReadRemainingTTL reads the countdown with TTL. Redis reports a missing
// key or a key without expiry as negative sentinel durations; both map to
// ok=false.
func (s *RedisStore) ReadRemainingTTL(ctx context.Context, key string) (time.Duration, bool, error) {
	d, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		Errors.WithLabelValues("ttl").Inc()
		return 0, false, fmt.Errorf("redis ttl: %w", err)
	}
	if d < 0 {
		return 0, false, nil
	}
	return d, true, nil
}

var _ Store = (*RedisStore)(nil)
