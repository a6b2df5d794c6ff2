package cache

import (
	"context"
	"time"
)

// Store is the four-operation protocol a cache backend must provide. Redis
// hashes satisfy it directly (HSET, EXPIRE, HGETALL, TTL); any backend that
// can hold a field map per key with a per-key expiry works.
//
// WriteFields and SetExpiry are always invoked as two sequential steps. A
// crash between them can leave an entry without an expiry; backends are not
// required to make the pair atomic.
type Store interface {
	// WriteFields writes the given fields at key, creating the key if
	// needed. Fields already present at the key but absent from the map
	// are left alone.
	WriteFields(ctx context.Context, key string, fields map[string]string) error

	// SetExpiry arms the expiry countdown on an existing key.
	SetExpiry(ctx context.Context, key string, ttl time.Duration) error

	// ReadAllFields returns the full field map at key. A missing or
	// expired key yields an empty map and no error.
	ReadAllFields(ctx context.Context, key string) (map[string]string, error)

	// ReadRemainingTTL reports the remaining lifetime of key. ok is false
	// when the key is missing or carries no expiry.
	ReadRemainingTTL(ctx context.Context, key string) (ttl time.Duration, ok bool, err error)
}
