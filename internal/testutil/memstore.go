// Package testutil provides testing utilities for the response cache.
package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mattkrea/express-cache/pkg/cache"
)

// ErrInjected is returned by MemStore operations with failure injection
// switched on.
var ErrInjected = errors.New("injected store failure")

var _ cache.Store = (*MemStore)(nil)

// MemStore is an in-memory store for tests. It mirrors the Redis hash
// semantics the cache relies on: field writes merge into an existing key,
// expiries are honored on read, and a missing key reads as an empty map.
type MemStore struct {
	mu      sync.Mutex
	entries map[string]map[string]string
	expiry  map[string]time.Time

	// Failure injection
	FailWrites bool
	FailExpiry bool
	FailReads  bool
	FailTTL    bool

	// Tracking
	WriteCount  int
	ExpiryCount int
	ReadCount   int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		entries: make(map[string]map[string]string),
		expiry:  make(map[string]time.Time),
	}
}

// WriteFields merges the field map into the entry at key, creating it if
// needed.
func (s *MemStore) WriteFields(ctx context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.WriteCount++

	if s.FailWrites {
		return ErrInjected
	}

	s.expireNow(key)
	entry, ok := s.entries[key]
	if !ok {
		entry = make(map[string]string, len(fields))
		s.entries[key] = entry
	}
	for name, value := range fields {
		entry[name] = value
	}
	return nil
}

// SetExpiry arms the expiry deadline. Like Redis EXPIRE it is a no-op on a
// missing key.
func (s *MemStore) SetExpiry(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ExpiryCount++

	if s.FailExpiry {
		return ErrInjected
	}

	s.expireNow(key)
	if _, ok := s.entries[key]; !ok {
		return nil
	}
	s.expiry[key] = time.Now().Add(ttl)
	return nil
}

// ReadAllFields returns a copy of the entry at key, empty when missing or
// expired.
func (s *MemStore) ReadAllFields(ctx context.Context, key string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ReadCount++

	if s.FailReads {
		return nil, ErrInjected
	}

	s.expireNow(key)
	out := make(map[string]string, len(s.entries[key]))
	for name, value := range s.entries[key] {
		out[name] = value
	}
	return out, nil
}

// ReadRemainingTTL reports the time until the expiry deadline, ok=false
// when the key is missing or has none.
func (s *MemStore) ReadRemainingTTL(ctx context.Context, key string) (time.Duration, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailTTL {
		return 0, false, ErrInjected
	}

	s.expireNow(key)
	deadline, ok := s.expiry[key]
	if !ok {
		return 0, false, nil
	}
	return time.Until(deadline), true, nil
}

// GetWriteCount returns the number of WriteFields calls.
func (s *MemStore) GetWriteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.WriteCount
}

// GetExpiryCount returns the number of SetExpiry calls.
func (s *MemStore) GetExpiryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ExpiryCount
}

// GetReadCount returns the number of ReadAllFields calls.
func (s *MemStore) GetReadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ReadCount
}

// Keys returns the live keys, for assertions on what got cached.
func (s *MemStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		s.expireNow(key)
		if _, ok := s.entries[key]; ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// expireNow drops the key if its deadline passed. Callers hold the lock.
func (s *MemStore) expireNow(key string) {
	if deadline, ok := s.expiry[key]; ok && time.Now().After(deadline) {
		delete(s.entries, key)
		delete(s.expiry, key)
	}
}
