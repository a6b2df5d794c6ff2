package middleware

import (
	"time"

	"github.com/mattkrea/express-cache/pkg/cache"
)

// DefaultTTL is the entry lifetime used when Config.TTL is zero.
const DefaultTTL = 60 * time.Second

// Config holds the middleware configuration.
type Config struct {
	// Store persists cached responses. Required.
	Store cache.Store

	// TTL is the lifetime of cached entries. Zero means DefaultTTL;
	// negative values are rejected by New. Handlers can override it per
	// response with SetTTL.
	TTL time.Duration

	// Enabled is the global switch. When false every request bypasses
	// the cache.
	Enabled bool

	// IncludeBody folds JSON object request bodies into the fingerprint,
	// so lookup-style POSTs with different payloads cache separately.
	IncludeBody bool

	// Disabled lists path prefixes that never participate in caching.
	Disabled []string

	// Headers lists request headers folded into the fingerprint.
	Headers []string

	// Explicit, when non-empty, restricts caching to these path
	// prefixes and Disabled is not consulted.
	Explicit []string
}

// DefaultConfig returns a safe default configuration: caching enabled on
// all routes, request bodies folded into the fingerprint, 60 second TTL.
func DefaultConfig(store cache.Store) Config {
	return Config{
		Store:       store,
		TTL:         DefaultTTL,
		Enabled:     true,
		IncludeBody: true,
	}
}
