// Package cache defines the storage side of the response cache: the entry
// wire model, the store protocol, the Redis adapter, and request
// fingerprinting.
//
// # Stored layout
//
// Each cached response is one field map stored under its fingerprint:
//
//	status      string-encoded HTTP status code
//	body        response payload
//	headers     JSON object of header name/value pairs
//	attachment  download filename (omitted when none was declared)
//
// The pair of calls WriteFields then SetExpiry persists an entry;
// ReadAllFields and ReadRemainingTTL serve replays. On Redis these map to
// HSET, EXPIRE, HGETALL and TTL against a single hash key.
//
// # Basic Usage
//
//	// Create Redis client and store adapter
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//	store := cache.NewRedisStore(redisClient)
//
//	// Fingerprint a request and look it up
//	key := cache.Fingerprint(req, []string{"Authorization"}, true)
//	fields, err := store.ReadAllFields(ctx, key)
//	if err != nil || len(fields) == 0 {
//		// miss
//	}
//	entry, err := cache.EntryFromFields(fields)
//
// Most users never touch this package directly; the middleware package
// drives it per request.
//
// # Metrics
//
// The package exports Prometheus counters:
//
//   - express_cache_hits_total - responses replayed from the store
//   - express_cache_misses_total - requests passed through to the handler
//   - express_cache_writes_total - entries persisted
//   - express_cache_errors_total{operation} - failed store operations
package cache
