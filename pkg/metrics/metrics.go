// Package metrics provides the centralized Prometheus registry surface for
// the response cache. The metrics themselves are defined next to the code
// that drives them (pkg/cache) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the cache. All
// metrics are automatically registered via promauto in their respective
// packages; servers expose it with promhttp.Handler().
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - express_cache_hits_total (Counter): Responses replayed from the store
//   - express_cache_misses_total (Counter): Requests passed through to the handler
//   - express_cache_writes_total (Counter): Entries persisted after handler responses
//   - express_cache_errors_total{operation} (Counter): Failed store operations
//     (operation: read, write, expire, ttl)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(express_cache_hits_total[5m])) /
//   (sum(rate(express_cache_hits_total[5m])) + sum(rate(express_cache_misses_total[5m])))
//
//   # Store Error Rate by Operation
//   rate(express_cache_errors_total[5m])
//
//   # Write Throughput
//   rate(express_cache_writes_total[5m])
