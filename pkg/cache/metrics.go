package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Hits counts requests served from the store without invoking the
	// handler.
	Hits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "express_cache_hits_total",
			Help: "Total number of responses replayed from the cache",
		},
	)

	// Misses counts requests that fell through to the handler.
	Misses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "express_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// Writes counts entries persisted after a handler response.
	Writes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "express_cache_writes_total",
			Help: "Total number of cache entries written",
		},
	)

	// Errors counts failed store operations.
	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "express_cache_errors_total",
			Help: "Total number of cache store operation errors",
		},
		[]string{"operation"}, // "read", "write", "expire", "ttl"
	)
)
