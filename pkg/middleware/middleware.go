package middleware

import (
	"fmt"
	"net/http"

	"github.com/mattkrea/express-cache/pkg/cache"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Middleware caches handler responses in a TTL store and replays them for
// later requests with the same fingerprint.
type Middleware struct {
	config Config
	logger zerolog.Logger
}

// New validates the configuration and creates the middleware.
// Misconfiguration surfaces here, not per request.
func New(cfg Config) (*Middleware, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("cache store is required")
	}

	if cfg.TTL < 0 {
		return nil, fmt.Errorf("ttl must not be negative (got %v)", cfg.TTL)
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}

	logger := log.With().Str("component", "cache-middleware").Logger()

	return &Middleware{
		config: cfg,
		logger: logger,
	}, nil
}

// Handler wraps next with the caching layer.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Step 1: Route filter
		if shouldBypass(r.URL.Path, m.config) {
			m.logger.Debug().Str("path", r.URL.Path).Msg("Cache bypassed")
			// Store-less writer, so the emission helpers behave the
			// same on every path.
			next.ServeHTTP(newResponseWriter(w, r, nil, "", 0, m.logger), r)
			return
		}

		// Step 2: Fingerprint, computed exactly once per request
		key := cache.Fingerprint(r, m.config.Headers, m.config.IncludeBody)

		// Step 3: Store lookup; a read failure degrades to a miss
		fields, err := m.config.Store.ReadAllFields(r.Context(), key)
		if err != nil {
			m.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
			fields = nil
		}

		// Step 4: Hit, replay without invoking the handler
		if len(fields) > 0 {
			entry, err := cache.EntryFromFields(fields)
			if err == nil {
				cache.Hits.Inc()
				m.logger.Debug().
					Str("key", key).
					Int("status", entry.Status).
					Msg("Cache hit")
				m.serveEntry(w, r, key, entry)
				return
			}
			m.logger.Warn().Err(err).Str("key", key).Msg("Stored entry not replayable")
		}

		// Step 5: Miss, record whatever the handler emits
		cache.Misses.Inc()
		m.logger.Debug().Str("key", key).Msg("Cache miss")
		next.ServeHTTP(newResponseWriter(w, r, m.config.Store, key, m.config.TTL, m.logger), r)
	})
}

// HandlerFunc wraps a handler function. Shorthand for
// Handler(http.HandlerFunc(fn)).
func (m *Middleware) HandlerFunc(fn http.HandlerFunc) http.Handler {
	return m.Handler(fn)
}

// serveEntry replays a stored entry onto the raw response writer. The
// advisory header and the stored headers must land before the status line.
func (m *Middleware) serveEntry(w http.ResponseWriter, r *http.Request, key string, entry *cache.Entry) {
	// Advisory freshness header, omitted when the store cannot report a
	// remaining lifetime.
	ttl, ok, err := m.config.Store.ReadRemainingTTL(r.Context(), key)
	if err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("TTL read failed")
	} else if ok {
		w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(ttl.Seconds())))
	}

	for name, value := range entry.Headers {
		w.Header().Set(name, value)
	}

	if entry.Attachment != "" {
		disposition, contentType := attachmentHeaders(entry.Attachment)
		w.Header().Set("Content-Disposition", disposition)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
	}

	w.WriteHeader(entry.Status)
	if _, err := w.Write(entry.Body); err != nil {
		m.logger.Debug().Err(err).Str("key", key).Msg("Client write failed during replay")
	}
}
