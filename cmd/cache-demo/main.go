// Command cache-demo runs a small HTTP server that puts the response cache
// in front of a few illustrative endpoints. /time and /counter are cached,
// /uncached/counter is excluded so the two counters can be compared side by
// side, and /report shows attachment replay with a per-request TTL override.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/mattkrea/express-cache/pkg/cache"
	"github.com/mattkrea/express-cache/pkg/logging"
	"github.com/mattkrea/express-cache/pkg/middleware"
)

type config struct {
	Addr          string        `env:"ADDR" envDefault:":8080"`
	RedisURL      string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"60s"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty     bool          `env:"LOG_PRETTY" envDefault:"false"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})
	logger = logger.With().Str("component", "cache-demo").Logger()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal().Err(err).Str("redis", cfg.RedisURL).Msg("Failed to connect to Redis")
	}
	logger.Info().Str("redis", cfg.RedisURL).Msg("Connected to Redis")

	mwCfg := middleware.DefaultConfig(cache.NewRedisStore(redisClient))
	mwCfg.TTL = cfg.CacheTTL
	mwCfg.Disabled = []string{"/uncached", "/health", "/metrics"}

	mw, err := middleware.New(mwCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create cache middleware")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mw.Handler(newRouter()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Dur("ttl", cfg.CacheTTL).Msg("Starting cache demo server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Shutdown failed")
	}
	logger.Info().Msg("Server stopped")
}

// newRouter builds the demo routes. The cache middleware wraps the whole
// router, so which routes are cached is decided purely by the Disabled
// prefixes in the middleware config.
func newRouter() http.Handler {
	var cachedCalls, uncachedCalls atomic.Int64

	r := chi.NewRouter()
	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/time", timeHandler)
	r.Get("/counter", newCounterHandler(&cachedCalls))
	r.Get("/uncached/counter", newCounterHandler(&uncachedCalls))
	r.Get("/report", reportHandler)
	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// timeHandler reports the current time. While a cached copy is live the
// timestamp stays frozen, which makes hits easy to see from curl.
func timeHandler(w http.ResponseWriter, r *http.Request) {
	err := middleware.JSON(w, map[string]string{
		"now": time.Now().Format(time.RFC3339Nano),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// newCounterHandler returns a handler that reports how many times the
// underlying handler actually ran. On a cached route the count only moves
// when the entry expires.
func newCounterHandler(calls *atomic.Int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := middleware.JSON(w, map[string]int64{
			"calls": calls.Add(1),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// reportHandler serves a download with a longer cache lifetime than the
// server default.
func reportHandler(w http.ResponseWriter, r *http.Request) {
	middleware.SetTTL(w, 5*time.Minute)
	middleware.Attachment(w, "report.json")
	if _, err := middleware.SendString(w, `{"rows":[{"id":1,"value":42}]}`); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
