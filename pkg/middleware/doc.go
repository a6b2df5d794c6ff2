// Package middleware provides the HTTP response caching layer: a standard
// func(http.Handler) http.Handler decorator that replays stored responses
// on fingerprint hits and records handler responses on misses.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//	store := cache.NewRedisStore(redisClient)
//
//	mw, err := middleware.New(middleware.DefaultConfig(store))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/api/items", func(w http.ResponseWriter, r *http.Request) {
//		middleware.JSON(w, listItems())
//	})
//
//	http.ListenAndServe(":8080", mw.Handler(mux))
//
// Handlers emit through the package helpers (Send, SendString, JSON) or the
// *ResponseWriter methods. Responses written through the raw writer still
// reach the client but are never cached, so streaming handlers behave
// normally.
//
// # Route Filtering
//
//	cfg := middleware.DefaultConfig(store)
//	cfg.TTL = 5 * time.Minute
//	cfg.Disabled = []string{"/admin", "/metrics"}
//	cfg.Headers = []string{"Authorization"}
//
// Disabled path prefixes never cache. When Explicit is non-empty the filter
// becomes an allowlist: only those prefixes cache and Disabled is ignored.
// Headers named in cfg.Headers become part of the request fingerprint, so
// responses vary by their values.
//
// # Failure Behavior
//
// The cache never breaks request serving: read failures degrade to a miss,
// write failures are logged and the response is forwarded regardless.
package middleware
