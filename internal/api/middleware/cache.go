package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/tripwise/backend/internal/domain/providers"
	"github.com/tripwise/backend/internal/infrastructure/observability"
)

// CacheConfig holds cache configuration for specific routes.
// Group names the key namespace so a catalog change can drop a whole route.
// A request carrying any of BypassParams is served uncached.
type CacheConfig struct {
	TTLSeconds   int
	Enabled      bool
	Group        string
	BypassParams []string
}

// CacheMiddleware provides HTTP response caching
type CacheMiddleware struct {
	cache        providers.CacheProvider
	routeConfigs map[string]CacheConfig
	metrics      *observability.Metrics
	logger       zerolog.Logger
}

// DefaultCacheRoutes caches the two search endpoints. A hit replays the stored
// body verbatim, run_id included, so the id names the run that filled the entry.
// Restaurant searches asking about opening hours depend on the clock and skip the cache.
func DefaultCacheRoutes() map[string]CacheConfig {
	return map[string]CacheConfig{
		"/api/hotels/search": {TTLSeconds: 120, Enabled: true, Group: "hotels"},
		"/api/restaurants/search": {
			TTLSeconds:   60,
			Enabled:      true,
			Group:        "restaurants",
			BypassParams: []string{"open_now", "at"},
		},
	}
}

// NewCacheMiddleware creates a new cache middleware. A nil routes map uses DefaultCacheRoutes.
func NewCacheMiddleware(cache providers.CacheProvider, routes map[string]CacheConfig, metrics *observability.Metrics, logger zerolog.Logger) *CacheMiddleware {
	if routes == nil {
		routes = DefaultCacheRoutes()
	}
	return &CacheMiddleware{
		cache:        cache,
		routeConfigs: routes,
		metrics:      metrics,
		logger:       logger.With().Str("component", "http_cache").Logger(),
	}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		config, ok := m.routeConfigs[r.URL.Path]
		if !ok || !config.Enabled || bypasses(config, r) {
			next.ServeHTTP(w, r)
			return
		}

		cacheKey := CacheKey(config.Group, r)

		cached, err := m.cache.Get(r.Context(), cacheKey)
		if err == nil {
			observability.RecordCacheHit(r.Context(), m.metrics, config.Group)
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}
		if !errors.Is(err, providers.ErrCacheMiss) {
			m.logger.Warn().Err(err).Str("key", cacheKey).Msg("cache read failed")
		}

		observability.RecordCacheMiss(r.Context(), m.metrics, config.Group)
		w.Header().Set("X-Cache", "MISS")

		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		next.ServeHTTP(recorder, r)

		// only successful responses are stored
		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(r.Context(), cacheKey, recorder.body.Bytes(), config.TTLSeconds); err != nil {
				m.logger.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache response")
			}
		}
	})
}

func bypasses(config CacheConfig, r *http.Request) bool {
	q := r.URL.Query()
	for _, p := range config.BypassParams {
		if q.Has(p) {
			return true
		}
	}
	return false
}

// InvalidateGroup drops every cached response of a route group
func (m *CacheMiddleware) InvalidateGroup(ctx context.Context, group string) (int, error) {
	return m.cache.DeletePattern(ctx, fmt.Sprintf("http:cache:%s:*", group))
}

// CacheKey builds the key of a GET request within group. Query parameters are
// encoded in sorted order so equivalent URLs share an entry.
func CacheKey(group string, r *http.Request) string {
	key := r.Method + ":" + r.URL.Path
	if q := r.URL.Query(); len(q) > 0 {
		key += "?" + q.Encode()
	}
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("http:cache:%s:%s", group, hex.EncodeToString(hash[:]))
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

// WriteHeader captures the status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

// Write captures the response body and writes to the client
func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
