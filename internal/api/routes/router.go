package routes

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/tripwise/backend/internal/api/handlers"
	"github.com/tripwise/backend/internal/api/middleware"
	"github.com/tripwise/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler    *handlers.SearchHandler
	catalogHandler   *handlers.CatalogHandler
	analyticsHandler *handlers.AnalyticsHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
	allowedOrigins  []string
	logger          zerolog.Logger
}

// Options carries the optional parts of the router.
// Nil handlers leave their routes unregistered.
type Options struct {
	CatalogHandler   *handlers.CatalogHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	CacheMiddleware  *middleware.CacheMiddleware
	Metrics          *observability.Metrics
	AllowedOrigins   []string
}

// NewRouter creates a new router
func NewRouter(searchHandler *handlers.SearchHandler, opts Options, logger zerolog.Logger) *Router {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Router{
		mux:              http.NewServeMux(),
		searchHandler:    searchHandler,
		catalogHandler:   opts.CatalogHandler,
		analyticsHandler: opts.AnalyticsHandler,
		cacheMiddleware:  opts.CacheMiddleware,
		metrics:          opts.Metrics,
		allowedOrigins:   origins,
		logger:           logger,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Search endpoints
	r.mux.HandleFunc("GET /api/hotels/search", r.searchHandler.SearchHotels)
	r.mux.HandleFunc("GET /api/restaurants/search", r.searchHandler.SearchRestaurants)
	r.mux.HandleFunc("POST /api/rank", r.searchHandler.Rank)

	// Catalog ingestion
	if r.catalogHandler != nil {
		r.mux.HandleFunc("POST /api/catalog/hotels", r.catalogHandler.IngestHotels)
		r.mux.HandleFunc("POST /api/catalog/restaurants", r.catalogHandler.IngestRestaurants)
	}

	// Analytics
	if r.analyticsHandler != nil {
		r.mux.HandleFunc("GET /api/analytics/zero-result-queries", r.analyticsHandler.GetZeroResultQueries)
	}

	// Middleware is applied innermost first.
	var handler http.Handler = r.mux
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)

	// logging sits outside everything but CORS so the request id reaches every layer
	handler = middleware.LoggingMiddleware(r.logger)(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
