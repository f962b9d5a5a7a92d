package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tripwise/backend/internal/adapters/cache"
	"github.com/tripwise/backend/internal/adapters/catalog"
	"github.com/tripwise/backend/internal/adapters/database"
	"github.com/tripwise/backend/internal/adapters/events"
	"github.com/tripwise/backend/internal/adapters/search"
	"github.com/tripwise/backend/internal/api/handlers"
	"github.com/tripwise/backend/internal/api/middleware"
	"github.com/tripwise/backend/internal/api/routes"
	"github.com/tripwise/backend/internal/application/services"
	"github.com/tripwise/backend/internal/domain/providers"
	"github.com/tripwise/backend/internal/domain/repositories"
	"github.com/tripwise/backend/internal/infrastructure/clients/postgres"
	"github.com/tripwise/backend/internal/infrastructure/clients/redis"
	"github.com/tripwise/backend/internal/infrastructure/clients/typesense"
	"github.com/tripwise/backend/internal/infrastructure/observability"
	"github.com/tripwise/backend/internal/ranking"
	"github.com/tripwise/backend/pkg/config"
)

// catalogStores are the repositories one catalog source provides.
// Read serves searches; Primary and Index receive ingested batches.
type catalogStores struct {
	readHotels         repositories.HotelRepository
	readRestaurants    repositories.RestaurantRepository
	primaryHotels      repositories.HotelRepository
	primaryRestaurants repositories.RestaurantRepository
	indexHotels        repositories.HotelRepository
	indexRestaurants   repositories.RestaurantRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Environment)
	logger := *observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			observability.EnableOTelLogs(cfg.OTEL.ServiceName)
			logger = *observability.GetLogger()
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	var pgClient *postgres.Client
	if cfg.Catalog.Source != config.CatalogSourceFile {
		pgClient, err = postgres.NewClient(&cfg.Database)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
		}
		defer pgClient.Close()
	}

	// the service runs without caching and invalidation when Redis is down
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, caching disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var tsClient *typesense.Client
	if cfg.Catalog.Source != config.CatalogSourceFile {
		tsClient, err = typesense.NewClient(&cfg.Typesense)
		if err != nil {
			if cfg.Catalog.Source == config.CatalogSourceTypesense {
				logger.Fatal().Err(err).Msg("failed to initialize Typesense client")
			}
			logger.Warn().Err(err).Msg("Typesense unavailable, search indexing disabled")
			tsClient = nil
		} else if err := tsClient.InitSchema(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to init Typesense schema")
		}
	}

	stores, err := buildCatalog(cfg, pgClient, tsClient, metrics)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build catalog")
	}

	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient, logger)
	}

	readHotels, readRestaurants := stores.readHotels, stores.readRestaurants
	if cacheProvider != nil {
		cached := database.NewCachedCatalog(cacheProvider, cfg.Catalog.CacheTTLSeconds, metrics, logger)
		readHotels = cached.Hotels(readHotels)
		readRestaurants = cached.Restaurants(readRestaurants)

		if len(cfg.Catalog.WarmCities) > 0 || len(cfg.Catalog.WarmAirports) > 0 {
			warming := services.NewCacheWarmingService(
				stores.readHotels,
				stores.readRestaurants,
				cacheProvider,
				cfg.Catalog.CacheTTLSeconds,
				services.WarmTargets{Cities: cfg.Catalog.WarmCities, Airports: cfg.Catalog.WarmAirports},
				logger,
			)
			go warming.StartPeriodicWarming(ctx, time.Duration(cfg.Catalog.WarmInterval)*time.Second)
		}
	}

	var cacheInvalidation *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidation = services.NewCacheInvalidationService(cacheProvider, eventBus, logger)
		if err := cacheInvalidation.Start(); err != nil {
			logger.Warn().Err(err).Msg("failed to start cache invalidation")
			cacheInvalidation = nil
		}
	}

	var analytics *services.SearchAnalyticsService
	var tracker services.SearchTracker
	if pgClient != nil {
		analytics = services.NewSearchAnalyticsService(database.NewSearchAnalyticsAdapter(pgClient), logger)
		tracker = analytics
	}

	scorer := ranking.Scorer{
		Prior:          cfg.Ranking.Prior,
		Confidence:     cfg.Ranking.Confidence,
		FeatureDivisor: cfg.Ranking.FeatureDivisor,
	}
	engine := ranking.NewEngine(scorer, logger.With().Str("component", "ranking").Logger())
	rankingService := services.NewSearchRankingService(readHotels, readRestaurants, engine, tracker, metrics, logger)

	opts := routes.Options{Metrics: metrics, AllowedOrigins: cfg.Server.AllowedOrigins}
	if stores.primaryHotels != nil {
		catalogService := services.NewCatalogService(
			stores.primaryHotels, stores.indexHotels,
			stores.primaryRestaurants, stores.indexRestaurants,
			eventBus, logger,
		)
		opts.CatalogHandler = handlers.NewCatalogHandler(catalogService)
	}
	if analytics != nil {
		opts.AnalyticsHandler = handlers.NewAnalyticsHandler(analytics)
	}
	if cacheProvider != nil {
		opts.CacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, nil, metrics, logger)
	}

	router := routes.NewRouter(handlers.NewSearchHandler(rankingService), opts, logger)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", serverAddr).
			Str("catalog_source", cfg.Catalog.Source).
			Bool("cache", cacheProvider != nil).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}
	if cacheInvalidation != nil {
		cacheInvalidation.Stop()
	}
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing event bus")
		}
	}

	logger.Info().Msg("server stopped")
}

// buildCatalog selects the read and write repositories for the configured source
func buildCatalog(cfg *config.Config, pg *postgres.Client, ts *typesense.Client, metrics *observability.Metrics) (*catalogStores, error) {
	stores := &catalogStores{}

	if pg != nil {
		stores.primaryHotels = database.NewHotelAdapter(pg, metrics)
		stores.primaryRestaurants = database.NewRestaurantAdapter(pg, metrics)
	}
	if ts != nil {
		stores.indexHotels = search.NewTypesenseHotelAdapter(ts)
		stores.indexRestaurants = search.NewTypesenseRestaurantAdapter(ts)
	}

	switch cfg.Catalog.Source {
	case config.CatalogSourcePostgres:
		stores.readHotels, stores.readRestaurants = stores.primaryHotels, stores.primaryRestaurants
	case config.CatalogSourceTypesense:
		stores.readHotels, stores.readRestaurants = stores.indexHotels, stores.indexRestaurants
	case config.CatalogSourceFile:
		stores.readHotels = catalog.NewStaticHotelAdapter(nil)
		stores.readRestaurants = catalog.NewStaticRestaurantAdapter(nil)
		if cfg.Catalog.HotelsFile != "" {
			hotels, err := catalog.NewFileHotelAdapter(cfg.Catalog.HotelsFile)
			if err != nil {
				return nil, err
			}
			stores.readHotels = hotels
		}
		if cfg.Catalog.RestaurantsFile != "" {
			restaurants, err := catalog.NewFileRestaurantAdapter(cfg.Catalog.RestaurantsFile)
			if err != nil {
				return nil, err
			}
			stores.readRestaurants = restaurants
		}
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}

	if stores.readHotels == nil || stores.readRestaurants == nil {
		return nil, fmt.Errorf("catalog source %q is not available", cfg.Catalog.Source)
	}
	return stores, nil
}

