package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/tripwise/backend/internal/adapters/catalog"
	"github.com/tripwise/backend/internal/adapters/database"
	"github.com/tripwise/backend/internal/adapters/events"
	"github.com/tripwise/backend/internal/adapters/search"
	"github.com/tripwise/backend/internal/application/services"
	"github.com/tripwise/backend/internal/domain/providers"
	"github.com/tripwise/backend/internal/infrastructure/clients/postgres"
	"github.com/tripwise/backend/internal/infrastructure/clients/redis"
	"github.com/tripwise/backend/internal/infrastructure/clients/typesense"
	"github.com/tripwise/backend/internal/infrastructure/observability"
	"github.com/tripwise/backend/pkg/config"
)

type options struct {
	hotelsFile      string
	restaurantsFile string
	reset           bool
}

func main() {
	var opts options
	var intervalFlag string
	flag.StringVar(&opts.hotelsFile, "hotels", "", "hotel catalog JSON file (defaults to CATALOG_HOTELS_FILE)")
	flag.StringVar(&opts.restaurantsFile, "restaurants", "", "restaurant catalog JSON file (defaults to CATALOG_RESTAURANTS_FILE)")
	flag.BoolVar(&opts.reset, "reset", false, "delete existing Typesense collections before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-indexer", cfg.App.Environment)
	logger := *observability.GetLogger()

	if opts.hotelsFile == "" {
		opts.hotelsFile = cfg.Catalog.HotelsFile
	}
	if opts.restaurantsFile == "" {
		opts.restaurantsFile = cfg.Catalog.RestaurantsFile
	}
	if opts.hotelsFile == "" && opts.restaurantsFile == "" {
		logger.Fatal().Msg("nothing to index: pass -hotels or -restaurants")
	}

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			logger.Fatal().Err(err).Str("interval", intervalValue).Msg("invalid interval")
		}
		if interval <= 0 {
			logger.Fatal().Msg("interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, cfg, opts, logger); err != nil {
			logger.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 {
			break
		}

		opts.reset = false
		logger.Info().Dur("next_in", interval).Msg("reindex complete")

		select {
		case <-ctx.Done():
			logger.Info().Msg("reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, cfg *config.Config, opts options, logger zerolog.Logger) error {
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if opts.reset || os.Getenv("RESET_TYPESENSE") == "true" {
		for _, name := range []string{typesense.HotelsCollection, typesense.RestaurantsCollection} {
			logger.Info().Str("collection", name).Msg("deleting collection")
			if _, err := tsClient.Client().Collection(name).Delete(ctx); err != nil {
				logger.Warn().Err(err).Str("collection", name).Msg("failed to delete collection")
			}
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	// running API instances drop their caches when the bus is reachable
	var eventBus providers.EventBus
	if redisClient, err := redis.NewClient(&cfg.Redis); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, catalog events disabled")
	} else {
		defer redisClient.Close()
		eventBus = events.NewRedisEventBus(redisClient, logger)
		defer eventBus.Close()
	}

	svc := services.NewCatalogService(
		database.NewHotelAdapter(pgClient, nil),
		search.NewTypesenseHotelAdapter(tsClient),
		database.NewRestaurantAdapter(pgClient, nil),
		search.NewTypesenseRestaurantAdapter(tsClient),
		eventBus,
		logger,
	)

	var errs []error
	if opts.hotelsFile != "" {
		hotels, err := catalog.LoadHotels(opts.hotelsFile)
		if err != nil {
			errs = append(errs, err)
		} else if res, err := svc.IngestHotels(ctx, hotels); err != nil {
			errs = append(errs, fmt.Errorf("hotels: %w", err))
		} else {
			logger.Info().Int("count", res.Count).Bool("indexed", res.Indexed).Msg("hotels ingested")
		}
	}
	if opts.restaurantsFile != "" {
		restaurants, err := catalog.LoadRestaurants(opts.restaurantsFile)
		if err != nil {
			errs = append(errs, err)
		} else if res, err := svc.IngestRestaurants(ctx, restaurants); err != nil {
			errs = append(errs, fmt.Errorf("restaurants: %w", err))
		} else {
			logger.Info().Int("count", res.Count).Bool("indexed", res.Indexed).Msg("restaurants ingested")
		}
	}
	return errors.Join(errs...)
}
