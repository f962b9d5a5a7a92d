package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/internal/domain/repositories"
	"github.com/tripwise/backend/internal/infrastructure/observability"
	"github.com/tripwise/backend/internal/ranking"
	"go.opentelemetry.io/otel/attribute"
)

// HotelSearchRequest is a hotel search: the catalog fetch plus ranking preferences
type HotelSearchRequest struct {
	City        string
	CheckIn     string
	CheckOut    string
	Limit       int
	Constraints entities.ConstraintSet
	Sort        entities.SortSpec
}

// Nights returns the stay length, or 0 when no dates were given
func (r HotelSearchRequest) Nights() int {
	if r.CheckIn == "" || r.CheckOut == "" {
		return 0
	}
	return ranking.StayNights(r.CheckIn, r.CheckOut)
}

// RestaurantSearchRequest is an airport dining search.
// At is the wall-clock time open-now is judged at; zero means now.
type RestaurantSearchRequest struct {
	Query       entities.RestaurantQuery
	At          time.Time
	Constraints entities.ConstraintSet
	Sort        entities.SortSpec
}

// SearchRankingService fetches catalog batches and ranks them
type SearchRankingService struct {
	hotels      repositories.HotelRepository
	restaurants repositories.RestaurantRepository
	engine      *ranking.Engine
	tracker     SearchTracker
	metrics     *observability.Metrics
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSearchRankingService creates the service. tracker and metrics may be nil.
func NewSearchRankingService(
	hotels repositories.HotelRepository,
	restaurants repositories.RestaurantRepository,
	engine *ranking.Engine,
	tracker SearchTracker,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *SearchRankingService {
	return &SearchRankingService{
		hotels:      hotels,
		restaurants: restaurants,
		engine:      engine,
		tracker:     tracker,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// SearchHotels fetches the hotels of a city and ranks them.
// Constraint errors are returned before the catalog is touched.
func (s *SearchRankingService) SearchHotels(ctx context.Context, req HotelSearchRequest) (*ranking.Result, error) {
	ctx, span := observability.StartSpan(ctx, "SearchRankingService.SearchHotels")
	defer span.End()

	if err := ranking.ValidateConstraints(entities.CandidateKindLodging, req.Constraints, req.Sort); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	start := s.now()
	hotels, err := s.hotels.Search(ctx, entities.HotelQuery{City: req.City, Limit: req.Limit})
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	result, err := s.rank(ctx, ranking.Request{
		Kind:        entities.CandidateKindLodging,
		Candidates:  entities.HotelsToRaw(hotels),
		Constraints: req.Constraints,
		Sort:        req.Sort,
		Nights:      req.Nights(),
	}, start, req.City)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	observability.SetSpanAttributes(span,
		attribute.String("search.city", req.City),
		attribute.Int("search.results", len(result.Items)),
	)
	return result, nil
}

// SearchRestaurants fetches the restaurants of an airport and ranks them as seen
// from the requested terminal.
func (s *SearchRankingService) SearchRestaurants(ctx context.Context, req RestaurantSearchRequest) (*ranking.Result, error) {
	ctx, span := observability.StartSpan(ctx, "SearchRankingService.SearchRestaurants")
	defer span.End()

	if err := ranking.ValidateConstraints(entities.CandidateKindDining, req.Constraints, req.Sort); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	start := s.now()
	restaurants, err := s.restaurants.Search(ctx, req.Query)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	at := req.At
	if at.IsZero() {
		at = start
	}

	location := req.Query.Airport
	if req.Query.Terminal > 0 {
		location += "/T" + strconv.Itoa(req.Query.Terminal)
	}

	result, err := s.rank(ctx, ranking.Request{
		Kind:        entities.CandidateKindDining,
		Candidates:  entities.RestaurantsToRaw(restaurants, req.Query.Terminal, at),
		Constraints: req.Constraints,
		Sort:        req.Sort,
	}, start, location)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	observability.SetSpanAttributes(span,
		attribute.String("search.airport", req.Query.Airport),
		attribute.Int("search.terminal", req.Query.Terminal),
		attribute.Int("search.results", len(result.Items)),
	)
	return result, nil
}

// RankBatch ranks a caller-supplied batch without touching the catalog
func (s *SearchRankingService) RankBatch(ctx context.Context, req ranking.Request) (*ranking.Result, error) {
	ctx, span := observability.StartSpan(ctx, "SearchRankingService.RankBatch")
	defer span.End()

	result, err := s.rank(ctx, req, s.now(), "")
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	return result, nil
}

func (s *SearchRankingService) rank(ctx context.Context, req ranking.Request, start time.Time, location string) (*ranking.Result, error) {
	result, err := s.engine.Run(req)
	if err != nil {
		return nil, err
	}
	elapsed := s.now().Sub(start)

	observability.RecordRankingRun(ctx, s.metrics, string(req.Kind), elapsed, result.Dropped(), len(result.Items))

	logger := observability.LoggerFromContext(ctx, s.logger)
	logger.Info().
		Str("run_id", result.RunID).
		Str("kind", string(req.Kind)).
		Str("location", location).
		Int("received", result.Received).
		Int("dropped", result.Dropped()).
		Int("results", len(result.Items)).
		Dur("elapsed", elapsed).
		Msg("ranked search")

	if s.tracker != nil {
		s.tracker.TrackSearch(ctx, &entities.SearchEvent{
			Kind:           req.Kind,
			Location:       strings.ToLower(location),
			Query:          req.Constraints.NameQuery,
			SortSpec:       req.Sort.String(),
			CandidateCount: result.Received,
			DroppedCount:   result.Dropped(),
			ResultCount:    len(result.Items),
			LatencyMs:      int(elapsed.Milliseconds()),
		})
	}

	return result, nil
}
