package database

import (
	"context"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/internal/domain/repositories"
	"github.com/tripwise/backend/internal/infrastructure/clients/postgres"
	"github.com/tripwise/backend/internal/infrastructure/observability"
	apperrors "github.com/tripwise/backend/pkg/errors"
)

const hotelsTable = "hotels"

var hotelColumns = []interface{}{
	"id", "name", "city", "stars", "rating", "reviews_count", "distance_km_from_airport",
	"price_per_night", "amenities", "cancellation_policy", "payment_options",
	"room_occupancy_max", "image_url", "updated_at",
}

// HotelAdapter implements HotelRepository on Postgres
type HotelAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
}

var _ repositories.HotelRepository = (*HotelAdapter)(nil)

// NewHotelAdapter creates a new hotel adapter. metrics may be nil.
func NewHotelAdapter(client *postgres.Client, metrics *observability.Metrics) *HotelAdapter {
	return &HotelAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		metrics: metrics,
	}
}

// Search returns the hotels of a city, or of every city when none is given
func (a *HotelAdapter) Search(ctx context.Context, query entities.HotelQuery) ([]*entities.Hotel, error) {
	ds := a.db.Select(hotelColumns...).From(hotelsTable)
	if city := strings.TrimSpace(query.City); city != "" {
		ds = ds.Where(goqu.Func("LOWER", goqu.C("city")).Eq(strings.ToLower(city)))
	}

	sqlQuery, args, err := ds.Order(goqu.I("id").Asc()).Limit(uint(query.EffectiveLimit())).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	start := time.Now()
	rows, err := a.client.DB().QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search hotels", err)
	}
	defer rows.Close()

	hotels := []*entities.Hotel{}
	for rows.Next() {
		h := &entities.Hotel{}
		var (
			amenities []string
			payments  []string
		)
		err := rows.Scan(
			&h.ID,
			&h.Name,
			&h.City,
			&h.Stars,
			&h.Rating,
			&h.ReviewsCount,
			&h.DistanceKmFromAirport,
			&h.PricePerNight,
			pq.Array(&amenities),
			&h.CancellationPolicy,
			pq.Array(&payments),
			&h.RoomOccupancyMax,
			&h.ImageURL,
			&h.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan hotel", err)
		}
		h.Amenities = amenities
		h.PaymentOptions = toPaymentMethods(payments)
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate hotels", err)
	}

	observability.RecordDBMetric(ctx, a.metrics, "hotels.search", time.Since(start))
	return hotels, nil
}

// Upsert writes hotels in one statement, replacing rows with the same id
func (a *HotelAdapter) Upsert(ctx context.Context, hotels []*entities.Hotel) error {
	if len(hotels) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([]interface{}, 0, len(hotels))
	for _, h := range hotels {
		if h == nil {
			continue
		}
		rows = append(rows, goqu.Record{
			"id":                       h.ID,
			"name":                     h.Name,
			"city":                     h.City,
			"stars":                    h.Stars,
			"rating":                   h.Rating,
			"reviews_count":            h.ReviewsCount,
			"distance_km_from_airport": h.DistanceKmFromAirport,
			"price_per_night":          h.PricePerNight,
			"amenities":                pq.Array(nonNilStrings(h.Amenities)),
			"cancellation_policy":      string(h.CancellationPolicy),
			"payment_options":          pq.Array(fromPaymentMethods(h.PaymentOptions)),
			"room_occupancy_max":       h.RoomOccupancyMax,
			"image_url":                h.ImageURL,
			"updated_at":               now,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	sqlQuery, args, err := a.db.Insert(hotelsTable).
		Prepared(true).
		Rows(rows...).
		OnConflict(goqu.DoUpdate("id", excludedRecord(
			"name", "city", "stars", "rating", "reviews_count", "distance_km_from_airport",
			"price_per_night", "amenities", "cancellation_policy", "payment_options",
			"room_occupancy_max", "image_url", "updated_at",
		))).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	start := time.Now()
	if _, err := a.client.DB().ExecContext(ctx, sqlQuery, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert hotels", err)
	}
	observability.RecordDBMetric(ctx, a.metrics, "hotels.upsert", time.Since(start))

	return nil
}

// excludedRecord sets every column to the value proposed for insertion
func excludedRecord(columns ...string) goqu.Record {
	rec := make(goqu.Record, len(columns))
	for _, c := range columns {
		rec[c] = goqu.L("EXCLUDED." + c)
	}
	return rec
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toPaymentMethods(values []string) []entities.PaymentMethod {
	out := make([]entities.PaymentMethod, 0, len(values))
	for _, v := range values {
		out = append(out, entities.PaymentMethod(v))
	}
	return out
}

func fromPaymentMethods(methods []entities.PaymentMethod) []string {
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		out = append(out, string(m))
	}
	return out
}
