package database

import (
	"context"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/internal/domain/repositories"
	"github.com/tripwise/backend/internal/infrastructure/clients/postgres"
	"github.com/tripwise/backend/internal/infrastructure/observability"
	apperrors "github.com/tripwise/backend/pkg/errors"
)

const restaurantsTable = "restaurants"

var restaurantColumns = []interface{}{
	"id", "name", "airport", "terminal", "category", "cuisine", "food_type", "distance",
	"hours", "rating", "prep_time", "avg_meal_cost", "review_count", "link", "updated_at",
}

// RestaurantAdapter implements RestaurantRepository on Postgres
type RestaurantAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
}

var _ repositories.RestaurantRepository = (*RestaurantAdapter)(nil)

// NewRestaurantAdapter creates a new restaurant adapter. metrics may be nil.
func NewRestaurantAdapter(client *postgres.Client, metrics *observability.Metrics) *RestaurantAdapter {
	return &RestaurantAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		metrics: metrics,
	}
}

// Search returns restaurants at an airport, optionally narrowed by category, cuisine and diet.
// Matching is case-insensitive.
func (a *RestaurantAdapter) Search(ctx context.Context, query entities.RestaurantQuery) ([]*entities.Restaurant, error) {
	var where []exp.Expression
	for _, f := range [][2]string{
		{"airport", query.Airport},
		{"category", query.Category},
		{"cuisine", query.Cuisine},
		{"food_type", query.Diet},
	} {
		if v := strings.TrimSpace(f[1]); v != "" {
			where = append(where, goqu.Func("LOWER", goqu.C(f[0])).Eq(strings.ToLower(v)))
		}
	}

	ds := a.db.Select(restaurantColumns...).From(restaurantsTable)
	if len(where) > 0 {
		ds = ds.Where(where...)
	}

	sqlQuery, args, err := ds.Order(goqu.I("id").Asc()).Limit(uint(query.EffectiveLimit())).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	start := time.Now()
	rows, err := a.client.DB().QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search restaurants", err)
	}
	defer rows.Close()

	restaurants := []*entities.Restaurant{}
	for rows.Next() {
		r := &entities.Restaurant{}
		var distance []float64
		err := rows.Scan(
			&r.ID,
			&r.Name,
			&r.Airport,
			&r.Terminal,
			&r.Category,
			&r.Cuisine,
			&r.FoodType,
			pq.Array(&distance),
			&r.Hours,
			&r.Rating,
			&r.PrepTime,
			&r.AvgMealCost,
			&r.ReviewCount,
			&r.Link,
			&r.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan restaurant", err)
		}
		r.Distance = distance
		restaurants = append(restaurants, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate restaurants", err)
	}

	observability.RecordDBMetric(ctx, a.metrics, "restaurants.search", time.Since(start))
	return restaurants, nil
}

// Upsert writes restaurants in one statement, replacing rows with the same id
func (a *RestaurantAdapter) Upsert(ctx context.Context, restaurants []*entities.Restaurant) error {
	now := time.Now().UTC()
	rows := make([]interface{}, 0, len(restaurants))
	for _, r := range restaurants {
		if r == nil {
			continue
		}
		distance := r.Distance
		if distance == nil {
			distance = []float64{}
		}
		rows = append(rows, goqu.Record{
			"id":            r.ID,
			"name":          r.Name,
			"airport":       r.Airport,
			"terminal":      r.Terminal,
			"category":      r.Category,
			"cuisine":       r.Cuisine,
			"food_type":     r.FoodType,
			"distance":      pq.Array(distance),
			"hours":         r.Hours,
			"rating":        r.Rating,
			"prep_time":     r.PrepTime,
			"avg_meal_cost": r.AvgMealCost,
			"review_count":  r.ReviewCount,
			"link":          r.Link,
			"updated_at":    now,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	sqlQuery, args, err := a.db.Insert(restaurantsTable).
		Prepared(true).
		Rows(rows...).
		OnConflict(goqu.DoUpdate("id", excludedRecord(
			"name", "airport", "terminal", "category", "cuisine", "food_type", "distance",
			"hours", "rating", "prep_time", "avg_meal_cost", "review_count", "link", "updated_at",
		))).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	start := time.Now()
	if _, err := a.client.DB().ExecContext(ctx, sqlQuery, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert restaurants", err)
	}
	observability.RecordDBMetric(ctx, a.metrics, "restaurants.upsert", time.Since(start))

	return nil
}
