package entities_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripwise/backend/internal/domain/entities"
)

func at(hh, mm int) time.Time {
	return time.Date(2026, 3, 14, hh, mm, 0, 0, time.UTC)
}

func TestRestaurant_OpenAt(t *testing.T) {
	tests := []struct {
		name  string
		hours string
		now   time.Time
		want  *bool
	}{
		{"inside window", "05:00-11:00", at(7, 30), ptr(true)},
		{"opening minute counts", "05:00-11:00", at(5, 0), ptr(true)},
		{"closing minute counts", "05:00-11:00", at(11, 0), ptr(true)},
		{"after close", "05:00-11:00", at(11, 1), ptr(false)},
		{"overnight late", "18:00-02:00", at(23, 15), ptr(true)},
		{"overnight early", "18:00-02:00", at(1, 59), ptr(true)},
		{"overnight closed", "18:00-02:00", at(12, 0), ptr(false)},
		{"all day", "00:00-00:00", at(3, 0), ptr(true)},
		{"garbage", "breakfast only", at(7, 0), nil},
		{"empty", "", at(7, 0), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &entities.Restaurant{Hours: tt.hours}
			got := r.OpenAt(tt.now)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestRestaurant_RawPicksTerminalDistance(t *testing.T) {
	r := &entities.Restaurant{
		ID:          "1",
		Name:        "The Waffle Hub",
		Distance:    []float64{0.5, 0.7, 0.6},
		Hours:       "05:00-11:00",
		AvgMealCost: 10.5,
	}

	raw := r.Raw(2, at(8, 0))
	require.NotNil(t, raw.DistanceKm)
	assert.Equal(t, 0.7, *raw.DistanceKm)
	require.NotNil(t, raw.Price)
	assert.Equal(t, 10.5, *raw.Price)
	assert.Equal(t, entities.CandidateKindDining, raw.Kind)
	require.NotNil(t, raw.IsOpenNow)
	assert.True(t, *raw.IsOpenNow)

	assert.Nil(t, r.Raw(4, at(8, 0)).DistanceKm, "terminal outside the table has no distance")
	assert.Nil(t, r.Raw(0, at(8, 0)).DistanceKm)
}

func TestHotel_RawCopiesSlices(t *testing.T) {
	h := &entities.Hotel{
		ID:             "A",
		Name:           "Airport Inn",
		PricePerNight:  140,
		Amenities:      []string{"wifi", "breakfast"},
		PaymentOptions: []entities.PaymentMethod{entities.PaymentOnline},
	}

	raw := h.Raw()
	raw.Amenities[0] = "changed"

	assert.Equal(t, "wifi", h.Amenities[0])
	assert.Equal(t, entities.CandidateKindLodging, raw.Kind)
	assert.Equal(t, 140.0, *raw.Price)
	assert.Len(t, entities.HotelsToRaw([]*entities.Hotel{h, nil}), 1)
}

func TestParseSortSpec(t *testing.T) {
	spec, err := entities.ParseSortSpec("price:asc, rating:desc,distance")
	require.NoError(t, err)
	assert.Equal(t, entities.SortSpec{
		{Key: entities.SortKeyPrice, Direction: entities.SortAscending},
		{Key: entities.SortKeyRating, Direction: entities.SortDescending},
		{Key: entities.SortKeyDistance, Direction: entities.SortAscending},
	}, spec)
	assert.Equal(t, "price:asc,rating:desc,distance:asc", spec.String())

	empty, err := entities.ParseSortSpec("  ")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = entities.ParseSortSpec("price:sideways")
	assert.Error(t, err)
}

func TestSortSpec_Active(t *testing.T) {
	spec := entities.SortSpec{
		{Key: entities.SortKeyPrice, Direction: entities.SortNone},
		{Key: entities.SortKeyRating, Direction: entities.SortDescending},
	}
	assert.Equal(t, []entities.SortField{{Key: entities.SortKeyRating, Direction: entities.SortDescending}}, spec.Active())
}

func TestSortDirection_UnmarshalJSON(t *testing.T) {
	var fields []entities.SortField
	err := json.Unmarshal([]byte(`[{"key":"price","direction":"desc"},{"key":"rating","direction":1},{"key":"distance","direction":0}]`), &fields)
	require.NoError(t, err)

	assert.Equal(t, entities.SortDescending, fields[0].Direction)
	assert.Equal(t, entities.SortAscending, fields[1].Direction)
	assert.Equal(t, entities.SortNone, fields[2].Direction)

	err = json.Unmarshal([]byte(`{"key":"price","direction":"up"}`), &fields[0])
	assert.Error(t, err)
}

func TestQueryCacheKeys(t *testing.T) {
	h := entities.HotelQuery{City: "Mississauga"}
	assert.Equal(t, "catalog:lodging:city=mississauga:limit=500", h.CacheKey())

	r1 := entities.RestaurantQuery{Airport: "YYZ", Terminal: 1}
	r3 := entities.RestaurantQuery{Airport: "yyz", Terminal: 3}
	assert.Equal(t, r1.CacheKey(), r3.CacheKey())
}

func TestNewCatalogEvent(t *testing.T) {
	ev := entities.NewCatalogEvent(entities.CandidateKindDining, entities.CatalogEventTypeUpserted, []string{"1", "2"})
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, entities.CandidateKindDining, ev.Kind)
	assert.False(t, ev.Timestamp.IsZero())
}

func ptr[T any](v T) *T { return &v }
