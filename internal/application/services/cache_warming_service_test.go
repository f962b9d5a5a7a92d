package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tripwise/backend/internal/application/services"
	"github.com/tripwise/backend/internal/domain/entities"
)

func TestWarmCache_StoresUnderCatalogKeys(t *testing.T) {
	hotels := new(MockHotelRepository)
	restaurants := new(MockRestaurantRepository)
	cache := NewMockCacheProvider()

	hotels.On("Search", mock.Anything, entities.HotelQuery{City: "Lisbon"}).Return(lisbonHotels(), nil)
	restaurants.On("Search", mock.Anything, entities.RestaurantQuery{Airport: "LIS"}).
		Return([]*entities.Restaurant{{ID: "r-1", Name: "Cafe", Airport: "LIS", AvgMealCost: 9}}, nil)

	svc := services.NewCacheWarmingService(hotels, restaurants, cache, 300,
		services.WarmTargets{Cities: []string{"Lisbon"}, Airports: []string{"LIS"}}, zerolog.Nop())

	warmed, err := svc.WarmCache(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, warmed)

	data, err := cache.Get(context.Background(), entities.HotelQuery{City: "Lisbon"}.CacheKey())
	require.NoError(t, err)
	var cached []*entities.Hotel
	require.NoError(t, json.Unmarshal(data, &cached))
	assert.Len(t, cached, 3)

	exists, err := cache.Exists(context.Background(), entities.RestaurantQuery{Airport: "LIS", Terminal: 2}.CacheKey())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestWarmCache_ContinuesPastFailures(t *testing.T) {
	hotels := new(MockHotelRepository)
	cache := NewMockCacheProvider()

	hotels.On("Search", mock.Anything, entities.HotelQuery{City: "Atlantis"}).Return(nil, errors.New("no such city"))
	hotels.On("Search", mock.Anything, entities.HotelQuery{City: "Lisbon"}).Return(lisbonHotels(), nil)

	svc := services.NewCacheWarmingService(hotels, nil, cache, 300,
		services.WarmTargets{Cities: []string{"Atlantis", "Lisbon"}, Airports: []string{"LIS"}}, zerolog.Nop())

	warmed, err := svc.WarmCache(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Atlantis")
	assert.Equal(t, 1, warmed)
	assert.Len(t, cache.Keys(), 1)
}

func TestStartPeriodicWarming_NonPositiveIntervalWarmsOnce(t *testing.T) {
	hotels := new(MockHotelRepository)
	cache := NewMockCacheProvider()
	hotels.On("Search", mock.Anything, entities.HotelQuery{City: "Lisbon"}).Return(lisbonHotels(), nil)

	svc := services.NewCacheWarmingService(hotels, nil, cache, 300,
		services.WarmTargets{Cities: []string{"Lisbon"}}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, interval := range []time.Duration{0, -time.Second} {
		assert.NotPanics(t, func() { svc.StartPeriodicWarming(ctx, interval) })
	}
	hotels.AssertNumberOfCalls(t, "Search", 2)
	assert.Len(t, cache.Keys(), 1)
}
