package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tripwise/backend/internal/api/handlers"
	"github.com/tripwise/backend/internal/application/services"
	"github.com/tripwise/backend/internal/domain/entities"
	apperrors "github.com/tripwise/backend/pkg/errors"
)

type MockCatalogIngester struct {
	mock.Mock
}

func (m *MockCatalogIngester) IngestHotels(ctx context.Context, hotels []*entities.Hotel) (*services.IngestResult, error) {
	args := m.Called(ctx, hotels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.IngestResult), args.Error(1)
}

func (m *MockCatalogIngester) IngestRestaurants(ctx context.Context, restaurants []*entities.Restaurant) (*services.IngestResult, error) {
	args := m.Called(ctx, restaurants)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.IngestResult), args.Error(1)
}

func TestIngestHotels_DecodesFeed(t *testing.T) {
	ingester := new(MockCatalogIngester)
	ingester.On("IngestHotels", mock.Anything, mock.MatchedBy(func(hotels []*entities.Hotel) bool {
		return len(hotels) == 1 && hotels[0].ID == "lis-001" && hotels[0].PricePerNight == 95
	})).Return(&services.IngestResult{Kind: entities.CandidateKindLodging, Count: 1, Indexed: true, EventID: "evt-1"}, nil)

	body := `[{"id": "lis-001", "name": "Alfama Rooms", "city": "Lisbon", "pricePerNight": 95, "amenities": ["wifi"]}]`
	rec := httptest.NewRecorder()
	handlers.NewCatalogHandler(ingester).IngestHotels(rec, httptest.NewRequest(http.MethodPost, "/api/catalog/hotels", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var got services.IngestResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "evt-1", got.EventID)
	ingester.AssertExpectations(t)
}

func TestIngestHotels_RejectsInvalidFeed(t *testing.T) {
	ingester := new(MockCatalogIngester)
	body := `[{"id": "lis-001", "name": "No Price"}]`

	rec := httptest.NewRecorder()
	handlers.NewCatalogHandler(ingester).IngestHotels(rec, httptest.NewRequest(http.MethodPost, "/api/catalog/hotels", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(apperrors.ErrorTypeValidation), decodeError(t, rec).Code)
	ingester.AssertNotCalled(t, "IngestHotels", mock.Anything, mock.Anything)
}

func TestIngestRestaurants_PassesServiceErrors(t *testing.T) {
	ingester := new(MockCatalogIngester)
	ingester.On("IngestRestaurants", mock.Anything, mock.Anything).Return(nil, apperrors.NewValidationError(`duplicate id "r-1"`))

	body := `[
		{"id": "r-1", "name": "Cafe", "airport": "LIS", "avg_meal_cost": 9},
		{"id": "r-1", "name": "Cafe Again", "airport": "LIS", "avg_meal_cost": 9}
	]`
	rec := httptest.NewRecorder()
	handlers.NewCatalogHandler(ingester).IngestRestaurants(rec, httptest.NewRequest(http.MethodPost, "/api/catalog/restaurants", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error, "duplicate id")
}
