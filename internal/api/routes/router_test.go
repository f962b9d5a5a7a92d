package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/tripwise/backend/internal/api/handlers"
	"github.com/tripwise/backend/internal/api/routes"
	"github.com/tripwise/backend/internal/application/services"
	"github.com/tripwise/backend/internal/ranking"
)

type stubRanker struct{}

func (stubRanker) SearchHotels(context.Context, services.HotelSearchRequest) (*ranking.Result, error) {
	return &ranking.Result{}, nil
}

func (stubRanker) SearchRestaurants(context.Context, services.RestaurantSearchRequest) (*ranking.Result, error) {
	return &ranking.Result{}, nil
}

func (stubRanker) RankBatch(context.Context, ranking.Request) (*ranking.Result, error) {
	return &ranking.Result{}, nil
}

func TestRouter_Routes(t *testing.T) {
	router := routes.NewRouter(handlers.NewSearchHandler(stubRanker{}), routes.Options{}, zerolog.Nop())
	handler := router.SetupRoutes()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/hotels/search?city=Lisbon", http.StatusOK},
		{http.MethodGet, "/api/restaurants/search?airport=LIS", http.StatusOK},
		{http.MethodPost, "/api/hotels/search?city=Lisbon", http.StatusMethodNotAllowed},
		// optional handlers are not registered
		{http.MethodPost, "/api/catalog/hotels", http.StatusNotFound},
		{http.MethodGet, "/api/analytics/zero-result-queries", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}
