package services_test

import (
	"context"
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

func TestTrackSearch_WritesInBackground(t *testing.T) {
	repo := new(MockSearchAnalyticsRepository)
	logged := make(chan *entities.SearchEvent, 1)
	repo.On("LogEvent", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		logged <- args.Get(1).(*entities.SearchEvent)
	})

	svc := services.NewSearchAnalyticsService(repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	svc.TrackSearch(ctx, &entities.SearchEvent{Kind: entities.CandidateKindLodging, Location: "lisbon"})
	cancel()

	select {
	case event := <-logged:
		assert.Equal(t, "lisbon", event.Location)
	case <-time.After(time.Second):
		t.Fatal("search event was not logged")
	}
}

func TestTrackSearch_FailureDoesNotPanic(t *testing.T) {
	repo := new(MockSearchAnalyticsRepository)
	done := make(chan struct{})
	repo.On("LogEvent", mock.Anything, mock.Anything).Return(errors.New("insert failed")).Run(func(mock.Arguments) {
		close(done)
	})

	svc := services.NewSearchAnalyticsService(repo, zerolog.Nop())
	svc.TrackSearch(context.Background(), &entities.SearchEvent{Kind: entities.CandidateKindDining})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("LogEvent was not called")
	}
}

func TestGetZeroResultQueries(t *testing.T) {
	repo := new(MockSearchAnalyticsRepository)
	events := []*entities.SearchEvent{{ID: "e-1", Location: "nowhere"}}
	repo.On("GetZeroResultQueries", mock.Anything, 20).Return(events, nil)

	svc := services.NewSearchAnalyticsService(repo, zerolog.Nop())
	got, err := svc.GetZeroResultQueries(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, events, got)
	repo.AssertExpectations(t)
}
