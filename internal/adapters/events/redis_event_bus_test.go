package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripwise/backend/internal/adapters/events"
	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/internal/domain/providers"
	redisclient "github.com/tripwise/backend/internal/infrastructure/clients/redis"
)

func newBus(t *testing.T) providers.EventBus {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bus := events.NewRedisEventBus(redisclient.NewClientFromRedis(rdb), zerolog.Nop())
	t.Cleanup(func() {
		_ = bus.Close()
		_ = rdb.Close()
	})
	return bus
}

func TestRedisEventBus_PublishSubscribe(t *testing.T) {
	bus := newBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := bus.Subscribe(ctx, providers.EventChannelCatalogUpdates)
	require.NoError(t, err)
	second, err := bus.Subscribe(ctx, providers.EventChannelCatalogUpdates)
	require.NoError(t, err)

	event := entities.NewCatalogEvent(entities.CandidateKindLodging, entities.CatalogEventTypeUpserted, []string{"h1", "h2"})
	require.NoError(t, bus.Publish(ctx, providers.EventChannelCatalogUpdates, event))

	for _, ch := range []<-chan *entities.CatalogEvent{first, second} {
		select {
		case got := <-ch:
			require.NotNil(t, got)
			assert.Equal(t, event.ID, got.ID)
			assert.Equal(t, entities.CandidateKindLodging, got.Kind)
			assert.Equal(t, []string{"h1", "h2"}, got.IDs)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestRedisEventBus_ContextCancelClosesChannel(t *testing.T) {
	bus := newBus(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := bus.Subscribe(ctx, providers.EventChannelCatalogUpdates)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
