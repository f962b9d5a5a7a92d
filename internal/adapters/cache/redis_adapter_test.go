package cache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripwise/backend/internal/adapters/cache"
	"github.com/tripwise/backend/internal/domain/providers"
	redisclient "github.com/tripwise/backend/internal/infrastructure/clients/redis"
)

func newAdapter(t *testing.T) (providers.CacheProvider, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewRedisAdapter(redisclient.NewClientFromRedis(rdb)), mr
}

func TestRedisAdapter_SetGetDelete(t *testing.T) {
	adapter, mr := newAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "catalog:lodging:city=lisbon:limit=500", []byte(`[]`), 60))

	got, err := adapter.Get(ctx, "catalog:lodging:city=lisbon:limit=500")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	exists, err := adapter.Exists(ctx, "catalog:lodging:city=lisbon:limit=500")
	require.NoError(t, err)
	assert.True(t, exists)

	mr.FastForward(61 * time.Second)
	_, err = adapter.Get(ctx, "catalog:lodging:city=lisbon:limit=500")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, adapter.Delete(ctx, "k"))
	exists, err = adapter.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisAdapter_DeletePattern(t *testing.T) {
	adapter, mr := newAdapter(t)
	ctx := context.Background()

	for i := 0; i < 450; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("catalog:lodging:city=c%d:limit=500", i), "[]"))
	}
	require.NoError(t, mr.Set("catalog:dining:airport=lis:category=:cuisine=:diet=:limit=500", "[]"))

	n, err := adapter.DeletePattern(ctx, "catalog:lodging:*")
	require.NoError(t, err)
	assert.Equal(t, 450, n)
	assert.Len(t, mr.Keys(), 1)
	assert.True(t, mr.Exists("catalog:dining:airport=lis:category=:cuisine=:diet=:limit=500"))

	n, err = adapter.DeletePattern(ctx, "nothing:*")
	require.NoError(t, err)
	assert.Zero(t, n)
}
