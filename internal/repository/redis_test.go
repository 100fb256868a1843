package repository

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/oreoregeo/internal/models"
	"github.com/shenikar/oreoregeo/internal/osm"
	"github.com/shenikar/oreoregeo/internal/service"
	"github.com/shenikar/oreoregeo/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newTestRedis подключается к Redis из TEST_REDIS_ADDR, иначе тест пропускается
func newTestRedis(t *testing.T) *redis.Client {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	require.NoError(t, client.FlushDB(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCachedPlaceRepository_RedisDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockPlaceRepository(ctrl)
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	repo := NewCachedPlaceRepository(inner, client, quietLogger())
	place := &models.Place{Key: "osm:node:1", Name: "Cafe"}

	inner.EXPECT().GetPlace(gomock.Any(), "osm:node:1").Return(place, nil)
	got, err := repo.GetPlace(context.Background(), "osm:node:1")
	require.NoError(t, err)
	assert.Equal(t, place, got)

	inner.EXPECT().UpsertPlaces(gomock.Any(), []*models.Place{place}).Return(nil)
	assert.NoError(t, repo.UpsertPlaces(context.Background(), []*models.Place{place}))

	inner.EXPECT().GetPlace(gomock.Any(), "osm:node:2").Return(nil, service.ErrPlaceNotFound)
	_, err = repo.GetPlace(context.Background(), "osm:node:2")
	assert.ErrorIs(t, err, service.ErrPlaceNotFound)
}

func TestCachedPlaceRepository_ReadThroughAndInvalidate(t *testing.T) {
	client := newTestRedis(t)
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockPlaceRepository(ctrl)
	repo := NewCachedPlaceRepository(inner, client, quietLogger())
	ctx := context.Background()
	place := &models.Place{Key: "osm:node:1", Name: "Cafe", Category: "amenity:cafe", UpdatedAt: 5}

	// второй вызов обслуживается из кеша
	inner.EXPECT().GetPlace(gomock.Any(), "osm:node:1").Return(place, nil).Times(1)
	for i := 0; i < 2; i++ {
		got, err := repo.GetPlace(ctx, "osm:node:1")
		require.NoError(t, err)
		assert.Equal(t, place, got)
	}

	inner.EXPECT().UpsertPlaces(gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, repo.UpsertPlaces(ctx, []*models.Place{place}))

	exists, err := client.Exists(ctx, placeCacheKey("osm:node:1")).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestTokenStore(t *testing.T) {
	client := newTestRedis(t)
	store := NewTokenStore(client)
	ctx := context.Background()

	_, err := store.AccessToken(ctx)
	assert.ErrorIs(t, err, osm.ErrNotAuthenticated)

	require.NoError(t, store.SaveToken(ctx, "tok"))
	token, err := store.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	require.NoError(t, store.DeleteToken(ctx))
	_, err = store.AccessToken(ctx)
	assert.ErrorIs(t, err, osm.ErrNotAuthenticated)
}
