package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shenikar/oreoregeo/internal/models"
	"github.com/shenikar/oreoregeo/internal/service"
	"github.com/shenikar/oreoregeo/internal/webhook"
	"github.com/shenikar/oreoregeo/pkg/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteRepository(t *testing.T) *SQLitePlaceRepository {
	db, err := sqlite.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	repo := NewSQLitePlaceRepository(db)
	require.NoError(t, repo.AutoMigrate())
	return repo
}

func TestSQLite_UpsertAndGetPlace(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertPlaces(ctx, []*models.Place{
		{Key: "osm:node:1", Name: "Old", Category: "cafe", Latitude: 1, Longitude: 2, UpdatedAt: 10},
		{Key: "osm:way:2", Name: "Shop", Category: "books", Latitude: 3, Longitude: 4, UpdatedAt: 10},
	}))
	require.NoError(t, repo.UpsertPlaces(ctx, []*models.Place{
		{Key: "osm:node:1", Name: "New", Category: "bar", Latitude: 1.5, Longitude: 2.5, UpdatedAt: 20},
	}))

	place, err := repo.GetPlace(ctx, "osm:node:1")
	require.NoError(t, err)
	assert.Equal(t, &models.Place{Key: "osm:node:1", Name: "New", Category: "bar", Latitude: 1.5, Longitude: 2.5, UpdatedAt: 20}, place)

	_, err = repo.GetPlace(ctx, "osm:node:404")
	assert.ErrorIs(t, err, service.ErrPlaceNotFound)
}

func TestSQLite_CheckinLifecycle(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	latest, err := repo.LatestCheckin(ctx, "osm:node:1")
	require.NoError(t, err)
	assert.Nil(t, latest)

	first := &models.Checkin{PlaceKey: "osm:node:1", VisitedAt: 1_800_000, Note: "a", Bucket: 1}
	second := &models.Checkin{PlaceKey: "osm:node:1", VisitedAt: 3_600_000, Note: "b", Bucket: 2}
	require.NoError(t, repo.CreateCheckin(ctx, first))
	require.NoError(t, repo.CreateCheckin(ctx, second))
	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	latest, err = repo.LatestCheckin(ctx, "osm:node:1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	history, err := repo.ListPlaceCheckins(ctx, "osm:node:1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "b", history[0].Note)

	require.NoError(t, repo.DeleteCheckin(ctx, second.ID))
	assert.ErrorIs(t, repo.DeleteCheckin(ctx, second.ID), service.ErrCheckinNotFound)
}

func TestSQLite_SameBucketRejected(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateCheckin(ctx, &models.Checkin{PlaceKey: "osm:node:1", VisitedAt: 100, Bucket: 0}))
	err := repo.CreateCheckin(ctx, &models.Checkin{PlaceKey: "osm:node:1", VisitedAt: 200, Bucket: 0})
	assert.ErrorIs(t, err, service.ErrDuplicateCheckin)

	// другое место в том же окне допустимо
	assert.NoError(t, repo.CreateCheckin(ctx, &models.Checkin{PlaceKey: "osm:node:2", VisitedAt: 200, Bucket: 0}))
}

func TestSQLite_ListCheckinsJoinsPlaces(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertPlaces(ctx, []*models.Place{
		{Key: "osm:node:1", Name: "Cafe", Category: "cafe", Latitude: 1, Longitude: 2, UpdatedAt: 5},
	}))
	require.NoError(t, repo.CreateCheckin(ctx, &models.Checkin{PlaceKey: "osm:node:1", VisitedAt: 1_000, Bucket: 0}))
	require.NoError(t, repo.CreateCheckin(ctx, &models.Checkin{PlaceKey: "osm:node:9", VisitedAt: 2_000, Bucket: 0}))
	require.NoError(t, repo.CreateCheckin(ctx, &models.Checkin{PlaceKey: "osm:node:1", VisitedAt: 1_800_000, Bucket: 1}))

	page, err := repo.ListCheckins(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(1_800_000), page[0].Checkin.VisitedAt)
	require.NotNil(t, page[0].Place)
	assert.Equal(t, "Cafe", page[0].Place.Name)
	assert.Equal(t, "osm:node:9", page[1].Checkin.PlaceKey)
	assert.Nil(t, page[1].Place)

	next, err := repo.ListCheckins(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, int64(1_000), next[0].Checkin.VisitedAt)
}

func TestSQLite_ListCheckinsReturnsStoredFields(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertPlaces(ctx, []*models.Place{
		{Key: "osm:way:2", Name: "Park", Category: "tourism:park", Latitude: 10, Longitude: 20, UpdatedAt: 7},
	}))
	stored := &models.Checkin{PlaceKey: "osm:way:2", VisitedAt: 3_600_001, Note: "picnic", Bucket: 2}
	require.NoError(t, repo.CreateCheckin(ctx, stored))
	require.NotZero(t, stored.ID)

	items, err := repo.ListCheckins(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, &models.Checkin{
		ID:        stored.ID,
		PlaceKey:  "osm:way:2",
		VisitedAt: 3_600_001,
		Note:      "picnic",
		Bucket:    2,
	}, items[0].Checkin)
	assert.Equal(t, &models.Place{
		Key:       "osm:way:2",
		Name:      "Park",
		Category:  "tourism:park",
		Latitude:  10,
		Longitude: 20,
		UpdatedAt: 7,
	}, items[0].Place)
}

func TestSQLite_ServiceCheckinHistory(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()
	svc := service.NewPlaceService(repo, nil, nil, nil, webhook.NopPublisher{}, quietLogger())

	id, err := svc.PerformCheckin(ctx, "osm:way:2", "lunch")
	require.NoError(t, err)

	_, err = svc.PerformCheckin(ctx, "osm:way:2", "again")
	assert.ErrorIs(t, err, service.ErrDuplicateCheckin)

	items, err := svc.ListCheckins(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].Checkin.ID)
	assert.Equal(t, "osm:way:2", items[0].Checkin.PlaceKey)
	assert.Equal(t, "lunch", items[0].Checkin.Note)
	assert.NotZero(t, items[0].Checkin.VisitedAt)
	assert.Equal(t, models.CheckinBucket(items[0].Checkin.VisitedAt), items[0].Checkin.Bucket)
	assert.Nil(t, items[0].Place)
}
