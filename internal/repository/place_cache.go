package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/oreoregeo/internal/models"
	"github.com/shenikar/oreoregeo/internal/service"
	"github.com/sirupsen/logrus"
)

const placeCacheTTL = 5 * time.Minute

// CachedPlaceRepository кеширует места в Redis поверх основного хранилища.
// Ошибки Redis не прерывают запрос: данные берутся из хранилища.
type CachedPlaceRepository struct {
	service.PlaceRepository
	redisClient *redis.Client
	logger      *logrus.Logger
}

func NewCachedPlaceRepository(repo service.PlaceRepository, redisClient *redis.Client, logger *logrus.Logger) *CachedPlaceRepository {
	return &CachedPlaceRepository{
		PlaceRepository: repo,
		redisClient:     redisClient,
		logger:          logger,
	}
}

func placeCacheKey(key string) string {
	return "place:" + key
}

func (r *CachedPlaceRepository) GetPlace(ctx context.Context, key string) (*models.Place, error) {
	log := r.logger.WithField("place_key", key)

	place, err := r.getPlaceFromCache(ctx, key)
	if err != nil {
		log.WithError(err).Warn("Place cache read failed")
	}
	if place != nil {
		return place, nil
	}

	place, err = r.PlaceRepository.GetPlace(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := r.setPlaceCache(ctx, place); err != nil {
		log.WithError(err).Warn("Place cache write failed")
	}
	return place, nil
}

// UpsertPlaces пишет в хранилище и сбрасывает кеш затронутых мест
func (r *CachedPlaceRepository) UpsertPlaces(ctx context.Context, places []*models.Place) error {
	if err := r.PlaceRepository.UpsertPlaces(ctx, places); err != nil {
		return err
	}
	if err := r.invalidatePlaces(ctx, places); err != nil {
		r.logger.WithError(err).Warn("Place cache invalidation failed")
	}
	return nil
}

// getPlaceFromCache возвращает nil без ошибки при промахе
func (r *CachedPlaceRepository) getPlaceFromCache(ctx context.Context, key string) (*models.Place, error) {
	val, err := r.redisClient.Get(ctx, placeCacheKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get place from cache: %w", err)
	}

	place := &models.Place{}
	if err := json.Unmarshal(val, place); err != nil {
		return nil, fmt.Errorf("failed to unmarshal place from cache: %w", err)
	}
	return place, nil
}

func (r *CachedPlaceRepository) setPlaceCache(ctx context.Context, place *models.Place) error {
	val, err := json.Marshal(place)
	if err != nil {
		return fmt.Errorf("failed to marshal place for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, placeCacheKey(place.Key), val, placeCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set place in cache: %w", err)
	}
	return nil
}

func (r *CachedPlaceRepository) invalidatePlaces(ctx context.Context, places []*models.Place) error {
	if len(places) == 0 {
		return nil
	}
	keys := make([]string, len(places))
	for i, p := range places {
		keys[i] = placeCacheKey(p.Key)
	}
	if err := r.redisClient.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate place cache: %w", err)
	}
	return nil
}
