package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/oreoregeo/internal/osm"
)

// accessTokenKey - фиксированный ключ токена OSM в Redis
const accessTokenKey = "osm_access_token"

// TokenStore хранит токен доступа OSM в Redis
type TokenStore struct {
	redisClient *redis.Client
}

func NewTokenStore(redisClient *redis.Client) *TokenStore {
	return &TokenStore{redisClient: redisClient}
}

// AccessToken возвращает сохраненный токен или osm.ErrNotAuthenticated
func (s *TokenStore) AccessToken(ctx context.Context) (string, error) {
	token, err := s.redisClient.Get(ctx, accessTokenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", osm.ErrNotAuthenticated
		}
		return "", fmt.Errorf("failed to get access token from Redis: %w", err)
	}
	return token, nil
}

// SaveToken сохраняет токен без срока жизни
func (s *TokenStore) SaveToken(ctx context.Context, token string) error {
	if err := s.redisClient.Set(ctx, accessTokenKey, token, 0).Err(); err != nil {
		return fmt.Errorf("failed to save access token to Redis: %w", err)
	}
	return nil
}

func (s *TokenStore) DeleteToken(ctx context.Context) error {
	if err := s.redisClient.Del(ctx, accessTokenKey).Err(); err != nil {
		return fmt.Errorf("failed to delete access token from Redis: %w", err)
	}
	return nil
}
