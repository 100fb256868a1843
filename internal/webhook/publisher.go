package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/oreoregeo/internal/models"
)

const (
	webhookQueueKey = "webhook_events"

	EventCheckinCreated = "checkin.created"
)

// WebhookEvent - структура для данных вебхука
type WebhookEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	CheckinID int64     `json:"checkin_id"`
	PlaceKey  string    `json:"place_key"`
	VisitedAt int64     `json:"visited_at"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewCheckinEvent строит событие о новом посещении
func NewCheckinEvent(checkin *models.Checkin) WebhookEvent {
	return WebhookEvent{
		ID:        uuid.New(),
		Type:      EventCheckinCreated,
		CheckinID: checkin.ID,
		PlaceKey:  checkin.PlaceKey,
		VisitedAt: checkin.VisitedAt,
		Note:      checkin.Note,
		Timestamp: time.UnixMilli(checkin.VisitedAt).UTC(),
	}
}

// WebhookPublisher - интерфейс для публикации вебхуков
type WebhookPublisher interface {
	Publish(ctx context.Context, event WebhookEvent) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие вебхука в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event WebhookEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// LPUSH в левую часть списка, воркер забирает справа
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}

// NopPublisher отбрасывает события; используется, когда вебхуки не настроены
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, WebhookEvent) error { return nil }
