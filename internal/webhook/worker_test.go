package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shenikar/oreoregeo/internal/config"
	"github.com/shenikar/oreoregeo/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(cfg *config.Config) *WebhookWorker {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return NewWebhookWorker(nil, logger, cfg)
}

func testEvent(t *testing.T) (WebhookEvent, string) {
	event := NewCheckinEvent(&models.Checkin{ID: 7, PlaceKey: "osm:node:1", VisitedAt: 1_700_000_000_000, Note: "hi"})
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return event, string(payload)
}

func TestNewCheckinEvent(t *testing.T) {
	event, _ := testEvent(t)

	assert.Equal(t, EventCheckinCreated, event.Type)
	assert.Equal(t, int64(7), event.CheckinID)
	assert.Equal(t, "osm:node:1", event.PlaceKey)
	assert.Equal(t, time.UnixMilli(1_700_000_000_000).UTC(), event.Timestamp)
}

func TestProcessWebhookEvent_SignedDelivery(t *testing.T) {
	event, payload := testEvent(t)
	var gotSignature, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get(signatureHeader)
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	worker := newTestWorker(&config.Config{
		WebhookURL:        srv.URL,
		WebhookSecret:     "s3cret",
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	})

	ok := worker.processWebhookEvent(context.Background(), event, payload)

	require.True(t, ok)
	assert.Equal(t, payload, gotBody)
	assert.Equal(t, generateHMACSHA256(payload, "s3cret"), gotSignature)
}

func TestProcessWebhookEvent_RetriesThenGivesUp(t *testing.T) {
	event, payload := testEvent(t)
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	worker := newTestWorker(&config.Config{
		WebhookURL:        srv.URL,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	})

	ok := worker.processWebhookEvent(context.Background(), event, payload)

	assert.False(t, ok)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestProcessWebhookEvent_NoURL(t *testing.T) {
	event, payload := testEvent(t)
	worker := newTestWorker(&config.Config{WebhookTimeout: time.Second})

	assert.False(t, worker.processWebhookEvent(context.Background(), event, payload))
}
