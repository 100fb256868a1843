package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/oreoregeo/internal/backup"
	"github.com/shenikar/oreoregeo/internal/config"
	"github.com/shenikar/oreoregeo/internal/models"
	"github.com/shenikar/oreoregeo/internal/osm"
	"github.com/shenikar/oreoregeo/internal/service"
	"github.com/shenikar/oreoregeo/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var apiKeyHeader = map[string]string{"X-API-Key": "test-api-key"}

type testDeps struct {
	places *mocks.MockPlaceService
	auth   *mocks.MockAuthService
	backup *mocks.MockBackupService
	router *gin.Engine
}

// newTestHandler создает роутер с мокированными сервисами
func newTestHandler(t *testing.T, withBackup bool) *testDeps {
	ctrl := gomock.NewController(t)
	deps := &testDeps{
		places: mocks.NewMockPlaceService(ctrl),
		auth:   mocks.NewMockAuthService(ctrl),
		backup: mocks.NewMockBackupService(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard) // Отключаем вывод логов в тестах

	cfg := &config.Config{APIKeys: []string{"test-api-key"}}

	var backupService service.BackupService
	if withBackup {
		backupService = deps.backup
	}
	handler := NewHandler(deps.places, deps.auth, backupService, logger, cfg)

	gin.SetMode(gin.TestMode)
	deps.router = gin.New()
	handler.RegisterRoutes(deps.router.Group("/api/v1"))
	return deps
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestHealthCheck_NoAPIKey(t *testing.T) {
	deps := newTestHandler(t, false)

	w := makeRequest(deps.router, http.MethodGet, "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestAPIKeyRequired(t *testing.T) {
	deps := newTestHandler(t, false)

	w := makeRequest(deps.router, http.MethodGet, "/api/v1/checkins", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = makeRequest(deps.router, http.MethodGet, "/api/v1/checkins", nil, map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIKey_BearerHeader(t *testing.T) {
	deps := newTestHandler(t, false)
	deps.places.EXPECT().ListCheckins(gomock.Any(), 1, 20).Return(nil, nil)

	w := makeRequest(deps.router, http.MethodGet, "/api/v1/checkins", nil, map[string]string{"Authorization": "Bearer test-api-key"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearchNearby_Success(t *testing.T) {
	deps := newTestHandler(t, false)
	results := []*models.PlaceWithDistance{
		{Place: &models.Place{Key: "osm:node:1", Name: "Cafe", Category: "amenity:cafe"}, DistanceMeters: 12.5},
		{Place: &models.Place{Key: "osm:way:2", Name: "Shop", Category: "shop:bakery"}, DistanceMeters: 40},
	}
	deps.places.EXPECT().
		SearchNearby(gomock.Any(), models.SearchParams{Lat: 55.75, Lon: 37.61, RadiusMeters: 80, ExcludeUnnamed: true, Language: "ru"}).
		Return(results, nil)

	w := makeRequest(deps.router, http.MethodGet, "/api/v1/places/nearby?lat=55.75&lon=37.61&exclude_unnamed=true&lang=ru", nil, apiKeyHeader)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []NearbyPlaceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "osm:node:1", resp[0].Key)
	assert.Equal(t, 12.5, resp[0].DistanceMeters)
	assert.Equal(t, "osm:way:2", resp[1].Key)
}

func TestSearchNearby_ValidationError(t *testing.T) {
	deps := newTestHandler(t, false)
	deps.places.EXPECT().SearchNearby(gomock.Any(), gomock.Any()).Times(0)

	for _, q := range []string{"lon=37.61", "lat=91&lon=0", "lat=1&lon=1&radius=-5", "lat=abc&lon=1"} {
		w := makeRequest(deps.router, http.MethodGet, "/api/v1/places/nearby?"+q, nil, apiKeyHeader)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestSearchNearby_UpstreamFailure(t *testing.T) {
	deps := newTestHandler(t, false)
	deps.places.EXPECT().SearchNearby(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("overpass: %w", osm.ErrTransport))

	w := makeRequest(deps.router, http.MethodGet, "/api/v1/places/nearby?lat=1&lon=1&radius=100", nil, apiKeyHeader)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetPlace(t *testing.T) {
	deps := newTestHandler(t, false)
	deps.places.EXPECT().GetPlace(gomock.Any(), "osm:node:42").
		Return(&models.Place{Key: "osm:node:42", Name: "Bar"}, nil)
	deps.places.EXPECT().GetPlace(gomock.Any(), "osm:node:43").
		Return(nil, service.ErrPlaceNotFound)
	deps.places.EXPECT().GetPlace(gomock.Any(), "bogus").
		Return(nil, service.ErrInvalidPlaceKey)

	w := makeRequest(deps.router, http.MethodGet, "/api/v1/places/osm:node:42", nil, apiKeyHeader)
	require.Equal(t, http.StatusOK, w.Code)
	var resp PlaceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Bar", resp.Name)

	w = makeRequest(deps.router, http.MethodGet, "/api/v1/places/osm:node:43", nil, apiKeyHeader)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = makeRequest(deps.router, http.MethodGet, "/api/v1/places/bogus", nil, apiKeyHeader)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPlaceCheckins(t *testing.T) {
	deps := newTestHandler(t, false)
	deps.places.EXPECT().ListPlaceCheckins(gomock.Any(), "osm:node:1").
		Return([]*models.Checkin{{ID: 2, PlaceKey: "osm:node:1", VisitedAt: 2000}, {ID: 1, PlaceKey: "osm:node:1", VisitedAt: 1000}}, nil)

	w := makeRequest(deps.router, http.MethodGet, "/api/v1/places/osm:node:1/checkins", nil, apiKeyHeader)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []CheckinResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, int64(2), resp[0].ID)
	assert.Nil(t, resp[0].Place)
}

func TestCreateCheckin_Success(t *testing.T) {
	deps := newTestHandler(t, false)
	deps.places.EXPECT().PerformCheckin(gomock.Any(), "osm:node:1", "coffee").Return(int64(7), nil)

	w := makeRequest(deps.router, http.MethodPost, "/api/v1/checkins",
		jsonBody(t, CheckinRequest{PlaceKey: "osm:node:1", Note: "coffee"}), apiKeyHeader)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp CheckinCreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
}

func TestCreateCheckin_Duplicate(t *testing.T) {
	deps := newTestHandler(t, false)
	deps.places.EXPECT().PerformCheckin(gomock.Any(), "osm:node:1", "").Return(int64(0), service.ErrDuplicateCheckin)

	w := makeRequest(deps.router, http.MethodPost, "/api/v1/checkins",
		jsonBody(t, CheckinRequest{PlaceKey: "osm:node:1"}), apiKeyHeader)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "30 minutes")
}

func TestCreateCheckin_InvalidBody(t *testing.T) {
	deps := newTestHandler(t, false)
	deps.places.EXPECT().PerformCheckin(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(deps.router, http.MethodPost, "/api/v1/checkins", bytes.NewBufferString(`{"place_key":`), apiKeyHeader)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")

	w = makeRequest(deps.router, http.MethodPost, "/api/v1/checkins", jsonBody(t, CheckinRequest{}), apiKeyHeader)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCheckin_ServiceError(t *testing.T) {
	deps := newTestHandler(t, false)
	deps.places.EXPECT().PerformCheckin(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db down"))

	w := makeRequest(deps.router, http.MethodPost, "/api/v1/checkins",
		jsonBody(t, CheckinRequest{PlaceKey: "osm:node:1"}), apiKeyHeader)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestListCheckins_Paging(t *testing.T) {
	deps := newTestHandler(t, false)
	items := []*models.CheckinWithPlace{
		{Checkin: &models.Checkin{ID: 3, PlaceKey: "osm:node:1"}, Place: &models.Place{Key: "osm:node:1", Name: "Cafe"}},
		{Checkin: &models.Checkin{ID: 2, PlaceKey: "osm:node:9"}},
	}
	deps.places.EXPECT().ListCheckins(gomock.Any(), 2, 5).Return(items, nil)

	w := makeRequest(deps.router, http.MethodGet, "/api/v1/checkins?page=2&pageSize=5", nil, apiKeyHeader)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []CheckinResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	require.NotNil(t, resp[0].Place)
	assert.Equal(t, "Cafe", resp[0].Place.Name)
	assert.Nil(t, resp[1].Place)
}

func TestDeleteCheckin(t *testing.T) {
	deps := newTestHandler(t, false)
	deps.places.EXPECT().DeleteCheckin(gomock.Any(), int64(5)).Return(nil)
	deps.places.EXPECT().DeleteCheckin(gomock.Any(), int64(6)).Return(service.ErrCheckinNotFound)

	w := makeRequest(deps.router, http.MethodDelete, "/api/v1/checkins/5", nil, apiKeyHeader)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = makeRequest(deps.router, http.MethodDelete, "/api/v1/checkins/6", nil, apiKeyHeader)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = makeRequest(deps.router, http.MethodDelete, "/api/v1/checkins/abc", nil, apiKeyHeader)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateNode(t *testing.T) {
	deps := newTestHandler(t, false)
	tags := map[string]string{"amenity": "bench"}
	deps.places.EXPECT().CreateNode(gomock.Any(), 10.0, 20.0, tags, "add bench").
		Return(&models.Place{Key: "osm:node:100", Name: "Unnamed", Category: "amenity:bench"}, nil)

	lat, lon := 10.0, 20.0
	w := makeRequest(deps.router, http.MethodPost, "/api/v1/osm/nodes",
		jsonBody(t, CreateNodeRequest{Latitude: &lat, Longitude: &lon, Tags: tags, Comment: "add bench"}), apiKeyHeader)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp PlaceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "osm:node:100", resp.Key)
}

func TestCreateNode_ValidationError(t *testing.T) {
	deps := newTestHandler(t, false)
	deps.places.EXPECT().CreateNode(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	lat, lon := 10.0, 20.0
	cases := []CreateNodeRequest{
		{Longitude: &lon, Tags: map[string]string{"a": "b"}, Comment: "c"},
		{Latitude: &lat, Longitude: &lon, Comment: "c"},
		{Latitude: &lat, Longitude: &lon, Tags: map[string]string{"a": "b"}},
	}
	for i, req := range cases {
		w := makeRequest(deps.router, http.MethodPost, "/api/v1/osm/nodes", jsonBody(t, req), apiKeyHeader)
		assert.Equal(t, http.StatusBadRequest, w.Code, "case %d", i)
	}
}

func TestCreateNode_NotAuthenticated(t *testing.T) {
	deps := newTestHandler(t, false)
	deps.places.EXPECT().CreateNode(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, osm.ErrNotAuthenticated)

	lat, lon := 1.0, 2.0
	w := makeRequest(deps.router, http.MethodPost, "/api/v1/osm/nodes",
		jsonBody(t, CreateNodeRequest{Latitude: &lat, Longitude: &lon, Tags: map[string]string{"shop": "bakery"}, Comment: "c"}), apiKeyHeader)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateNode_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"conflict", fmt.Errorf("%w: node 5", osm.ErrVersionConflict), http.StatusConflict},
		{"transport", &osm.HTTPError{Method: "PUT", URL: "x", StatusCode: 500}, http.StatusBadGateway},
		{"not found", osm.ErrNodeNotFound, http.StatusNotFound},
		{"missing version", osm.ErrMissingVersion, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestHandler(t, false)
			deps.places.EXPECT().UpdateNode(gomock.Any(), int64(5), gomock.Any(), "fix").Return(nil, tt.err)

			w := makeRequest(deps.router, http.MethodPut, "/api/v1/osm/nodes/5",
				jsonBody(t, UpdateNodeRequest{Tags: map[string]string{"name": "X"}, Comment: "fix"}), apiKeyHeader)

			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestUpdateNode_Success(t *testing.T) {
	deps := newTestHandler(t, false)
	deps.places.EXPECT().UpdateNode(gomock.Any(), int64(5), map[string]string{"name": "X"}, "fix").
		Return(&models.Place{Key: "osm:node:5", Name: "X"}, nil)

	w := makeRequest(deps.router, http.MethodPut, "/api/v1/osm/nodes/5",
		jsonBody(t, UpdateNodeRequest{Tags: map[string]string{"name": "X"}, Comment: "fix"}), apiKeyHeader)
	assert.Equal(t, http.StatusOK, w.Code)

	w = makeRequest(deps.router, http.MethodPut, "/api/v1/osm/nodes/0",
		jsonBody(t, UpdateNodeRequest{Tags: map[string]string{"name": "X"}, Comment: "fix"}), apiKeyHeader)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOSMAuthFlow(t *testing.T) {
	deps := newTestHandler(t, false)
	deps.auth.EXPECT().LoginURL().Return("https://osm.example/authorize?state=abc", nil)
	deps.auth.EXPECT().CompleteLogin(gomock.Any(), "the-code").Return(nil)
	deps.auth.EXPECT().IsAuthenticated(gomock.Any()).Return(true, nil)
	deps.auth.EXPECT().Logout(gomock.Any()).Return(nil)

	w := makeRequest(deps.router, http.MethodGet, "/api/v1/auth/osm/login", nil, apiKeyHeader)
	require.Equal(t, http.StatusOK, w.Code)
	var login LoginURLResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Contains(t, login.URL, "state=abc")

	w = makeRequest(deps.router, http.MethodGet, "/api/v1/auth/osm/callback?code=the-code", nil, apiKeyHeader)
	assert.Equal(t, http.StatusOK, w.Code)

	w = makeRequest(deps.router, http.MethodGet, "/api/v1/auth/osm/status", nil, apiKeyHeader)
	require.Equal(t, http.StatusOK, w.Code)
	var status AuthStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Authenticated)

	w = makeRequest(deps.router, http.MethodPost, "/api/v1/auth/osm/logout", nil, apiKeyHeader)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestOSMCallback_Errors(t *testing.T) {
	deps := newTestHandler(t, false)
	deps.auth.EXPECT().CompleteLogin(gomock.Any(), "bad").Return(fmt.Errorf("exchange: %w", osm.ErrTransport))

	w := makeRequest(deps.router, http.MethodGet, "/api/v1/auth/osm/callback", nil, apiKeyHeader)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = makeRequest(deps.router, http.MethodGet, "/api/v1/auth/osm/callback?code=bad", nil, apiKeyHeader)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestBackup_NotConfigured(t *testing.T) {
	deps := newTestHandler(t, false)

	w := makeRequest(deps.router, http.MethodPost, "/api/v1/backup", nil, apiKeyHeader)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = makeRequest(deps.router, http.MethodPost, "/api/v1/restore", nil, apiKeyHeader)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBackupAndRestore(t *testing.T) {
	deps := newTestHandler(t, true)
	deps.backup.EXPECT().Backup(gomock.Any()).Return([]string{"backup/oreoregeo.db", "backup/oreoregeo.db-wal"}, nil)
	deps.backup.EXPECT().Restore(gomock.Any()).Return([]string{"data/oreoregeo.db"}, nil)

	w := makeRequest(deps.router, http.MethodPost, "/api/v1/backup", nil, apiKeyHeader)
	require.Equal(t, http.StatusOK, w.Code)
	var resp BackupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Files, 2)
	assert.False(t, resp.RestartRequired)

	w = makeRequest(deps.router, http.MethodPost, "/api/v1/restore", nil, apiKeyHeader)
	require.Equal(t, http.StatusOK, w.Code)
	resp = BackupResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.RestartRequired)
}

func TestRestore_NoBackup(t *testing.T) {
	deps := newTestHandler(t, true)
	deps.backup.EXPECT().Restore(gomock.Any()).Return(nil, backup.ErrNoBackup)

	w := makeRequest(deps.router, http.MethodPost, "/api/v1/restore", nil, apiKeyHeader)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckin_AfterRestoreRequiresRestart(t *testing.T) {
	deps := newTestHandler(t, false)
	deps.places.EXPECT().PerformCheckin(gomock.Any(), "osm:node:1", "").
		Return(int64(0), fmt.Errorf("service: could not load latest checkin: %w", service.ErrRestartRequired))

	w := makeRequest(deps.router, http.MethodPost, "/api/v1/checkins",
		jsonBody(t, CheckinRequest{PlaceKey: "osm:node:1"}), apiKeyHeader)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "restart required")
}
