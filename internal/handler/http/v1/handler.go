package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/oreoregeo/internal/backup"
	"github.com/shenikar/oreoregeo/internal/config"
	"github.com/shenikar/oreoregeo/internal/models"
	"github.com/shenikar/oreoregeo/internal/osm"
	"github.com/shenikar/oreoregeo/internal/service"
	"github.com/sirupsen/logrus"
)

const defaultSearchRadius = 80

type Handler struct {
	placeService  service.PlaceService
	authService   service.AuthService
	backupService service.BackupService
	logger        *logrus.Logger
	validate      *validator.Validate
	cfg           *config.Config
}

// NewHandler создает обработчик HTTP API. backupService может быть nil,
// если резервное копирование не настроено.
func NewHandler(
	placeService service.PlaceService,
	authService service.AuthService,
	backupService service.BackupService,
	logger *logrus.Logger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		placeService:  placeService,
		authService:   authService,
		backupService: backupService,
		logger:        logger,
		validate:      validator.New(),
		cfg:           cfg,
	}
}

// errorStatus сопоставляет доменную ошибку с HTTP статусом и сообщением для клиента
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidPlaceKey):
		return http.StatusBadRequest, "invalid place key"
	case errors.Is(err, service.ErrDuplicateCheckin):
		return http.StatusConflict, "already checked in at this place within the last 30 minutes"
	case errors.Is(err, service.ErrPlaceNotFound):
		return http.StatusNotFound, "place not found"
	case errors.Is(err, service.ErrCheckinNotFound):
		return http.StatusNotFound, "checkin not found"
	case errors.Is(err, osm.ErrNodeNotFound):
		return http.StatusNotFound, "osm node not found"
	case errors.Is(err, backup.ErrNoBackup):
		return http.StatusNotFound, "no backup found"
	case errors.Is(err, osm.ErrNotAuthenticated):
		return http.StatusUnauthorized, "osm account is not connected"
	case errors.Is(err, osm.ErrVersionConflict):
		return http.StatusConflict, "osm node was modified concurrently, reload and retry"
	case errors.Is(err, osm.ErrMissingVersion):
		return http.StatusBadGateway, "osm node has no version"
	case errors.Is(err, service.ErrRestartRequired):
		return http.StatusServiceUnavailable, "database was restored, service restart required"
	case errors.Is(err, osm.ErrTransport):
		return http.StatusBadGateway, "upstream osm service failed"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error, msg string) {
	status, text := errorStatus(err)
	entry := log.WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error(msg)
	} else {
		entry.Warn(msg)
	}
	c.JSON(status, gin.H{"error": text})
}

func (h *Handler) bindAndValidate(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// @Summary Search places nearby
// @Description Search POIs around a point via Overpass, sorted by distance. Requires API key.
// @Tags Places
// @Produce json
// @Security ApiKeyAuth
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param radius query int false "Radius in meters" default(80)
// @Param exclude_unnamed query bool false "Drop places without a name tag"
// @Param lang query string false "Preferred name language"
// @Success 200 {array} NearbyPlaceResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Overpass failure"
// @Router /places/nearby [get]
func (h *Handler) searchNearby(c *gin.Context) {
	log := h.logger.WithField("method", "searchNearby")

	var query NearbyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		log.WithError(err).Warn("Failed to bind query")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	if err := h.validate.Struct(query); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if query.Radius == 0 {
		query.Radius = defaultSearchRadius
	}

	results, err := h.placeService.SearchNearby(c.Request.Context(), models.SearchParams{
		Lat:            *query.Lat,
		Lon:            *query.Lon,
		RadiusMeters:   query.Radius,
		ExcludeUnnamed: query.ExcludeUnnamed,
		Language:       query.Lang,
	})
	if err != nil {
		h.respondError(c, log, err, "Failed to search places")
		return
	}
	c.JSON(http.StatusOK, ModelsToNearbyResponses(results))
}

// @Summary Get cached place
// @Tags Places
// @Produce json
// @Security ApiKeyAuth
// @Param key path string true "Place key, osm:{type}:{id}"
// @Success 200 {object} PlaceResponse
// @Failure 400 {object} map[string]string "Invalid place key"
// @Failure 404 {object} map[string]string "Place not found"
// @Router /places/{key} [get]
func (h *Handler) getPlace(c *gin.Context) {
	key := c.Param("key")
	log := h.logger.WithField("method", "getPlace").WithField("place_key", key)

	place, err := h.placeService.GetPlace(c.Request.Context(), key)
	if err != nil {
		h.respondError(c, log, err, "Failed to get place")
		return
	}
	c.JSON(http.StatusOK, ModelToPlaceResponse(place))
}

// @Summary List checkins of a place
// @Tags Checkins
// @Produce json
// @Security ApiKeyAuth
// @Param key path string true "Place key"
// @Success 200 {array} CheckinResponse
// @Failure 400 {object} map[string]string "Invalid place key"
// @Router /places/{key}/checkins [get]
func (h *Handler) listPlaceCheckins(c *gin.Context) {
	key := c.Param("key")
	log := h.logger.WithField("method", "listPlaceCheckins").WithField("place_key", key)

	checkins, err := h.placeService.ListPlaceCheckins(c.Request.Context(), key)
	if err != nil {
		h.respondError(c, log, err, "Failed to list place checkins")
		return
	}
	c.JSON(http.StatusOK, ModelsToCheckinResponses(checkins))
}

// @Summary Check in at a place
// @Description Records a visit. A second visit to the same place within the same 30-minute window is rejected. Requires API key.
// @Tags Checkins
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param checkin body CheckinRequest true "Checkin request"
// @Success 201 {object} CheckinCreatedResponse
// @Failure 400 {object} map[string]string "Invalid request body or place key"
// @Failure 409 {object} map[string]string "Duplicate checkin"
// @Router /checkins [post]
func (h *Handler) createCheckin(c *gin.Context) {
	log := h.logger.WithField("method", "createCheckin")

	var input CheckinRequest
	if !h.bindAndValidate(c, log, &input) {
		return
	}

	id, err := h.placeService.PerformCheckin(c.Request.Context(), input.PlaceKey, input.Note)
	if err != nil {
		h.respondError(c, log.WithField("place_key", input.PlaceKey), err, "Failed to perform checkin")
		return
	}
	c.JSON(http.StatusCreated, CheckinCreatedResponse{ID: id})
}

// @Summary Checkin history
// @Description Paginated history, newest first. Requires API key.
// @Tags Checkins
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Success 200 {array} CheckinResponse
// @Router /checkins [get]
func (h *Handler) listCheckins(c *gin.Context) {
	log := h.logger.WithField("method", "listCheckins")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	items, err := h.placeService.ListCheckins(c.Request.Context(), page, pageSize)
	if err != nil {
		h.respondError(c, log, err, "Failed to list checkins")
		return
	}
	c.JSON(http.StatusOK, ModelsToHistoryResponses(items))
}

// @Summary Delete a checkin
// @Tags Checkins
// @Security ApiKeyAuth
// @Param id path int true "Checkin ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid checkin ID"
// @Failure 404 {object} map[string]string "Checkin not found"
// @Router /checkins/{id} [delete]
func (h *Handler) deleteCheckin(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkin ID"})
		return
	}
	log := h.logger.WithField("method", "deleteCheckin").WithField("id", id)

	if err := h.placeService.DeleteCheckin(c.Request.Context(), id); err != nil {
		h.respondError(c, log, err, "Failed to delete checkin")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Create an OSM node
// @Description Opens a changeset, creates the node and closes the changeset. Requires API key and a connected OSM account.
// @Tags OSM
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param node body CreateNodeRequest true "Node"
// @Success 201 {object} PlaceResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "OSM account not connected"
// @Failure 502 {object} map[string]string "OSM API failure"
// @Router /osm/nodes [post]
func (h *Handler) createNode(c *gin.Context) {
	log := h.logger.WithField("method", "createNode")

	var input CreateNodeRequest
	if !h.bindAndValidate(c, log, &input) {
		return
	}

	place, err := h.placeService.CreateNode(c.Request.Context(), *input.Latitude, *input.Longitude, input.Tags, input.Comment)
	if err != nil {
		h.respondError(c, log, err, "Failed to create osm node")
		return
	}
	c.JSON(http.StatusCreated, ModelToPlaceResponse(place))
}

// @Summary Update OSM node tags
// @Description Replaces the tags of an existing node. One version conflict is retried after re-fetching the node. Requires API key and a connected OSM account.
// @Tags OSM
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Node ID"
// @Param node body UpdateNodeRequest true "Tags"
// @Success 200 {object} PlaceResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "OSM account not connected"
// @Failure 409 {object} map[string]string "Version conflict"
// @Failure 502 {object} map[string]string "OSM API failure"
// @Router /osm/nodes/{id} [put]
func (h *Handler) updateNode(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid node ID"})
		return
	}
	log := h.logger.WithField("method", "updateNode").WithField("node_id", id)

	var input UpdateNodeRequest
	if !h.bindAndValidate(c, log, &input) {
		return
	}

	place, err := h.placeService.UpdateNode(c.Request.Context(), id, input.Tags, input.Comment)
	if err != nil {
		h.respondError(c, log, err, "Failed to update osm node")
		return
	}
	c.JSON(http.StatusOK, ModelToPlaceResponse(place))
}

// @Summary Start OSM login
// @Tags Auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} LoginURLResponse
// @Router /auth/osm/login [get]
func (h *Handler) osmLogin(c *gin.Context) {
	log := h.logger.WithField("method", "osmLogin")

	url, err := h.authService.LoginURL()
	if err != nil {
		h.respondError(c, log, err, "Failed to build login url")
		return
	}
	c.JSON(http.StatusOK, LoginURLResponse{URL: url})
}

// @Summary Complete OSM login
// @Description Exchanges the authorization code for an access token and stores it.
// @Tags Auth
// @Produce json
// @Security ApiKeyAuth
// @Param code query string true "Authorization code"
// @Success 200 {object} AuthStatusResponse
// @Failure 400 {object} map[string]string "Missing code"
// @Failure 502 {object} map[string]string "Token exchange failed"
// @Router /auth/osm/callback [get]
func (h *Handler) osmCallback(c *gin.Context) {
	log := h.logger.WithField("method", "osmCallback")

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code required"})
		return
	}

	if err := h.authService.CompleteLogin(c.Request.Context(), code); err != nil {
		h.respondError(c, log, err, "Failed to complete osm login")
		return
	}
	c.JSON(http.StatusOK, AuthStatusResponse{Authenticated: true})
}

// @Summary Disconnect OSM account
// @Tags Auth
// @Security ApiKeyAuth
// @Success 204 "No Content"
// @Router /auth/osm/logout [post]
func (h *Handler) osmLogout(c *gin.Context) {
	log := h.logger.WithField("method", "osmLogout")

	if err := h.authService.Logout(c.Request.Context()); err != nil {
		h.respondError(c, log, err, "Failed to logout")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary OSM authorization status
// @Tags Auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} AuthStatusResponse
// @Router /auth/osm/status [get]
func (h *Handler) osmStatus(c *gin.Context) {
	log := h.logger.WithField("method", "osmStatus")

	ok, err := h.authService.IsAuthenticated(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err, "Failed to read auth status")
		return
	}
	c.JSON(http.StatusOK, AuthStatusResponse{Authenticated: ok})
}

// @Summary Back up the database
// @Description Uploads the SQLite database and its WAL file to object storage.
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} BackupResponse
// @Failure 503 {object} map[string]string "Backup not configured"
// @Router /backup [post]
func (h *Handler) backup(c *gin.Context) {
	log := h.logger.WithField("method", "backup")
	if h.backupService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backup is not configured"})
		return
	}

	files, err := h.backupService.Backup(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err, "Backup failed")
		return
	}
	c.JSON(http.StatusOK, BackupResponse{Files: files})
}

// @Summary Restore the database
// @Description Downloads the latest backup over the local database files. The service must be restarted afterwards.
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} BackupResponse
// @Failure 404 {object} map[string]string "No backup found"
// @Failure 503 {object} map[string]string "Backup not configured"
// @Router /restore [post]
func (h *Handler) restore(c *gin.Context) {
	log := h.logger.WithField("method", "restore")
	if h.backupService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backup is not configured"})
		return
	}

	files, err := h.backupService.Restore(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err, "Restore failed")
		return
	}
	c.JSON(http.StatusOK, BackupResponse{Files: files, RestartRequired: true})
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
