package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршрут Health-check доступен без ключа
	api.GET("/system/health", h.healthCheck)

	secured := api.Group("")
	secured.Use(APIKeyAuthMiddleware(h.cfg, h.logger))

	places := secured.Group("/places")
	{
		places.GET("/nearby", h.searchNearby)
		places.GET("/:key", h.getPlace)
		places.GET("/:key/checkins", h.listPlaceCheckins)
	}

	checkins := secured.Group("/checkins")
	{
		checkins.POST("", h.createCheckin)
		checkins.GET("", h.listCheckins)
		checkins.DELETE("/:id", h.deleteCheckin)
	}

	nodes := secured.Group("/osm/nodes")
	{
		nodes.POST("", h.createNode)
		nodes.PUT("/:id", h.updateNode)
	}

	auth := secured.Group("/auth/osm")
	{
		auth.GET("/login", h.osmLogin)
		auth.GET("/callback", h.osmCallback)
		auth.POST("/logout", h.osmLogout)
		auth.GET("/status", h.osmStatus)
	}

	secured.POST("/backup", h.backup)
	secured.POST("/restore", h.restore)
}
