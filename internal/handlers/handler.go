// Package handlers wires the HTTP layer to the sensor services.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/openmsupply/temperature-sensor/internal/logger"
	"github.com/openmsupply/temperature-sensor/internal/service"
)

// Handler wires HTTP routes to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs the HTTP handler with its dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds the gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	api := router.Group("/api/v1", h.requestIDMiddleware, h.requestLogMiddleware)
	{
		h.registerSensorRoutes(api)
	}

	// Live scan snapshots over WebSocket, same port.
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerSensorRoutes(api *gin.RouterGroup) {
	sensors := api.Group("/sensors")
	{
		sensors.GET("", h.listSensors)
		sensors.GET("/serials", h.listSerials)
		sensors.POST("/parse", h.parseSensor)
		sensors.GET("/:serial", h.getSensor)
		sensors.GET("/:serial/history", h.getHistory)
	}
}

// @Summary  Health check
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
