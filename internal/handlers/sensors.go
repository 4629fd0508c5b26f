package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openmsupply/temperature-sensor/internal/service"
)

const (
	errListSensors   = "failed to read sensors"
	errGetSensor     = "failed to read sensor"
	errParseSensor   = "failed to parse sensor report"
	errSensorMissing = "sensor not found"
	errEmptyBody     = "empty request body"

	// Uploaded report contents are small text files; cap defensively.
	maxParseBody = 1 << 20
)

// logAndJSONError logs the failure with the request id and replies with a
// JSON error body.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "request_id", c.GetString(requestIDKey)}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      List sensors
// @Description  All sensors assembled from the latest mount scan.
// @Tags         sensors
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, sensors"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/sensors [get]
func (h *Handler) listSensors(c *gin.Context) {
	sensors, err := h.services.Sensors.List(c.Request.Context())
	if err != nil && !errors.Is(err, service.ErrNoSensors) {
		h.logAndJSONError(c, http.StatusInternalServerError, errListSensors, "sensors_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(sensors),
		"sensors": sensors,
	})
}

// @Summary  List connected serials
// @Tags     sensors
// @Produce  json
// @Success  200  {object}  map[string]interface{}  "count, serials"
// @Failure  500  {object}  map[string]string
// @Router   /api/v1/sensors/serials [get]
func (h *Handler) listSerials(c *gin.Context) {
	serials, err := h.services.Sensors.Serials(c.Request.Context())
	if err != nil && !errors.Is(err, service.ErrNoSensors) {
		h.logAndJSONError(c, http.StatusInternalServerError, errListSensors, "serials_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(serials),
		"serials": serials,
	})
}

// @Summary  Get one sensor
// @Tags     sensors
// @Produce  json
// @Param    serial  path  string  true  "Sensor serial as recorded inside its report"
// @Success  200  {object}  temperaturesensor.Sensor
// @Failure  404  {object}  map[string]string
// @Failure  500  {object}  map[string]string
// @Router   /api/v1/sensors/{serial} [get]
func (h *Handler) getSensor(c *gin.Context) {
	serial := c.Param("serial")
	sensor, err := h.services.Sensors.Get(c.Request.Context(), serial)
	if err != nil {
		if errors.Is(err, service.ErrSensorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errSensorMissing})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetSensor, "sensor_get_failed", err, "serial", serial)
		return
	}
	c.JSON(http.StatusOK, sensor)
}

// @Summary      Parse a report
// @Description  Assembles a sensor from raw report contents posted as the request body.
// @Tags         sensors
// @Accept       plain
// @Produce      json
// @Success      200  {object}  temperaturesensor.Sensor
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/sensors/parse [post]
func (h *Handler) parseSensor(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxParseBody))
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errEmptyBody})
		return
	}

	sensor, err := h.services.Sensors.Parse(c.Request.Context(), string(body))
	if err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, errParseSensor, "sensor_parse_failed", err)
		return
	}
	c.JSON(http.StatusOK, sensor)
}
