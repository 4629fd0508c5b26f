package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openmsupply/temperature-sensor/internal/service"
)

const (
	errFromInvalid  = "invalid 'from' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'"
	errToInvalid    = "invalid 'to' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'"
	errRangeInvalid = "'from' must be <= 'to'"
	errGetHistory   = "failed to load history"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string has no time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      Sensor history window
// @Description  Narrows a sensor's logs and breaches to the inclusive [from, to] window. Breaches overlapping the window keep their original boundaries, so returned breach timestamps may lie outside the window. A date-only 'to' is treated as end-of-day inclusive.
// @Tags         sensors
// @Produce      json
// @Param        serial  path   string  true   "Sensor serial"
// @Param        from    query  string  false  "Window start (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2023-05-23)
// @Param        to      query  string  false  "Window end; date-only treated as end of day"  example(2023-05-24)
// @Success      200  {object}  temperaturesensor.Sensor
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/sensors/{serial}/history [get]
func (h *Handler) getHistory(c *gin.Context) {
	var (
		from, to time.Time
		err      error
	)

	if qs := c.Query("from"); qs != "" {
		if from, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		if to, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		// A bare date means "through the end of that day".
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errRangeInvalid})
		return
	}

	serial := c.Param("serial")
	sensor, err := h.services.History.Window(c.Request.Context(), serial, from, to)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSensorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errSensorMissing})
		case errors.Is(err, service.ErrInvalidTimeRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": errRangeInvalid})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errGetHistory, "history_failed", err,
				"serial", serial, "from", from, "to", to)
		}
		return
	}
	c.JSON(http.StatusOK, sensor)
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}
