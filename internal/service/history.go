package service

import (
	"context"
	"errors"
	"time"

	temperaturesensor "github.com/openmsupply/temperature-sensor"
	"github.com/openmsupply/temperature-sensor/internal/report"
)

// ErrInvalidTimeRange is returned when both bounds are set and from > to.
var ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")

// HistoryService applies the inclusive history window to a sensor. Breaches
// overlapping the window keep their original boundaries, so a returned breach
// may extend beyond the requested window.
type HistoryService struct {
	sensors Sensors
	dumps   *report.Writer
}

func NewHistoryService(sensors Sensors, dumps *report.Writer) *HistoryService {
	return &HistoryService{sensors: sensors, dumps: dumps}
}

// Window fetches the sensor and narrows its logs and breaches to [from, to].
// A zero bound is unbounded on that side.
func (s *HistoryService) Window(ctx context.Context, serial string, from, to time.Time) (temperaturesensor.Sensor, error) {
	from, to = normalizeToUTC(from), normalizeToUTC(to)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return temperaturesensor.Sensor{}, ErrInvalidTimeRange
	}

	sensor, err := s.sensors.Get(ctx, serial)
	if err != nil {
		return temperaturesensor.Sensor{}, err
	}

	filtered := temperaturesensor.FilterSensor(sensor, from, to)
	if s.dumps != nil {
		// Best effort, debugging aid only.
		_, _ = s.dumps.DumpFiltered(filtered)
	}
	return filtered, nil
}

// normalizeToUTC returns t in UTC, preserving zero values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
