// Package service wires the Berlinger reader and the reconstruction core into
// the operations the HTTP layer exposes.
package service

import (
	"context"
	"time"

	temperaturesensor "github.com/openmsupply/temperature-sensor"
	"github.com/openmsupply/temperature-sensor/internal/logger"
	"github.com/openmsupply/temperature-sensor/internal/report"
)

// DeviceReader abstracts USB report discovery and decoding, matching the
// concrete berlinger.Reader.
type DeviceReader interface {
	ReadSensors() ([]temperaturesensor.Sensor, error)
	ReadSerials() ([]string, error)
	ReadSensor(serial string) (temperaturesensor.Sensor, error)
	Parse(contents string) (temperaturesensor.Sensor, error)
}

// Sensors exposes the assembled sensors from the latest scan, with direct
// device reads as fallback.
type Sensors interface {
	List(ctx context.Context) ([]temperaturesensor.Sensor, error)
	Serials(ctx context.Context) ([]string, error)
	Get(ctx context.Context, serial string) (temperaturesensor.Sensor, error)
	Parse(ctx context.Context, contents string) (temperaturesensor.Sensor, error)
}

// History narrows a sensor's breach/log history to an inclusive time window.
type History interface {
	Window(ctx context.Context, serial string, from, to time.Time) (temperaturesensor.Sensor, error)
}

// Scanner runs the background rescan loop over the configured mounts and
// serves snapshots of the latest scan. Stop via context cancellation.
type Scanner interface {
	Run(ctx context.Context, tick time.Duration)
	Snapshot() Snapshot
}

// Service aggregates all sub-services.
type Service struct {
	Sensors
	History
	Scanner
}

// NewService wires the device reader into concrete services sharing one
// in-memory scan store.
func NewService(reader DeviceReader, dumps *report.Writer, log *logger.Logger) *Service {
	store := NewStore()
	sensors := NewSensorService(reader, store)
	return &Service{
		Sensors: sensors,
		History: NewHistoryService(sensors, dumps),
		Scanner: NewScannerService(reader, store, dumps, log),
	}
}
