package service

import (
	"context"

	temperaturesensor "github.com/openmsupply/temperature-sensor"
	"github.com/openmsupply/temperature-sensor/internal/berlinger"
)

// SensorService answers sensor queries from the latest scan, falling back to
// a direct device read when the store has nothing for the request.
type SensorService struct {
	reader DeviceReader
	store  *Store
}

func NewSensorService(reader DeviceReader, store *Store) *SensorService {
	return &SensorService{reader: reader, store: store}
}

// List returns the sensors from the latest scan. Before the first scan has
// stored anything it reads the mounts directly.
func (s *SensorService) List(ctx context.Context) ([]temperaturesensor.Sensor, error) {
	if !s.store.Empty() {
		return s.store.All(), nil
	}
	return s.reader.ReadSensors()
}

// Serials returns the serials from the latest scan, reading the mounts
// directly before the first scan.
func (s *SensorService) Serials(ctx context.Context) ([]string, error) {
	if !s.store.Empty() {
		return s.store.Serials(), nil
	}
	return s.reader.ReadSerials()
}

// Get returns one sensor by serial, from the store when present, otherwise by
// reading the mounts. Returns berlinger.ErrSensorNotFound when no mounted
// report matches.
func (s *SensorService) Get(ctx context.Context, serial string) (temperaturesensor.Sensor, error) {
	if sensor, ok := s.store.Get(serial); ok {
		return sensor, nil
	}
	return s.reader.ReadSensor(serial)
}

// Parse assembles a sensor from raw report contents supplied by the caller.
func (s *SensorService) Parse(ctx context.Context, contents string) (temperaturesensor.Sensor, error) {
	return s.reader.Parse(contents)
}

// ErrSensorNotFound is the not-found sentinel callers should test with
// errors.Is; it is the reader's sentinel re-exported so handlers do not need
// to import the decoding package.
var ErrSensorNotFound = berlinger.ErrSensorNotFound

// ErrNoSensors is returned when no mounted report decodes at all.
var ErrNoSensors = berlinger.ErrNoSensors
