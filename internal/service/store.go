package service

import (
	"sync"
	"time"

	temperaturesensor "github.com/openmsupply/temperature-sensor"
)

// SensorSummary is the per-sensor line of a scan snapshot.
type SensorSummary struct {
	Serial        string                       `json:"serial"`
	Name          string                       `json:"name"`
	SensorType    temperaturesensor.SensorType `json:"sensor_type"`
	BreachCount   int                          `json:"breach_count"`
	LogCount      int                          `json:"log_count"`
	LastConnected time.Time                    `json:"last_connected,omitempty"`
}

// Snapshot describes the latest completed scan.
type Snapshot struct {
	ScanID    string          `json:"scan_id"`
	UpdatedAt time.Time       `json:"updated_at"`
	Sensors   []SensorSummary `json:"sensors,omitempty"`
}

// Store holds the most recent scan in memory. Nothing is persisted: each scan
// fully replaces the previous one, so the store always mirrors the currently
// mounted devices.
type Store struct {
	mu        sync.RWMutex
	scanID    string
	updatedAt time.Time
	order     []string
	sensors   map[string]temperaturesensor.Sensor
}

func NewStore() *Store {
	return &Store{sensors: make(map[string]temperaturesensor.Sensor)}
}

// Replace swaps in the results of a completed scan. A later duplicate serial
// in the same scan is ignored.
func (s *Store) Replace(scanID string, at time.Time, sensors []temperaturesensor.Sensor) {
	bySerial := make(map[string]temperaturesensor.Sensor, len(sensors))
	order := make([]string, 0, len(sensors))
	for _, sensor := range sensors {
		if _, seen := bySerial[sensor.Serial]; seen {
			continue
		}
		bySerial[sensor.Serial] = sensor
		order = append(order, sensor.Serial)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanID = scanID
	s.updatedAt = at
	s.order = order
	s.sensors = bySerial
}

// All returns the scanned sensors in scan order.
func (s *Store) All() []temperaturesensor.Sensor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sensors := make([]temperaturesensor.Sensor, 0, len(s.order))
	for _, serial := range s.order {
		sensors = append(sensors, s.sensors[serial])
	}
	return sensors
}

// Serials returns the scanned serials in scan order.
func (s *Store) Serials() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Get looks up one scanned sensor by serial.
func (s *Store) Get(serial string) (temperaturesensor.Sensor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sensor, ok := s.sensors[serial]
	return sensor, ok
}

// Empty reports whether any scan has stored sensors.
func (s *Store) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order) == 0
}

// Snapshot summarizes the stored scan.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{ScanID: s.scanID, UpdatedAt: s.updatedAt}
	for _, serial := range s.order {
		sensor := s.sensors[serial]
		snap.Sensors = append(snap.Sensors, SensorSummary{
			Serial:        sensor.Serial,
			Name:          sensor.Name,
			SensorType:    sensor.SensorType,
			BreachCount:   len(sensor.Breaches),
			LogCount:      len(sensor.Logs),
			LastConnected: sensor.LastConnectedTimestamp,
		})
	}
	return snap
}
