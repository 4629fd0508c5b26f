// Package temperaturesensor holds the domain model for cold-chain USB data
// loggers: sensors, their breach configurations, recorded temperature logs and
// reconstructed temperature breaches.
//
// Timestamps are the naive wall-clock times recorded by the device, carried as
// time.Time in UTC. "Midnight" always means midnight of the recorded calendar
// day.
package temperaturesensor

import "time"

// BreachType classifies a breach configuration or a recorded breach.
//
// Consecutive types are boundary-exact: the device (or the detector) reports
// the true start and end. Cumulative types are midnight-to-midnight aggregates
// whose boundaries have to be reconstructed.
type BreachType string

const (
	ColdConsecutive BreachType = "COLD_CONSECUTIVE"
	HotConsecutive  BreachType = "HOT_CONSECUTIVE"
	ColdCumulative  BreachType = "COLD_CUMULATIVE"
	HotCumulative   BreachType = "HOT_CUMULATIVE"
)

// IsCold reports whether the type breaches below the configured minimum
// (as opposed to above the configured maximum).
func (b BreachType) IsCold() bool {
	return b == ColdConsecutive || b == ColdCumulative
}

// IsCumulative reports whether the type is a midnight-to-midnight aggregate.
func (b BreachType) IsCumulative() bool {
	return b == ColdCumulative || b == HotCumulative
}

// AsConsecutive maps a cumulative type to the consecutive type with the same
// temperature direction. Consecutive types map to themselves.
func (b BreachType) AsConsecutive() BreachType {
	switch b {
	case ColdCumulative:
		return ColdConsecutive
	case HotCumulative:
		return HotConsecutive
	default:
		return b
	}
}

// Valid reports whether b is one of the four known breach types.
func (b BreachType) Valid() bool {
	switch b {
	case ColdConsecutive, HotConsecutive, ColdCumulative, HotCumulative:
		return true
	}
	return false
}

// SensorType identifies the decoding family, which selects the reconstruction
// path: clamp-only (FridgeTag), clamp-then-correct (FridgeTagLogger), or exact
// consecutive records plus cumulative reconstruction (QTag).
type SensorType string

const (
	FridgeTag       SensorType = "FRIDGE_TAG"        // daily max/min only, cumulative breaches
	FridgeTagLogger SensorType = "FRIDGE_TAG_LOGGER" // cumulative breaches plus full logs
	QTag            SensorType = "Q_TAG"             // up to 5 configs, consecutive recorded exactly
)

// TemperatureLog is a single recorded temperature sample.
type TemperatureLog struct {
	Temperature float64   `json:"temperature"`
	Timestamp   time.Time `json:"timestamp"`
}

// TemperatureBreachConfig defines, for one breach type, the out-of-range test
// and the minimum continuous duration required to confirm a breach. Immutable
// once decoded.
type TemperatureBreachConfig struct {
	BreachType         BreachType    `json:"breach_type"`
	MinimumTemperature float64       `json:"minimum_temperature"`
	MaximumTemperature float64       `json:"maximum_temperature"`
	Duration           time.Duration `json:"duration"`
}

// IsBreaching reports whether a sample temperature is out of range for this
// config: below the minimum for cold types, above the maximum for hot types.
func (c TemperatureBreachConfig) IsBreaching(temperature float64) bool {
	if c.BreachType.IsCold() {
		return temperature < c.MinimumTemperature
	}
	return temperature > c.MaximumTemperature
}

// TemperatureBreach is a confirmed excursion interval.
//
// Invariant: EndTimestamp >= StartTimestamp, and after reconstruction
// Duration == EndTimestamp - StartTimestamp. Acknowledged is caller-set
// metadata and is never touched by reconstruction or filtering.
type TemperatureBreach struct {
	BreachType     BreachType    `json:"breach_type"`
	StartTimestamp time.Time     `json:"start_timestamp"`
	EndTimestamp   time.Time     `json:"end_timestamp"`
	Duration       time.Duration `json:"duration"`
	Acknowledged   bool          `json:"acknowledged"`
}

// Sensor is the aggregate root assembled once per device read. It owns its
// breaches, configs and logs exclusively.
//
// Logs, Breaches and Configs are nil when no data exists; an empty slice is
// always normalized to nil so that "no data" and "filtered to nothing" look
// the same to callers. LastConnectedTimestamp and LogInterval are zero when
// the device did not report them.
type Sensor struct {
	SensorType             SensorType                `json:"sensor_type"`
	Serial                 string                    `json:"serial"`
	Name                   string                    `json:"name"`
	LastConnectedTimestamp time.Time                 `json:"last_connected_timestamp,omitempty"`
	LogInterval            time.Duration             `json:"log_interval,omitempty"`
	Breaches               []TemperatureBreach       `json:"breaches,omitempty"`
	Configs                []TemperatureBreachConfig `json:"configs,omitempty"`
	Logs                   []TemperatureLog          `json:"logs,omitempty"`
}

// Normalized returns a copy of the sensor with empty collections replaced by
// nil, enforcing the absent-vs-non-empty convention at construction and
// filter boundaries.
func (s Sensor) Normalized() Sensor {
	if len(s.Breaches) == 0 {
		s.Breaches = nil
	}
	if len(s.Configs) == 0 {
		s.Configs = nil
	}
	if len(s.Logs) == 0 {
		s.Logs = nil
	}
	return s
}
