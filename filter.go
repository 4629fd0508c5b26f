package temperaturesensor

import "time"

// FilterSensor narrows a sensor's logs and breaches to those intersecting the
// inclusive [from, to] window, e.g. to include only data since the last time
// the sensor was read. A zero bound is unbounded on that side.
//
// Logs are kept by a pointwise test on their timestamp. Breaches are kept if
// any part of the breach overlaps the window and are never truncated: a
// partially overlapping breach keeps its original start and end, so filtered
// breach timestamps may lie outside the requested window.
//
// The two bounds are applied independently, start-filter then end-filter.
// Collections filtered to nothing become absent (nil). The input sensor is
// not modified.
func FilterSensor(sensor Sensor, from, to time.Time) Sensor {
	if !from.IsZero() {
		sensor.Logs = keepLogs(sensor.Logs, func(l TemperatureLog) bool {
			return !l.Timestamp.Before(from)
		})
		// Keep if any part of the breach is on or after the start bound.
		sensor.Breaches = keepBreaches(sensor.Breaches, func(b TemperatureBreach) bool {
			return !b.EndTimestamp.Before(from)
		})
	}

	if !to.IsZero() {
		sensor.Logs = keepLogs(sensor.Logs, func(l TemperatureLog) bool {
			return !l.Timestamp.After(to)
		})
		// Keep if any part of the breach is on or before the end bound.
		sensor.Breaches = keepBreaches(sensor.Breaches, func(b TemperatureBreach) bool {
			return !b.StartTimestamp.After(to)
		})
	}

	return sensor.Normalized()
}

func keepLogs(logs []TemperatureLog, keep func(TemperatureLog) bool) []TemperatureLog {
	if logs == nil {
		return nil
	}
	var filtered []TemperatureLog
	for _, l := range logs {
		if keep(l) {
			filtered = append(filtered, l)
		}
	}
	return filtered
}

func keepBreaches(breaches []TemperatureBreach, keep func(TemperatureBreach) bool) []TemperatureBreach {
	if breaches == nil {
		return nil
	}
	var filtered []TemperatureBreach
	for _, b := range breaches {
		if keep(b) {
			filtered = append(filtered, b)
		}
	}
	return filtered
}
