package breach

import (
	"time"

	temperaturesensor "github.com/openmsupply/temperature-sensor"
)

// ReconstructCumulative derives a breach interval for devices that report only
// when the alarm fired (trigger) and how long the breach lasted in total that
// day (totalDuration).
//
// The start is approximated by subtracting the config duration (the minimum
// excursion needed to raise the alarm) from the trigger time, and the end by
// adding the reported total to that start. Both bounds are clamped to the
// trigger's calendar day, since cumulative counters reset at midnight.
//
// This is a best-effort reconstruction: it is only exact when the excursion
// was continuous. When a dense log series exists for the day, CorrectWithLogs
// repairs the boundaries afterwards.
//
// A non-positive totalDuration yields a degenerate zero-length breach at the
// clamped start; callers decide whether to discard it.
func ReconstructCumulative(
	breachType temperaturesensor.BreachType,
	trigger time.Time,
	configDuration time.Duration,
	totalDuration time.Duration,
) temperaturesensor.TemperatureBreach {
	dayStart := StartOfDay(trigger)
	dayEnd := dayStart.Add(24 * time.Hour)

	start := trigger.Add(-configDuration)
	if start.Before(dayStart) {
		start = dayStart
	}

	if totalDuration < 0 {
		totalDuration = 0
	}
	end := start.Add(totalDuration)
	if end.After(dayEnd) {
		end = dayEnd
	}

	return temperaturesensor.TemperatureBreach{
		BreachType:     breachType,
		StartTimestamp: start,
		EndTimestamp:   end,
		Duration:       end.Sub(start),
	}
}
