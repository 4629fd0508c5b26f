package breach

import (
	"time"

	temperaturesensor "github.com/openmsupply/temperature-sensor"
)

// CorrectWithLogs refines a reconstructed cumulative breach against the same
// day's temperature-log series, for sensors that record full logs alongside
// their cumulative alarms.
//
// Three rules are applied in order over one working (start, end) pair, so
// each rule observes the previous rule's output:
//
//  1. expand: grow the interval to the first/last breaching sample of the day
//     when they fall outside it;
//  2. midnight-snap: a first/last breaching sample within one log interval of
//     the day boundary snaps start to day-start / end to day-end, since the
//     true excursion may continue in the neighbouring day's data;
//  3. gap-correction: when the log-evidenced boundary is more than one log
//     interval inside the clamp-derived one, the continuity assumption behind
//     the clamp was wrong, so the log evidence wins.
//
// If no sample of the day breaches the config, the reconstruction stands
// unchanged (the device-reported alarm cannot be confirmed from the logs; the
// caller may want to log that). The correction is idempotent.
func CorrectWithLogs(
	b temperaturesensor.TemperatureBreach,
	config temperaturesensor.TemperatureBreachConfig,
	dayLogs []temperaturesensor.TemperatureLog,
	logInterval time.Duration,
) temperaturesensor.TemperatureBreach {
	first, last, ok := breachingBounds(config, dayLogs)
	if !ok {
		return b
	}

	dayStart := StartOfDay(b.StartTimestamp)
	dayEnd := dayStart.Add(24 * time.Hour)
	start, end := b.StartTimestamp, b.EndTimestamp

	// (1) expand
	if first.Before(start) {
		start = first
	}
	if last.After(end) {
		end = last
	}

	// (2) midnight-snap: day-start bounds the start, day-end bounds the end
	if first.Sub(dayStart) <= logInterval {
		start = dayStart
	}
	if dayEnd.Sub(last) <= logInterval {
		end = dayEnd
	}

	// (3) gap-correction
	if first.Sub(start) > logInterval {
		start = first
	}
	if end.Sub(last) > logInterval {
		end = last
	}

	b.StartTimestamp = start
	b.EndTimestamp = end
	b.Duration = end.Sub(start)
	return b
}

// breachingBounds returns the timestamps of the earliest and latest samples
// that are out of range for the config. ok is false when no sample breaches.
func breachingBounds(
	config temperaturesensor.TemperatureBreachConfig,
	logs []temperaturesensor.TemperatureLog,
) (first, last time.Time, ok bool) {
	for _, l := range logs {
		if !config.IsBreaching(l.Temperature) {
			continue
		}
		if !ok || l.Timestamp.Before(first) {
			first = l.Timestamp
		}
		if !ok || l.Timestamp.After(last) {
			last = l.Timestamp
		}
		ok = true
	}
	return first, last, ok
}
