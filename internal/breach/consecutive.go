package breach

import (
	"time"

	temperaturesensor "github.com/openmsupply/temperature-sensor"
)

// DetectConsecutive scans a (possibly multi-day) log series for maximal runs
// of out-of-range samples, independent of any device-reported trigger.
//
// A single in-range sample ends a run, as does a sampling gap of more than one
// log interval between neighbouring samples. A run is confirmed as a breach
// only when its span (last sample minus first sample) is at least the config
// duration; shorter runs are discarded as noise.
//
// Unlike cumulative breaches, a run may legitimately cross midnight, so no day
// clamping is applied. All confirmed breaches are returned in start order.
func DetectConsecutive(
	config temperaturesensor.TemperatureBreachConfig,
	logs []temperaturesensor.TemperatureLog,
	logInterval time.Duration,
) []temperaturesensor.TemperatureBreach {
	var (
		breaches         []temperaturesensor.TemperatureBreach
		runStart, runEnd time.Time
		inRun            bool
	)

	flush := func() {
		if inRun && runEnd.Sub(runStart) >= config.Duration {
			breaches = append(breaches, temperaturesensor.TemperatureBreach{
				BreachType:     config.BreachType,
				StartTimestamp: runStart,
				EndTimestamp:   runEnd,
				Duration:       runEnd.Sub(runStart),
			})
		}
		inRun = false
	}

	for _, l := range logs {
		if !config.IsBreaching(l.Temperature) {
			flush()
			continue
		}
		if inRun && logInterval > 0 && l.Timestamp.Sub(runEnd) > logInterval {
			// Missed samples between breaching readings: continuity is broken.
			flush()
		}
		if !inRun {
			runStart = l.Timestamp
			inRun = true
		}
		runEnd = l.Timestamp
	}
	flush()

	return breaches
}
