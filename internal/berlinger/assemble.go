package berlinger

import (
	"sort"
	"strings"

	temperaturesensor "github.com/openmsupply/temperature-sensor"
	"github.com/openmsupply/temperature-sensor/internal/breach"
)

// sensorType picks the reconstruction family for a decoded report: Q-tags by
// model name, Fridge-tags by whether the report carries a full log series.
func sensorType(r rawReport) temperaturesensor.SensorType {
	model := strings.ToLower(r.model)
	if strings.Contains(model, "q-tag") || strings.Contains(model, "qtag") {
		return temperaturesensor.QTag
	}
	if len(r.logs) > 0 {
		return temperaturesensor.FridgeTagLogger
	}
	return temperaturesensor.FridgeTag
}

// assemble turns a parsed report into a Sensor, reconstructing cumulative
// breaches, correcting them against same-day logs when the device records
// them, and deriving consecutive breaches where the family supports it.
func assemble(r rawReport) temperaturesensor.Sensor {
	st := sensorType(r)
	days := breach.GroupLogsByDay(r.logs)

	configByType := make(map[temperaturesensor.BreachType]temperaturesensor.TemperatureBreachConfig, len(r.configs))
	for _, c := range r.configs {
		configByType[c.BreachType] = c
	}

	var breaches []temperaturesensor.TemperatureBreach

	// Cumulative triggers: clamp to the day, then correct from logs when the
	// device records them.
	for _, d := range r.days {
		for _, trig := range d.triggers {
			config, ok := configByType[trig.breachType]
			if !ok || trig.trigger.IsZero() {
				continue
			}
			b := breach.ReconstructCumulative(trig.breachType, trig.trigger, config.Duration, trig.total)
			if dayLogs := breach.LogsForDay(days, trig.trigger); len(dayLogs) > 0 {
				b = breach.CorrectWithLogs(b, config, dayLogs, r.logInterval)
			}
			if b.Duration <= 0 {
				// Degenerate zero-length reconstruction, nothing to report.
				continue
			}
			breaches = append(breaches, b)
		}
	}

	// Q-tag consecutive records are boundary-exact; take them verbatim.
	for _, rec := range r.breaches {
		if rec.start.IsZero() || rec.end.Before(rec.start) {
			continue
		}
		breaches = append(breaches, temperaturesensor.TemperatureBreach{
			BreachType:     rec.breachType,
			StartTimestamp: rec.start,
			EndTimestamp:   rec.end,
			Duration:       rec.end.Sub(rec.start),
		})
	}

	// Fridge-tags with logging only record cumulative alarms, but the log
	// series lets us detect consecutive breaches with the same temperature
	// and duration thresholds.
	if st == temperaturesensor.FridgeTagLogger {
		for _, c := range r.configs {
			if !c.BreachType.IsCumulative() {
				continue
			}
			mirrored := c
			mirrored.BreachType = c.BreachType.AsConsecutive()
			breaches = append(breaches, breach.DetectConsecutive(mirrored, r.logs, r.logInterval)...)
		}
	}

	sort.SliceStable(breaches, func(i, j int) bool {
		return breaches[i].StartTimestamp.Before(breaches[j].StartTimestamp)
	})

	logs := append([]temperaturesensor.TemperatureLog(nil), r.logs...)
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.Before(logs[j].Timestamp)
	})

	name := r.name
	if name == "" {
		name = strings.TrimSpace(r.model + " " + r.serial)
	}

	return temperaturesensor.Sensor{
		SensorType:             st,
		Serial:                 r.serial,
		Name:                   name,
		LastConnectedTimestamp: r.lastConnected,
		LogInterval:            r.logInterval,
		Breaches:               breaches,
		Configs:                append([]temperaturesensor.TemperatureBreachConfig(nil), r.configs...),
		Logs:                   logs,
	}.Normalized()
}
