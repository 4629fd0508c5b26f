package temperaturesensor

import "time"

// SampleSensor returns made-up example sensor data for automated tests and the
// API's demo mode: 19 one-minute samples from 13:00:00 containing one hot run
// (samples 4-10) and one cold run (samples 13-17), with the matching
// consecutive breach records already confirmed.
func SampleSensor() Sensor {
	configColdConsecutive := TemperatureBreachConfig{
		BreachType:         ColdConsecutive,
		MaximumTemperature: 100.0,
		MinimumTemperature: 2.0,
		Duration:           240 * time.Second,
	}

	configHotConsecutive := TemperatureBreachConfig{
		BreachType:         HotConsecutive,
		MaximumTemperature: 8.0,
		MinimumTemperature: -273.0,
		Duration:           300 * time.Second,
	}

	temperatures := []float64{
		3.5, 4.0, 5.0, 7.5, // ok
		8.8, 9.2, 8.7, 9.1, 8.4, 8.2, 8.1, // hot
		7.9, 3.2, // ok
		1.2, 1.3, 0.4, -0.2, 0.7, // cold
		2.5, // ok
	}

	timestamp := time.Date(2023, time.May, 23, 13, 0, 0, 0, time.UTC)
	interval := time.Minute

	hotStart := timestamp.Add(4 * interval)
	hotEnd := timestamp.Add(10 * interval)
	coldStart := timestamp.Add(13 * interval)
	coldEnd := timestamp.Add(17 * interval)

	logs := make([]TemperatureLog, 0, len(temperatures))
	for _, temperature := range temperatures {
		logs = append(logs, TemperatureLog{Temperature: temperature, Timestamp: timestamp})
		timestamp = timestamp.Add(interval)
	}

	breachHot := TemperatureBreach{
		BreachType:     HotConsecutive,
		StartTimestamp: hotStart,
		EndTimestamp:   hotEnd,
		Duration:       hotEnd.Sub(hotStart),
	}

	breachCold := TemperatureBreach{
		BreachType:     ColdConsecutive,
		StartTimestamp: coldStart,
		EndTimestamp:   coldEnd,
		Duration:       coldEnd.Sub(coldStart),
	}

	return Sensor{
		SensorType:             FridgeTagLogger,
		Serial:                 "reg 1234",
		Name:                   "Berlinger 1",
		LastConnectedTimestamp: timestamp,
		LogInterval:            interval,
		Breaches:               []TemperatureBreach{breachHot, breachCold},
		Configs:                []TemperatureBreachConfig{configColdConsecutive, configHotConsecutive},
		Logs:                   logs,
	}
}
