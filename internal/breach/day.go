// Package breach implements breach-boundary reconstruction for cold-chain
// data loggers: cumulative-breach clamping to the calendar day, log-assisted
// boundary correction, and consecutive-breach detection from raw temperature
// logs.
//
// Every function here is a pure transformation over value records: no errors,
// no shared state. Timestamp arithmetic is total; clamping replaces error
// signaling throughout.
package breach

import (
	"time"

	temperaturesensor "github.com/openmsupply/temperature-sensor"
)

// StartOfDay returns midnight at the start of t's calendar day, in t's
// location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns midnight at the start of the next calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24 * time.Hour)
}

// DayLogs is one calendar day's slice of a sensor's log series.
type DayLogs struct {
	Day  time.Time // midnight at the start of the day
	Logs []temperaturesensor.TemperatureLog
}

// GroupLogsByDay splits an ordered log series into per-day buckets, preserving
// sample order. Days appear in first-seen order, which for a sorted series is
// chronological.
func GroupLogsByDay(logs []temperaturesensor.TemperatureLog) []DayLogs {
	var days []DayLogs
	for _, l := range logs {
		day := StartOfDay(l.Timestamp)
		if n := len(days); n > 0 && days[n-1].Day.Equal(day) {
			days[n-1].Logs = append(days[n-1].Logs, l)
			continue
		}
		days = append(days, DayLogs{Day: day, Logs: []temperaturesensor.TemperatureLog{l}})
	}
	return days
}

// LogsForDay returns the bucket for the given calendar day, or nil if the
// series has no samples that day.
func LogsForDay(days []DayLogs, day time.Time) []temperaturesensor.TemperatureLog {
	day = StartOfDay(day)
	for _, d := range days {
		if d.Day.Equal(day) {
			return d.Logs
		}
	}
	return nil
}
