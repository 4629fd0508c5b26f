// Package berlinger decodes the text report files Berlinger Fridge-tag and
// Q-tag USB data loggers place on their mass-storage, and assembles them into
// domain Sensor values via the breach reconstruction core.
//
// A report is line-oriented and split into sections:
//
//	Device                     header: Model, Serial, Name, Lastconnected,
//	                           Loginterval (seconds)
//	Conf                       one per alarm config; Fridge-tags use
//	                           "Alarm: 0|1" (cold|hot cumulative), Q-tags use
//	                           "Alarmtype: 1..4"; Min, Max, Duration (seconds)
//	Day: <date>                cumulative trigger records for one calendar
//	                           day: repeated Alarm / Triggered / Accumulated
//	Breach                     Q-tag consecutive breach records: Alarmtype,
//	                           Start, End
//	Log                        "<timestamp> <temperature>" samples, sorted
//
// Malformed lines are skipped and reported as warnings; only a report without
// a Serial in its header is a decode error.
package berlinger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	temperaturesensor "github.com/openmsupply/temperature-sensor"
)

const timestampLayout = "2006-01-02 15:04:05"

// ErrMissingSerial is returned for a report whose header has no serial; such
// a file cannot be attributed to a device.
var ErrMissingSerial = errors.New("report has no serial")

// Fridge-tag cumulative alarm indices.
const (
	alarmCold = 0
	alarmHot  = 1
)

// Q-tag alarm types.
const (
	alarmTypeColdConsecutive = 1
	alarmTypeHotConsecutive  = 2
	alarmTypeColdCumulative  = 3
	alarmTypeHotCumulative   = 4
)

type rawTrigger struct {
	breachType temperaturesensor.BreachType
	trigger    time.Time
	total      time.Duration
}

type rawDay struct {
	day      time.Time
	triggers []rawTrigger
}

type rawBreach struct {
	breachType temperaturesensor.BreachType
	start, end time.Time
}

type rawReport struct {
	model         string
	serial        string
	name          string
	lastConnected time.Time
	logInterval   time.Duration

	configs  []temperaturesensor.TemperatureBreachConfig
	days     []rawDay
	breaches []rawBreach
	logs     []temperaturesensor.TemperatureLog

	warnings []string
}

// Decode parses one report and assembles the Sensor. Warnings describe lines
// that were skipped; they never fail the decode.
func Decode(r io.Reader) (temperaturesensor.Sensor, []string, error) {
	report, err := parseReport(r)
	if err != nil {
		return temperaturesensor.Sensor{}, report.warnings, err
	}
	sensor := assemble(report)
	return sensor, report.warnings, nil
}

// parser section states
const (
	sectionNone = iota
	sectionDevice
	sectionConf
	sectionDay
	sectionBreach
	sectionLog
)

func parseReport(r io.Reader) (rawReport, error) {
	var (
		report  rawReport
		section = sectionNone
		lineNo  int
	)

	warn := func(format string, args ...any) {
		report.warnings = append(report.warnings, fmt.Sprintf("line %d: ", lineNo)+fmt.Sprintf(format, args...))
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "Device":
			section = sectionDevice
			continue
		case line == "Conf":
			section = sectionConf
			report.configs = append(report.configs, temperaturesensor.TemperatureBreachConfig{})
			continue
		case strings.HasPrefix(line, "Day:"):
			section = sectionDay
			day, err := time.Parse("2006-01-02", strings.TrimSpace(strings.TrimPrefix(line, "Day:")))
			if err != nil {
				warn("bad day header %q", line)
				section = sectionNone
				continue
			}
			report.days = append(report.days, rawDay{day: day.UTC()})
			continue
		case line == "Breach":
			section = sectionBreach
			report.breaches = append(report.breaches, rawBreach{})
			continue
		case line == "Log":
			section = sectionLog
			continue
		}

		switch section {
		case sectionDevice:
			if err := report.deviceField(line); err != nil {
				warn("%v", err)
			}
		case sectionConf:
			if err := report.confField(line); err != nil {
				warn("%v", err)
			}
		case sectionDay:
			if err := report.dayField(line); err != nil {
				warn("%v", err)
			}
		case sectionBreach:
			if err := report.breachField(line); err != nil {
				warn("%v", err)
			}
		case sectionLog:
			if err := report.logSample(line); err != nil {
				warn("%v", err)
			}
		default:
			warn("text outside any section: %q", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("reading report: %w", err)
	}

	if report.serial == "" {
		return report, ErrMissingSerial
	}
	return report, nil
}

// splitField breaks "Key: value" lines.
func splitField(line string) (key, value string, err error) {
	key, value, found := strings.Cut(line, ":")
	if !found {
		return "", "", fmt.Errorf("expected 'Key: value', got %q", line)
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), nil
}

func (r *rawReport) deviceField(line string) error {
	key, value, err := splitField(line)
	if err != nil {
		return err
	}
	switch key {
	case "Model":
		r.model = value
	case "Serial":
		r.serial = value
	case "Name":
		r.name = value
	case "Lastconnected":
		t, err := time.Parse(timestampLayout, value)
		if err != nil {
			return fmt.Errorf("bad Lastconnected %q", value)
		}
		r.lastConnected = t.UTC()
	case "Loginterval":
		secs, err := strconv.Atoi(value)
		if err != nil || secs < 0 {
			return fmt.Errorf("bad Loginterval %q", value)
		}
		r.logInterval = time.Duration(secs) * time.Second
	default:
		return fmt.Errorf("unknown device field %q", key)
	}
	return nil
}

func (r *rawReport) confField(line string) error {
	key, value, err := splitField(line)
	if err != nil {
		return err
	}
	conf := &r.configs[len(r.configs)-1]
	switch key {
	case "Alarm":
		idx, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("bad Alarm %q", value)
		}
		bt, ok := cumulativeAlarmType(idx)
		if !ok {
			return fmt.Errorf("unknown Alarm index %d", idx)
		}
		conf.BreachType = bt
	case "Alarmtype":
		idx, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("bad Alarmtype %q", value)
		}
		bt, ok := qtagAlarmType(idx)
		if !ok {
			return fmt.Errorf("unknown Alarmtype %d", idx)
		}
		conf.BreachType = bt
	case "Min":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("bad Min %q", value)
		}
		conf.MinimumTemperature = v
	case "Max":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("bad Max %q", value)
		}
		conf.MaximumTemperature = v
	case "Duration":
		secs, err := strconv.Atoi(value)
		if err != nil || secs < 0 {
			return fmt.Errorf("bad Duration %q", value)
		}
		conf.Duration = time.Duration(secs) * time.Second
	default:
		return fmt.Errorf("unknown conf field %q", key)
	}
	return nil
}

func (r *rawReport) dayField(line string) error {
	key, value, err := splitField(line)
	if err != nil {
		return err
	}
	day := &r.days[len(r.days)-1]
	switch key {
	case "Alarm":
		idx, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("bad Alarm %q", value)
		}
		bt, ok := cumulativeAlarmType(idx)
		if !ok {
			return fmt.Errorf("unknown Alarm index %d", idx)
		}
		day.triggers = append(day.triggers, rawTrigger{breachType: bt})
	case "Alarmtype":
		// Q-tag day blocks name the alarm by its type; only cumulative types
		// appear per-day.
		idx, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("bad Alarmtype %q", value)
		}
		bt, ok := qtagAlarmType(idx)
		if !ok || !bt.IsCumulative() {
			return fmt.Errorf("unexpected day Alarmtype %d", idx)
		}
		day.triggers = append(day.triggers, rawTrigger{breachType: bt})
	case "Triggered":
		if len(day.triggers) == 0 {
			return fmt.Errorf("Triggered before any Alarm line")
		}
		t, err := time.Parse(timestampLayout, value)
		if err != nil {
			return fmt.Errorf("bad Triggered %q", value)
		}
		day.triggers[len(day.triggers)-1].trigger = t.UTC()
	case "Accumulated":
		if len(day.triggers) == 0 {
			return fmt.Errorf("Accumulated before any Alarm line")
		}
		secs, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("bad Accumulated %q", value)
		}
		day.triggers[len(day.triggers)-1].total = time.Duration(secs) * time.Second
	default:
		return fmt.Errorf("unknown day field %q", key)
	}
	return nil
}

func (r *rawReport) breachField(line string) error {
	key, value, err := splitField(line)
	if err != nil {
		return err
	}
	rec := &r.breaches[len(r.breaches)-1]
	switch key {
	case "Alarmtype":
		idx, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("bad Alarmtype %q", value)
		}
		bt, ok := qtagAlarmType(idx)
		if !ok {
			return fmt.Errorf("unknown Alarmtype %d", idx)
		}
		rec.breachType = bt
	case "Start":
		t, err := time.Parse(timestampLayout, value)
		if err != nil {
			return fmt.Errorf("bad Start %q", value)
		}
		rec.start = t.UTC()
	case "End":
		t, err := time.Parse(timestampLayout, value)
		if err != nil {
			return fmt.Errorf("bad End %q", value)
		}
		rec.end = t.UTC()
	default:
		return fmt.Errorf("unknown breach field %q", key)
	}
	return nil
}

func (r *rawReport) logSample(line string) error {
	// "<date> <time> <temperature>"
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return fmt.Errorf("expected '<timestamp> <temperature>', got %q", line)
	}
	t, err := time.Parse(timestampLayout, fields[0]+" "+fields[1])
	if err != nil {
		return fmt.Errorf("bad log timestamp %q", fields[0]+" "+fields[1])
	}
	v, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return fmt.Errorf("bad log temperature %q", fields[2])
	}
	r.logs = append(r.logs, temperaturesensor.TemperatureLog{Temperature: v, Timestamp: t.UTC()})
	return nil
}

func cumulativeAlarmType(idx int) (temperaturesensor.BreachType, bool) {
	switch idx {
	case alarmCold:
		return temperaturesensor.ColdCumulative, true
	case alarmHot:
		return temperaturesensor.HotCumulative, true
	}
	return "", false
}

func qtagAlarmType(idx int) (temperaturesensor.BreachType, bool) {
	switch idx {
	case alarmTypeColdConsecutive:
		return temperaturesensor.ColdConsecutive, true
	case alarmTypeHotConsecutive:
		return temperaturesensor.HotConsecutive, true
	case alarmTypeColdCumulative:
		return temperaturesensor.ColdCumulative, true
	case alarmTypeHotCumulative:
		return temperaturesensor.HotCumulative, true
	}
	return "", false
}
