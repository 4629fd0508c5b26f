// Package report emits human-readable dump files of assembled sensors for
// debugging and reference, mirroring the sensor_<serial>_output.txt files the
// original tooling produced on each read.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	temperaturesensor "github.com/openmsupply/temperature-sensor"
)

// Writer dumps sensors to text files under Dir. A disabled writer is a no-op,
// so callers never need to guard dump calls.
type Writer struct {
	dir     string
	enabled bool
}

// New returns a Writer targeting dir. When enabled is false every dump is
// skipped and returns an empty path.
func New(dir string, enabled bool) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir, enabled: enabled}
}

// Dump writes sensor_<serial>_output.txt and returns its path.
func (w *Writer) Dump(sensor temperaturesensor.Sensor) (string, error) {
	return w.write(sensor, fmt.Sprintf("sensor_%s_output.txt", sanitize(sensor.Serial)))
}

// DumpFiltered writes sensor_<serial>_filtered_output.txt for a sensor that
// has been narrowed to a history window.
func (w *Writer) DumpFiltered(sensor temperaturesensor.Sensor) (string, error) {
	return w.write(sensor, fmt.Sprintf("sensor_%s_filtered_output.txt", sanitize(sensor.Serial)))
}

func (w *Writer) write(sensor temperaturesensor.Sensor, name string) (string, error) {
	if !w.enabled {
		return "", nil
	}
	path := filepath.Join(w.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating dump %s: %w", path, err)
	}
	defer f.Close()

	if err := render(f, sensor); err != nil {
		return "", fmt.Errorf("writing dump %s: %w", path, err)
	}
	return path, nil
}

func render(f *os.File, s temperaturesensor.Sensor) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Sensor %s (%s) type=%s\n", s.Serial, s.Name, s.SensorType)
	if !s.LastConnectedTimestamp.IsZero() {
		fmt.Fprintf(&b, "Last connected: %s\n", s.LastConnectedTimestamp.Format(time.DateTime))
	}
	if s.LogInterval > 0 {
		fmt.Fprintf(&b, "Log interval: %s\n", s.LogInterval)
	}

	fmt.Fprintf(&b, "\nConfigs (%d):\n", len(s.Configs))
	for _, c := range s.Configs {
		fmt.Fprintf(&b, "  %-17s min=%.1f max=%.1f duration=%s\n",
			c.BreachType, c.MinimumTemperature, c.MaximumTemperature, c.Duration)
	}

	fmt.Fprintf(&b, "\nBreaches (%d):\n", len(s.Breaches))
	for _, br := range s.Breaches {
		fmt.Fprintf(&b, "  %-17s %s -> %s (%s) acknowledged=%v\n",
			br.BreachType,
			br.StartTimestamp.Format(time.DateTime),
			br.EndTimestamp.Format(time.DateTime),
			br.Duration, br.Acknowledged)
	}

	fmt.Fprintf(&b, "\nLogs (%d):\n", len(s.Logs))
	for _, l := range s.Logs {
		fmt.Fprintf(&b, "  %s %6.2f\n", l.Timestamp.Format(time.DateTime), l.Temperature)
	}

	_, err := f.WriteString(b.String())
	return err
}

// sanitize keeps serials usable as file names.
func sanitize(serial string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, serial)
}
