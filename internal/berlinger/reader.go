package berlinger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	temperaturesensor "github.com/openmsupply/temperature-sensor"
	"github.com/openmsupply/temperature-sensor/internal/logger"
)

var (
	// ErrNoSensors means no report file was found on any configured mount.
	ErrNoSensors = errors.New("no sensors found")
	// ErrSensorNotFound means no mounted report matched the requested serial.
	ErrSensorNotFound = errors.New("sensor not found")
)

const (
	reportGlob    = "serial_*.txt"
	pairExtension = ".pdf"
)

// Reader discovers and decodes Berlinger report files from mounted USB
// drives. A report is a serial_<serial>.txt file in a mount's root folder,
// accompanied by the matching PDF the device writes alongside it (the PDF
// itself is never read).
type Reader struct {
	mounts []string
	log    *logger.Logger
}

// NewReader returns a Reader scanning the given mount points. log may be nil.
func NewReader(mounts []string, log *logger.Logger) *Reader {
	return &Reader{mounts: mounts, log: log}
}

// reportFiles lists the report files present across all mounts, skipping
// reports whose PDF pair is missing.
func (r *Reader) reportFiles() []string {
	var files []string
	for _, mount := range r.mounts {
		matches, err := filepath.Glob(filepath.Join(mount, reportGlob))
		if err != nil {
			// Only possible with a malformed pattern; the pattern is fixed.
			continue
		}
		for _, path := range matches {
			pair := strings.TrimSuffix(path, filepath.Ext(path)) + pairExtension
			if _, err := os.Stat(pair); err != nil {
				if r.log != nil {
					r.log.Warnw("report without matching pdf, skipping", "path", path)
				}
				continue
			}
			files = append(files, path)
		}
	}
	return files
}

// ReadSensors decodes every report found on the configured mounts. Reports
// that fail to decode are skipped. Returns ErrNoSensors when nothing was
// decoded.
func (r *Reader) ReadSensors() ([]temperaturesensor.Sensor, error) {
	var sensors []temperaturesensor.Sensor
	for _, path := range r.reportFiles() {
		sensor, err := r.readFile(path)
		if err != nil {
			if r.log != nil {
				r.log.Warnw("failed to decode report", "path", path, "err", err)
			}
			continue
		}
		sensors = append(sensors, sensor)
	}
	if len(sensors) == 0 {
		return nil, ErrNoSensors
	}
	return sensors, nil
}

// ReadSerials returns the serials of every decodable report on the mounts.
func (r *Reader) ReadSerials() ([]string, error) {
	sensors, err := r.ReadSensors()
	if err != nil {
		return nil, err
	}
	serials := make([]string, 0, len(sensors))
	for _, s := range sensors {
		serials = append(serials, s.Serial)
	}
	return serials, nil
}

// ReadSensor returns the mounted sensor whose decoded serial matches. The
// serial is matched against the Serial field inside the report, not the file
// name.
func (r *Reader) ReadSensor(serial string) (temperaturesensor.Sensor, error) {
	sensors, err := r.ReadSensors()
	if err != nil {
		if errors.Is(err, ErrNoSensors) {
			return temperaturesensor.Sensor{}, ErrSensorNotFound
		}
		return temperaturesensor.Sensor{}, err
	}
	for _, s := range sensors {
		if s.Serial == serial {
			return s, nil
		}
	}
	return temperaturesensor.Sensor{}, ErrSensorNotFound
}

// ReadFile decodes a single report file.
func (r *Reader) ReadFile(path string) (temperaturesensor.Sensor, error) {
	return r.readFile(path)
}

// Parse decodes a report from its raw contents instead of a file path.
func (r *Reader) Parse(contents string) (temperaturesensor.Sensor, error) {
	sensor, warnings, err := Decode(strings.NewReader(contents))
	r.logWarnings("(contents)", warnings)
	if err != nil {
		return temperaturesensor.Sensor{}, fmt.Errorf("parsing sensor report: %w", err)
	}
	return sensor, nil
}

func (r *Reader) readFile(path string) (temperaturesensor.Sensor, error) {
	f, err := os.Open(path)
	if err != nil {
		return temperaturesensor.Sensor{}, fmt.Errorf("opening report %s: %w", path, err)
	}
	defer f.Close()

	sensor, warnings, err := Decode(f)
	r.logWarnings(path, warnings)
	if err != nil {
		return temperaturesensor.Sensor{}, fmt.Errorf("decoding report %s: %w", path, err)
	}
	return sensor, nil
}

func (r *Reader) logWarnings(source string, warnings []string) {
	if r.log == nil {
		return
	}
	for _, w := range warnings {
		r.log.Warnw("report line skipped", "source", source, "warning", w)
	}
}
