package berlinger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeReport drops a report (and optionally its PDF pair) into mount.
func writeReport(t *testing.T, mount, serial, contents string, withPDF bool) {
	t.Helper()
	base := filepath.Join(mount, "serial_"+serial)
	if err := os.WriteFile(base+".txt", []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	if withPDF {
		if err := os.WriteFile(base+".pdf", []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestReader_ReadSensors(t *testing.T) {
	t.Parallel()

	mount := t.TempDir()
	writeReport(t, mount, "32001234", fridgeTagLoggerReport, true)
	writeReport(t, mount, "Q9876", qtagReport, true)
	// No PDF pair: must be skipped.
	writeReport(t, mount, "orphan", fridgeTagReport, false)

	r := NewReader([]string{mount, filepath.Join(mount, "missing")}, nil)
	sensors, err := r.ReadSensors()
	if err != nil {
		t.Fatalf("ReadSensors: %v", err)
	}
	if len(sensors) != 2 {
		t.Fatalf("sensors = %d, want 2 (orphan txt skipped)", len(sensors))
	}

	serials, err := r.ReadSerials()
	if err != nil {
		t.Fatalf("ReadSerials: %v", err)
	}
	want := map[string]bool{"32001234": true, "Q9876": true}
	for _, s := range serials {
		if !want[s] {
			t.Errorf("unexpected serial %q", s)
		}
	}
}

func TestReader_ReadSensorBySerial(t *testing.T) {
	t.Parallel()

	mount := t.TempDir()
	writeReport(t, mount, "32001234", fridgeTagLoggerReport, true)

	r := NewReader([]string{mount}, nil)
	sensor, err := r.ReadSensor("32001234")
	if err != nil {
		t.Fatalf("ReadSensor: %v", err)
	}
	if sensor.Serial != "32001234" {
		t.Errorf("serial = %q", sensor.Serial)
	}

	if _, err := r.ReadSensor("nope"); !errors.Is(err, ErrSensorNotFound) {
		t.Fatalf("err = %v, want ErrSensorNotFound", err)
	}
}

func TestReader_EmptyMounts(t *testing.T) {
	t.Parallel()

	r := NewReader([]string{t.TempDir()}, nil)
	if _, err := r.ReadSensors(); !errors.Is(err, ErrNoSensors) {
		t.Fatalf("err = %v, want ErrNoSensors", err)
	}
	if _, err := r.ReadSensor("any"); !errors.Is(err, ErrSensorNotFound) {
		t.Fatalf("err = %v, want ErrSensorNotFound", err)
	}
}

func TestReader_Parse(t *testing.T) {
	t.Parallel()

	r := NewReader(nil, nil)
	sensor, err := r.Parse(qtagReport)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sensor.Serial != "Q9876" {
		t.Errorf("serial = %q", sensor.Serial)
	}

	if _, err := r.Parse("Device\nModel: mystery\n"); err == nil {
		t.Fatal("expected error for report without serial")
	}
}
