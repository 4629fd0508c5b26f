package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/openmsupply/temperature-sensor/internal/berlinger"
	"github.com/openmsupply/temperature-sensor/internal/logger"
	"github.com/openmsupply/temperature-sensor/internal/report"
)

// ScannerService periodically rescans the configured mounts and replaces the
// scan store. Sensors are processed one at a time; the reconstruction core
// holds no cross-call state, so no further coordination is needed.
type ScannerService struct {
	reader DeviceReader
	store  *Store
	dumps  *report.Writer
	log    *logger.Logger
}

func NewScannerService(reader DeviceReader, store *Store, dumps *report.Writer, log *logger.Logger) *ScannerService {
	return &ScannerService{reader: reader, store: store, dumps: dumps, log: log}
}

// Run scans once immediately, then on every tick until ctx is canceled.
func (s *ScannerService) Run(ctx context.Context, tick time.Duration) {
	s.scan()

	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.scan()
		}
	}
}

// Snapshot returns a summary of the latest completed scan.
func (s *ScannerService) Snapshot() Snapshot {
	return s.store.Snapshot()
}

func (s *ScannerService) scan() {
	scanID := uuid.NewString()
	started := time.Now().UTC()

	sensors, err := s.reader.ReadSensors()
	switch {
	case errors.Is(err, berlinger.ErrNoSensors):
		// Nothing mounted; the store must reflect that.
		s.store.Replace(scanID, started, nil)
		if s.log != nil {
			s.log.Debugw("scan found no sensors", "scan_id", scanID)
		}
		return
	case err != nil:
		if s.log != nil {
			s.log.Errorw("scan failed", "scan_id", scanID, "err", err)
		}
		return
	}

	s.store.Replace(scanID, started, sensors)

	for _, sensor := range sensors {
		if s.dumps == nil {
			break
		}
		if path, err := s.dumps.Dump(sensor); err != nil {
			if s.log != nil {
				s.log.Warnw("sensor dump failed", "serial", sensor.Serial, "err", err)
			}
		} else if path != "" && s.log != nil {
			s.log.Debugw("sensor dump written", "serial", sensor.Serial, "path", path)
		}
	}

	if s.log != nil {
		s.log.Infow("scan complete", "scan_id", scanID, "sensors", len(sensors), "elapsed", time.Since(started))
	}
}
