package breach

import (
	"testing"
	"time"

	temperaturesensor "github.com/openmsupply/temperature-sensor"
)

// logsAt builds a log series starting at start with the given interval.
func logsAt(start time.Time, interval time.Duration, temperatures ...float64) []temperaturesensor.TemperatureLog {
	logs := make([]temperaturesensor.TemperatureLog, 0, len(temperatures))
	for i, temp := range temperatures {
		logs = append(logs, temperaturesensor.TemperatureLog{
			Temperature: temp,
			Timestamp:   start.Add(time.Duration(i) * interval),
		})
	}
	return logs
}

func hotConfig(d time.Duration) temperaturesensor.TemperatureBreachConfig {
	return temperaturesensor.TemperatureBreachConfig{
		BreachType:         temperaturesensor.HotCumulative,
		MinimumTemperature: -273.0,
		MaximumTemperature: 8.0,
		Duration:           d,
	}
}

func reconstructed(start, end time.Time) temperaturesensor.TemperatureBreach {
	return temperaturesensor.TemperatureBreach{
		BreachType:     temperaturesensor.HotCumulative,
		StartTimestamp: start,
		EndTimestamp:   end,
		Duration:       end.Sub(start),
	}
}

func TestCorrectWithLogs(t *testing.T) {
	t.Parallel()

	midnight := day(t)
	interval := 5 * time.Minute
	config := hotConfig(30 * time.Minute)

	cases := []struct {
		name      string
		breach    temperaturesensor.TemperatureBreach
		logs      []temperaturesensor.TemperatureLog
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:   "no breaching sample leaves reconstruction unchanged",
			breach: reconstructed(midnight.Add(9*time.Hour), midnight.Add(11*time.Hour)),
			logs:   logsAt(midnight.Add(9*time.Hour), interval, 4.0, 5.0, 6.0),
			// no-op
			wantStart: midnight.Add(9 * time.Hour),
			wantEnd:   midnight.Add(11 * time.Hour),
		},
		{
			name:   "expand start and end to breaching samples outside the interval",
			breach: reconstructed(midnight.Add(10*time.Hour), midnight.Add(10*time.Hour+30*time.Minute)),
			// breaching from 09:55 to 10:35
			logs:      logsAt(midnight.Add(9*time.Hour+55*time.Minute), interval, 9.0, 9.1, 9.2, 9.0, 8.9, 8.8, 9.0, 8.5, 8.6),
			wantStart: midnight.Add(9*time.Hour + 55*time.Minute),
			wantEnd:   midnight.Add(10*time.Hour + 35*time.Minute),
		},
		{
			name:   "first breaching sample within one interval of day start snaps to midnight",
			breach: reconstructed(midnight.Add(4*time.Minute), midnight.Add(time.Hour)),
			logs:   logsAt(midnight.Add(4*time.Minute), interval, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0),
			// 00:04 is within 5m of midnight
			wantStart: midnight,
			wantEnd:   midnight.Add(time.Hour),
		},
		{
			name:   "last breaching sample within one interval of day end snaps to next midnight",
			breach: reconstructed(midnight.Add(23*time.Hour), midnight.Add(23*time.Hour+55*time.Minute)),
			logs:   logsAt(midnight.Add(23*time.Hour), interval, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0),
			// last sample 23:55 is within 5m of next midnight
			wantStart: midnight.Add(23 * time.Hour),
			wantEnd:   midnight.Add(24 * time.Hour),
		},
		{
			name: "gap-correction trusts log evidence over the clamp assumption",
			// clamp said 09:00 but the first breaching sample is 09:30
			breach:    reconstructed(midnight.Add(9*time.Hour), midnight.Add(10*time.Hour)),
			logs:      logsAt(midnight.Add(9*time.Hour+30*time.Minute), interval, 9.0, 9.1, 9.0, 9.2, 9.0, 9.1, 9.0),
			wantStart: midnight.Add(9*time.Hour + 30*time.Minute),
			wantEnd:   midnight.Add(10 * time.Hour),
		},
		{
			name: "gap-correction pulls the end back to the last breaching sample",
			// clamp said 12:00 but breaching samples stop at 10:30
			breach:    reconstructed(midnight.Add(10*time.Hour), midnight.Add(12*time.Hour)),
			logs:      logsAt(midnight.Add(10*time.Hour), interval, 9.0, 9.1, 9.0, 9.2, 9.0, 9.1, 9.0),
			wantStart: midnight.Add(10 * time.Hour),
			wantEnd:   midnight.Add(10*time.Hour + 30*time.Minute),
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := CorrectWithLogs(tc.breach, config, tc.logs, interval)

			if !got.StartTimestamp.Equal(tc.wantStart) {
				t.Errorf("start = %v, want %v", got.StartTimestamp, tc.wantStart)
			}
			if !got.EndTimestamp.Equal(tc.wantEnd) {
				t.Errorf("end = %v, want %v", got.EndTimestamp, tc.wantEnd)
			}
			if got.Duration != got.EndTimestamp.Sub(got.StartTimestamp) {
				t.Errorf("duration %v != end-start", got.Duration)
			}

			// Correction must be idempotent.
			again := CorrectWithLogs(got, config, tc.logs, interval)
			if !again.StartTimestamp.Equal(got.StartTimestamp) || !again.EndTimestamp.Equal(got.EndTimestamp) {
				t.Errorf("not idempotent: first (%v, %v), second (%v, %v)",
					got.StartTimestamp, got.EndTimestamp, again.StartTimestamp, again.EndTimestamp)
			}
		})
	}
}

func TestCorrectWithLogs_RulesObservePreviousRule(t *testing.T) {
	t.Parallel()

	// The first breaching sample is before the reconstructed start (rule 1
	// moves start back) and within one interval of midnight (rule 2 must see
	// the expanded value and still snap to midnight).
	midnight := day(t)
	interval := 5 * time.Minute
	config := hotConfig(time.Hour)

	breach := reconstructed(midnight.Add(30*time.Minute), midnight.Add(2*time.Hour))
	logs := logsAt(midnight.Add(3*time.Minute), interval,
		9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0)

	got := CorrectWithLogs(breach, config, logs, interval)
	if !got.StartTimestamp.Equal(midnight) {
		t.Fatalf("start = %v, want midnight %v", got.StartTimestamp, midnight)
	}
}

func TestCorrectWithLogs_ExpandedIntervalContainsOriginal(t *testing.T) {
	t.Parallel()

	midnight := day(t)
	interval := 5 * time.Minute
	config := hotConfig(time.Hour)

	breach := reconstructed(midnight.Add(10*time.Hour), midnight.Add(11*time.Hour))
	logs := logsAt(midnight.Add(9*time.Hour+40*time.Minute), interval,
		9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0, 9.0)

	got := CorrectWithLogs(breach, config, logs, interval)
	if got.StartTimestamp.After(breach.StartTimestamp) {
		t.Errorf("corrected start %v after original start %v", got.StartTimestamp, breach.StartTimestamp)
	}
	if got.EndTimestamp.Before(breach.EndTimestamp) {
		t.Errorf("corrected end %v before original end %v", got.EndTimestamp, breach.EndTimestamp)
	}
}
