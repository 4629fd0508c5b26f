package breach

import (
	"testing"
	"time"

	temperaturesensor "github.com/openmsupply/temperature-sensor"
)

func coldConfig(d time.Duration) temperaturesensor.TemperatureBreachConfig {
	return temperaturesensor.TemperatureBreachConfig{
		BreachType:         temperaturesensor.ColdConsecutive,
		MinimumTemperature: 2.0,
		MaximumTemperature: 100.0,
		Duration:           d,
	}
}

func consecutiveHotConfig(d time.Duration) temperaturesensor.TemperatureBreachConfig {
	return temperaturesensor.TemperatureBreachConfig{
		BreachType:         temperaturesensor.HotConsecutive,
		MinimumTemperature: -273.0,
		MaximumTemperature: 8.0,
		Duration:           d,
	}
}

func TestDetectConsecutive_SampleScenario(t *testing.T) {
	t.Parallel()

	// The documented sample: one-minute sampling from 13:00:00, hot run at
	// samples 4-10, cold run at samples 13-17.
	base := time.Date(2023, time.May, 23, 13, 0, 0, 0, time.UTC)
	interval := time.Minute
	logs := logsAt(base, interval,
		3.5, 4.0, 5.0, 7.5,
		8.8, 9.2, 8.7, 9.1, 8.4, 8.2, 8.1,
		7.9, 3.2,
		1.2, 1.3, 0.4, -0.2, 0.7,
		2.5,
	)

	hot := DetectConsecutive(consecutiveHotConfig(300*time.Second), logs, interval)
	if len(hot) != 1 {
		t.Fatalf("hot breaches = %d, want 1", len(hot))
	}
	if want := base.Add(4 * interval); !hot[0].StartTimestamp.Equal(want) {
		t.Errorf("hot start = %v, want %v", hot[0].StartTimestamp, want)
	}
	if want := base.Add(10 * interval); !hot[0].EndTimestamp.Equal(want) {
		t.Errorf("hot end = %v, want %v", hot[0].EndTimestamp, want)
	}

	cold := DetectConsecutive(coldConfig(240*time.Second), logs, interval)
	if len(cold) != 1 {
		t.Fatalf("cold breaches = %d, want 1", len(cold))
	}
	if want := base.Add(13 * interval); !cold[0].StartTimestamp.Equal(want) {
		t.Errorf("cold start = %v, want %v", cold[0].StartTimestamp, want)
	}
	if want := base.Add(17 * interval); !cold[0].EndTimestamp.Equal(want) {
		t.Errorf("cold end = %v, want %v", cold[0].EndTimestamp, want)
	}
}

func TestDetectConsecutive_RunMinimality(t *testing.T) {
	t.Parallel()

	base := day(t).Add(8 * time.Hour)
	interval := time.Minute

	cases := []struct {
		name     string
		minimum  time.Duration
		samples  []float64
		wantRuns int
	}{
		{
			name:    "run strictly shorter than the minimum is noise",
			minimum: 4 * time.Minute,
			// three breaching samples span 2 minutes
			samples:  []float64{3.0, 1.0, 1.0, 1.0, 3.0},
			wantRuns: 0,
		},
		{
			name:    "run exactly equal to the minimum confirms once",
			minimum: 4 * time.Minute,
			// five breaching samples span 4 minutes
			samples:  []float64{3.0, 1.0, 1.0, 1.0, 1.0, 1.0, 3.0},
			wantRuns: 1,
		},
		{
			name:     "single in-range sample splits a long run into two short ones",
			minimum:  4 * time.Minute,
			samples:  []float64{1.0, 1.0, 1.0, 3.0, 1.0, 1.0, 1.0},
			wantRuns: 0,
		},
		{
			name:     "two confirmed runs are both retained",
			minimum:  2 * time.Minute,
			samples:  []float64{1.0, 1.0, 1.0, 3.0, 1.0, 1.0, 1.0},
			wantRuns: 2,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			logs := logsAt(base, interval, tc.samples...)
			got := DetectConsecutive(coldConfig(tc.minimum), logs, interval)
			if len(got) != tc.wantRuns {
				t.Fatalf("runs = %d, want %d", len(got), tc.wantRuns)
			}
			for i := 1; i < len(got); i++ {
				if got[i].StartTimestamp.Before(got[i-1].StartTimestamp) {
					t.Errorf("breaches out of start order: %v before %v", got[i].StartTimestamp, got[i-1].StartTimestamp)
				}
			}
		})
	}
}

func TestDetectConsecutive_SamplingGapEndsRun(t *testing.T) {
	t.Parallel()

	base := day(t).Add(8 * time.Hour)
	interval := time.Minute

	// Five breaching samples, but a 3-minute hole after the second one.
	logs := []temperaturesensor.TemperatureLog{
		{Temperature: 1.0, Timestamp: base},
		{Temperature: 1.0, Timestamp: base.Add(1 * time.Minute)},
		{Temperature: 1.0, Timestamp: base.Add(4 * time.Minute)},
		{Temperature: 1.0, Timestamp: base.Add(5 * time.Minute)},
		{Temperature: 1.0, Timestamp: base.Add(6 * time.Minute)},
	}

	got := DetectConsecutive(coldConfig(2*time.Minute), logs, interval)
	if len(got) != 1 {
		t.Fatalf("runs = %d, want 1 (gap must end the first run)", len(got))
	}
	if !got[0].StartTimestamp.Equal(base.Add(4 * time.Minute)) {
		t.Errorf("start = %v, want %v", got[0].StartTimestamp, base.Add(4*time.Minute))
	}
}

func TestDetectConsecutive_RunMayCrossMidnight(t *testing.T) {
	t.Parallel()

	interval := 5 * time.Minute
	start := day(t).Add(23*time.Hour + 40*time.Minute)
	// Breaching from 23:40 through 00:20 the next day.
	logs := logsAt(start, interval, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0)

	got := DetectConsecutive(coldConfig(30*time.Minute), logs, interval)
	if len(got) != 1 {
		t.Fatalf("runs = %d, want 1", len(got))
	}
	if !got[0].StartTimestamp.Equal(start) {
		t.Errorf("start = %v, want %v (no day clamping)", got[0].StartTimestamp, start)
	}
	if want := start.Add(40 * time.Minute); !got[0].EndTimestamp.Equal(want) {
		t.Errorf("end = %v, want %v (no day clamping)", got[0].EndTimestamp, want)
	}
}

func TestDetectConsecutive_DuplicateTimestampsDoNotCrash(t *testing.T) {
	t.Parallel()

	base := day(t).Add(8 * time.Hour)
	logs := []temperaturesensor.TemperatureLog{
		{Temperature: 1.0, Timestamp: base},
		{Temperature: 1.0, Timestamp: base},
		{Temperature: 1.0, Timestamp: base.Add(time.Minute)},
	}
	got := DetectConsecutive(coldConfig(time.Minute), logs, time.Minute)
	if len(got) != 1 {
		t.Fatalf("runs = %d, want 1", len(got))
	}
}
