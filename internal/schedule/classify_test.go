package schedule_test

import (
	"testing"
	"time"

	"github.com/campuskit/surveyhub/internal/schedule"
)

func window(startDate, startTime, endDate, endTime string) schedule.Window {
	return schedule.Window{
		SurveyID:  "s1",
		StartDate: startDate, StartTime: startTime,
		EndDate: endDate, EndTime: endTime,
	}
}

func at(y int, mo time.Month, d, h, m, s int) time.Time {
	return time.Date(y, mo, d, h, m, s, 0, time.UTC)
}

func TestClassifyStates(t *testing.T) {
	now := at(2026, 9, 1, 12, 0, 0)

	cases := []struct {
		name string
		w    schedule.Window
		want schedule.State
	}{
		{"spans today", window("2026-08-31", "", "2026-09-02", ""), schedule.StateLive},
		{"opens today earlier", window("2026-09-01", "09:00:00", "2026-09-01", "18:00:00"), schedule.StateLive},
		{"opens today later", window("2026-09-01", "14:00:00", "2026-09-01", "18:00:00"), schedule.StateScheduled},
		{"future date", window("2026-09-02", "", "2026-09-03", ""), schedule.StateScheduled},
		{"ended yesterday", window("2026-08-20", "", "2026-08-31", ""), schedule.StateCompleted},
		{"ended today earlier", window("2026-09-01", "08:00:00", "2026-09-01", "11:59:59"), schedule.StateCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := schedule.Classify(tc.w, now)
			if err != nil {
				t.Fatalf("classify: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestClassifyBoundaryInstants(t *testing.T) {
	w := window("2026-09-01", "12:00:00", "2026-09-01", "13:00:00")

	if got, _ := schedule.Classify(w, at(2026, 9, 1, 12, 0, 0)); got != schedule.StateLive {
		t.Fatalf("now == start_time: got %s, want live", got)
	}
	if got, _ := schedule.Classify(w, at(2026, 9, 1, 13, 0, 0)); got != schedule.StateLive {
		t.Fatalf("now == end_time: got %s, want live", got)
	}
	if got, _ := schedule.Classify(w, at(2026, 9, 1, 11, 59, 59)); got != schedule.StateScheduled {
		t.Fatalf("one second before start: got %s, want scheduled", got)
	}
	if got, _ := schedule.Classify(w, at(2026, 9, 1, 13, 0, 1)); got != schedule.StateCompleted {
		t.Fatalf("one second after end: got %s, want completed", got)
	}
}

// Every parseable window lands in exactly one state at any instant.
func TestClassifyPartitions(t *testing.T) {
	windows := []schedule.Window{
		window("2026-08-30", "", "2026-09-02", ""),
		window("2026-09-01", "00:00:00", "2026-09-01", "23:59:59"),
		window("2026-09-01", "12:00:00", "2026-09-01", "12:00:00"), // zero-length window
		window("2026-09-05", "09:00", "2026-09-06", "17:00"),
		window("2026-07-01", "", "2026-07-31", ""),
	}
	instants := []time.Time{
		at(2026, 9, 1, 0, 0, 0),
		at(2026, 9, 1, 12, 0, 0),
		at(2026, 9, 1, 23, 59, 59),
		at(2026, 9, 5, 9, 0, 0),
	}
	for _, now := range instants {
		for i, w := range windows {
			state, err := schedule.Classify(w, now)
			if err != nil {
				t.Fatalf("window %d at %v: %v", i, now, err)
			}
			switch state {
			case schedule.StateLive, schedule.StateScheduled, schedule.StateCompleted:
			default:
				t.Fatalf("window %d at %v: unexpected state %q", i, now, state)
			}
		}
	}
}

func TestClassifyDefaultsMissingTimes(t *testing.T) {
	w := window("2026-09-01", "", "2026-09-01", "")

	start, err := w.StartsAt(time.UTC)
	if err != nil {
		t.Fatalf("StartsAt: %v", err)
	}
	if !start.Equal(at(2026, 9, 1, 0, 0, 0)) {
		t.Fatalf("start defaulted to %v, want midnight", start)
	}
	end, err := w.EndsAt(time.UTC)
	if err != nil {
		t.Fatalf("EndsAt: %v", err)
	}
	if !end.Equal(at(2026, 9, 1, 23, 59, 59)) {
		t.Fatalf("end defaulted to %v, want end of day", end)
	}
}

func TestClassifyRejectsMalformedValues(t *testing.T) {
	bad := []schedule.Window{
		window("09/01/2026", "", "2026-09-02", ""),
		window("2026-09-01", "noon", "2026-09-02", ""),
		window("2026-09-01", "", "soon", ""),
	}
	for i, w := range bad {
		if _, err := schedule.Classify(w, at(2026, 9, 1, 12, 0, 0)); err == nil {
			t.Fatalf("window %d: expected parse error", i)
		}
	}
}
