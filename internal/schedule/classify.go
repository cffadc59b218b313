package schedule

import (
	"fmt"
	"time"
)

// State is the time classification of a window relative to an instant.
type State string

const (
	StateLive      State = "live"
	StateScheduled State = "scheduled"
	StateCompleted State = "completed"
)

const (
	dateLayout = "2006-01-02"

	// Windows saved without an explicit time open at midnight and close at
	// the end of the day.
	defaultStartTime = "00:00:00"
	defaultEndTime   = "23:59:59"
)

var timeLayouts = []string{"15:04:05", "15:04"}

func parseClock(s string) (h, m, sec int, err error) {
	for _, layout := range timeLayouts {
		t, perr := time.Parse(layout, s)
		if perr == nil {
			return t.Hour(), t.Minute(), t.Second(), nil
		}
		err = perr
	}
	return 0, 0, 0, err
}

func combine(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: %w", date, err)
	}
	h, m, s, err := parseClock(clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad time %q: %w", clock, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, s, 0, loc), nil
}

// StartsAt returns the window's opening instant, defaulting a missing
// start_time to midnight.
func (w Window) StartsAt(loc *time.Location) (time.Time, error) {
	clock := w.StartTime
	if clock == "" {
		clock = defaultStartTime
	}
	return combine(w.StartDate, clock, loc)
}

// EndsAt returns the window's closing instant, defaulting a missing end_time
// to end-of-day.
func (w Window) EndsAt(loc *time.Location) (time.Time, error) {
	clock := w.EndTime
	if clock == "" {
		clock = defaultEndTime
	}
	return combine(w.EndDate, clock, loc)
}

// Classify places a window in exactly one of live, scheduled or completed at
// the given instant. A window is live from its opening instant through its
// closing instant inclusive on both ends, so now == start or now == end is
// live. Given start <= end the three states partition every parseable window.
// Windows whose stored date/time values fail to parse return an error; callers
// drop those windows rather than failing the request.
func Classify(w Window, now time.Time) (State, error) {
	start, err := w.StartsAt(now.Location())
	if err != nil {
		return "", err
	}
	end, err := w.EndsAt(now.Location())
	if err != nil {
		return "", err
	}
	switch {
	case now.Before(start):
		return StateScheduled, nil
	case now.After(end):
		return StateCompleted, nil
	}
	return StateLive, nil
}
