package domain

import (
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ParseDate accepts RFC3339 or YYYY-MM-DD and returns the calendar date as
// midnight UTC. For RFC3339 input the date is taken in the input's own offset.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse(DateLayout, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// parseClock reads HH:MM (24h). ok is false for empty or malformed input.
func parseClock(s string) (hour, minute int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}

// EffectiveEnd is the instant the event is over: its end date at endTime in
// loc, or at 23:59:59.999 when endTime is missing or unparseable.
func (e *Event) EffectiveEnd(loc *time.Location) time.Time {
	y, m, d := e.EndDate.UTC().Date()
	if hour, minute, ok := parseClock(e.EndTime); ok {
		return time.Date(y, m, d, hour, minute, 0, 0, loc)
	}
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
}

// IsUpcoming reports whether the event has not ended at now. An event whose
// effective end equals now is still upcoming.
func (e *Event) IsUpcoming(now time.Time, loc *time.Location) bool {
	return !e.EffectiveEnd(loc).Before(now)
}

// Partition splits events into upcoming and completed, preserving input order.
// Both results are non-nil.
func Partition(events []Event, now time.Time, loc *time.Location) (upcoming, completed []Event) {
	upcoming = []Event{}
	completed = []Event{}
	for _, e := range events {
		if e.IsUpcoming(now, loc) {
			upcoming = append(upcoming, e)
		} else {
			completed = append(completed, e)
		}
	}
	return upcoming, completed
}

// MostRecentCompleted returns the completed event that ended last.
func MostRecentCompleted(events []Event, now time.Time, loc *time.Location) (Event, bool) {
	var (
		latest Event
		end    time.Time
		found  bool
	)
	for _, e := range events {
		if e.IsUpcoming(now, loc) {
			continue
		}
		if end2 := e.EffectiveEnd(loc); !found || end2.After(end) {
			latest, end, found = e, end2, true
		}
	}
	return latest, found
}
