// Package hours evaluates merchant business-hours schedules.
package hours

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Window is one weekday's opening window.
type Window struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// Schedule maps lowercase weekday names to opening windows. A nil schedule
// means the merchant configured no hours and is treated as always open; a
// weekday absent from a non-nil schedule is closed.
type Schedule map[string]Window

// Opening describes the next time a schedule opens.
type Opening struct {
	Day   string
	Start string
	Today bool
}

// ParseJSON decodes a schedule. Empty or malformed input yields a nil
// schedule rather than an error; a broken merchant setting must never take
// the widget down.
func ParseJSON(raw string) Schedule {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var schedule Schedule
	if err := json.Unmarshal([]byte(raw), &schedule); err != nil {
		return nil
	}
	if len(schedule) == 0 {
		return nil
	}
	normalized := make(Schedule, len(schedule))
	for day, window := range schedule {
		normalized[strings.ToLower(day)] = window
	}
	return normalized
}

// Open reports whether the schedule is open at t. Bounds are inclusive on
// both ends.
func (s Schedule) Open(t time.Time) bool {
	if s == nil {
		return true
	}
	window, ok := s[weekdayKey(t.Weekday())]
	if !ok || !window.Enabled {
		return false
	}
	start, err := parseClock(window.Start)
	if err != nil {
		return false
	}
	end, err := parseClock(window.End)
	if err != nil {
		return false
	}
	now := t.Hour()*60 + t.Minute()
	return now >= start && now <= end
}

// NextOpening returns the next opening after t, scanning up to seven days.
// Today counts only when the window has not started yet. The second return
// is false when no enabled window exists.
func (s Schedule) NextOpening(t time.Time) (Opening, bool) {
	if s == nil {
		return Opening{}, false
	}
	now := t.Hour()*60 + t.Minute()
	for offset := 0; offset < 7; offset++ {
		day := t.AddDate(0, 0, offset)
		window, ok := s[weekdayKey(day.Weekday())]
		if !ok || !window.Enabled {
			continue
		}
		start, err := parseClock(window.Start)
		if err != nil {
			continue
		}
		if offset == 0 && now >= start {
			continue
		}
		return Opening{
			Day:   weekdayKey(day.Weekday()),
			Start: window.Start,
			Today: offset == 0,
		}, true
	}
	return Opening{}, false
}

func weekdayKey(day time.Weekday) string {
	return strings.ToLower(day.String())
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(clock string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok {
		return 0, fmt.Errorf("malformed clock value %q", clock)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("malformed hour in %q", clock)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("malformed minute in %q", clock)
	}
	return hour*60 + minute, nil
}
