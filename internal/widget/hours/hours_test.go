package hours

import (
	"testing"
	"time"
)

// 2026-03-02 is a Monday.
func mondayAt(hour, minute int) time.Time {
	return time.Date(2026, time.March, 2, hour, minute, 0, 0, time.UTC)
}

func TestOpen(t *testing.T) {
	t.Parallel()
	schedule := ParseJSON(`{"monday": {"enabled": true, "start": "09:00", "end": "17:00"}}`)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"monday before open", mondayAt(8, 59), false},
		{"monday at open", mondayAt(9, 0), true},
		{"monday near close", mondayAt(16, 59), true},
		{"monday at close", mondayAt(17, 0), true},
		{"monday after close", mondayAt(17, 1), false},
		{"tuesday not configured", mondayAt(12, 0).AddDate(0, 0, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := schedule.Open(tt.at); got != tt.want {
				t.Fatalf("Open(%s) = %v, want %v", tt.at.Format("Mon 15:04"), got, tt.want)
			}
		})
	}
}

func TestOpenNilSchedule(t *testing.T) {
	t.Parallel()
	var schedule Schedule
	if !schedule.Open(mondayAt(3, 0)) {
		t.Fatal("nil schedule must be always open")
	}
}

func TestOpenDisabledDay(t *testing.T) {
	t.Parallel()
	schedule := ParseJSON(`{"monday": {"enabled": false, "start": "09:00", "end": "17:00"}}`)
	if schedule.Open(mondayAt(12, 0)) {
		t.Fatal("disabled day must be closed")
	}
}

func TestParseJSONMalformed(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"garbage", "{not json"},
		{"wrong shape", `["monday"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseJSON(tt.raw); got != nil {
				t.Fatalf("ParseJSON(%q) = %v, want nil", tt.raw, got)
			}
		})
	}
}

func TestNextOpening(t *testing.T) {
	t.Parallel()
	schedule := ParseJSON(`{
		"monday": {"enabled": true, "start": "09:00", "end": "17:00"},
		"wednesday": {"enabled": true, "start": "10:00", "end": "16:00"}
	}`)

	tests := []struct {
		name      string
		at        time.Time
		wantDay   string
		wantStart string
		wantToday bool
	}{
		{"before today's window", mondayAt(7, 30), "monday", "09:00", true},
		{"during today's window", mondayAt(12, 0), "wednesday", "10:00", false},
		{"after today's window", mondayAt(18, 0), "wednesday", "10:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opening, ok := schedule.NextOpening(tt.at)
			if !ok {
				t.Fatal("NextOpening() ok = false, want true")
			}
			if opening.Day != tt.wantDay || opening.Start != tt.wantStart || opening.Today != tt.wantToday {
				t.Fatalf("NextOpening() = %+v, want {%s %s %v}", opening, tt.wantDay, tt.wantStart, tt.wantToday)
			}
		})
	}
}

func TestNextOpeningNoEnabledDays(t *testing.T) {
	t.Parallel()
	schedule := ParseJSON(`{"monday": {"enabled": false, "start": "09:00", "end": "17:00"}}`)
	if _, ok := schedule.NextOpening(mondayAt(12, 0)); ok {
		t.Fatal("NextOpening() ok = true, want false with no enabled days")
	}

	var nilSchedule Schedule
	if _, ok := nilSchedule.NextOpening(mondayAt(12, 0)); ok {
		t.Fatal("NextOpening() on nil schedule must report false")
	}
}
