package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestDayKeyIgnoresHostZone(t *testing.T) {
	// 2026-06-10 17:30 UTC is already 2026-06-11 01:30 at UTC+8.
	instant := time.Date(2026, 6, 10, 17, 30, 0, 0, time.UTC)
	cal := New(NewFixedClock(instant), DefaultOffset)

	orig := time.Local
	t.Cleanup(func() { time.Local = orig })

	zones := []*time.Location{
		time.UTC,
		time.FixedZone("HST", -10*3600),
		time.FixedZone("NZST", 12*3600),
		time.FixedZone("IST", 5*3600+1800),
	}
	for _, z := range zones {
		time.Local = z
		if got := cal.DayKey(instant); got != "2026-06-11" {
			t.Errorf("local=%s: DayKey = %q, want %q", z, got, "2026-06-11")
		}
		if got := cal.DayKey(instant.In(z)); got != "2026-06-11" {
			t.Errorf("instant in %s: DayKey = %q, want %q", z, got, "2026-06-11")
		}
		if got := cal.Today(); got != "2026-06-11" {
			t.Errorf("local=%s: Today = %q, want %q", z, got, "2026-06-11")
		}
	}
}

func TestDayKeyMidnightBoundary(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	cal := New(nil, DefaultOffset)

	before := time.Date(2026, 6, 10, 23, 59, 0, 0, loc)
	after := time.Date(2026, 6, 11, 0, 1, 0, 0, loc)

	if got := cal.DayKey(before); got != "2026-06-10" {
		t.Errorf("23:59 DayKey = %q, want 2026-06-10", got)
	}
	if got := cal.DayKey(after); got != "2026-06-11" {
		t.Errorf("00:01 DayKey = %q, want 2026-06-11", got)
	}
}

func TestDayBounds(t *testing.T) {
	cal := New(nil, DefaultOffset)
	start, end, err := cal.DayBounds("2026-06-11")
	if err != nil {
		t.Fatalf("DayBounds: %v", err)
	}
	wantStart := time.Date(2026, 6, 10, 16, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start.UTC(), wantStart)
	}
	if end.Sub(start) != 24*time.Hour {
		t.Errorf("span = %v, want 24h", end.Sub(start))
	}
	if cal.DayKey(start) != "2026-06-11" || cal.DayKey(end.Add(-time.Nanosecond)) != "2026-06-11" {
		t.Error("bounds do not map back to the same day key")
	}

	if _, _, err := cal.DayBounds("06/11/2026"); err == nil {
		t.Error("expected error for malformed key")
	}
}

func TestShiftDay(t *testing.T) {
	tests := []struct {
		key  string
		n    int
		want string
	}{
		{"2026-06-11", -1, "2026-06-10"},
		{"2026-03-01", -1, "2026-02-28"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2026-12-31", 1, "2027-01-01"},
		{"2026-06-11", 0, "2026-06-11"},
	}
	for _, tt := range tests {
		got, err := ShiftDay(tt.key, tt.n)
		if err != nil {
			t.Fatalf("ShiftDay(%q, %d): %v", tt.key, tt.n, err)
		}
		if got != tt.want {
			t.Errorf("ShiftDay(%q, %d) = %q, want %q", tt.key, tt.n, got, tt.want)
		}
	}
}

func TestLastDays(t *testing.T) {
	days, err := LastDays("2026-06-02", 3)
	if err != nil {
		t.Fatalf("LastDays: %v", err)
	}
	want := []string{"2026-05-31", "2026-06-01", "2026-06-02"}
	if len(days) != len(want) {
		t.Fatalf("len = %d, want %d", len(days), len(want))
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("days[%d] = %q, want %q", i, days[i], want[i])
		}
	}
}

func TestWeekday(t *testing.T) {
	wd, err := Weekday("2026-06-10")
	if err != nil {
		t.Fatalf("Weekday: %v", err)
	}
	if wd != time.Wednesday {
		t.Errorf("weekday = %v, want Wednesday", wd)
	}
}

func TestParseOffset(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"+08:00", 8 * time.Hour},
		{"+8", 8 * time.Hour},
		{"-05:30", -(5*time.Hour + 30*time.Minute)},
		{"UTC", 0},
		{"z", 0},
		{"", 0},
	}
	for _, tt := range tests {
		got, err := ParseOffset(tt.in)
		if err != nil {
			t.Errorf("ParseOffset(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOffset(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"08:00", "+15", "+08:75", "+xx"} {
		if _, err := ParseOffset(bad); !errors.Is(err, ErrInvalidOffset) {
			t.Errorf("ParseOffset(%q) err = %v, want ErrInvalidOffset", bad, err)
		}
	}
}

func TestFormatOffset(t *testing.T) {
	if got := FormatOffset(8 * time.Hour); got != "UTC+08:00" {
		t.Errorf("got = %q, want UTC+08:00", got)
	}
	if got := FormatOffset(-(3*time.Hour + 30*time.Minute)); got != "UTC-03:30" {
		t.Errorf("got = %q, want UTC-03:30", got)
	}
}

func TestFixedClockAdvance(t *testing.T) {
	start := time.Date(2026, 6, 10, 15, 59, 0, 0, time.UTC)
	clock := NewFixedClock(start)
	cal := New(clock, DefaultOffset)

	if got := cal.Today(); got != "2026-06-10" {
		t.Fatalf("Today = %q, want 2026-06-10", got)
	}
	clock.Advance(2 * time.Minute)
	if got := cal.Today(); got != "2026-06-11" {
		t.Errorf("Today after advance = %q, want 2026-06-11", got)
	}
}
