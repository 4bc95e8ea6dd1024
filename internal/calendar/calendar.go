// Package calendar maps instants onto calendar days in one fixed UTC offset.
//
// Every "same day" and "before today" comparison in starcoin goes through a
// day key produced here. The host process's local zone is never consulted.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DayLayout is the day key format. Keys sort lexically in date order.
const DayLayout = "2006-01-02"

// DefaultOffset is the product's home offset (UTC+8).
const DefaultOffset = 8 * time.Hour

var ErrInvalidOffset = errors.New("invalid utc offset")

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock returns a settable instant. Safe for concurrent use.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// Calendar converts instants to day keys in a fixed offset.
type Calendar struct {
	clock Clock
	loc   *time.Location
}

// New returns a Calendar reading time from clock and bucketing days at offset
// from UTC. A nil clock means the system clock.
func New(clock Clock, offset time.Duration) *Calendar {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Calendar{
		clock: clock,
		loc:   time.FixedZone(FormatOffset(offset), int(offset/time.Second)),
	}
}

func (c *Calendar) Now() time.Time { return c.clock.Now() }

func (c *Calendar) Location() *time.Location { return c.loc }

// DayKey returns the calendar day containing t.
func (c *Calendar) DayKey(t time.Time) string {
	return t.In(c.loc).Format(DayLayout)
}

// Today returns the day key for the clock's current instant.
func (c *Calendar) Today() string {
	return c.DayKey(c.clock.Now())
}

// DayBounds returns the half-open instant range [start, end) covered by key.
func (c *Calendar) DayBounds(key string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(DayLayout, key, c.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse day %q: %w", key, err)
	}
	return start, start.AddDate(0, 0, 1), nil
}

// ValidDay reports whether key is a well-formed day key.
func ValidDay(key string) bool {
	_, err := time.Parse(DayLayout, key)
	return err == nil
}

// Weekday returns the weekday of a day key.
func Weekday(key string) (time.Weekday, error) {
	d, err := time.Parse(DayLayout, key)
	if err != nil {
		return 0, fmt.Errorf("parse day %q: %w", key, err)
	}
	return d.Weekday(), nil
}

// ShiftDay returns the key n days after key (n may be negative). Day keys
// carry no zone, so the arithmetic is done on UTC dates.
func ShiftDay(key string, n int) (string, error) {
	d, err := time.Parse(DayLayout, key)
	if err != nil {
		return "", fmt.Errorf("parse day %q: %w", key, err)
	}
	return d.AddDate(0, 0, n).Format(DayLayout), nil
}

// LastDays returns the n day keys ending at (and including) key, oldest first.
func LastDays(key string, n int) ([]string, error) {
	days := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		d, err := ShiftDay(key, -i)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

// ParseOffset accepts "+08:00", "-05:30", "+8", "UTC" or "Z".
func ParseOffset(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "", "UTC", "Z":
		return 0, nil
	}

	sign := time.Duration(1)
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		sign = -1
		s = s[1:]
	default:
		return 0, fmt.Errorf("%w: %q needs a sign", ErrInvalidOffset, s)
	}

	hourPart, minPart, hasMin := strings.Cut(s, ":")
	hours, err := strconv.Atoi(hourPart)
	if err != nil || hours < 0 || hours > 14 {
		return 0, fmt.Errorf("%w: hours %q", ErrInvalidOffset, hourPart)
	}
	var mins int
	if hasMin {
		mins, err = strconv.Atoi(minPart)
		if err != nil || mins < 0 || mins > 59 {
			return 0, fmt.Errorf("%w: minutes %q", ErrInvalidOffset, minPart)
		}
	}
	return sign * (time.Duration(hours)*time.Hour + time.Duration(mins)*time.Minute), nil
}

// FormatOffset renders an offset as "UTC+08:00".
func FormatOffset(d time.Duration) string {
	sign := '+'
	if d < 0 {
		sign = '-'
		d = -d
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("UTC%c%02d:%02d", sign, h, m)
}
