package recurrence

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dukerupert/starcoin/internal/calendar"
	"github.com/dukerupert/starcoin/internal/model"
)

var (
	ErrUnknownSchedule = errors.New("unknown schedule")
	ErrInvalidDays     = errors.New("invalid custom days")
	ErrInvalidDate     = errors.New("invalid valid_date")
)

// Rule is a parsed task schedule.
type Rule struct {
	Schedule model.Schedule
	Date     string         // once: the pinned day key
	Days     []time.Weekday // custom: the weekdays the task shows on
}

// Parse builds a Rule from a task's stored schedule fields.
func Parse(task model.Task) (Rule, error) {
	r := Rule{Schedule: task.Schedule}

	switch task.Schedule {
	case model.ScheduleNone, model.ScheduleDaily, model.ScheduleWeekday, model.ScheduleWeekend:
		return r, nil
	case model.ScheduleOnce:
		if !calendar.ValidDay(task.ValidDate) {
			return Rule{}, fmt.Errorf("%w: %q", ErrInvalidDate, task.ValidDate)
		}
		r.Date = task.ValidDate
		return r, nil
	case model.ScheduleCustom:
		days, err := ParseDays(task.CustomDays)
		if err != nil {
			return Rule{}, err
		}
		r.Days = days
		return r, nil
	}
	return Rule{}, fmt.Errorf("%w: %q", ErrUnknownSchedule, task.Schedule)
}

// Matches reports whether the rule shows the task on the given day.
func (r Rule) Matches(dayKey string, weekday time.Weekday) bool {
	switch r.Schedule {
	case model.ScheduleNone, model.ScheduleDaily:
		return true
	case model.ScheduleOnce:
		return r.Date == dayKey
	case model.ScheduleCustom:
		return slices.Contains(r.Days, weekday)
	case model.ScheduleWeekday:
		return weekday >= time.Monday && weekday <= time.Friday
	case model.ScheduleWeekend:
		return weekday == time.Saturday || weekday == time.Sunday
	}
	return false
}

// Visible reports whether task should be shown on dayKey. Tasks whose stored
// schedule cannot be parsed are never visible.
func Visible(task model.Task, dayKey string) bool {
	weekday, err := calendar.Weekday(dayKey)
	if err != nil {
		return false
	}
	r, err := Parse(task)
	if err != nil {
		return false
	}
	return r.Matches(dayKey, weekday)
}

// ParseDays decodes a stored weekday set such as "[1,3,5]". 0 is Sunday.
func ParseDays(raw string) ([]time.Weekday, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidDays)
	}

	var nums []int
	if err := json.Unmarshal([]byte(raw), &nums); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDays, err)
	}

	days := make([]time.Weekday, 0, len(nums))
	for _, n := range nums {
		if n < 0 || n > 6 {
			return nil, fmt.Errorf("%w: weekday %d out of range", ErrInvalidDays, n)
		}
		wd := time.Weekday(n)
		if !slices.Contains(days, wd) {
			days = append(days, wd)
		}
	}
	slices.Sort(days)
	return days, nil
}

// FormatDays encodes a weekday set for storage.
func FormatDays(days []time.Weekday) string {
	sorted := slices.Clone(days)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	parts := make([]string, len(sorted))
	for i, d := range sorted {
		parts[i] = fmt.Sprintf("%d", int(d))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Validate checks schedule fields before a task is written. It is stricter
// than Parse: a custom task must name at least one weekday.
func Validate(task model.Task) error {
	r, err := Parse(task)
	if err != nil {
		return err
	}
	if r.Schedule == model.ScheduleCustom && len(r.Days) == 0 {
		return fmt.Errorf("%w: no weekdays selected", ErrInvalidDays)
	}
	return nil
}
