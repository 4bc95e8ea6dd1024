// Package engagement computes streaks and achievement progress from a
// child's approved activity.
package engagement

import (
	"sort"

	"github.com/dukerupert/starcoin/internal/calendar"
)

// Streak counts consecutive days with activity ending at today. If today has
// no activity yet the count starts from yesterday, so an open day never
// breaks a streak on its own.
func Streak(days []string, today string) int {
	set := make(map[string]struct{}, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	if len(set) == 0 {
		return 0
	}

	offset := 1
	if _, ok := set[today]; ok {
		offset = 0
	}

	cursor, err := calendar.ShiftDay(today, -offset)
	if err != nil {
		return 0
	}
	streak := 0
	for {
		if _, ok := set[cursor]; !ok {
			return streak
		}
		streak++
		cursor, err = calendar.ShiftDay(cursor, -1)
		if err != nil {
			return streak
		}
	}
}

// LongestStreak returns the longest run of consecutive days in days.
func LongestStreak(days []string) int {
	uniq := distinct(days)
	if len(uniq) == 0 {
		return 0
	}
	sort.Strings(uniq)

	longest, run := 1, 1
	for i := 1; i < len(uniq); i++ {
		next, err := calendar.ShiftDay(uniq[i-1], 1)
		if err == nil && next == uniq[i] {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

func distinct(days []string) []string {
	seen := make(map[string]struct{}, len(days))
	out := make([]string, 0, len(days))
	for _, d := range days {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}
