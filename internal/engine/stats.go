package engine

import (
	"github.com/dukerupert/starcoin/internal/calendar"
	"github.com/dukerupert/starcoin/internal/engagement"
	"github.com/dukerupert/starcoin/internal/model"
	"github.com/dukerupert/starcoin/internal/recurrence"
)

const statsWindow = 7

// punctualSlack is how far past its expected duration a task may run and
// still count as on time, in percent.
const punctualSlack = 120

type FamilyStats struct {
	From           string `json:"from"`
	To             string `json:"to"`
	Submitted      int    `json:"submitted"`
	Approved       int    `json:"approved"`
	Pending        int    `json:"pending"`
	Rejected       int    `json:"rejected"`
	CompletionRate int    `json:"completion_rate"`
	PunctualRate   int    `json:"punctual_rate"`
	CoinsEarned    int    `json:"coins_earned"`
}

func percent(n, of int) int {
	if of == 0 {
		return 0
	}
	return (n*100 + of/2) / of
}

func punctual(d model.EntryDetail) bool {
	if d.Entry.ActualDurationMinutes == nil || d.DurationMinutes <= 0 {
		return true
	}
	return *d.Entry.ActualDurationMinutes*100 <= d.DurationMinutes*punctualSlack
}

// FamilyStats summarises the family's last seven days, today included.
func (e *Engine) FamilyStats(familyID string) (*FamilyStats, error) {
	today := e.cal.Today()
	from, err := calendar.ShiftDay(today, -(statsWindow - 1))
	if err != nil {
		return nil, err
	}
	details, err := e.entries.ListSince(familyID, from)
	if err != nil {
		return nil, err
	}

	st := &FamilyStats{From: from, To: today}
	onTime := 0
	for _, d := range details {
		st.Submitted++
		switch d.Entry.Status {
		case model.EntryApproved:
			st.Approved++
			st.CoinsEarned += d.Entry.EarnedCoins
			if punctual(d) {
				onTime++
			}
		case model.EntryPending:
			st.Pending++
		case model.EntryRejected:
			st.Rejected++
		}
	}
	st.CompletionRate = percent(st.Approved, st.Submitted)
	st.PunctualRate = percent(onTime, st.Approved)
	return st, nil
}

type DayCoins struct {
	Day   string `json:"day"`
	Coins int    `json:"coins"`
}

type ChildStats struct {
	Child         *model.Member `json:"child"`
	Level         int           `json:"level"`
	TodayTasks    int           `json:"today_tasks"`
	TodayDone     int           `json:"today_done"`
	WeekApproved  int           `json:"week_approved"`
	TotalApproved int           `json:"total_approved"`
	Streak        int           `json:"streak"`
	LongestStreak int           `json:"longest_streak"`
	WeekCoins     []DayCoins    `json:"week_coins"`
}

// ChildStats summarises one child's progress. Today's counts cover tasks
// visible today; "done" means submitted and not rejected.
func (e *Engine) ChildStats(familyID, childID string) (*ChildStats, error) {
	child, err := e.child(familyID, childID)
	if err != nil {
		return nil, err
	}
	today := e.cal.Today()
	days, err := calendar.LastDays(today, statsWindow)
	if err != nil {
		return nil, err
	}

	tasks, err := e.tasks.ListEnabled(familyID)
	if err != nil {
		return nil, err
	}
	entries, err := e.entries.ListByChildDay(childID, today)
	if err != nil {
		return nil, err
	}
	acts, err := e.entries.ListApprovedActivity(childID)
	if err != nil {
		return nil, err
	}

	st := &ChildStats{Child: child, Level: child.Level()}
	visible := make(map[string]bool)
	for _, t := range tasks {
		if !t.IsInstance() && recurrence.Visible(t, today) {
			visible[t.ID] = true
			st.TodayTasks++
		}
	}
	for _, en := range entries {
		if visible[en.TaskID] && en.Status != model.EntryRejected {
			st.TodayDone++
		}
	}

	coins := make(map[string]int, len(days))
	for _, d := range days {
		coins[d] = 0
	}
	for _, a := range acts {
		key := e.cal.DayKey(a.SubmittedAt)
		if c, ok := coins[key]; ok {
			coins[key] = c + a.Coins
			st.WeekApproved++
		}
	}
	st.TotalApproved = len(acts)
	for _, d := range days {
		st.WeekCoins = append(st.WeekCoins, DayCoins{Day: d, Coins: coins[d]})
	}

	snap := engagement.BuildSnapshot(acts, child.XP, e.cal.DayKey, today)
	st.Streak = snap.Streak
	st.LongestStreak = snap.LongestStreak
	return st, nil
}
