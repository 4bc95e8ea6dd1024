package chore

import (
	"sort"
	"time"

	"github.com/dukerupert/starcoin/internal/model"
	"github.com/dukerupert/starcoin/internal/recurrence"
)

// TaskView is one row of a child's day list.
type TaskView struct {
	TaskID          string         `json:"task_id"`
	Title           string         `json:"title"`
	Icon            string         `json:"icon"`
	Category        model.Category `json:"category"`
	CoinReward      int            `json:"coin_reward"`
	XPReward        int            `json:"xp_reward"`
	DurationMinutes int            `json:"duration_minutes"`
	Status          Status         `json:"status"`
	CanOperate      bool           `json:"can_operate"`
	EntryID         string         `json:"entry_id,omitempty"`
	SubmittedAt     *time.Time     `json:"submitted_at,omitempty"`
	EarnedCoins     int            `json:"earned_coins,omitempty"`
}

func viewFor(t model.Task) TaskView {
	return TaskView{
		TaskID:          t.ID,
		Title:           t.Title,
		Icon:            t.Icon,
		Category:        t.Category,
		CoinReward:      t.CoinReward,
		XPReward:        t.XPReward,
		DurationMinutes: t.DurationMinutes,
	}
}

func withEntry(v TaskView, e model.TaskEntry) TaskView {
	submitted := e.SubmittedAt
	v.EntryID = e.ID
	v.SubmittedAt = &submitted
	v.EarnedCoins = e.EarnedCoins
	return v
}

// BuildToday lists the tasks a child can see on today's day key. entries must
// already be limited to the child and today. Rejected entries display as todo
// so the child can retry.
func BuildToday(tasks []model.Task, entries []model.TaskEntry, today string) []TaskView {
	byTask := make(map[string]model.TaskEntry, len(entries))
	for _, e := range entries {
		if e.DayKey != today {
			continue
		}
		if prev, ok := byTask[e.TaskID]; ok && prev.SubmittedAt.After(e.SubmittedAt) {
			continue
		}
		byTask[e.TaskID] = e
	}

	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		if !t.Enabled || t.IsInstance() {
			continue
		}
		if !recurrence.Visible(t, today) {
			continue
		}

		v := viewFor(t)
		e, ok := byTask[t.ID]
		switch {
		case !ok:
			v.Status = StatusTodo
			v.CanOperate = true
		case e.Status == model.EntryRejected:
			v = withEntry(v, e)
			v.Status = StatusTodo
			v.CanOperate = true
		default:
			v = withEntry(v, e)
			v.Status = Status(e.Status)
		}
		views = append(views, v)
	}
	return views
}

// BuildHistory lists what a child actually submitted on a past day. Only
// entries produce rows; task definitions are used for display fields alone,
// so tasks created or rescheduled later never show up retroactively.
func BuildHistory(tasks map[string]model.Task, entries []model.TaskEntry, day string) []TaskView {
	views := make([]TaskView, 0, len(entries))
	for _, e := range entries {
		if e.DayKey != day {
			continue
		}
		t, ok := tasks[e.TaskID]
		if !ok {
			continue
		}
		v := withEntry(viewFor(t), e)
		v.Status = Status(e.Status)
		v.CanOperate = false
		views = append(views, v)
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].SubmittedAt.Before(*views[j].SubmittedAt)
	})
	return views
}
