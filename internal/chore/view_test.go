package chore

import (
	"testing"
	"time"

	"github.com/dukerupert/starcoin/internal/model"
)

// 2026-06-10 is a Wednesday.
const today = "2026-06-10"

func task(id string, schedule model.Schedule) model.Task {
	return model.Task{
		ID: id, Title: "Task " + id, Category: model.CategoryChores,
		CoinReward: 10, XPReward: 5, Enabled: true, Schedule: schedule,
	}
}

func entry(id, taskID, day string, status model.EntryStatus, at time.Time) model.TaskEntry {
	return model.TaskEntry{ID: id, TaskID: taskID, ChildID: "kid", DayKey: day, Status: status, SubmittedAt: at}
}

func byTaskID(views []TaskView) map[string]TaskView {
	m := make(map[string]TaskView, len(views))
	for _, v := range views {
		m[v.TaskID] = v
	}
	return m
}

func TestBuildTodayStatuses(t *testing.T) {
	at := time.Date(2026, 6, 10, 2, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		task("a", model.ScheduleDaily),
		task("b", model.ScheduleDaily),
		task("c", model.ScheduleDaily),
		task("d", model.ScheduleDaily),
	}
	entries := []model.TaskEntry{
		entry("e-b", "b", today, model.EntryPending, at),
		entry("e-c", "c", today, model.EntryApproved, at),
		entry("e-d", "d", today, model.EntryRejected, at),
	}

	views := byTaskID(BuildToday(tasks, entries, today))
	if len(views) != 4 {
		t.Fatalf("len = %d, want 4", len(views))
	}

	tests := []struct {
		id      string
		status  Status
		operate bool
		entryID string
	}{
		{"a", StatusTodo, true, ""},
		{"b", StatusPending, false, "e-b"},
		{"c", StatusApproved, false, "e-c"},
		{"d", StatusTodo, true, "e-d"},
	}
	for _, tt := range tests {
		v := views[tt.id]
		if v.Status != tt.status {
			t.Errorf("%s: status = %q, want %q", tt.id, v.Status, tt.status)
		}
		if v.CanOperate != tt.operate {
			t.Errorf("%s: can_operate = %v, want %v", tt.id, v.CanOperate, tt.operate)
		}
		if v.EntryID != tt.entryID {
			t.Errorf("%s: entry_id = %q, want %q", tt.id, v.EntryID, tt.entryID)
		}
	}
}

func TestBuildTodayFiltersDefinitions(t *testing.T) {
	disabled := task("off", model.ScheduleDaily)
	disabled.Enabled = false

	instance := task("inst", model.ScheduleDaily)
	parent := "tmpl"
	instance.TemplateID = &parent

	mwf := task("mwf", model.ScheduleCustom)
	mwf.CustomDays = "[1,3,5]"
	tth := task("tth", model.ScheduleCustom)
	tth.CustomDays = "[2,4]"
	broken := task("broken", model.ScheduleCustom)
	broken.CustomDays = "{oops"

	views := byTaskID(BuildToday([]model.Task{disabled, instance, mwf, tth, broken}, nil, today))
	if len(views) != 1 {
		t.Fatalf("len = %d, want 1: %+v", len(views), views)
	}
	if _, ok := views["mwf"]; !ok {
		t.Error("expected Wednesday task to be visible")
	}
}

func TestBuildTodayIgnoresOtherDays(t *testing.T) {
	at := time.Date(2026, 6, 9, 2, 0, 0, 0, time.UTC)
	tasks := []model.Task{task("a", model.ScheduleDaily)}
	entries := []model.TaskEntry{entry("old", "a", "2026-06-09", model.EntryApproved, at)}

	views := BuildToday(tasks, entries, today)
	if len(views) != 1 || views[0].Status != StatusTodo || views[0].EntryID != "" {
		t.Errorf("got = %+v, want a fresh todo row", views)
	}
}

func TestBuildHistoryOnlyEntries(t *testing.T) {
	day := "2026-06-09"
	at := time.Date(2026, 6, 9, 1, 0, 0, 0, time.UTC)

	tasks := map[string]model.Task{
		"a": task("a", model.ScheduleDaily),
		"b": task("b", model.ScheduleDaily),
	}
	rejected := entry("e-b", "b", day, model.EntryRejected, at.Add(time.Hour))
	entries := []model.TaskEntry{
		rejected,
		entry("e-a", "a", day, model.EntryPending, at),
	}

	views := BuildHistory(tasks, entries, day)
	if len(views) != 2 {
		t.Fatalf("len = %d, want 2", len(views))
	}
	if views[0].TaskID != "a" || views[1].TaskID != "b" {
		t.Errorf("order = %s,%s, want a,b", views[0].TaskID, views[1].TaskID)
	}
	for _, v := range views {
		if v.CanOperate {
			t.Errorf("%s: historical row is operable", v.TaskID)
		}
	}
	if views[1].Status != StatusRejected {
		t.Errorf("historical rejected status = %q, want rejected", views[1].Status)
	}
}
