package engagement

import (
	"testing"
	"time"

	"github.com/dukerupert/starcoin/internal/calendar"
	"github.com/dukerupert/starcoin/internal/model"
)

func TestStreakOffsetRule(t *testing.T) {
	days := []string{"2026-06-10", "2026-06-09", "2026-06-08"}

	if got := Streak(days, "2026-06-11"); got != 3 {
		t.Errorf("today without activity: streak = %d, want 3", got)
	}
	if got := Streak(days, "2026-06-10"); got != 3 {
		t.Errorf("today with activity: streak = %d, want 3", got)
	}
}

func TestStreakBreaks(t *testing.T) {
	tests := []struct {
		name  string
		days  []string
		today string
		want  int
	}{
		{"empty", nil, "2026-06-11", 0},
		{"two days stale", []string{"2026-06-09", "2026-06-08"}, "2026-06-11", 0},
		{"gap", []string{"2026-06-11", "2026-06-10", "2026-06-08"}, "2026-06-11", 2},
		{"duplicates", []string{"2026-06-11", "2026-06-11", "2026-06-10"}, "2026-06-11", 2},
		{"month boundary", []string{"2026-03-01", "2026-02-28", "2026-02-27"}, "2026-03-01", 3},
		{"unsorted", []string{"2026-06-09", "2026-06-11", "2026-06-10"}, "2026-06-11", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Streak(tt.days, tt.today); got != tt.want {
				t.Errorf("got = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLongestStreak(t *testing.T) {
	days := []string{"2026-06-01", "2026-06-02", "2026-06-03", "2026-06-05", "2026-06-06", "2026-06-02"}
	if got := LongestStreak(days); got != 3 {
		t.Errorf("got = %d, want 3", got)
	}
	if got := LongestStreak(nil); got != 0 {
		t.Errorf("empty: got = %d, want 0", got)
	}
}

func activity(day int, cat model.Category, coins int) model.Activity {
	// 02:00 UTC is 10:00 at UTC+8, safely inside the same calendar day.
	return model.Activity{
		SubmittedAt: time.Date(2026, 6, day, 2, 0, 0, 0, time.UTC),
		Category:    cat,
		Coins:       coins,
		XP:          5,
	}
}

func TestBuildSnapshot(t *testing.T) {
	cal := calendar.New(nil, calendar.DefaultOffset)
	acts := []model.Activity{
		activity(8, model.CategoryStudy, 10),
		activity(9, model.CategoryStudy, 12),
		activity(10, model.CategoryChores, 8),
		activity(10, model.CategoryStudy, -3),
	}

	s := BuildSnapshot(acts, 230, cal.DayKey, "2026-06-11")
	if s.TaskCount != 4 {
		t.Errorf("task count = %d, want 4", s.TaskCount)
	}
	if s.CoinsEarned != 27 {
		t.Errorf("coins = %d, want 27", s.CoinsEarned)
	}
	if s.Level() != 3 {
		t.Errorf("level = %d, want 3", s.Level())
	}
	if s.CategoryCounts[model.CategoryStudy] != 3 {
		t.Errorf("study count = %d, want 3", s.CategoryCounts[model.CategoryStudy])
	}
	if s.Streak != 3 {
		t.Errorf("streak = %d, want 3", s.Streak)
	}
	if s.CategoryStreaks[model.CategoryStudy] != 3 {
		t.Errorf("study streak = %d, want 3", s.CategoryStreaks[model.CategoryStudy])
	}
	if s.CategoryStreaks[model.CategoryChores] != 1 {
		t.Errorf("chores streak = %d, want 1", s.CategoryStreaks[model.CategoryChores])
	}
}

func TestPendingSkipsUnlockedAndManual(t *testing.T) {
	s := Snapshot{TaskCount: 10, XP: 150, CategoryCounts: map[model.Category]int{model.CategoryExercise: 2}}

	defs := []model.AchievementDef{
		{ID: "first", ConditionType: model.ConditionTaskCount, ConditionValue: 1},
		{ID: "ten", ConditionType: model.ConditionTaskCount, ConditionValue: 10},
		{ID: "fifty", ConditionType: model.ConditionTaskCount, ConditionValue: 50},
		{ID: "lvl2", ConditionType: model.ConditionLevel, ConditionValue: 2},
		{ID: "gym", ConditionType: model.ConditionCategoryCount, ConditionValue: 3, ConditionCategory: model.CategoryExercise},
		{ID: "hero", ConditionType: model.ConditionManual, ConditionValue: 0},
	}
	unlocked := map[string]time.Time{"first": time.Now()}

	got := Pending(defs, unlocked, s)
	ids := make([]string, len(got))
	for i, d := range got {
		ids[i] = d.ID
	}
	if len(ids) != 2 || ids[0] != "ten" || ids[1] != "lvl2" {
		t.Errorf("pending = %v, want [ten lvl2]", ids)
	}
}

func TestBuildProgress(t *testing.T) {
	s := Snapshot{TaskCount: 4, CoinsEarned: 250}
	at := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	defs := []model.AchievementDef{
		{ID: "ten", ConditionType: model.ConditionTaskCount, ConditionValue: 10},
		{ID: "coins", ConditionType: model.ConditionCoinCount, ConditionValue: 100},
		{ID: "manual", ConditionType: model.ConditionManual, ConditionValue: 1},
	}

	rows := BuildProgress(defs, map[string]time.Time{"coins": at}, s)
	if len(rows) != 3 {
		t.Fatalf("len = %d, want 3", len(rows))
	}
	if rows[0].Progress != 4 || rows[0].Target != 10 || rows[0].Unlocked {
		t.Errorf("ten = %+v", rows[0])
	}
	if rows[1].Progress != 100 || !rows[1].Unlocked || !rows[1].UnlockedAt.Equal(at) {
		t.Errorf("coins = %+v", rows[1])
	}
	if rows[2].Progress != 0 || rows[2].Unlocked {
		t.Errorf("manual = %+v", rows[2])
	}
}
