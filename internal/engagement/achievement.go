package engagement

import (
	"time"

	"github.com/dukerupert/starcoin/internal/model"
)

// Snapshot is a child's aggregate state at one moment.
type Snapshot struct {
	TaskCount       int
	CoinsEarned     int
	XP              int
	CategoryCounts  map[model.Category]int
	Streak          int
	LongestStreak   int
	CategoryStreaks map[model.Category]int
}

// Level is floor(xp/100)+1.
func (s Snapshot) Level() int {
	return model.LevelFor(s.XP)
}

// BuildSnapshot aggregates approved activity. dayKey maps each submission to
// its calendar day; today anchors the streaks.
func BuildSnapshot(acts []model.Activity, xp int, dayKey func(time.Time) string, today string) Snapshot {
	s := Snapshot{
		XP:              xp,
		CategoryCounts:  make(map[model.Category]int),
		CategoryStreaks: make(map[model.Category]int),
	}

	var all []string
	byCategory := make(map[model.Category][]string)
	for _, a := range acts {
		s.TaskCount++
		s.CoinsEarned += a.Coins
		s.CategoryCounts[a.Category]++

		day := dayKey(a.SubmittedAt)
		all = append(all, day)
		byCategory[a.Category] = append(byCategory[a.Category], day)
	}

	s.Streak = Streak(all, today)
	s.LongestStreak = LongestStreak(all)
	for c, days := range byCategory {
		s.CategoryStreaks[c] = Streak(days, today)
	}
	return s
}

// Measure returns the value def's condition is compared against. Manual
// achievements are never measured.
func Measure(def model.AchievementDef, s Snapshot) (int, bool) {
	switch def.ConditionType {
	case model.ConditionTaskCount:
		return s.TaskCount, true
	case model.ConditionCoinCount:
		return s.CoinsEarned, true
	case model.ConditionXPCount:
		return s.XP, true
	case model.ConditionLevel:
		return s.Level(), true
	case model.ConditionCategoryCount:
		return s.CategoryCounts[def.ConditionCategory], true
	case model.ConditionStreakDays:
		if def.ConditionCategory != "" {
			return s.CategoryStreaks[def.ConditionCategory], true
		}
		return s.Streak, true
	}
	return 0, false
}

// Satisfied reports whether def's target has been reached.
func Satisfied(def model.AchievementDef, s Snapshot) bool {
	v, ok := Measure(def, s)
	return ok && v >= def.ConditionValue
}

// Pending returns the definitions that are satisfied but not yet unlocked.
func Pending(defs []model.AchievementDef, unlocked map[string]time.Time, s Snapshot) []model.AchievementDef {
	var out []model.AchievementDef
	for _, def := range defs {
		if _, ok := unlocked[def.ID]; ok {
			continue
		}
		if Satisfied(def, s) {
			out = append(out, def)
		}
	}
	return out
}

// Progress is one row of the achievement progress query.
type Progress struct {
	AchievementID string              `json:"achievement_id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Icon          string              `json:"icon"`
	ConditionType model.ConditionType `json:"condition_type"`
	Unlocked      bool                `json:"unlocked"`
	UnlockedAt    *time.Time          `json:"unlocked_at,omitempty"`
	Progress      int                 `json:"progress"`
	Target        int                 `json:"target"`
}

// BuildProgress reports every definition's state for one child. Progress is
// capped at the target, and an unlocked achievement always shows complete.
func BuildProgress(defs []model.AchievementDef, unlocked map[string]time.Time, s Snapshot) []Progress {
	out := make([]Progress, 0, len(defs))
	for _, def := range defs {
		p := Progress{
			AchievementID: def.ID,
			Title:         def.Title,
			Description:   def.Description,
			Icon:          def.Icon,
			ConditionType: def.ConditionType,
			Target:        def.ConditionValue,
		}
		if v, ok := Measure(def, s); ok {
			p.Progress = min(max(v, 0), def.ConditionValue)
		}
		if at, ok := unlocked[def.ID]; ok {
			p.Unlocked = true
			p.UnlockedAt = &at
			p.Progress = def.ConditionValue
		}
		out = append(out, p)
	}
	return out
}
