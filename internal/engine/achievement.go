package engine

import (
	"fmt"

	"github.com/dukerupert/starcoin/internal/engagement"
	"github.com/dukerupert/starcoin/internal/metrics"
	"github.com/dukerupert/starcoin/internal/model"
	"github.com/dukerupert/starcoin/internal/websocket"
)

func (e *Engine) snapshot(child *model.Member) (engagement.Snapshot, error) {
	acts, err := e.entries.ListApprovedActivity(child.ID)
	if err != nil {
		return engagement.Snapshot{}, err
	}
	return engagement.BuildSnapshot(acts, child.XP, e.cal.DayKey, e.cal.Today()), nil
}

// EvaluateAchievements unlocks every family achievement the child now
// qualifies for and returns the ones unlocked by this call. Manual
// achievements are never unlocked here.
func (e *Engine) EvaluateAchievements(familyID, childID string) ([]model.AchievementDef, error) {
	child, err := e.child(familyID, childID)
	if err != nil {
		return nil, err
	}
	snap, err := e.snapshot(child)
	if err != nil {
		return nil, err
	}
	defs, err := e.achievements.ListByFamily(familyID)
	if err != nil {
		return nil, err
	}
	unlocked, err := e.achievements.Unlocked(childID)
	if err != nil {
		return nil, err
	}

	now := e.cal.Now()
	var newly []model.AchievementDef
	for _, def := range engagement.Pending(defs, unlocked, snap) {
		isNew, err := e.achievements.Unlock(childID, def.ID, now)
		if err != nil {
			return newly, err
		}
		if !isNew {
			continue
		}
		newly = append(newly, def)
		e.unlocked(familyID, childID, def)
	}
	return newly, nil
}

func (e *Engine) unlocked(familyID, childID string, def model.AchievementDef) {
	metrics.AchievementsUnlocked.Inc()
	e.logger.Info("achievement unlocked", "child_id", childID, "achievement_id", def.ID, "title", def.Title)
	e.broadcast(familyID, websocket.NewMessage("achievement", "unlocked", def.ID, map[string]any{
		"child_id": childID,
		"title":    def.Title,
	}))
}

// AchievementProgress reports progress toward every family achievement.
func (e *Engine) AchievementProgress(familyID, childID string) ([]engagement.Progress, error) {
	child, err := e.child(familyID, childID)
	if err != nil {
		return nil, err
	}
	snap, err := e.snapshot(child)
	if err != nil {
		return nil, err
	}
	defs, err := e.achievements.ListByFamily(familyID)
	if err != nil {
		return nil, err
	}
	unlocked, err := e.achievements.Unlocked(childID)
	if err != nil {
		return nil, err
	}
	return engagement.BuildProgress(defs, unlocked, snap), nil
}

// AwardAchievement unlocks a manual achievement for a child. It reports
// false when the child already had it.
func (e *Engine) AwardAchievement(familyID, childID, achievementID string) (bool, error) {
	def, err := e.achievements.GetByID(achievementID)
	if err != nil {
		return false, err
	}
	if def == nil || def.FamilyID != familyID {
		return false, fmt.Errorf("%w: achievement %s", ErrNotFound, achievementID)
	}
	if def.ConditionType != model.ConditionManual {
		return false, fmt.Errorf("%w: only manual achievements can be awarded", ErrInvalidInput)
	}
	if _, err := e.child(familyID, childID); err != nil {
		return false, err
	}

	isNew, err := e.achievements.Unlock(childID, def.ID, e.cal.Now())
	if err != nil {
		return false, err
	}
	if isNew {
		e.unlocked(familyID, childID, *def)
	}
	return isNew, nil
}
