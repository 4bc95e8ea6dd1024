package model

import "time"

type ConditionType string

const (
	ConditionTaskCount     ConditionType = "task_count"
	ConditionCoinCount     ConditionType = "coin_count"
	ConditionXPCount       ConditionType = "xp_count"
	ConditionLevel         ConditionType = "level"
	ConditionCategoryCount ConditionType = "category_count"
	ConditionStreakDays    ConditionType = "streak_days"
	ConditionManual        ConditionType = "manual"
)

func (c ConditionType) Valid() bool {
	switch c {
	case ConditionTaskCount, ConditionCoinCount, ConditionXPCount, ConditionLevel,
		ConditionCategoryCount, ConditionStreakDays, ConditionManual:
		return true
	}
	return false
}

type AchievementDef struct {
	ID                string        `json:"id"`
	FamilyID          string        `json:"family_id"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	Icon              string        `json:"icon"`
	ConditionType     ConditionType `json:"condition_type"`
	ConditionValue    int           `json:"condition_value"`
	ConditionCategory Category      `json:"condition_category,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

type UnlockedAchievement struct {
	ID            string    `json:"id"`
	ChildID       string    `json:"child_id"`
	AchievementID string    `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}
