package model

import "time"

type PunishmentLevel string

const (
	PunishmentMild     PunishmentLevel = "mild"
	PunishmentModerate PunishmentLevel = "moderate"
	PunishmentSevere   PunishmentLevel = "severe"
	PunishmentCustom   PunishmentLevel = "custom"
)

type PunishmentTier struct {
	Rate  float64 `json:"rate"`
	Extra int     `json:"extra"`
	Min   int     `json:"min"`
	Max   int     `json:"max"`
}

type PunishmentSettings struct {
	FamilyID string         `json:"family_id"`
	Enabled  bool           `json:"enabled"`
	Mild     PunishmentTier `json:"mild"`
	Moderate PunishmentTier `json:"moderate"`
	Severe   PunishmentTier `json:"severe"`
	Custom   PunishmentTier `json:"custom"`
}

// DefaultPunishmentSettings returns the settings a family starts with.
func DefaultPunishmentSettings(familyID string) PunishmentSettings {
	return PunishmentSettings{
		FamilyID: familyID,
		Enabled:  false,
		Mild:     PunishmentTier{Rate: 0.3, Min: 2, Max: 10},
		Moderate: PunishmentTier{Rate: 0.5, Min: 5, Max: 20},
		Severe:   PunishmentTier{Rate: 1.0, Extra: 5, Min: 0, Max: 50},
		Custom:   PunishmentTier{Min: 1, Max: 100},
	}
}

type PunishmentRecord struct {
	ID            string          `json:"id"`
	FamilyID      string          `json:"family_id"`
	EntryID       string          `json:"entry_id"`
	TaskID        string          `json:"task_id"`
	ChildID       string          `json:"child_id"`
	Level         PunishmentLevel `json:"level"`
	Reason        string          `json:"reason"`
	TaskReward    int             `json:"task_reward"`
	DeductedCoins int             `json:"deducted_coins"`
	BalanceBefore int             `json:"balance_before"`
	BalanceAfter  int             `json:"balance_after"`
	CreatedAt     time.Time       `json:"created_at"`
}
