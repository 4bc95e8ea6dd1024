package model

import "time"

type Role string

const (
	RoleParent Role = "parent"
	RoleChild  Role = "child"
)

func (r Role) Valid() bool {
	return r == RoleParent || r == RoleChild
}

// LevelDivisor is the XP needed per level.
const LevelDivisor = 100

// Member is a family member together with their account balances. Balances
// only move for children.
type Member struct {
	ID              string    `json:"id"`
	FamilyID        string    `json:"family_id"`
	Name            string    `json:"name"`
	Role            Role      `json:"role"`
	AvatarEmoji     string    `json:"avatar_emoji"`
	Coins           int       `json:"coins"`
	XP              int       `json:"xp"`
	PrivilegePoints int       `json:"privilege_points"`
	RewardXPTotal   int       `json:"reward_xp_total"`
	HasToken        bool      `json:"has_token"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Level is floor(xp/100)+1.
func (m Member) Level() int {
	return LevelFor(m.XP)
}

func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/LevelDivisor + 1
}
