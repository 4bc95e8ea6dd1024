package model

import "time"

type Category string

const (
	CategoryChores   Category = "chores"
	CategoryStudy    Category = "study"
	CategoryExercise Category = "exercise"
	CategoryHobby    Category = "hobby"
)

var Categories = []Category{CategoryChores, CategoryStudy, CategoryExercise, CategoryHobby}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Schedule values stored on a task. An empty schedule shows every day.
type Schedule string

const (
	ScheduleNone    Schedule = ""
	ScheduleDaily   Schedule = "daily"
	ScheduleOnce    Schedule = "once"
	ScheduleCustom  Schedule = "custom"
	ScheduleWeekday Schedule = "weekday"
	ScheduleWeekend Schedule = "weekend"
)

type Task struct {
	ID              string    `json:"id"`
	FamilyID        string    `json:"family_id"`
	Title           string    `json:"title"`
	Icon            string    `json:"icon"`
	Category        Category  `json:"category"`
	CoinReward      int       `json:"coin_reward"`
	XPReward        int       `json:"xp_reward"`
	DurationMinutes int       `json:"duration_minutes"`
	Enabled         bool      `json:"enabled"`
	Schedule        Schedule  `json:"schedule"`
	CustomDays      string    `json:"custom_days,omitempty"`
	ValidDate       string    `json:"valid_date,omitempty"`
	TemplateID      *string   `json:"template_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsInstance reports whether the task was generated from another template.
func (t Task) IsInstance() bool {
	return t.TemplateID != nil && *t.TemplateID != ""
}

type EntryStatus string

const (
	EntryPending  EntryStatus = "pending"
	EntryApproved EntryStatus = "approved"
	EntryRejected EntryStatus = "rejected"
)

type TaskEntry struct {
	ID                    string      `json:"id"`
	TaskID                string      `json:"task_id"`
	ChildID               string      `json:"child_id"`
	DayKey                string      `json:"day_key"`
	Status                EntryStatus `json:"status"`
	SubmittedAt           time.Time   `json:"submitted_at"`
	ReviewedAt            *time.Time  `json:"reviewed_at,omitempty"`
	ActualDurationMinutes *int        `json:"actual_duration_minutes,omitempty"`
	EarnedCoins           int         `json:"earned_coins"`
	EarnedXP              int         `json:"earned_xp"`
	RewardXP              int         `json:"reward_xp"`
	AutoApproved          bool        `json:"auto_approved"`
}

// EntryDetail is an entry joined with its task and child, as a reviewer sees it.
type EntryDetail struct {
	Entry           TaskEntry `json:"entry"`
	FamilyID        string    `json:"family_id"`
	TaskTitle       string    `json:"task_title"`
	Category        Category  `json:"category"`
	CoinReward      int       `json:"coin_reward"`
	XPReward        int       `json:"xp_reward"`
	DurationMinutes int       `json:"duration_minutes"`
	ChildName       string    `json:"child_name"`
}

// Activity is one approved entry reduced to what achievements and streaks need.
type Activity struct {
	SubmittedAt time.Time
	Category    Category
	Coins       int
	XP          int
}
