// Package reward turns a task's base reward, a reviewer's scores and an
// optional punishment into the amounts credited to a child's account.
package reward

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/dukerupert/starcoin/internal/model"
)

var (
	ErrInvalidScore        = errors.New("invalid score")
	ErrUnknownPunishment   = errors.New("unknown punishment level")
	ErrPunishmentDisabled  = errors.New("punishment is disabled")
	ErrInvalidCustomAmount = errors.New("custom punishment amount must be positive")
)

// DefaultBucket is how much cumulative reward XP earns one privilege point.
const DefaultBucket = 100

// ScoreOption is one choice a reviewer can pick for a scoring dimension.
type ScoreOption struct {
	Label   string `json:"label"`
	Percent int    `json:"percent"`
}

var (
	TimeOptions = []ScoreOption{
		{"early", 20}, {"on_time", 0}, {"slightly_late", -10}, {"very_late", -20},
	}
	QualityOptions = []ScoreOption{
		{"excellent", 30}, {"good", 10}, {"acceptable", 0}, {"poor", -30},
	}
	InitiativeOptions = []ScoreOption{
		{"self_started", 20}, {"reminded_once", 0}, {"reminded_often", -10}, {"reluctant", -20},
	}
)

// Scores are the reviewer's percentage modifiers. The zero value is a plain
// approval with no bonus.
type Scores struct {
	Time       int `json:"time_score"`
	Quality    int `json:"quality_score"`
	Initiative int `json:"initiative_score"`
}

func (s Scores) Total() int {
	return s.Time + s.Quality + s.Initiative
}

func allowed(opts []ScoreOption, pct int) bool {
	return slices.ContainsFunc(opts, func(o ScoreOption) bool { return o.Percent == pct })
}

// Validate checks every score against its option set.
func (s Scores) Validate() error {
	if !allowed(TimeOptions, s.Time) {
		return fmt.Errorf("%w: time %d", ErrInvalidScore, s.Time)
	}
	if !allowed(QualityOptions, s.Quality) {
		return fmt.Errorf("%w: quality %d", ErrInvalidScore, s.Quality)
	}
	if !allowed(InitiativeOptions, s.Initiative) {
		return fmt.Errorf("%w: initiative %d", ErrInvalidScore, s.Initiative)
	}
	return nil
}

// Punishment is a reviewer's deduction request.
type Punishment struct {
	Level  model.PunishmentLevel `json:"level"`
	Amount int                   `json:"amount,omitempty"` // custom only
	Reason string                `json:"reason,omitempty"`
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}

func round(f float64) int {
	return int(math.Round(f))
}

// Deduction computes how many coins p removes from a task worth base coins.
// Each tier is clamped to its [min, max] band; severe adds its flat extra first.
func Deduction(base int, p Punishment, settings model.PunishmentSettings) (int, error) {
	if !settings.Enabled {
		return 0, ErrPunishmentDisabled
	}

	switch p.Level {
	case model.PunishmentMild:
		t := settings.Mild
		return clamp(round(float64(base)*t.Rate)+t.Extra, t.Min, t.Max), nil
	case model.PunishmentModerate:
		t := settings.Moderate
		return clamp(round(float64(base)*t.Rate)+t.Extra, t.Min, t.Max), nil
	case model.PunishmentSevere:
		t := settings.Severe
		return clamp(round(float64(base)*t.Rate)+t.Extra, t.Min, t.Max), nil
	case model.PunishmentCustom:
		if p.Amount <= 0 {
			return 0, ErrInvalidCustomAmount
		}
		return clamp(p.Amount, settings.Custom.Min, settings.Custom.Max), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPunishment, p.Level)
}

// Grant is what one approval credits.
type Grant struct {
	Coins     int `json:"coins"`
	XP        int `json:"xp"`
	RewardXP  int `json:"reward_xp"`
	Deduction int `json:"deduction"`
}

// Compute applies scores to the base coin reward and subtracts deduction.
// The result may be negative. XP and reward XP are always the base XP.
func Compute(baseCoins, baseXP int, scores Scores, deduction int) Grant {
	scored := round(float64(baseCoins) * float64(100+scores.Total()) / 100)
	return Grant{
		Coins:     scored - deduction,
		XP:        baseXP,
		RewardXP:  baseXP,
		Deduction: deduction,
	}
}

// Base is the grant for an approval with no scores and no punishment.
func Base(baseCoins, baseXP int) Grant {
	return Compute(baseCoins, baseXP, Scores{}, 0)
}

// Accrue adds rewardXP to the running total and returns the new total along
// with the privilege points earned by crossing bucket boundaries.
func Accrue(total, rewardXP, bucket int) (newTotal, points int) {
	if bucket <= 0 {
		bucket = DefaultBucket
	}
	if rewardXP <= 0 {
		return total, 0
	}
	newTotal = total + rewardXP
	return newTotal, newTotal/bucket - total/bucket
}
