package reward

import (
	"errors"
	"testing"

	"github.com/dukerupert/starcoin/internal/model"
)

func enabledSettings() model.PunishmentSettings {
	s := model.DefaultPunishmentSettings("fam")
	s.Enabled = true
	return s
}

func TestComputeScoredReward(t *testing.T) {
	scores := Scores{Time: 20, Quality: 0, Initiative: -10}
	if err := scores.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	g := Compute(10, 8, scores, 0)
	if g.Coins != 11 {
		t.Errorf("coins = %d, want 11", g.Coins)
	}
	if g.XP != 8 || g.RewardXP != 8 {
		t.Errorf("xp = %d reward_xp = %d, want base 8", g.XP, g.RewardXP)
	}
}

func TestComputeNegativeAllowed(t *testing.T) {
	g := Compute(10, 8, Scores{Time: 20, Initiative: -10}, 15)
	if g.Coins != -4 {
		t.Errorf("coins = %d, want -4", g.Coins)
	}
	if g.Deduction != 15 {
		t.Errorf("deduction = %d, want 15", g.Deduction)
	}
}

func TestComputeRounding(t *testing.T) {
	tests := []struct {
		base   int
		scores Scores
		want   int
	}{
		{15, Scores{Quality: 30}, 20},             // 19.5
		{7, Scores{Time: -20, Quality: -30}, 4},   // 3.5
		{3, Scores{Quality: 10}, 3},               // 3.3
		{0, Scores{Time: 20, Quality: 30}, 0},
		{10, Scores{}, 10},
	}
	for _, tt := range tests {
		if got := Compute(tt.base, 0, tt.scores, 0).Coins; got != tt.want {
			t.Errorf("Compute(%d, %+v) = %d, want %d", tt.base, tt.scores, got, tt.want)
		}
	}
}

func TestScoresValidate(t *testing.T) {
	bad := []Scores{
		{Time: 5},
		{Quality: -10},
		{Initiative: 30},
	}
	for _, s := range bad {
		if err := s.Validate(); !errors.Is(err, ErrInvalidScore) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidScore", s, err)
		}
	}
	if err := (Scores{}).Validate(); err != nil {
		t.Errorf("zero scores: %v", err)
	}
}

func TestDeductionTiers(t *testing.T) {
	s := enabledSettings()
	tests := []struct {
		name string
		base int
		p    Punishment
		want int
	}{
		{"mild floor", 3, Punishment{Level: model.PunishmentMild}, 2},
		{"mild rate", 20, Punishment{Level: model.PunishmentMild}, 6},
		{"mild cap", 100, Punishment{Level: model.PunishmentMild}, 10},
		{"moderate floor", 4, Punishment{Level: model.PunishmentModerate}, 5},
		{"moderate rate", 30, Punishment{Level: model.PunishmentModerate}, 15},
		{"moderate cap", 80, Punishment{Level: model.PunishmentModerate}, 20},
		{"severe extra", 20, Punishment{Level: model.PunishmentSevere}, 25},
		{"severe cap", 60, Punishment{Level: model.PunishmentSevere}, 50},
		{"custom", 10, Punishment{Level: model.PunishmentCustom, Amount: 15}, 15},
		{"custom cap", 10, Punishment{Level: model.PunishmentCustom, Amount: 500}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Deduction(tt.base, tt.p, s)
			if err != nil {
				t.Fatalf("Deduction: %v", err)
			}
			if got != tt.want {
				t.Errorf("got = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDeductionErrors(t *testing.T) {
	disabled := model.DefaultPunishmentSettings("fam")
	if _, err := Deduction(10, Punishment{Level: model.PunishmentMild}, disabled); !errors.Is(err, ErrPunishmentDisabled) {
		t.Errorf("err = %v, want ErrPunishmentDisabled", err)
	}

	s := enabledSettings()
	if _, err := Deduction(10, Punishment{Level: "brutal"}, s); !errors.Is(err, ErrUnknownPunishment) {
		t.Errorf("err = %v, want ErrUnknownPunishment", err)
	}
	if _, err := Deduction(10, Punishment{Level: model.PunishmentCustom}, s); !errors.Is(err, ErrInvalidCustomAmount) {
		t.Errorf("err = %v, want ErrInvalidCustomAmount", err)
	}
}

func TestAccrueWatermark(t *testing.T) {
	tests := []struct {
		total, add, wantTotal, wantPoints int
	}{
		{95, 10, 105, 1},
		{95, 4, 99, 0},
		{0, 250, 250, 2},
		{199, 1, 200, 1},
		{200, 0, 200, 0},
	}
	for _, tt := range tests {
		total, points := Accrue(tt.total, tt.add, DefaultBucket)
		if total != tt.wantTotal || points != tt.wantPoints {
			t.Errorf("Accrue(%d, %d) = (%d, %d), want (%d, %d)",
				tt.total, tt.add, total, points, tt.wantTotal, tt.wantPoints)
		}
	}
}

func TestAccrueCarriesRemainder(t *testing.T) {
	total, earned := 0, 0
	for i := 0; i < 30; i++ {
		var p int
		total, p = Accrue(total, 7, DefaultBucket)
		earned += p
	}
	// 210 reward XP crosses two boundaries.
	if total != 210 || earned != 2 {
		t.Errorf("total = %d earned = %d, want 210 and 2", total, earned)
	}
}
