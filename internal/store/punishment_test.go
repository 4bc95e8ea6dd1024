package store

import "testing"

func TestPunishmentSettingsRoundTrip(t *testing.T) {
	db := openTestDB(t)
	fx := seedFamily(t, db)
	ps := NewPunishmentStore(db)

	s, err := ps.Settings(fx.family.ID)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if s.Enabled || s.Mild.Rate != 0.3 || s.Custom.Max != 100 {
		t.Errorf("defaults = %+v", s)
	}

	s.Enabled = true
	s.Severe.Extra = 8
	if err := ps.Save(s); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Moderate.Max = 25
	if err := ps.Save(s); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := ps.Settings(fx.family.ID)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if !got.Enabled || got.Severe.Extra != 8 || got.Moderate.Max != 25 {
		t.Errorf("saved = %+v", got)
	}
}
