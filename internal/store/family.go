package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/starcoin/internal/model"
)

type FamilyStore struct {
	db *sql.DB
}

func NewFamilyStore(db *sql.DB) *FamilyStore {
	return &FamilyStore{db: db}
}

func scanFamily(sc scanner) (*model.Family, error) {
	var f model.Family
	if err := sc.Scan(&f.ID, &f.Name, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

const familyCols = `id, name, created_at, updated_at`

func (s *FamilyStore) Create(name string) (*model.Family, error) {
	id := newID()
	if _, err := s.db.Exec(`INSERT INTO families (id, name) VALUES (?, ?)`, id, name); err != nil {
		return nil, fmt.Errorf("insert family: %w", err)
	}
	return s.GetByID(id)
}

func (s *FamilyStore) GetByID(id string) (*model.Family, error) {
	row := s.db.QueryRow(`SELECT `+familyCols+` FROM families WHERE id = ?`, id)
	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}
	return f, nil
}

func (s *FamilyStore) List() ([]model.Family, error) {
	rows, err := s.db.Query(`SELECT ` + familyCols + ` FROM families ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}
	defer rows.Close()

	var families []model.Family
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family: %w", err)
		}
		families = append(families, *f)
	}
	return families, rows.Err()
}

func (s *FamilyStore) Rename(id, name string) (*model.Family, error) {
	_, err := s.db.Exec(`UPDATE families SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, name, id)
	if err != nil {
		return nil, fmt.Errorf("rename family: %w", err)
	}
	return s.GetByID(id)
}

type seedAchievement struct {
	title, description, icon string
	condition                model.ConditionType
	value                    int
}

var defaultAchievements = []seedAchievement{
	{"First Step", "Complete your first task", "🌱", model.ConditionTaskCount, 1},
	{"Getting Busy", "Complete 10 tasks", "🐝", model.ConditionTaskCount, 10},
	{"Hard Worker", "Complete 50 tasks", "💪", model.ConditionTaskCount, 50},
	{"Centurion", "Complete 100 tasks", "🏆", model.ConditionTaskCount, 100},
	{"Piggy Bank", "Earn 100 coins", "🐷", model.ConditionCoinCount, 100},
	{"Treasure Chest", "Earn 500 coins", "💰", model.ConditionCoinCount, 500},
	{"Coin Tycoon", "Earn 1000 coins", "👑", model.ConditionCoinCount, 1000},
	{"On a Roll", "Complete tasks 3 days in a row", "🔥", model.ConditionStreakDays, 3},
	{"Week Warrior", "Complete tasks 7 days in a row", "📅", model.ConditionStreakDays, 7},
	{"Helping Hand", "Awarded by a parent for helping out", "🤝", model.ConditionManual, 1},
	{"Kind Heart", "Awarded by a parent for kindness", "💖", model.ConditionManual, 1},
	{"Brave Try", "Awarded by a parent for trying something new", "🦁", model.ConditionManual, 1},
}

// SeedDefaults inserts the default achievements and punishment settings for
// a new family in a single transaction.
func (s *FamilyStore) SeedDefaults(familyID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, a := range defaultAchievements {
		if _, err := tx.Exec(
			`INSERT INTO achievement_defs (id, family_id, title, description, icon, condition_type, condition_value)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			newID(), familyID, a.title, a.description, a.icon, a.condition, a.value,
		); err != nil {
			return fmt.Errorf("seed achievement %q: %w", a.title, err)
		}
	}

	if err := upsertPunishmentSettings(tx, model.DefaultPunishmentSettings(familyID)); err != nil {
		return err
	}

	return tx.Commit()
}
