package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/starcoin/internal/model"
)

type AchievementStore struct {
	db *sql.DB
}

func NewAchievementStore(db *sql.DB) *AchievementStore {
	return &AchievementStore{db: db}
}

const achievementCols = `id, family_id, title, description, icon, condition_type, condition_value,
	condition_category, created_at`

func scanAchievement(sc scanner) (*model.AchievementDef, error) {
	var a model.AchievementDef
	err := sc.Scan(&a.ID, &a.FamilyID, &a.Title, &a.Description, &a.Icon,
		&a.ConditionType, &a.ConditionValue, &a.ConditionCategory, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AchievementStore) Create(a model.AchievementDef) (*model.AchievementDef, error) {
	id := newID()
	_, err := s.db.Exec(
		`INSERT INTO achievement_defs (id, family_id, title, description, icon, condition_type,
			condition_value, condition_category)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, a.FamilyID, a.Title, a.Description, a.Icon, a.ConditionType, a.ConditionValue, a.ConditionCategory,
	)
	if err != nil {
		return nil, fmt.Errorf("insert achievement: %w", err)
	}
	return s.GetByID(id)
}

func (s *AchievementStore) GetByID(id string) (*model.AchievementDef, error) {
	row := s.db.QueryRow(`SELECT `+achievementCols+` FROM achievement_defs WHERE id = ? AND deleted_at IS NULL`, id)
	a, err := scanAchievement(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get achievement: %w", err)
	}
	return a, nil
}

func (s *AchievementStore) ListByFamily(familyID string) ([]model.AchievementDef, error) {
	rows, err := s.db.Query(
		`SELECT `+achievementCols+` FROM achievement_defs
		 WHERE family_id = ? AND deleted_at IS NULL ORDER BY created_at ASC, rowid ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	var defs []model.AchievementDef
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		defs = append(defs, *a)
	}
	return defs, rows.Err()
}

// Delete retires a definition. The row stays so unlock records that point
// at it are kept.
func (s *AchievementStore) Delete(id string) error {
	_, err := s.db.Exec(
		`UPDATE achievement_defs SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("delete achievement: %w", err)
	}
	return nil
}

// Unlock records that childID earned achievementID. It reports false when
// the pair was already recorded; a repeat is never an error.
func (s *AchievementStore) Unlock(childID, achievementID string, at time.Time) (bool, error) {
	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO user_achievements (id, child_id, achievement_id, unlocked_at) VALUES (?, ?, ?, ?)`,
		newID(), childID, achievementID, at.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("unlock achievement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Unlocked maps achievement ID to unlock time for one child.
func (s *AchievementStore) Unlocked(childID string) (map[string]time.Time, error) {
	rows, err := s.db.Query(`SELECT achievement_id, unlocked_at FROM user_achievements WHERE child_id = ?`, childID)
	if err != nil {
		return nil, fmt.Errorf("list unlocked: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var at time.Time
		if err := rows.Scan(&id, &at); err != nil {
			return nil, fmt.Errorf("scan unlocked: %w", err)
		}
		out[id] = at
	}
	return out, rows.Err()
}

func (s *AchievementStore) CountUnlocked(childID, achievementID string) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM user_achievements WHERE child_id = ? AND achievement_id = ?`,
		childID, achievementID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unlocked: %w", err)
	}
	return n, nil
}
