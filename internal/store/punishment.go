package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/starcoin/internal/model"
)

type PunishmentStore struct {
	db *sql.DB
}

func NewPunishmentStore(db *sql.DB) *PunishmentStore {
	return &PunishmentStore{db: db}
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Settings returns a family's punishment settings, or the defaults when the
// family has never saved any.
func (s *PunishmentStore) Settings(familyID string) (model.PunishmentSettings, error) {
	ps := model.PunishmentSettings{FamilyID: familyID}
	err := s.db.QueryRow(
		`SELECT enabled, mild_rate, mild_min, mild_max, moderate_rate, moderate_min, moderate_max,
			severe_rate, severe_extra, severe_min, severe_max, custom_min, custom_max
		 FROM punishment_settings WHERE family_id = ?`, familyID,
	).Scan(&ps.Enabled,
		&ps.Mild.Rate, &ps.Mild.Min, &ps.Mild.Max,
		&ps.Moderate.Rate, &ps.Moderate.Min, &ps.Moderate.Max,
		&ps.Severe.Rate, &ps.Severe.Extra, &ps.Severe.Min, &ps.Severe.Max,
		&ps.Custom.Min, &ps.Custom.Max)
	if err == sql.ErrNoRows {
		return model.DefaultPunishmentSettings(familyID), nil
	}
	if err != nil {
		return ps, fmt.Errorf("get punishment settings: %w", err)
	}
	return ps, nil
}

func (s *PunishmentStore) Save(ps model.PunishmentSettings) error {
	return upsertPunishmentSettings(s.db, ps)
}

func upsertPunishmentSettings(ex execer, ps model.PunishmentSettings) error {
	_, err := ex.Exec(
		`INSERT INTO punishment_settings (family_id, enabled, mild_rate, mild_min, mild_max,
			moderate_rate, moderate_min, moderate_max, severe_rate, severe_extra, severe_min, severe_max,
			custom_min, custom_max)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(family_id) DO UPDATE SET
			enabled = excluded.enabled,
			mild_rate = excluded.mild_rate, mild_min = excluded.mild_min, mild_max = excluded.mild_max,
			moderate_rate = excluded.moderate_rate, moderate_min = excluded.moderate_min,
			moderate_max = excluded.moderate_max,
			severe_rate = excluded.severe_rate, severe_extra = excluded.severe_extra,
			severe_min = excluded.severe_min, severe_max = excluded.severe_max,
			custom_min = excluded.custom_min, custom_max = excluded.custom_max,
			updated_at = CURRENT_TIMESTAMP`,
		ps.FamilyID, boolInt(ps.Enabled),
		ps.Mild.Rate, ps.Mild.Min, ps.Mild.Max,
		ps.Moderate.Rate, ps.Moderate.Min, ps.Moderate.Max,
		ps.Severe.Rate, ps.Severe.Extra, ps.Severe.Min, ps.Severe.Max,
		ps.Custom.Min, ps.Custom.Max,
	)
	if err != nil {
		return fmt.Errorf("save punishment settings: %w", err)
	}
	return nil
}

// ListRecords returns a family's punishment records, newest first.
func (s *PunishmentStore) ListRecords(familyID string, limit int) ([]model.PunishmentRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, family_id, entry_id, task_id, child_id, level, reason, task_reward, deducted_coins,
			balance_before, balance_after, created_at
		 FROM punishment_records WHERE family_id = ? ORDER BY created_at DESC LIMIT ?`,
		familyID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list punishment records: %w", err)
	}
	defer rows.Close()

	var records []model.PunishmentRecord
	for rows.Next() {
		var r model.PunishmentRecord
		if err := rows.Scan(&r.ID, &r.FamilyID, &r.EntryID, &r.TaskID, &r.ChildID, &r.Level, &r.Reason,
			&r.TaskReward, &r.DeductedCoins, &r.BalanceBefore, &r.BalanceAfter, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan punishment record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
