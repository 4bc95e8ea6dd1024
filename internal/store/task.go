package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/starcoin/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskCols = `id, family_id, title, icon, category, coin_reward, xp_reward, duration_minutes,
	enabled, schedule, custom_days, valid_date, template_id, created_at, updated_at`

func scanTask(sc scanner) (*model.Task, error) {
	var t model.Task
	var templateID sql.NullString

	err := sc.Scan(&t.ID, &t.FamilyID, &t.Title, &t.Icon, &t.Category,
		&t.CoinReward, &t.XPReward, &t.DurationMinutes,
		&t.Enabled, &t.Schedule, &t.CustomDays, &t.ValidDate, &templateID,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if templateID.Valid {
		t.TemplateID = &templateID.String
	}
	return &t, nil
}

func (s *TaskStore) Create(t model.Task) (*model.Task, error) {
	id := newID()
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, family_id, title, icon, category, coin_reward, xp_reward, duration_minutes,
			enabled, schedule, custom_days, valid_date, template_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, t.FamilyID, t.Title, t.Icon, t.Category, t.CoinReward, t.XPReward, t.DurationMinutes,
		boolInt(t.Enabled), t.Schedule, t.CustomDays, t.ValidDate, nullString(t.TemplateID),
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id string) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListByFamily returns every task the family has defined, including disabled ones.
func (s *TaskStore) ListByFamily(familyID string) ([]model.Task, error) {
	return s.list(`SELECT `+taskCols+` FROM tasks WHERE family_id = ? ORDER BY created_at ASC`, familyID)
}

func (s *TaskStore) ListEnabled(familyID string) ([]model.Task, error) {
	return s.list(`SELECT `+taskCols+` FROM tasks WHERE family_id = ? AND enabled = 1 ORDER BY created_at ASC`, familyID)
}

// ListDisabled returns soft-deleted tasks, most recently changed first.
func (s *TaskStore) ListDisabled(familyID string) ([]model.Task, error) {
	return s.list(`SELECT `+taskCols+` FROM tasks WHERE family_id = ? AND enabled = 0 ORDER BY updated_at DESC`, familyID)
}

func (s *TaskStore) list(query string, args ...any) ([]model.Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Update rewrites a task's editable fields. Entries already recorded keep the
// amounts they were granted.
func (s *TaskStore) Update(t model.Task) (*model.Task, error) {
	_, err := s.db.Exec(
		`UPDATE tasks SET title = ?, icon = ?, category = ?, coin_reward = ?, xp_reward = ?,
			duration_minutes = ?, schedule = ?, custom_days = ?, valid_date = ?,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		t.Title, t.Icon, t.Category, t.CoinReward, t.XPReward,
		t.DurationMinutes, t.Schedule, t.CustomDays, t.ValidDate, t.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.GetByID(t.ID)
}

// SetEnabled soft-deletes or restores a task. Tasks are never removed so
// their entries stay intact.
func (s *TaskStore) SetEnabled(id string, enabled bool) error {
	_, err := s.db.Exec(
		`UPDATE tasks SET enabled = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		boolInt(enabled), id,
	)
	if err != nil {
		return fmt.Errorf("set task enabled: %w", err)
	}
	return nil
}

func (s *TaskStore) CountEntries(id string) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM task_entries WHERE task_id = ?`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count task entries: %w", err)
	}
	return n, nil
}
