package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/starcoin/internal/model"
	"github.com/dukerupert/starcoin/internal/reward"
)

type EntryStore struct {
	db *sql.DB
}

func NewEntryStore(db *sql.DB) *EntryStore {
	return &EntryStore{db: db}
}

const entryCols = `e.id, e.task_id, e.child_id, e.day_key, e.status, e.submitted_at, e.reviewed_at,
	e.actual_duration_minutes, e.earned_coins, e.earned_xp, e.reward_xp, e.auto_approved`

func entryDest(e *model.TaskEntry, reviewedAt *sql.NullTime, duration *sql.NullInt64) []any {
	return []any{&e.ID, &e.TaskID, &e.ChildID, &e.DayKey, &e.Status, &e.SubmittedAt, reviewedAt,
		duration, &e.EarnedCoins, &e.EarnedXP, &e.RewardXP, &e.AutoApproved}
}

func fillEntry(e *model.TaskEntry, reviewedAt sql.NullTime, duration sql.NullInt64) {
	if reviewedAt.Valid {
		t := reviewedAt.Time
		e.ReviewedAt = &t
	}
	if duration.Valid {
		d := int(duration.Int64)
		e.ActualDurationMinutes = &d
	}
}

func scanEntry(sc scanner) (*model.TaskEntry, error) {
	var e model.TaskEntry
	var reviewedAt sql.NullTime
	var duration sql.NullInt64

	if err := sc.Scan(entryDest(&e, &reviewedAt, &duration)...); err != nil {
		return nil, err
	}
	fillEntry(&e, reviewedAt, duration)
	return &e, nil
}

const detailCols = entryCols + `, t.family_id, t.title, t.category, t.coin_reward, t.xp_reward,
	t.duration_minutes, m.name`

const detailJoin = ` FROM task_entries e
	JOIN tasks t ON t.id = e.task_id
	JOIN members m ON m.id = e.child_id`

func scanDetail(sc scanner) (*model.EntryDetail, error) {
	var d model.EntryDetail
	var reviewedAt sql.NullTime
	var duration sql.NullInt64

	dest := append(entryDest(&d.Entry, &reviewedAt, &duration),
		&d.FamilyID, &d.TaskTitle, &d.Category, &d.CoinReward, &d.XPReward,
		&d.DurationMinutes, &d.ChildName)
	if err := sc.Scan(dest...); err != nil {
		return nil, err
	}
	fillEntry(&d.Entry, reviewedAt, duration)
	return &d, nil
}

// Create inserts a pending entry. A second entry for the same task, child and
// day returns ErrDuplicate.
func (s *EntryStore) Create(taskID, childID, dayKey string, submittedAt time.Time, duration *int) (*model.TaskEntry, error) {
	id := newID()
	_, err := s.db.Exec(
		`INSERT INTO task_entries (id, task_id, child_id, day_key, status, submitted_at, actual_duration_minutes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, taskID, childID, dayKey, model.EntryPending, submittedAt.UTC(), nullInt(duration),
	)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	return s.GetByID(id)
}

func (s *EntryStore) GetByID(id string) (*model.TaskEntry, error) {
	row := s.db.QueryRow(`SELECT `+entryCols+` FROM task_entries e WHERE e.id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

// GetDetail returns an entry with its task and child.
func (s *EntryStore) GetDetail(id string) (*model.EntryDetail, error) {
	row := s.db.QueryRow(`SELECT `+detailCols+detailJoin+` WHERE e.id = ?`, id)
	d, err := scanDetail(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry detail: %w", err)
	}
	return d, nil
}

// FindForDay returns the entry a child has for a task on dayKey, if any.
func (s *EntryStore) FindForDay(taskID, childID, dayKey string) (*model.TaskEntry, error) {
	row := s.db.QueryRow(
		`SELECT `+entryCols+` FROM task_entries e WHERE e.task_id = ? AND e.child_id = ? AND e.day_key = ?`,
		taskID, childID, dayKey,
	)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find entry for day: %w", err)
	}
	return e, nil
}

// Resubmit reuses a rejected entry: new submission time and duration, back to
// pending. ErrStale means the entry was no longer rejected.
func (s *EntryStore) Resubmit(id string, submittedAt time.Time, duration *int) error {
	res, err := s.db.Exec(
		`UPDATE task_entries
		 SET status = ?, submitted_at = ?, actual_duration_minutes = ?, reviewed_at = NULL,
		     earned_coins = 0, earned_xp = 0, reward_xp = 0, auto_approved = 0
		 WHERE id = ? AND status = ?`,
		model.EntryPending, submittedAt.UTC(), nullInt(duration), id, model.EntryRejected,
	)
	if err != nil {
		return fmt.Errorf("resubmit entry: %w", err)
	}
	return expectOne(res)
}

// Reject moves a pending entry to rejected. Nothing is granted.
func (s *EntryStore) Reject(id string, reviewedAt time.Time) error {
	res, err := s.db.Exec(
		`UPDATE task_entries SET status = ?, reviewed_at = ? WHERE id = ? AND status = ?`,
		model.EntryRejected, reviewedAt.UTC(), id, model.EntryPending,
	)
	if err != nil {
		return fmt.Errorf("reject entry: %w", err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrStale
	}
	return nil
}

// Approval describes one approve transition and the credit that goes with it.
type Approval struct {
	EntryID    string
	TaskID     string
	ChildID    string
	FamilyID   string
	ReviewedAt time.Time
	Grant      reward.Grant
	Auto       bool

	// AccruePrivileges enables the reward XP watermark. Bucket is the reward
	// XP per privilege point.
	AccruePrivileges bool
	Bucket           int

	// Punishment is recorded when Grant.Deduction is positive.
	Punishment *reward.Punishment
	TaskReward int
}

type ApprovalResult struct {
	PrivilegePoints int
	BalanceBefore   int
	BalanceAfter    int
}

// Approve marks the entry approved and credits the child's account in one
// transaction. ErrStale means the entry was no longer pending.
func (s *EntryStore) Approve(a Approval) (ApprovalResult, error) {
	var out ApprovalResult

	tx, err := s.db.Begin()
	if err != nil {
		return out, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE task_entries
		 SET status = ?, reviewed_at = ?, earned_coins = ?, earned_xp = ?, reward_xp = ?, auto_approved = ?
		 WHERE id = ? AND status = ?`,
		model.EntryApproved, a.ReviewedAt.UTC(), a.Grant.Coins, a.Grant.XP, a.Grant.RewardXP, boolInt(a.Auto),
		a.EntryID, model.EntryPending,
	)
	if err != nil {
		return out, fmt.Errorf("approve entry: %w", err)
	}
	if err := expectOne(res); err != nil {
		return out, err
	}

	if a.AccruePrivileges {
		var total int
		if err := tx.QueryRow(
			`SELECT coins, reward_xp_total FROM members WHERE id = ?`, a.ChildID,
		).Scan(&out.BalanceBefore, &total); err != nil {
			return out, fmt.Errorf("read account: %w", err)
		}

		newTotal, points := reward.Accrue(total, a.Grant.RewardXP, a.Bucket)
		out.PrivilegePoints = points
		if _, err := tx.Exec(
			`UPDATE members
			 SET coins = coins + ?, xp = xp + ?, reward_xp_total = ?, privilege_points = privilege_points + ?,
			     updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			a.Grant.Coins, a.Grant.XP, newTotal, points, a.ChildID,
		); err != nil {
			return out, fmt.Errorf("credit account: %w", err)
		}
	} else {
		if err := tx.QueryRow(`SELECT coins FROM members WHERE id = ?`, a.ChildID).Scan(&out.BalanceBefore); err != nil {
			return out, fmt.Errorf("read account: %w", err)
		}
		if _, err := tx.Exec(
			`UPDATE members SET coins = coins + ?, xp = xp + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			a.Grant.Coins, a.Grant.XP, a.ChildID,
		); err != nil {
			return out, fmt.Errorf("credit account: %w", err)
		}
	}
	out.BalanceAfter = out.BalanceBefore + a.Grant.Coins

	if a.Punishment != nil && a.Grant.Deduction > 0 {
		if _, err := tx.Exec(
			`INSERT INTO punishment_records (id, family_id, entry_id, task_id, child_id, level, reason,
				task_reward, deducted_coins, balance_before, balance_after, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			newID(), a.FamilyID, a.EntryID, a.TaskID, a.ChildID, a.Punishment.Level, a.Punishment.Reason,
			a.TaskReward, a.Grant.Deduction, out.BalanceBefore, out.BalanceAfter, a.ReviewedAt.UTC(),
		); err != nil {
			return out, fmt.Errorf("insert punishment record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return out, fmt.Errorf("commit approval: %w", err)
	}
	return out, nil
}

// ListByChildDay returns a child's entries recorded on dayKey.
func (s *EntryStore) ListByChildDay(childID, dayKey string) ([]model.TaskEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+entryCols+` FROM task_entries e WHERE e.child_id = ? AND e.day_key = ? ORDER BY e.submitted_at ASC`,
		childID, dayKey,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []model.TaskEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// ListPending returns a family's pending entries, oldest first.
func (s *EntryStore) ListPending(familyID string) ([]model.EntryDetail, error) {
	return s.listDetails(`SELECT `+detailCols+detailJoin+`
		WHERE t.family_id = ? AND e.status = ? ORDER BY e.submitted_at ASC`,
		familyID, model.EntryPending)
}

// ListSince returns a family's entries with a day key of fromDay or later.
func (s *EntryStore) ListSince(familyID, fromDay string) ([]model.EntryDetail, error) {
	return s.listDetails(`SELECT `+detailCols+detailJoin+`
		WHERE t.family_id = ? AND e.day_key >= ? ORDER BY e.submitted_at ASC`,
		familyID, fromDay)
}

func (s *EntryStore) listDetails(query string, args ...any) ([]model.EntryDetail, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entry details: %w", err)
	}
	defer rows.Close()

	var details []model.EntryDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry detail: %w", err)
		}
		details = append(details, *d)
	}
	return details, rows.Err()
}

// ListApprovedActivity returns every approved entry for a child, reduced to
// the fields achievements and streaks read.
func (s *EntryStore) ListApprovedActivity(childID string) ([]model.Activity, error) {
	rows, err := s.db.Query(
		`SELECT e.submitted_at, t.category, e.earned_coins, e.earned_xp
		 FROM task_entries e JOIN tasks t ON t.id = e.task_id
		 WHERE e.child_id = ? AND e.status = ?
		 ORDER BY e.submitted_at ASC`,
		childID, model.EntryApproved,
	)
	if err != nil {
		return nil, fmt.Errorf("list approved activity: %w", err)
	}
	defer rows.Close()

	var acts []model.Activity
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.SubmittedAt, &a.Category, &a.Coins, &a.XP); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		acts = append(acts, a)
	}
	return acts, rows.Err()
}
