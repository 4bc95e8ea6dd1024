package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/starcoin/internal/model"
)

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

const memberCols = `id, family_id, name, role, avatar_emoji, coins, xp, privilege_points, reward_xp_total,
	token_hash IS NOT NULL, created_at, updated_at`

func scanMember(sc scanner) (*model.Member, error) {
	var m model.Member
	err := sc.Scan(&m.ID, &m.FamilyID, &m.Name, &m.Role, &m.AvatarEmoji,
		&m.Coins, &m.XP, &m.PrivilegePoints, &m.RewardXPTotal,
		&m.HasToken, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MemberStore) Create(familyID, name string, role model.Role, avatarEmoji string) (*model.Member, error) {
	id := newID()
	_, err := s.db.Exec(
		`INSERT INTO members (id, family_id, name, role, avatar_emoji) VALUES (?, ?, ?, ?, ?)`,
		id, familyID, name, role, avatarEmoji,
	)
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	return s.GetByID(id)
}

func (s *MemberStore) GetByID(id string) (*model.Member, error) {
	row := s.db.QueryRow(`SELECT `+memberCols+` FROM members WHERE id = ?`, id)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// ListByFamily returns a family's members, parents first.
func (s *MemberStore) ListByFamily(familyID string) ([]model.Member, error) {
	return s.list(`SELECT `+memberCols+` FROM members WHERE family_id = ?
		ORDER BY CASE role WHEN 'parent' THEN 0 ELSE 1 END, created_at ASC`, familyID)
}

func (s *MemberStore) ListChildren(familyID string) ([]model.Member, error) {
	return s.list(`SELECT `+memberCols+` FROM members WHERE family_id = ? AND role = 'child'
		ORDER BY created_at ASC`, familyID)
}

func (s *MemberStore) list(query string, args ...any) ([]model.Member, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (s *MemberStore) Update(id, name, avatarEmoji string) (*model.Member, error) {
	_, err := s.db.Exec(
		`UPDATE members SET name = ?, avatar_emoji = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, avatarEmoji, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	return s.GetByID(id)
}

func (s *MemberStore) SetTokenHash(id, hash string) error {
	_, err := s.db.Exec(`UPDATE members SET token_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("set token hash: %w", err)
	}
	return nil
}

// TokenHash returns the stored token hash, or "" if the member has none or
// does not exist.
func (s *MemberStore) TokenHash(id string) (string, error) {
	var hash sql.NullString
	err := s.db.QueryRow(`SELECT token_hash FROM members WHERE id = ?`, id).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query token hash: %w", err)
	}
	return hash.String, nil
}

// SupportsPrivilegeAccrual reports whether the members table carries the
// cumulative reward XP column that privilege accrual needs.
func (s *MemberStore) SupportsPrivilegeAccrual() (bool, error) {
	rows, err := s.db.Query(`SELECT name FROM pragma_table_info('members')`)
	if err != nil {
		return false, fmt.Errorf("inspect members table: %w", err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, fmt.Errorf("scan column: %w", err)
		}
		if name == "reward_xp_total" {
			found = true
		}
	}
	return found, rows.Err()
}
