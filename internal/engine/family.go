package engine

import (
	"fmt"
	"strings"

	"github.com/dukerupert/starcoin/internal/auth"
	"github.com/dukerupert/starcoin/internal/model"
)

// Enrollment is a newly created member and the bearer token it signs in with.
// The token is only available at creation time.
type Enrollment struct {
	Member *model.Member `json:"member"`
	Token  string        `json:"token"`
}

// CreateFamily creates a family seeded with default achievements and
// punishment settings, plus its first parent.
func (e *Engine) CreateFamily(name, parentName string) (*model.Family, *Enrollment, error) {
	name = strings.TrimSpace(name)
	parentName = strings.TrimSpace(parentName)
	if name == "" || parentName == "" {
		return nil, nil, fmt.Errorf("%w: family and parent name are required", ErrInvalidInput)
	}

	f, err := e.families.Create(name)
	if err != nil {
		return nil, nil, err
	}
	if err := e.families.SeedDefaults(f.ID); err != nil {
		return nil, nil, err
	}
	enr, err := e.AddMember(f.ID, parentName, model.RoleParent, "")
	if err != nil {
		return nil, nil, err
	}
	e.logger.Info("family created", "family_id", f.ID, "name", f.Name)
	return f, enr, nil
}

// AddMember adds a parent or child to a family and issues its token.
func (e *Engine) AddMember(familyID, name string, role model.Role, avatar string) (*Enrollment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidInput, role)
	}
	f, err := e.families.GetByID(familyID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%w: family %s", ErrNotFound, familyID)
	}

	m, err := e.members.Create(familyID, name, role, avatar)
	if err != nil {
		return nil, err
	}
	token, err := e.IssueToken(m.ID)
	if err != nil {
		return nil, err
	}
	m.HasToken = true
	return &Enrollment{Member: m, Token: token}, nil
}

// IssueToken replaces a member's token. The old one stops working.
func (e *Engine) IssueToken(memberID string) (string, error) {
	token, hash, err := auth.NewToken(memberID)
	if err != nil {
		return "", err
	}
	if err := e.members.SetTokenHash(memberID, hash); err != nil {
		return "", err
	}
	return token, nil
}
