// Package engine runs the task lifecycle for a family: which tasks a child
// sees each day, submission and review, the auto-approval sweep, rewards and
// achievement unlocks.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukerupert/starcoin/internal/calendar"
	"github.com/dukerupert/starcoin/internal/model"
	"github.com/dukerupert/starcoin/internal/reward"
	"github.com/dukerupert/starcoin/internal/store"
	"github.com/dukerupert/starcoin/internal/websocket"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("invalid state")
	ErrNotScheduled       = errors.New("task is not scheduled today")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPunishmentDisabled = reward.ErrPunishmentDisabled
)

// Broadcaster delivers live updates to a family's connected clients.
type Broadcaster interface {
	Broadcast(familyID string, msg websocket.Message)
}

type Stores struct {
	Families     *store.FamilyStore
	Members      *store.MemberStore
	Tasks        *store.TaskStore
	Entries      *store.EntryStore
	Achievements *store.AchievementStore
	Punishments  *store.PunishmentStore
}

type Options struct {
	PrivilegeAccrual bool
	PrivilegeBucket  int
}

type Engine struct {
	cal          *calendar.Calendar
	families     *store.FamilyStore
	members      *store.MemberStore
	tasks        *store.TaskStore
	entries      *store.EntryStore
	achievements *store.AchievementStore
	punishments  *store.PunishmentStore
	hub          Broadcaster
	logger       *slog.Logger

	accrue bool
	bucket int
}

// New builds an Engine. Whether approvals accrue privilege points is decided
// here, once: the option must be on and the schema must support it.
func New(cal *calendar.Calendar, s Stores, hub Broadcaster, logger *slog.Logger, opts Options) (*Engine, error) {
	e := &Engine{
		cal:          cal,
		families:     s.Families,
		members:      s.Members,
		tasks:        s.Tasks,
		entries:      s.Entries,
		achievements: s.Achievements,
		punishments:  s.Punishments,
		hub:          hub,
		logger:       logger,
		bucket:       opts.PrivilegeBucket,
	}
	if e.bucket <= 0 {
		e.bucket = reward.DefaultBucket
	}

	if opts.PrivilegeAccrual {
		ok, err := s.Members.SupportsPrivilegeAccrual()
		if err != nil {
			return nil, fmt.Errorf("probe privilege accrual: %w", err)
		}
		if !ok {
			logger.Warn("privilege accrual unavailable: members table has no reward_xp_total column")
		}
		e.accrue = ok
	} else {
		logger.Info("privilege accrual disabled by configuration")
	}
	return e, nil
}

// AccruesPrivileges reports whether approvals feed the privilege watermark.
func (e *Engine) AccruesPrivileges() bool { return e.accrue }

func (e *Engine) Calendar() *calendar.Calendar { return e.cal }

func (e *Engine) broadcast(familyID string, msg websocket.Message) {
	if e.hub != nil {
		e.hub.Broadcast(familyID, msg)
	}
}

// child loads childID and checks it is a child of familyID.
func (e *Engine) child(familyID, childID string) (*model.Member, error) {
	m, err := e.members.GetByID(childID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.FamilyID != familyID || m.Role != model.RoleChild {
		return nil, fmt.Errorf("%w: child %s", ErrNotFound, childID)
	}
	return m, nil
}
