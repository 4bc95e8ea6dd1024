package engine

import (
	"errors"
	"fmt"

	"github.com/dukerupert/starcoin/internal/calendar"
	"github.com/dukerupert/starcoin/internal/chore"
	"github.com/dukerupert/starcoin/internal/metrics"
	"github.com/dukerupert/starcoin/internal/model"
	"github.com/dukerupert/starcoin/internal/recurrence"
	"github.com/dukerupert/starcoin/internal/reward"
	"github.com/dukerupert/starcoin/internal/store"
	"github.com/dukerupert/starcoin/internal/websocket"
)

// DayView lists a child's tasks for day. An empty day means today. Today's
// list is built from the family's schedules; any other day shows only what
// was actually submitted then.
func (e *Engine) DayView(familyID, childID, day string) ([]chore.TaskView, error) {
	today := e.cal.Today()
	if day == "" {
		day = today
	}
	if !calendar.ValidDay(day) {
		return nil, fmt.Errorf("%w: day %q", ErrInvalidInput, day)
	}
	if _, err := e.child(familyID, childID); err != nil {
		return nil, err
	}

	entries, err := e.entries.ListByChildDay(childID, day)
	if err != nil {
		return nil, err
	}

	if day == today {
		tasks, err := e.tasks.ListEnabled(familyID)
		if err != nil {
			return nil, err
		}
		return chore.BuildToday(tasks, entries, today), nil
	}

	tasks, err := e.tasks.ListByFamily(familyID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	return chore.BuildHistory(byID, entries, day), nil
}

type Dashboard struct {
	Child *model.Member    `json:"child"`
	Day   string           `json:"day"`
	Tasks []chore.TaskView `json:"tasks"`
	Swept int              `json:"swept"`
}

// Dashboard sweeps stale pending entries for the family, then returns the
// child's account and today's list.
func (e *Engine) Dashboard(familyID, childID string) (*Dashboard, error) {
	if _, err := e.child(familyID, childID); err != nil {
		return nil, err
	}

	swept, err := e.Sweep(familyID)
	if err != nil {
		e.logger.Error("dashboard sweep", "family_id", familyID, "error", err)
	}

	views, err := e.DayView(familyID, childID, "")
	if err != nil {
		return nil, err
	}
	// Reload after the sweep so balances include anything it credited.
	child, err := e.child(familyID, childID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Child: child, Day: e.cal.Today(), Tasks: views, Swept: swept}, nil
}

// Submit records that childID finished taskID today. A rejected entry from
// earlier today is reused rather than duplicated.
func (e *Engine) Submit(familyID, childID, taskID string, duration *int) (*model.TaskEntry, error) {
	if duration != nil && *duration < 0 {
		return nil, fmt.Errorf("%w: negative duration", ErrInvalidInput)
	}

	task, err := e.tasks.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.FamilyID != familyID || !task.Enabled || task.IsInstance() {
		return nil, fmt.Errorf("%w: task %s", ErrNotFound, taskID)
	}
	if _, err := e.child(familyID, childID); err != nil {
		return nil, err
	}

	now := e.cal.Now()
	today := e.cal.DayKey(now)
	if !recurrence.Visible(*task, today) {
		return nil, fmt.Errorf("%w: %s on %s", ErrNotScheduled, taskID, today)
	}

	existing, err := e.entries.FindForDay(taskID, childID, today)
	if err != nil {
		return nil, err
	}
	if _, err := chore.Transition(chore.FromEntry(existing), chore.ActionSubmit); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	var entry *model.TaskEntry
	kind := "new"
	if existing == nil {
		entry, err = e.entries.Create(taskID, childID, today, now, duration)
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("%w: already submitted today", ErrInvalidState)
		}
		if err != nil {
			return nil, err
		}
	} else {
		kind = "resubmit"
		if err := e.entries.Resubmit(existing.ID, now, duration); err != nil {
			if errors.Is(err, store.ErrStale) {
				return nil, fmt.Errorf("%w: entry %s changed", ErrInvalidState, existing.ID)
			}
			return nil, err
		}
		if entry, err = e.entries.GetByID(existing.ID); err != nil {
			return nil, err
		}
	}

	metrics.EntriesSubmitted.WithLabelValues(kind).Inc()
	e.logger.Info("entry submitted", "entry_id", entry.ID, "task_id", taskID, "child_id", childID, "kind", kind)
	e.broadcast(familyID, websocket.NewMessage("entry", "submitted", entry.ID, map[string]any{
		"task_id":  taskID,
		"child_id": childID,
	}))
	return entry, nil
}

// reviewTarget loads an entry for review and checks that action is legal.
func (e *Engine) reviewTarget(familyID, entryID string, action chore.Action) (*model.EntryDetail, error) {
	d, err := e.entries.GetDetail(entryID)
	if err != nil {
		return nil, err
	}
	if d == nil || d.FamilyID != familyID {
		return nil, fmt.Errorf("%w: entry %s", ErrNotFound, entryID)
	}
	if _, err := chore.Transition(chore.Status(d.Entry.Status), action); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return d, nil
}

// Reject sends a pending entry back to the child. Nothing is granted.
func (e *Engine) Reject(familyID, entryID string) error {
	d, err := e.reviewTarget(familyID, entryID, chore.ActionReject)
	if err != nil {
		return err
	}
	if err := e.entries.Reject(entryID, e.cal.Now()); err != nil {
		if errors.Is(err, store.ErrStale) {
			return fmt.Errorf("%w: entry %s is no longer pending", ErrInvalidState, entryID)
		}
		return err
	}

	metrics.EntriesReviewed.WithLabelValues("rejected").Inc()
	e.logger.Info("entry rejected", "entry_id", entryID, "child_id", d.Entry.ChildID)
	e.broadcast(familyID, websocket.NewMessage("entry", "rejected", entryID, map[string]any{
		"task_id":  d.Entry.TaskID,
		"child_id": d.Entry.ChildID,
	}))
	return nil
}

// Review is a reviewer's scoring of one entry.
type Review struct {
	Scores     reward.Scores
	Punishment *reward.Punishment
}

// Award reports what an approval credited.
type Award struct {
	EntryID                string                 `json:"entry_id"`
	CoinsAwarded           int                    `json:"coins_awarded"`
	XPAwarded              int                    `json:"xp_awarded"`
	RewardXPAwarded        int                    `json:"reward_xp_awarded"`
	PrivilegePointsAwarded int                    `json:"privilege_points_awarded"`
	Deduction              int                    `json:"deduction"`
	BalanceAfter           int                    `json:"balance_after"`
	Unlocked               []model.AchievementDef `json:"unlocked,omitempty"`
}

func (e *Engine) grantFor(d model.EntryDetail, r Review) (reward.Grant, error) {
	if err := r.Scores.Validate(); err != nil {
		return reward.Grant{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	deduction := 0
	if r.Punishment != nil {
		settings, err := e.punishments.Settings(d.FamilyID)
		if err != nil {
			return reward.Grant{}, err
		}
		deduction, err = reward.Deduction(d.CoinReward, *r.Punishment, settings)
		if errors.Is(err, reward.ErrPunishmentDisabled) {
			return reward.Grant{}, err
		}
		if err != nil {
			return reward.Grant{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	return reward.Compute(d.CoinReward, d.XPReward, r.Scores, deduction), nil
}

// PreviewReward computes what approving with r would grant without changing
// anything. The coin amount may be negative.
func (e *Engine) PreviewReward(familyID, entryID string, r Review) (reward.Grant, error) {
	d, err := e.reviewTarget(familyID, entryID, chore.ActionApprove)
	if err != nil {
		return reward.Grant{}, err
	}
	return e.grantFor(*d, r)
}

// Approve scores a pending entry, credits the child and evaluates achievements.
func (e *Engine) Approve(familyID, entryID string, r Review) (*Award, error) {
	d, err := e.reviewTarget(familyID, entryID, chore.ActionApprove)
	if err != nil {
		return nil, err
	}
	grant, err := e.grantFor(*d, r)
	if err != nil {
		return nil, err
	}

	award, err := e.approve(*d, grant, r.Punishment, false)
	if err != nil {
		return nil, err
	}

	unlocked, err := e.EvaluateAchievements(familyID, d.Entry.ChildID)
	if err != nil {
		e.logger.Error("evaluate achievements", "child_id", d.Entry.ChildID, "error", err)
	}
	award.Unlocked = unlocked
	return award, nil
}

// approve applies one approval in a single store transaction. Manual and
// automatic approvals share this path.
func (e *Engine) approve(d model.EntryDetail, grant reward.Grant, p *reward.Punishment, auto bool) (*Award, error) {
	res, err := e.entries.Approve(store.Approval{
		EntryID:          d.Entry.ID,
		TaskID:           d.Entry.TaskID,
		ChildID:          d.Entry.ChildID,
		FamilyID:         d.FamilyID,
		ReviewedAt:       e.cal.Now(),
		Grant:            grant,
		Auto:             auto,
		AccruePrivileges: e.accrue,
		Bucket:           e.bucket,
		Punishment:       p,
		TaskReward:       d.CoinReward,
	})
	if err != nil {
		if errors.Is(err, store.ErrStale) {
			return nil, fmt.Errorf("%w: entry %s is no longer pending", ErrInvalidState, d.Entry.ID)
		}
		return nil, err
	}

	outcome := "approved"
	if auto {
		outcome = "auto_approved"
	}
	metrics.EntriesReviewed.WithLabelValues(outcome).Inc()
	if grant.Coins > 0 {
		metrics.CoinsAwarded.Add(float64(grant.Coins))
	}
	metrics.PrivilegePointsAwarded.Add(float64(res.PrivilegePoints))
	if p != nil && grant.Deduction > 0 {
		metrics.PunishmentsApplied.WithLabelValues(string(p.Level)).Inc()
	}

	e.logger.Info("entry approved",
		"entry_id", d.Entry.ID,
		"child_id", d.Entry.ChildID,
		"auto", auto,
		"coins", grant.Coins,
		"xp", grant.XP,
		"privilege_points", res.PrivilegePoints,
	)
	e.broadcast(d.FamilyID, websocket.NewMessage("entry", outcome, d.Entry.ID, map[string]any{
		"task_id":  d.Entry.TaskID,
		"child_id": d.Entry.ChildID,
		"coins":    grant.Coins,
	}))

	return &Award{
		EntryID:                d.Entry.ID,
		CoinsAwarded:           grant.Coins,
		XPAwarded:              grant.XP,
		RewardXPAwarded:        grant.RewardXP,
		PrivilegePointsAwarded: res.PrivilegePoints,
		Deduction:              grant.Deduction,
		BalanceAfter:           res.BalanceAfter,
	}, nil
}

// PendingReviews lists a family's entries waiting for a parent.
func (e *Engine) PendingReviews(familyID string) ([]model.EntryDetail, error) {
	return e.entries.ListPending(familyID)
}
