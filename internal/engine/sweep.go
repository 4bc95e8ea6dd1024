package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/starcoin/internal/metrics"
	"github.com/dukerupert/starcoin/internal/model"
	"github.com/dukerupert/starcoin/internal/reward"
	"github.com/dukerupert/starcoin/internal/websocket"
)

// Sweep auto-approves a family's pending entries submitted before today at
// base reward. Entries submitted today are left for a parent. A failure on
// one entry is logged and the sweep moves on; it returns how many entries it
// resolved.
func (e *Engine) Sweep(familyID string) (int, error) {
	start := time.Now()
	metrics.SweepRuns.Inc()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	pending, err := e.entries.ListPending(familyID)
	if err != nil {
		return 0, fmt.Errorf("list pending: %w", err)
	}
	return e.resolveStale(familyID, pending), nil
}

// resolveStale approves the entries in pending that were submitted before
// today. pending may be out of date; entries resolved since it was read are
// skipped.
func (e *Engine) resolveStale(familyID string, pending []model.EntryDetail) int {
	today := e.cal.Today()
	resolved := 0
	children := make(map[string]struct{})
	for _, d := range pending {
		if e.cal.DayKey(d.Entry.SubmittedAt) >= today {
			continue
		}
		if _, err := e.approve(d, reward.Base(d.CoinReward, d.XPReward), nil, true); err != nil {
			if errors.Is(err, ErrInvalidState) {
				// Resolved by a reviewer or a concurrent sweep since the list was read.
				e.logger.Debug("skip resolved entry", "entry_id", d.Entry.ID, "family_id", familyID)
				continue
			}
			metrics.SweepFailures.Inc()
			e.logger.Error("auto-approve entry", "entry_id", d.Entry.ID, "family_id", familyID, "error", err)
			continue
		}
		resolved++
		children[d.Entry.ChildID] = struct{}{}
	}

	for childID := range children {
		if _, err := e.EvaluateAchievements(familyID, childID); err != nil {
			e.logger.Error("evaluate achievements", "child_id", childID, "error", err)
		}
	}

	if resolved > 0 {
		e.logger.Info("sweep completed", "family_id", familyID, "resolved", resolved)
		e.broadcast(familyID, websocket.NewMessage("sweep", "completed", familyID, map[string]any{
			"resolved": resolved,
		}))
	}
	return resolved
}

// SweepAll sweeps every family and returns the total resolved. It stops at
// the first family whose pending list cannot be read.
func (e *Engine) SweepAll() (int, error) {
	families, err := e.families.List()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, f := range families {
		n, err := e.Sweep(f.ID)
		if err != nil {
			return total, fmt.Errorf("sweep family %s: %w", f.ID, err)
		}
		total += n
	}
	return total, nil
}
