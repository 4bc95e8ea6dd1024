// Package metrics exposes Prometheus metrics for the task engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "starcoin"

// EntriesSubmitted counts submissions, split by whether a rejected entry was reused.
var EntriesSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "entries_submitted_total",
	Help:      "Task entries submitted by children.",
}, []string{"kind"})

// EntriesReviewed counts review outcomes: approved, rejected, auto_approved.
var EntriesReviewed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "entries_reviewed_total",
	Help:      "Task entries resolved, by outcome.",
}, []string{"outcome"})

var CoinsAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "coins_awarded_total",
	Help:      "Net coins credited by approvals. Negative grants are not subtracted.",
})

var PrivilegePointsAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "privilege_points_awarded_total",
	Help:      "Privilege points granted by reward XP watermark crossings.",
})

var PunishmentsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "punishments_applied_total",
	Help:      "Approvals that carried a coin deduction, by level.",
}, []string{"level"})

var SweepRuns = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "sweep_runs_total",
	Help:      "Auto-approval sweeps executed.",
})

var SweepFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "sweep_entry_failures_total",
	Help:      "Entries the auto-approval sweep failed to resolve.",
})

var SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "sweep_duration_seconds",
	Help:      "Auto-approval sweep duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
})

var AchievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "achievements_unlocked_total",
	Help:      "Achievement unlock records created.",
})
