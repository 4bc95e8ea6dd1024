package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func gatheredNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestEntryCounters(t *testing.T) {
	EntriesSubmitted.WithLabelValues("new").Inc()
	EntriesReviewed.WithLabelValues("approved").Inc()
	PunishmentsApplied.WithLabelValues("mild").Inc()
	CoinsAwarded.Add(11)
	PrivilegePointsAwarded.Add(1)

	names := gatheredNames(t)
	for _, name := range []string{
		"starcoin_entries_submitted_total",
		"starcoin_entries_reviewed_total",
		"starcoin_punishments_applied_total",
		"starcoin_coins_awarded_total",
		"starcoin_privilege_points_awarded_total",
	} {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestSweepMetrics(t *testing.T) {
	SweepRuns.Inc()
	SweepFailures.Inc()
	SweepDuration.Observe(0.02)
	AchievementsUnlocked.Inc()

	names := gatheredNames(t)
	for _, name := range []string{
		"starcoin_sweep_runs_total",
		"starcoin_sweep_entry_failures_total",
		"starcoin_sweep_duration_seconds",
		"starcoin_achievements_unlocked_total",
	} {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}
