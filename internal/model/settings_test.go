package model

import "testing"

func TestStrategyValid(t *testing.T) {
	valid := []Strategy{StrategyBalanced, StrategyRoundRobin, StrategyWeighted}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}

	invalid := []Strategy{"", "random", "Balanced", "round-robin"}
	for _, s := range invalid {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestDefaultAssignmentSettings(t *testing.T) {
	cfg := DefaultAssignmentSettings(42)

	if cfg.HouseholdID != 42 {
		t.Errorf("household_id = %d, want 42", cfg.HouseholdID)
	}
	if !cfg.Enabled {
		t.Error("enabled = false, want true")
	}
	if cfg.Strategy != StrategyBalanced {
		t.Errorf("strategy = %q, want balanced", cfg.Strategy)
	}
	if !cfg.ConsiderWorkload || !cfg.ConsiderRecency {
		t.Error("workload and recency factors should default on")
	}
	if cfg.MinDaysBetween != 1 {
		t.Errorf("min_days_between = %d, want 1", cfg.MinDaysBetween)
	}
	if cfg.MaxConsecutive != 3 {
		t.Errorf("max_consecutive = %d, want 3", cfg.MaxConsecutive)
	}
}
