package store

import (
	"testing"

	"github.com/navidakram1/splitduty/internal/database"
	"github.com/navidakram1/splitduty/internal/model"
)

func setupSettingsTestDB(t *testing.T) (*AssignmentSettingsStore, *HouseholdStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewAssignmentSettingsStore(db), NewHouseholdStore(db)
}

func TestSettingsDefaultWhenUnset(t *testing.T) {
	ss, hs := setupSettingsTestDB(t)
	h, _ := hs.Create("Baggins")

	cfg, err := ss.Get(h.ID)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if !cfg.Enabled {
		t.Error("default enabled = false, want true")
	}
	if cfg.Strategy != model.StrategyBalanced {
		t.Errorf("default strategy = %q, want %q", cfg.Strategy, model.StrategyBalanced)
	}
	if !cfg.ConsiderWorkload || !cfg.ConsiderRecency {
		t.Error("default considers should both be true")
	}
	if cfg.MinDaysBetween != 1 {
		t.Errorf("default min_days_between = %d, want 1", cfg.MinDaysBetween)
	}
	if cfg.MaxConsecutive != 3 {
		t.Errorf("default max_consecutive = %d, want 3", cfg.MaxConsecutive)
	}
}

func TestSettingsUpsertRoundTrip(t *testing.T) {
	ss, hs := setupSettingsTestDB(t)
	h, _ := hs.Create("Baggins")

	cfg := &model.AssignmentSettings{
		HouseholdID:      h.ID,
		Enabled:          false,
		Strategy:         model.StrategyWeighted,
		ConsiderWorkload: true,
		ConsiderRecency:  false,
		MinDaysBetween:   4,
		MaxConsecutive:   2,
	}
	saved, err := ss.Upsert(cfg)
	if err != nil {
		t.Fatalf("upsert settings: %v", err)
	}
	if saved.Enabled {
		t.Error("enabled = true, want false")
	}
	if saved.Strategy != model.StrategyWeighted {
		t.Errorf("strategy = %q, want weighted", saved.Strategy)
	}
	if saved.ConsiderRecency {
		t.Error("consider_recency = true, want false")
	}
	if saved.MinDaysBetween != 4 || saved.MaxConsecutive != 2 {
		t.Errorf("thresholds = %d/%d, want 4/2", saved.MinDaysBetween, saved.MaxConsecutive)
	}

	// Second upsert replaces the row.
	cfg.Strategy = model.StrategyRoundRobin
	cfg.Enabled = true
	saved, err = ss.Upsert(cfg)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if saved.Strategy != model.StrategyRoundRobin || !saved.Enabled {
		t.Errorf("after replace: strategy = %q enabled = %v", saved.Strategy, saved.Enabled)
	}
}
