package store

import (
	"database/sql"
	"fmt"

	"github.com/navidakram1/splitduty/internal/model"
)

type AssignmentSettingsStore struct {
	db *sql.DB
}

func NewAssignmentSettingsStore(db *sql.DB) *AssignmentSettingsStore {
	return &AssignmentSettingsStore{db: db}
}

// Get returns the household's assignment settings. A household that has never
// saved settings gets the defaults; absence of configuration is not an error.
func (s *AssignmentSettingsStore) Get(householdID int64) (*model.AssignmentSettings, error) {
	var cfg model.AssignmentSettings
	var enabled, considerWorkload, considerRecency int
	err := s.db.QueryRow(
		`SELECT household_id, enabled, strategy, consider_workload, consider_recency,
			min_days_between, max_consecutive, updated_at
		 FROM assignment_settings WHERE household_id = ?`,
		householdID,
	).Scan(
		&cfg.HouseholdID, &enabled, &cfg.Strategy, &considerWorkload, &considerRecency,
		&cfg.MinDaysBetween, &cfg.MaxConsecutive, &cfg.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return model.DefaultAssignmentSettings(householdID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment settings: %w", err)
	}
	cfg.Enabled = enabled != 0
	cfg.ConsiderWorkload = considerWorkload != 0
	cfg.ConsiderRecency = considerRecency != 0
	return &cfg, nil
}

// Upsert saves the household's assignment settings, replacing any prior row.
func (s *AssignmentSettingsStore) Upsert(cfg *model.AssignmentSettings) (*model.AssignmentSettings, error) {
	_, err := s.db.Exec(
		`INSERT INTO assignment_settings
			(household_id, enabled, strategy, consider_workload, consider_recency, min_days_between, max_consecutive, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(household_id) DO UPDATE SET
			enabled = excluded.enabled,
			strategy = excluded.strategy,
			consider_workload = excluded.consider_workload,
			consider_recency = excluded.consider_recency,
			min_days_between = excluded.min_days_between,
			max_consecutive = excluded.max_consecutive,
			updated_at = CURRENT_TIMESTAMP`,
		cfg.HouseholdID, boolToInt(cfg.Enabled), string(cfg.Strategy),
		boolToInt(cfg.ConsiderWorkload), boolToInt(cfg.ConsiderRecency),
		cfg.MinDaysBetween, cfg.MaxConsecutive,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert assignment settings: %w", err)
	}
	return s.Get(cfg.HouseholdID)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
