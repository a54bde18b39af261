package model

import "time"

// Strategy selects how an assignee is picked from the scored candidates.
type Strategy string

const (
	StrategyBalanced   Strategy = "balanced"
	StrategyRoundRobin Strategy = "round_robin"
	StrategyWeighted   Strategy = "weighted"
)

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyBalanced, StrategyRoundRobin, StrategyWeighted:
		return true
	}
	return false
}

// AssignmentSettings is the per-household configuration for auto-assignment.
// MaxConsecutive is stored and surfaced through the API but is not consulted
// by scoring or selection; households configured it before enforcement was
// ever built, so changing that now would reshuffle their outcomes.
type AssignmentSettings struct {
	HouseholdID      int64     `json:"household_id"`
	Enabled          bool      `json:"enabled"`
	Strategy         Strategy  `json:"strategy"`
	ConsiderWorkload bool      `json:"consider_workload"`
	ConsiderRecency  bool      `json:"consider_recency"`
	MinDaysBetween   int       `json:"min_days_between_assignments"`
	MaxConsecutive   int       `json:"max_consecutive_assignments"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DefaultAssignmentSettings returns the settings used for a household that
// has never saved an explicit configuration.
func DefaultAssignmentSettings(householdID int64) *AssignmentSettings {
	return &AssignmentSettings{
		HouseholdID:      householdID,
		Enabled:          true,
		Strategy:         StrategyBalanced,
		ConsiderWorkload: true,
		ConsiderRecency:  true,
		MinDaysBetween:   1,
		MaxConsecutive:   3,
	}
}
