// Package fairness derives household-level fairness reporting from workload
// counters. It is advisory only; nothing here feeds back into scoring.
package fairness

import (
	"github.com/navidakram1/splitduty/internal/model"
)

const (
	lightLoadBelow = 0.8
	heavyLoadFrom  = 1.2
	varianceScale  = 50.0
)

// Score converts per-member balance ratios into a 0-100 household fairness
// score: the lower the variance of the ratios, the fairer the household.
// An empty input scores a vacuous 100.
func Score(balances []model.WorkloadBalance) float64 {
	if len(balances) == 0 {
		return 100
	}

	var mean float64
	for _, b := range balances {
		mean += b.BalanceRatio
	}
	mean /= float64(len(balances))

	var variance float64
	for _, b := range balances {
		d := b.BalanceRatio - mean
		variance += d * d
	}
	variance /= float64(len(balances))

	score := 100 - variance*varianceScale
	return min(max(score, 0), 100)
}

// Label buckets a balance ratio for display. Boundaries go to the higher
// bucket: exactly 0.8 is already "Balanced", exactly 1.2 is "Heavy Load".
func Label(ratio float64) string {
	switch {
	case ratio < lightLoadBelow:
		return "Light Load"
	case ratio < heavyLoadFrom:
		return "Balanced"
	default:
		return "Heavy Load"
	}
}

// Balances computes each member's workload relative to the household mean.
// A household with zero total workload is treated as perfectly balanced
// (every ratio 1) rather than dividing by zero.
func Balances(members []model.Member) []model.WorkloadBalance {
	if len(members) == 0 {
		return nil
	}

	var mean float64
	for _, m := range members {
		mean += m.WorkloadScore
	}
	mean /= float64(len(members))

	balances := make([]model.WorkloadBalance, 0, len(members))
	for _, m := range members {
		ratio := 1.0
		if mean > 0 {
			ratio = m.WorkloadScore / mean
		}
		balances = append(balances, model.WorkloadBalance{
			MemberID:      m.ID,
			Name:          m.Name,
			WorkloadScore: m.WorkloadScore,
			BalanceRatio:  ratio,
			Label:         Label(ratio),
		})
	}
	return balances
}

// Report is the household fairness summary served to dashboards.
type Report struct {
	HouseholdID   int64                   `json:"household_id"`
	FairnessScore float64                 `json:"fairness_score"`
	Balances      []model.WorkloadBalance `json:"balances"`
}

// BuildReport assembles the fairness report for a roster snapshot.
func BuildReport(householdID int64, members []model.Member) *Report {
	balances := Balances(members)
	return &Report{
		HouseholdID:   householdID,
		FairnessScore: Score(balances),
		Balances:      balances,
	}
}
