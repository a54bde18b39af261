package assign

import (
	"math/rand/v2"
	"sort"
	"time"

	"github.com/navidakram1/splitduty/internal/model"
)

const (
	baseScore          = 100.0
	workloadDeltaScale = 10.0
	activeTaskPenalty  = 15.0
	recencyPenalty     = 50.0
	recencyBonusPerDay = 5.0
	recencyBonusCap    = 30.0
	preferBonus        = 25.0
	completionBonusCap = 20.0
	jitterRange        = 10.0
)

// Engine computes a fairness score per eligible member. Scoring includes a
// small random jitter so outcomes are not perfectly predictable; the random
// source is injectable so tests can pin it.
type Engine struct {
	jitter func() float64 // uniform in [0, 1)
	now    func() time.Time
}

// NewEngine returns an Engine using the shared math/rand/v2 source.
func NewEngine() *Engine {
	return &Engine{jitter: rand.Float64, now: time.Now}
}

// NewEngineWithSource returns an Engine with explicit jitter and clock
// functions. jitter must return values in [0, 1).
func NewEngineWithSource(jitter func() float64, now func() time.Time) *Engine {
	return &Engine{jitter: jitter, now: now}
}

// Score ranks the household roster for a candidate task, highest score first.
// Members in exclude are dropped before scoring; the result is empty when
// every member is excluded. Ties keep roster order (stable sort).
//
// The workload average is taken over every member passed in, including ones
// dropped by exclude. Recomputing it over eligible members only would shift
// all scores whenever an exclusion is present, so the full-roster mean is
// load-bearing for households that rely on exclusions.
func (e *Engine) Score(members []model.Member, settings *model.AssignmentSettings, exclude, prefer map[int64]bool) []model.ScoredCandidate {
	var avgWorkload float64
	if settings.ConsiderWorkload && len(members) > 0 {
		var total float64
		for _, m := range members {
			total += m.WorkloadScore
		}
		avgWorkload = total / float64(len(members))
	}

	now := e.now()
	scored := make([]model.ScoredCandidate, 0, len(members))
	for _, m := range members {
		if exclude[m.ID] {
			continue
		}

		score := baseScore

		if settings.ConsiderWorkload {
			// Above-average workload is penalized proportionally;
			// below-average becomes a positive adjustment.
			score -= (m.WorkloadScore - avgWorkload) * workloadDeltaScale
			score -= float64(m.ActiveTasks) * activeTaskPenalty
		}

		if settings.ConsiderRecency && m.LastAssignedAt != nil {
			daysSince := int(now.Sub(*m.LastAssignedAt).Hours() / 24)
			if daysSince < settings.MinDaysBetween {
				score -= recencyPenalty
			} else {
				score += min(float64(daysSince)*recencyBonusPerDay, recencyBonusCap)
			}
			// A member never assigned gets neither penalty nor bonus.
		}

		if prefer[m.ID] {
			score += preferBonus
		}

		if total := m.ActiveTasks + m.CompletedTasks; total > 0 {
			score += float64(m.CompletedTasks) / float64(total) * completionBonusCap
		}

		score += e.jitter() * jitterRange

		scored = append(scored, model.ScoredCandidate{
			MemberID: m.ID,
			Name:     m.Name,
			Score:    max(score, 0),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
