package assign

import (
	"github.com/navidakram1/splitduty/internal/model"
)

// SelectCandidate picks exactly one assignee from a non-empty scored list
// according to the household's strategy. roll must return uniform values in
// [0, 1); it is only consulted by the weighted strategy.
func SelectCandidate(scored []model.ScoredCandidate, members []model.Member, settings *model.AssignmentSettings, roll func() float64) model.ScoredCandidate {
	switch settings.Strategy {
	case model.StrategyRoundRobin:
		return selectRoundRobin(scored, members)
	case model.StrategyWeighted:
		return selectWeighted(scored, roll)
	default: // balanced
		return scored[0]
	}
}

// selectRoundRobin picks the candidate least recently assigned. It is a left
// fold over the scored order: a carried candidate with no prior assignment
// wins outright, so the first never-assigned candidate encountered beats any
// later never-assigned one. That fold order is part of the contract — a
// global minimum would pick differently when several members have no history.
func selectRoundRobin(scored []model.ScoredCandidate, members []model.Member) model.ScoredCandidate {
	byID := make(map[int64]*model.Member, len(members))
	for i := range members {
		byID[members[i].ID] = &members[i]
	}

	lastOf := func(c model.ScoredCandidate) *int64 {
		m, ok := byID[c.MemberID]
		if !ok || m.LastAssignedAt == nil {
			return nil
		}
		u := m.LastAssignedAt.UnixNano()
		return &u
	}

	winner := scored[0]
	winnerLast := lastOf(winner)
	for _, c := range scored[1:] {
		if winnerLast == nil {
			break
		}
		cLast := lastOf(c)
		if cLast == nil || *cLast < *winnerLast {
			winner, winnerLast = c, cLast
		}
	}
	return winner
}

// selectWeighted draws a candidate with probability proportional to its
// score. When every score clamped to zero, the draw degenerates to the first
// candidate in list order.
func selectWeighted(scored []model.ScoredCandidate, roll func() float64) model.ScoredCandidate {
	var total float64
	for _, c := range scored {
		total += c.Score
	}
	if total <= 0 {
		return scored[0]
	}

	r := roll() * total
	for _, c := range scored {
		r -= c.Score
		if r <= 0 {
			return c
		}
	}
	return scored[len(scored)-1]
}
