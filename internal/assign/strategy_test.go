package assign

import (
	"testing"

	"github.com/navidakram1/splitduty/internal/model"
)

func TestSelectBalancedPicksTopScore(t *testing.T) {
	settings := defaultSettings()
	settings.Strategy = model.StrategyBalanced

	scored := []model.ScoredCandidate{
		{MemberID: 1, Name: "Alice", Score: 180},
		{MemberID: 3, Name: "Carol", Score: 48},
		{MemberID: 2, Name: "Bob", Score: 30},
	}
	got := SelectCandidate(scored, exampleRoster(), settings, zeroJitter)
	if got.MemberID != 1 {
		t.Errorf("selected = %d, want 1", got.MemberID)
	}
}

func TestSelectBalancedIsDefaultForUnknownStrategy(t *testing.T) {
	settings := defaultSettings()
	settings.Strategy = "surprise_me"

	scored := []model.ScoredCandidate{
		{MemberID: 3, Score: 90},
		{MemberID: 1, Score: 80},
	}
	got := SelectCandidate(scored, exampleRoster(), settings, zeroJitter)
	if got.MemberID != 3 {
		t.Errorf("selected = %d, want 3", got.MemberID)
	}
}

func TestSelectRoundRobinPicksLeastRecent(t *testing.T) {
	settings := defaultSettings()
	settings.Strategy = model.StrategyRoundRobin

	members := []model.Member{
		{ID: 1, Name: "Alice", LastAssignedAt: daysAgo(2)},
		{ID: 2, Name: "Bob", LastAssignedAt: daysAgo(9)},
		{ID: 3, Name: "Carol", LastAssignedAt: daysAgo(5)},
	}
	scored := []model.ScoredCandidate{
		{MemberID: 1, Score: 120},
		{MemberID: 3, Score: 100},
		{MemberID: 2, Score: 80},
	}

	got := SelectCandidate(scored, members, settings, zeroJitter)
	if got.MemberID != 2 {
		t.Errorf("selected = %d, want 2 (oldest last assignment)", got.MemberID)
	}
}

// A never-assigned candidate wins as soon as the walk reaches it, and once
// carried it cannot be displaced by a later never-assigned candidate.
func TestSelectRoundRobinNeverAssignedWinsInScoredOrder(t *testing.T) {
	settings := defaultSettings()
	settings.Strategy = model.StrategyRoundRobin

	members := []model.Member{
		{ID: 1, Name: "Alice", LastAssignedAt: daysAgo(30)},
		{ID: 2, Name: "Bob"},
		{ID: 3, Name: "Carol"},
	}
	// Alice scored highest, but both Bob and Carol have no history.
	scored := []model.ScoredCandidate{
		{MemberID: 1, Score: 150},
		{MemberID: 2, Score: 90},
		{MemberID: 3, Score: 85},
	}

	got := SelectCandidate(scored, members, settings, zeroJitter)
	if got.MemberID != 2 {
		t.Errorf("selected = %d, want 2 (first never-assigned in scored order)", got.MemberID)
	}
}

func TestSelectRoundRobinNeverAssignedLeaderKept(t *testing.T) {
	settings := defaultSettings()
	settings.Strategy = model.StrategyRoundRobin

	members := []model.Member{
		{ID: 1, Name: "Alice"},
		{ID: 2, Name: "Bob", LastAssignedAt: daysAgo(100)},
	}
	// The top-scored candidate already has no history; the walk stops there.
	scored := []model.ScoredCandidate{
		{MemberID: 1, Score: 150},
		{MemberID: 2, Score: 140},
	}

	got := SelectCandidate(scored, members, settings, zeroJitter)
	if got.MemberID != 1 {
		t.Errorf("selected = %d, want 1", got.MemberID)
	}
}

func TestSelectWeightedWalksByScore(t *testing.T) {
	settings := defaultSettings()
	settings.Strategy = model.StrategyWeighted

	scored := []model.ScoredCandidate{
		{MemberID: 1, Score: 100},
		{MemberID: 2, Score: 50},
		{MemberID: 3, Score: 50},
	}

	cases := []struct {
		roll float64
		want int64
	}{
		{0.0, 1},   // r = 0, first subtraction drives it to <= 0
		{0.49, 1},  // r = 98, still inside the first bucket
		{0.51, 2},  // r = 102, lands in the second bucket
		{0.76, 3},  // r = 152, lands in the third bucket
		{0.999, 3}, // top of the range stays on the last candidate
	}
	for _, tc := range cases {
		got := SelectCandidate(scored, nil, settings, func() float64 { return tc.roll })
		if got.MemberID != tc.want {
			t.Errorf("roll %v selected %d, want %d", tc.roll, got.MemberID, tc.want)
		}
	}
}

func TestSelectWeightedZeroTotalFallsBackToFirst(t *testing.T) {
	settings := defaultSettings()
	settings.Strategy = model.StrategyWeighted

	scored := []model.ScoredCandidate{
		{MemberID: 7, Score: 0},
		{MemberID: 8, Score: 0},
		{MemberID: 9, Score: 0},
	}

	for _, roll := range []float64{0, 0.5, 0.999} {
		got := SelectCandidate(scored, nil, settings, func() float64 { return roll })
		if got.MemberID != 7 {
			t.Errorf("roll %v selected %d, want 7 (first in list order)", roll, got.MemberID)
		}
	}
}
