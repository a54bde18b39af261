package model

import "time"

// ScoredCandidate is one member's fairness score for a single scoring pass.
type ScoredCandidate struct {
	MemberID int64   `json:"member_id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
}

// AssignmentRequest describes a single assignment operation. TaskID is nil
// when scoring a hypothetical task (preview); EffortScore defaults to 1.
type AssignmentRequest struct {
	HouseholdID      int64   `json:"household_id"`
	TaskID           *string `json:"task_id"`
	TaskTitle        string  `json:"task_title"`
	EffortScore      float64 `json:"effort_score"`
	ExcludeMemberIDs []int64 `json:"exclude_member_ids"`
	PreferMemberIDs  []int64 `json:"prefer_member_ids"`
}

// AssignmentOutcome is the result of one assignment operation, including the
// full ranked candidate list for auditing.
type AssignmentOutcome struct {
	MemberID   int64             `json:"member_id"`
	Name       string            `json:"name"`
	Reason     string            `json:"reason"`
	Candidates []ScoredCandidate `json:"candidates"`
}

// Assignment is an append-only history record of one completed assignment
// decision. Never mutated or deleted once written.
type Assignment struct {
	ID            int64     `json:"id"`
	HouseholdID   int64     `json:"household_id"`
	TaskID        *string   `json:"task_id"`
	TaskTitle     string    `json:"task_title"`
	MemberID      int64     `json:"member_id"`
	Method        string    `json:"method"`
	WorkloadScore float64   `json:"workload_score"`
	Reason        string    `json:"reason"`
	AssignedAt    time.Time `json:"assigned_at"`
}

// WorkloadBalance is one member's share of the household workload relative
// to the household average. Used by fairness reporting only.
type WorkloadBalance struct {
	MemberID      int64   `json:"member_id"`
	Name          string  `json:"name"`
	WorkloadScore float64 `json:"workload_score"`
	BalanceRatio  float64 `json:"balance_ratio"`
	Label         string  `json:"label"`
}
