package model

import "time"

// Member is a household participant eligible for task assignment.
// Workload counters are read fresh for every scoring pass; LastAssignedAt
// is nil for a member who has never been assigned anything.
type Member struct {
	ID             int64      `json:"id"`
	HouseholdID    int64      `json:"household_id"`
	Name           string     `json:"name"`
	Color          string     `json:"color"`
	AvatarEmoji    string     `json:"avatar_emoji"`
	ActiveTasks    int        `json:"active_tasks"`
	CompletedTasks int        `json:"completed_tasks"`
	WorkloadScore  float64    `json:"workload_score"`
	LastAssignedAt *time.Time `json:"last_assigned_at"`
	SortOrder      int        `json:"sort_order"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
