package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/navidakram1/splitduty/internal/model"
)

type MemberStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db, now: time.Now}
}

// memberCols joins each member to its workload row; members with no workload
// row yet read as all-zero counters with a NULL last_assigned_at.
const memberCols = `m.id, m.household_id, m.name, m.color, m.avatar_emoji,
	COALESCE(w.active_tasks, 0), COALESCE(w.completed_tasks, 0),
	COALESCE(w.workload_score, 0), w.last_assigned_at,
	m.sort_order, m.created_at, m.updated_at`

const memberFrom = ` FROM members m LEFT JOIN member_workload w ON w.member_id = m.id `

func scanMember(scanner interface{ Scan(...any) error }) (*model.Member, error) {
	var m model.Member
	var lastAssigned sql.NullTime
	err := scanner.Scan(
		&m.ID, &m.HouseholdID, &m.Name, &m.Color, &m.AvatarEmoji,
		&m.ActiveTasks, &m.CompletedTasks, &m.WorkloadScore, &lastAssigned,
		&m.SortOrder, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastAssigned.Valid {
		t := lastAssigned.Time
		m.LastAssignedAt = &t
	}
	return &m, nil
}

func (s *MemberStore) Create(householdID int64, name, color, avatarEmoji string) (*model.Member, error) {
	var maxOrder int
	err := s.db.QueryRow(
		`SELECT COALESCE(MAX(sort_order), -1) FROM members WHERE household_id = ?`,
		householdID,
	).Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("query max sort_order: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO members (household_id, name, color, avatar_emoji, sort_order) VALUES (?, ?, ?, ?, ?)`,
		householdID, name, color, avatarEmoji, maxOrder+1,
	)
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *MemberStore) GetByID(id int64) (*model.Member, error) {
	row := s.db.QueryRow(`SELECT `+memberCols+memberFrom+`WHERE m.id = ?`, id)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// ListByHousehold returns the household roster with live workload counters.
// An empty roster returns an empty slice, not an error.
func (s *MemberStore) ListByHousehold(householdID int64) ([]model.Member, error) {
	rows, err := s.db.Query(
		`SELECT `+memberCols+memberFrom+`WHERE m.household_id = ? ORDER BY m.sort_order ASC, m.id ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (s *MemberStore) Update(id int64, name, color, avatarEmoji string) (*model.Member, error) {
	_, err := s.db.Exec(
		`UPDATE members SET name = ?, color = ?, avatar_emoji = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, color, avatarEmoji, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	return s.GetByID(id)
}

func (s *MemberStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

// TouchWorkload records that the member was just assigned a task: it stamps
// last_assigned_at, adds increment to the cumulative workload score, and bumps
// the active task count. Safe to call for a member with no workload row.
// The timestamp comes from the store's clock, pinnable in tests the same way
// as the scoring engine's.
func (s *MemberStore) TouchWorkload(householdID, memberID int64, increment float64) error {
	_, err := s.db.Exec(
		`INSERT INTO member_workload (member_id, household_id, active_tasks, completed_tasks, workload_score, last_assigned_at, updated_at)
		 VALUES (?, ?, 1, 0, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(member_id) DO UPDATE SET
			active_tasks = active_tasks + 1,
			workload_score = workload_score + excluded.workload_score,
			last_assigned_at = excluded.last_assigned_at,
			updated_at = CURRENT_TIMESTAMP`,
		memberID, householdID, increment, s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("touch workload: %w", err)
	}
	return nil
}

// MarkCompleted moves one of the member's active tasks to completed. The
// active count never goes below zero even if completions outrun assignments
// (tasks can be completed by someone they were never assigned to).
func (s *MemberStore) MarkCompleted(householdID, memberID int64) error {
	_, err := s.db.Exec(
		`INSERT INTO member_workload (member_id, household_id, active_tasks, completed_tasks, workload_score, updated_at)
		 VALUES (?, ?, 0, 1, 0, CURRENT_TIMESTAMP)
		 ON CONFLICT(member_id) DO UPDATE SET
			active_tasks = MAX(active_tasks - 1, 0),
			completed_tasks = completed_tasks + 1,
			updated_at = CURRENT_TIMESTAMP`,
		memberID, householdID,
	)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}
