package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/navidakram1/splitduty/internal/model"
)

type AssignmentStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: db, now: time.Now}
}

const assignmentCols = `id, household_id, task_id, task_title, member_id, method, workload_score, reason, assigned_at`

func scanAssignment(scanner interface{ Scan(...any) error }) (*model.Assignment, error) {
	var a model.Assignment
	var taskID sql.NullString
	err := scanner.Scan(
		&a.ID, &a.HouseholdID, &taskID, &a.TaskTitle, &a.MemberID,
		&a.Method, &a.WorkloadScore, &a.Reason, &a.AssignedAt,
	)
	if err != nil {
		return nil, err
	}
	if taskID.Valid {
		a.TaskID = &taskID.String
	}
	return &a, nil
}

// Create appends one assignment history record. Records are append-only;
// there is no update or delete path.
func (s *AssignmentStore) Create(householdID int64, taskID *string, taskTitle string, memberID int64, method string, workloadScore float64, reason string) (*model.Assignment, error) {
	var tID sql.NullString
	if taskID != nil {
		tID = sql.NullString{String: *taskID, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO assignments (household_id, task_id, task_title, member_id, method, workload_score, reason, assigned_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		householdID, tID, taskTitle, memberID, method, workloadScore, reason, s.now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+assignmentCols+` FROM assignments WHERE id = ?`, id)
	a, err := scanAssignment(row)
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

// ListByHousehold returns the household's history, newest first.
// A limit of 0 or less means no limit.
func (s *AssignmentStore) ListByHousehold(householdID int64, limit int) ([]model.Assignment, error) {
	query := `SELECT ` + assignmentCols + ` FROM assignments WHERE household_id = ? ORDER BY assigned_at DESC, id DESC`
	args := []any{householdID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

// CountByMember returns how many assignments each member of the household has
// received, keyed by member id.
func (s *AssignmentStore) CountByMember(householdID int64) (map[int64]int, error) {
	rows, err := s.db.Query(
		`SELECT member_id, COUNT(*) FROM assignments WHERE household_id = ? GROUP BY member_id`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var memberID int64
		var n int
		if err := rows.Scan(&memberID, &n); err != nil {
			return nil, fmt.Errorf("scan assignment count: %w", err)
		}
		counts[memberID] = n
	}
	return counts, rows.Err()
}
