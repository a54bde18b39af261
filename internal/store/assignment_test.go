package store

import (
	"testing"
	"time"

	"github.com/navidakram1/splitduty/internal/database"
)

func setupAssignmentTestDB(t *testing.T) (*AssignmentStore, int64, []int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hs := NewHouseholdStore(db)
	ms := NewMemberStore(db)
	h, err := hs.Create("Baggins")
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	var ids []int64
	for _, name := range []string{"Alice", "Bob"} {
		m, err := ms.Create(h.ID, name, "", "")
		if err != nil {
			t.Fatalf("create member: %v", err)
		}
		ids = append(ids, m.ID)
	}
	return NewAssignmentStore(db), h.ID, ids
}

func TestAssignmentCreate(t *testing.T) {
	as, hid, ids := setupAssignmentTestDB(t)

	taskID := "task-42"
	a, err := as.Create(hid, &taskID, "Dishes", ids[0], "balanced", 1.5, "Assigned to Alice based on highest fairness score")
	if err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	if a.TaskID == nil || *a.TaskID != "task-42" {
		t.Errorf("task_id = %v, want task-42", a.TaskID)
	}
	if a.TaskTitle != "Dishes" {
		t.Errorf("task_title = %q, want Dishes", a.TaskTitle)
	}
	if a.MemberID != ids[0] {
		t.Errorf("member_id = %d, want %d", a.MemberID, ids[0])
	}
	if a.Method != "balanced" {
		t.Errorf("method = %q, want balanced", a.Method)
	}
	if a.WorkloadScore != 1.5 {
		t.Errorf("workload_score = %v, want 1.5", a.WorkloadScore)
	}
	if a.AssignedAt.IsZero() {
		t.Error("assigned_at not set")
	}
}

func TestAssignmentCreateNilTaskID(t *testing.T) {
	as, hid, ids := setupAssignmentTestDB(t)

	a, err := as.Create(hid, nil, "Ad-hoc chore", ids[0], "weighted", 1, "")
	if err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	if a.TaskID != nil {
		t.Errorf("task_id = %v, want nil", *a.TaskID)
	}
}

func TestAssignmentCreateUsesStoreClock(t *testing.T) {
	as, hid, ids := setupAssignmentTestDB(t)

	pinned := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	as.now = func() time.Time { return pinned }

	a, err := as.Create(hid, nil, "Dishes", ids[0], "balanced", 1, "")
	if err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	if !a.AssignedAt.Equal(pinned) {
		t.Errorf("assigned_at = %v, want %v", a.AssignedAt, pinned)
	}
}

func TestAssignmentListNewestFirst(t *testing.T) {
	as, hid, ids := setupAssignmentTestDB(t)

	for _, title := range []string{"First", "Second", "Third"} {
		if _, err := as.Create(hid, nil, title, ids[0], "balanced", 1, ""); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	history, err := as.ListByHousehold(hid, 0)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	if history[0].TaskTitle != "Third" || history[2].TaskTitle != "First" {
		t.Errorf("order = %q..%q, want Third..First", history[0].TaskTitle, history[2].TaskTitle)
	}
}

func TestAssignmentListLimit(t *testing.T) {
	as, hid, ids := setupAssignmentTestDB(t)

	for i := 0; i < 5; i++ {
		as.Create(hid, nil, "Chore", ids[0], "balanced", 1, "")
	}

	history, err := as.ListByHousehold(hid, 2)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("history length = %d, want 2", len(history))
	}
}

func TestAssignmentCountByMember(t *testing.T) {
	as, hid, ids := setupAssignmentTestDB(t)

	as.Create(hid, nil, "A", ids[0], "balanced", 1, "")
	as.Create(hid, nil, "B", ids[0], "balanced", 1, "")
	as.Create(hid, nil, "C", ids[1], "balanced", 1, "")

	counts, err := as.CountByMember(hid)
	if err != nil {
		t.Fatalf("count by member: %v", err)
	}
	if counts[ids[0]] != 2 {
		t.Errorf("count[%d] = %d, want 2", ids[0], counts[ids[0]])
	}
	if counts[ids[1]] != 1 {
		t.Errorf("count[%d] = %d, want 1", ids[1], counts[ids[1]])
	}
}
