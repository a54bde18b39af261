package assign

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/navidakram1/splitduty/internal/database"
	"github.com/navidakram1/splitduty/internal/model"
	"github.com/navidakram1/splitduty/internal/store"
)

type serviceFixture struct {
	svc         *Service
	households  *store.HouseholdStore
	members     *store.MemberStore
	settings    *store.AssignmentSettingsStore
	assignments *store.AssignmentStore
}

func setupService(t *testing.T) *serviceFixture {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := &serviceFixture{
		households:  store.NewHouseholdStore(db),
		members:     store.NewMemberStore(db),
		settings:    store.NewAssignmentSettingsStore(db),
		assignments: store.NewAssignmentStore(db),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewService(f.members, f.settings, f.assignments, NewEngineWithSource(zeroJitter, fixedNow), logger)
	return f
}

func (f *serviceFixture) household(t *testing.T, names ...string) (int64, []int64) {
	t.Helper()
	h, err := f.households.Create("Test House")
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	var ids []int64
	for _, name := range names {
		m, err := f.members.Create(h.ID, name, "#FF0000", "")
		if err != nil {
			t.Fatalf("create member %s: %v", name, err)
		}
		ids = append(ids, m.ID)
	}
	return h.ID, ids
}

func TestAssignTaskRecordsOutcome(t *testing.T) {
	f := setupService(t)
	hid, ids := f.household(t, "Alice", "Bob")

	outcome, err := f.svc.AssignTask(&model.AssignmentRequest{
		HouseholdID: hid,
		TaskTitle:   "Dishes",
		EffortScore: 2.5,
	})
	if err != nil {
		t.Fatalf("assign task: %v", err)
	}
	if outcome.MemberID != ids[0] && outcome.MemberID != ids[1] {
		t.Fatalf("assigned to unknown member %d", outcome.MemberID)
	}
	if len(outcome.Candidates) != 2 {
		t.Errorf("candidates = %d, want 2", len(outcome.Candidates))
	}
	if outcome.Reason == "" {
		t.Error("reason is empty")
	}

	// History appended with the strategy that made the call.
	history, err := f.assignments.ListByHousehold(hid, 0)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if history[0].MemberID != outcome.MemberID {
		t.Errorf("history member = %d, want %d", history[0].MemberID, outcome.MemberID)
	}
	if history[0].Method != string(model.StrategyBalanced) {
		t.Errorf("history method = %q, want %q", history[0].Method, model.StrategyBalanced)
	}
	if history[0].WorkloadScore != 2.5 {
		t.Errorf("history workload = %v, want 2.5", history[0].WorkloadScore)
	}

	// Workload counters bumped for the assignee.
	m, err := f.members.GetByID(outcome.MemberID)
	if err != nil {
		t.Fatalf("get assignee: %v", err)
	}
	if m.ActiveTasks != 1 {
		t.Errorf("active_tasks = %d, want 1", m.ActiveTasks)
	}
	if m.WorkloadScore != 2.5 {
		t.Errorf("workload_score = %v, want 2.5", m.WorkloadScore)
	}
	if m.LastAssignedAt == nil {
		t.Error("last_assigned_at not stamped")
	}
}

func TestAssignTaskDefaultsEffortToOne(t *testing.T) {
	f := setupService(t)
	hid, _ := f.household(t, "Alice")

	outcome, err := f.svc.AssignTask(&model.AssignmentRequest{HouseholdID: hid, TaskTitle: "Trash"})
	if err != nil {
		t.Fatalf("assign task: %v", err)
	}

	m, _ := f.members.GetByID(outcome.MemberID)
	if m.WorkloadScore != 1 {
		t.Errorf("workload_score = %v, want 1 (default effort)", m.WorkloadScore)
	}
}

func TestAssignTaskDisabled(t *testing.T) {
	f := setupService(t)
	hid, _ := f.household(t, "Alice")

	cfg := model.DefaultAssignmentSettings(hid)
	cfg.Enabled = false
	if _, err := f.settings.Upsert(cfg); err != nil {
		t.Fatalf("upsert settings: %v", err)
	}

	_, err := f.svc.AssignTask(&model.AssignmentRequest{HouseholdID: hid, TaskTitle: "Dishes"})
	if !errors.Is(err, ErrAssignmentDisabled) {
		t.Fatalf("err = %v, want ErrAssignmentDisabled", err)
	}

	// Nothing selected means nothing recorded.
	history, _ := f.assignments.ListByHousehold(hid, 0)
	if len(history) != 0 {
		t.Errorf("history length = %d, want 0", len(history))
	}
}

func TestAssignTaskEmptyRoster(t *testing.T) {
	f := setupService(t)
	hid, _ := f.household(t)

	_, err := f.svc.AssignTask(&model.AssignmentRequest{HouseholdID: hid, TaskTitle: "Dishes"})
	if !errors.Is(err, ErrNoMembers) {
		t.Fatalf("err = %v, want ErrNoMembers", err)
	}
}

func TestAssignTaskAllExcluded(t *testing.T) {
	f := setupService(t)
	hid, ids := f.household(t, "Alice", "Bob")

	_, err := f.svc.AssignTask(&model.AssignmentRequest{
		HouseholdID:     hid,
		TaskTitle:       "Dishes",
		ExcludeMemberIDs: ids,
	})
	if !errors.Is(err, ErrNoEligibleMembers) {
		t.Fatalf("err = %v, want ErrNoEligibleMembers", err)
	}
}

func TestAssignTaskExclusionRespected(t *testing.T) {
	f := setupService(t)
	hid, ids := f.household(t, "Alice", "Bob")

	outcome, err := f.svc.AssignTask(&model.AssignmentRequest{
		HouseholdID:     hid,
		TaskTitle:       "Dishes",
		ExcludeMemberIDs: []int64{ids[0]},
	})
	if err != nil {
		t.Fatalf("assign task: %v", err)
	}
	if outcome.MemberID != ids[1] {
		t.Errorf("assigned to %d, want %d", outcome.MemberID, ids[1])
	}
	for _, c := range outcome.Candidates {
		if c.MemberID == ids[0] {
			t.Error("excluded member appears in candidates")
		}
	}
}

func TestAssignTaskSpreadsLoad(t *testing.T) {
	f := setupService(t)
	hid, _ := f.household(t, "Alice", "Bob", "Carol")

	// With balanced strategy and zero jitter, repeated assignments rotate
	// away from whoever just picked up work.
	seen := make(map[int64]int)
	for i := 0; i < 3; i++ {
		outcome, err := f.svc.AssignTask(&model.AssignmentRequest{HouseholdID: hid, TaskTitle: "Chore"})
		if err != nil {
			t.Fatalf("assign %d: %v", i, err)
		}
		seen[outcome.MemberID]++
	}
	if len(seen) != 3 {
		t.Errorf("3 assignments went to %d distinct members, want 3", len(seen))
	}
}

func TestPreviewDoesNotRecord(t *testing.T) {
	f := setupService(t)
	hid, _ := f.household(t, "Alice", "Bob")

	outcome, err := f.svc.PreviewAssignment(&model.AssignmentRequest{HouseholdID: hid, TaskTitle: "Dishes"})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if outcome.MemberID == 0 {
		t.Error("preview selected nobody")
	}

	history, _ := f.assignments.ListByHousehold(hid, 0)
	if len(history) != 0 {
		t.Errorf("history length = %d, want 0", len(history))
	}
	m, _ := f.members.GetByID(outcome.MemberID)
	if m.ActiveTasks != 0 || m.LastAssignedAt != nil {
		t.Error("preview mutated workload counters")
	}
}

func TestAssignTaskUsesDefaultSettings(t *testing.T) {
	f := setupService(t)
	hid, _ := f.household(t, "Alice")

	// No settings row saved; defaults enable assignment.
	if _, err := f.svc.AssignTask(&model.AssignmentRequest{HouseholdID: hid, TaskTitle: "Dishes"}); err != nil {
		t.Fatalf("assign with default settings: %v", err)
	}
}
