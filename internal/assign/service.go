package assign

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/navidakram1/splitduty/internal/model"
	"github.com/navidakram1/splitduty/internal/store"
)

var (
	// ErrAssignmentDisabled means auto-assignment is switched off for the
	// household; callers must surface this rather than pick a member anyway.
	ErrAssignmentDisabled = errors.New("auto-assignment is disabled for this household")
	// ErrNoMembers means the household roster is empty.
	ErrNoMembers = errors.New("household has no members")
	// ErrNoEligibleMembers means the roster is non-empty but every member
	// was excluded from candidacy.
	ErrNoEligibleMembers = errors.New("no eligible members after exclusions")
)

// Service runs the full assignment flow: load settings and roster, score,
// select, record. Concurrent calls for the same household serialize on a
// per-household lock so two requests cannot both score against the same
// stale workload snapshot and double-book the least-loaded member.
type Service struct {
	members     *store.MemberStore
	settings    *store.AssignmentSettingsStore
	assignments *store.AssignmentStore
	engine      *Engine
	roll        func() float64
	logger      *slog.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewService(members *store.MemberStore, settings *store.AssignmentSettingsStore, assignments *store.AssignmentStore, engine *Engine, logger *slog.Logger) *Service {
	return &Service{
		members:     members,
		settings:    settings,
		assignments: assignments,
		engine:      engine,
		roll:        rand.Float64,
		logger:      logger,
		locks:       make(map[int64]*sync.Mutex),
	}
}

// householdLock returns the mutex serializing assignments for one household.
// Entries are never evicted: a household that assigned once keeps its mutex
// for the life of the process, one sync.Mutex per household ever seen.
func (s *Service) householdLock(householdID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[householdID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[householdID] = l
	}
	return l
}

// AssignTask picks an assignee for the request and records the outcome.
// Read failures abort the call; recording failures are logged and the
// selection is still returned, since the decision was already made.
func (s *Service) AssignTask(req *model.AssignmentRequest) (*model.AssignmentOutcome, error) {
	l := s.householdLock(req.HouseholdID)
	l.Lock()
	defer l.Unlock()

	outcome, settings, err := s.choose(req)
	if err != nil {
		return nil, err
	}

	effort := req.EffortScore
	if effort <= 0 {
		effort = 1
	}

	if _, err := s.assignments.Create(req.HouseholdID, req.TaskID, req.TaskTitle, outcome.MemberID, string(settings.Strategy), effort, outcome.Reason); err != nil {
		s.logger.Warn("assignment recorded in memory only; history append failed",
			"household_id", req.HouseholdID, "member_id", outcome.MemberID, "error", err)
	}
	if err := s.members.TouchWorkload(req.HouseholdID, outcome.MemberID, effort); err != nil {
		s.logger.Warn("workload counters not updated after assignment",
			"household_id", req.HouseholdID, "member_id", outcome.MemberID, "error", err)
	}

	return outcome, nil
}

// PreviewAssignment runs scoring and selection without recording anything.
func (s *Service) PreviewAssignment(req *model.AssignmentRequest) (*model.AssignmentOutcome, error) {
	outcome, _, err := s.choose(req)
	return outcome, err
}

func (s *Service) choose(req *model.AssignmentRequest) (*model.AssignmentOutcome, *model.AssignmentSettings, error) {
	settings, err := s.settings.Get(req.HouseholdID)
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}
	if !settings.Enabled {
		return nil, nil, ErrAssignmentDisabled
	}

	members, err := s.members.ListByHousehold(req.HouseholdID)
	if err != nil {
		return nil, nil, fmt.Errorf("load roster: %w", err)
	}
	if len(members) == 0 {
		return nil, nil, ErrNoMembers
	}

	scored := s.engine.Score(members, settings, idSet(req.ExcludeMemberIDs), idSet(req.PreferMemberIDs))
	if len(scored) == 0 {
		return nil, nil, ErrNoEligibleMembers
	}

	selected := SelectCandidate(scored, members, settings, s.roll)
	reason := ComposeReason(selected, scored, settings)

	return &model.AssignmentOutcome{
		MemberID:   selected.MemberID,
		Name:       selected.Name,
		Reason:     reason,
		Candidates: scored,
	}, settings, nil
}

func idSet(ids []int64) map[int64]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
