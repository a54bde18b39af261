package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/navidakram1/splitduty/internal/archive"
	"github.com/navidakram1/splitduty/internal/assign"
	"github.com/navidakram1/splitduty/internal/fairness"
	"github.com/navidakram1/splitduty/internal/model"
	"github.com/navidakram1/splitduty/internal/push"
	"github.com/navidakram1/splitduty/internal/store"
	"github.com/navidakram1/splitduty/internal/websocket"
)

const defaultHistoryLimit = 50

type AssignmentHandler struct {
	service     *assign.Service
	members     *store.MemberStore
	assignments *store.AssignmentStore
	exporter    *archive.Exporter
	notifier    *push.Notifier
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewAssignmentHandler(svc *assign.Service, ms *store.MemberStore, as *store.AssignmentStore, exporter *archive.Exporter, notifier *push.Notifier, hub *websocket.Hub, logger *slog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service:     svc,
		members:     ms,
		assignments: as,
		exporter:    exporter,
		notifier:    notifier,
		hub:         hub,
		logger:      logger,
	}
}

func (h *AssignmentHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type assignRequest struct {
	TaskID           *string `json:"task_id"`
	TaskTitle        string  `json:"task_title"`
	EffortScore      float64 `json:"effort_score"`
	ExcludeMemberIDs []int64 `json:"exclude_member_ids"`
	PreferMemberIDs  []int64 `json:"prefer_member_ids"`
}

func (h *AssignmentHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (*model.AssignmentRequest, bool) {
	householdID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid household id"})
		return nil, false
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return nil, false
	}
	if req.EffortScore < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "effort_score must not be negative"})
		return nil, false
	}

	return &model.AssignmentRequest{
		HouseholdID:     householdID,
		TaskID:          req.TaskID,
		TaskTitle:       strings.TrimSpace(req.TaskTitle),
		EffortScore:     req.EffortScore,
		ExcludeMemberIDs: req.ExcludeMemberIDs,
		PreferMemberIDs:  req.PreferMemberIDs,
	}, true
}

// writeAssignError maps the assignment error taxonomy onto HTTP statuses.
func (h *AssignmentHandler) writeAssignError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, assign.ErrAssignmentDisabled),
		errors.Is(err, assign.ErrNoMembers),
		errors.Is(err, assign.ErrNoEligibleMembers):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.logger.Error("assignment failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to assign task"})
	}
}

func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	outcome, err := h.service.AssignTask(req)
	if err != nil {
		h.writeAssignError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("assignment", "created", req.HouseholdID, outcome.MemberID, map[string]any{
		"member_name": outcome.Name,
		"task_title":  req.TaskTitle,
		"reason":      outcome.Reason,
	}))
	if h.notifier != nil {
		go h.notifier.NotifyAssigned(outcome.MemberID, req.TaskTitle, outcome.Reason)
	}

	writeJSON(w, http.StatusCreated, outcome)
}

func (h *AssignmentHandler) Preview(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	outcome, err := h.service.PreviewAssignment(req)
	if err != nil {
		h.writeAssignError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

func (h *AssignmentHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	householdID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid household id"})
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	history, err := h.assignments.ListByHousehold(householdID, limit)
	if err != nil {
		h.logger.Error("list history", "household_id", householdID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list assignments"})
		return
	}
	if history == nil {
		history = []model.Assignment{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *AssignmentHandler) Fairness(w http.ResponseWriter, r *http.Request) {
	householdID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid household id"})
		return
	}

	members, err := h.members.ListByHousehold(householdID)
	if err != nil {
		h.logger.Error("load roster for fairness", "household_id", householdID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to build fairness report"})
		return
	}

	writeJSON(w, http.StatusOK, fairness.BuildReport(householdID, members))
}

func (h *AssignmentHandler) Archive(w http.ResponseWriter, r *http.Request) {
	householdID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid household id"})
		return
	}

	if h.exporter == nil || !h.exporter.Enabled() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "archive storage is not configured"})
		return
	}

	key, err := h.exporter.Export(r.Context(), householdID)
	if err != nil {
		h.logger.Error("archive export", "household_id", householdID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to export archive"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"key": key})
}
