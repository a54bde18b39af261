package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/navidakram1/splitduty/internal/model"
	"github.com/navidakram1/splitduty/internal/store"
	"github.com/navidakram1/splitduty/internal/websocket"
)

type SettingsHandler struct {
	settings *store.AssignmentSettingsStore
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewSettingsHandler(ss *store.AssignmentSettingsStore, hub *websocket.Hub, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: ss, hub: hub, logger: logger}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	householdID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid household id"})
		return
	}

	cfg, err := h.settings.Get(householdID)
	if err != nil {
		h.logger.Error("get settings", "household_id", householdID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get settings"})
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

type settingsRequest struct {
	Enabled          bool           `json:"enabled"`
	Strategy         model.Strategy `json:"strategy"`
	ConsiderWorkload bool           `json:"consider_workload"`
	ConsiderRecency  bool           `json:"consider_recency"`
	MinDaysBetween   int            `json:"min_days_between_assignments"`
	MaxConsecutive   int            `json:"max_consecutive_assignments"`
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	householdID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid household id"})
		return
	}

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if !req.Strategy.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown strategy"})
		return
	}
	if req.MinDaysBetween < 0 || req.MaxConsecutive < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "thresholds must not be negative"})
		return
	}

	cfg, err := h.settings.Upsert(&model.AssignmentSettings{
		HouseholdID:      householdID,
		Enabled:          req.Enabled,
		Strategy:         req.Strategy,
		ConsiderWorkload: req.ConsiderWorkload,
		ConsiderRecency:  req.ConsiderRecency,
		MinDaysBetween:   req.MinDaysBetween,
		MaxConsecutive:   req.MaxConsecutive,
	})
	if err != nil {
		h.logger.Error("update settings", "household_id", householdID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update settings"})
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("settings", "updated", householdID, 0, nil))
	}

	writeJSON(w, http.StatusOK, cfg)
}
