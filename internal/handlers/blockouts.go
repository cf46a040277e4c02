package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/oaklinehq/scheduler/internal/model"
	"github.com/oaklinehq/scheduler/internal/scheduling"
)

type blockOutRequest struct {
	ID            int64  `json:"id"`
	StaffMemberID int64  `json:"staff_member_id"`
	Title         string `json:"title"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	IsAllDay      bool   `json:"is_all_day"`
	Reason        string `json:"reason"`
}

type blockOutResponse struct {
	ID            int64  `json:"id"`
	StaffMemberID int64  `json:"staff_member_id"`
	Title         string `json:"title"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	IsAllDay      bool   `json:"is_all_day"`
	Reason        string `json:"reason,omitempty"`
}

func toBlockOutResponse(b model.BlockOutTime) blockOutResponse {
	return blockOutResponse{
		ID:            b.ID,
		StaffMemberID: b.StaffMemberID,
		Title:         b.Title,
		StartTime:     b.StartTimeUTC.Format(time.RFC3339),
		EndTime:       b.EndTimeUTC.Format(time.RFC3339),
		IsAllDay:      b.IsAllDay,
		Reason:        b.Reason,
	}
}

func (h *SchedulingHandler) decodeBlockOut(w http.ResponseWriter, r *http.Request, actor model.StaffMember) (scheduling.BlockOutRequest, bool) {
	var req blockOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return scheduling.BlockOutRequest{}, false
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		http.Error(w, "invalid start_time", http.StatusBadRequest)
		return scheduling.BlockOutRequest{}, false
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		http.Error(w, "invalid end_time", http.StatusBadRequest)
		return scheduling.BlockOutRequest{}, false
	}
	staffID := req.StaffMemberID
	if staffID == 0 {
		staffID = actor.ID
	}
	return scheduling.BlockOutRequest{
		ID:            req.ID,
		StaffMemberID: staffID,
		Title:         req.Title,
		StartTimeUTC:  start,
		EndTimeUTC:    end,
		IsAllDay:      req.IsAllDay,
		Reason:        req.Reason,
		Actor:         actor,
	}, true
}

// CreateBlockOut handles POST /api/v1/blockouts.
func (h *SchedulingHandler) CreateBlockOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	actor, ok := h.requireStaff(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeBlockOut(w, r, actor)
	if !ok {
		return
	}

	blockOut, err := h.svc.CreateBlockOut(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBlockOutResponse(blockOut))
}

// UpdateBlockOut handles POST /api/v1/blockouts/update.
func (h *SchedulingHandler) UpdateBlockOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	actor, ok := h.requireStaff(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeBlockOut(w, r, actor)
	if !ok {
		return
	}

	blockOut, err := h.svc.UpdateBlockOut(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toBlockOutResponse(blockOut))
}

type deleteBlockOutRequest struct {
	ID int64 `json:"id"`
}

// DeleteBlockOut handles POST /api/v1/blockouts/delete.
func (h *SchedulingHandler) DeleteBlockOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	actor, ok := h.requireStaff(w, r)
	if !ok {
		return
	}
	var req deleteBlockOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteBlockOut(r.Context(), req.ID, actor); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": req.ID})
}
