package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/oaklinehq/scheduler/internal/model"
	"github.com/oaklinehq/scheduler/internal/permission"
	"github.com/oaklinehq/scheduler/internal/scheduling"
)

// SchedulingHandler is the thin HTTP surface over the scheduling service. It
// parses, authorizes, delegates, and maps errors; no business rules live here.
type SchedulingHandler struct {
	svc    *scheduling.Service
	perm   permission.Provider
	logger *slog.Logger
}

func NewSchedulingHandler(svc *scheduling.Service, perm permission.Provider, logger *slog.Logger) *SchedulingHandler {
	return &SchedulingHandler{svc: svc, perm: perm, logger: logger}
}

type appointmentResponse struct {
	AppointmentID      int64  `json:"appointment_id"`
	ContactFirstName   string `json:"contact_first_name"`
	ContactLastName    string `json:"contact_last_name"`
	StaffMemberID      int64  `json:"staff_member_id"`
	AppointmentTypeID  int64  `json:"appointment_type_id"`
	Mode               string `json:"mode"`
	MeetingLink        string `json:"meeting_link,omitempty"`
	ScheduledStartTime string `json:"scheduled_start_time"`
	DurationMinutes    int    `json:"duration_minutes"`
	Status             string `json:"status"`
	Notes              string `json:"notes,omitempty"`
}

func toAppointmentResponse(a model.Appointment) appointmentResponse {
	return appointmentResponse{
		AppointmentID:      a.ID,
		ContactFirstName:   a.ContactFirstName,
		ContactLastName:    a.ContactLastName,
		StaffMemberID:      a.AssignedStaffMemberID,
		AppointmentTypeID:  a.AppointmentTypeID,
		Mode:               a.Mode.String(),
		MeetingLink:        a.MeetingLink,
		ScheduledStartTime: a.ScheduledStartTime.UTC().Format(time.RFC3339),
		DurationMinutes:    a.DurationMinutes,
		Status:             a.Status.String(),
		Notes:              a.Notes,
	}
}

type slotItem struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Slots handles GET /api/v1/slots?staff_id=&date=&appointment_type_id=.
func (h *SchedulingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	staffID, err := queryInt64(r, "staff_id")
	if err != nil {
		http.Error(w, "invalid staff_id", http.StatusBadRequest)
		return
	}
	typeID, err := queryInt64(r, "appointment_type_id")
	if err != nil {
		http.Error(w, "invalid appointment_type_id", http.StatusBadRequest)
		return
	}
	date := r.URL.Query().Get("date")

	slots, err := h.svc.GetAvailableSlots(r.Context(), staffID, date, typeID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	items := make([]slotItem, 0, len(slots))
	for _, s := range slots {
		items = append(items, slotItem{
			StartTime: s.Start.UTC().Format(time.RFC3339),
			EndTime:   s.End.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": items})
}

type createAppointmentRequest struct {
	ContactID         int64  `json:"contact_id"`
	AppointmentTypeID int64  `json:"appointment_type_id"`
	StaffMemberID     int64  `json:"staff_member_id"`
	Mode              string `json:"mode"`
	MeetingLink       string `json:"meeting_link"`
	StartTime         string `json:"start_time"`
	DurationMinutes   int    `json:"duration_minutes"`
	Notes             string `json:"notes"`
	OverrideReason    string `json:"override_reason"`
}

// Create handles POST /api/v1/appointments.
func (h *SchedulingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	actor, ok := h.requireStaff(w, r)
	if !ok {
		return
	}

	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		http.Error(w, "invalid start_time", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.Create(r.Context(), scheduling.CreateRequest{
		ContactID:         req.ContactID,
		AppointmentTypeID: req.AppointmentTypeID,
		StaffMemberID:     req.StaffMemberID,
		Mode:              req.Mode,
		MeetingLink:       req.MeetingLink,
		StartTime:         start,
		DurationMinutes:   req.DurationMinutes,
		Notes:             req.Notes,
		OverrideReason:    req.OverrideReason,
		Actor:             actor,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

type changeStatusRequest struct {
	AppointmentID int64  `json:"appointment_id"`
	Status        string `json:"status"`
}

// ChangeStatus handles POST /api/v1/appointments/status.
func (h *SchedulingHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	actor, ok := h.requireStaff(w, r)
	if !ok {
		return
	}

	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.ChangeStatus(r.Context(), scheduling.ChangeStatusRequest{
		AppointmentID: req.AppointmentID,
		TargetStatus:  req.Status,
		Actor:         actor,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

type rescheduleRequest struct {
	AppointmentID   int64  `json:"appointment_id"`
	NewStartTime    string `json:"new_start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	OverrideReason  string `json:"override_reason"`
}

// Reschedule handles POST /api/v1/appointments/reschedule.
func (h *SchedulingHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	actor, ok := h.requireStaff(w, r)
	if !ok {
		return
	}

	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	newStart, err := time.Parse(time.RFC3339, req.NewStartTime)
	if err != nil {
		http.Error(w, "invalid new_start_time", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.Reschedule(r.Context(), scheduling.RescheduleRequest{
		AppointmentID:   req.AppointmentID,
		NewStartTime:    newStart,
		DurationMinutes: req.DurationMinutes,
		OverrideReason:  req.OverrideReason,
		Actor:           actor,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

type noShowRequest struct {
	AppointmentID int64 `json:"appointment_id"`
}

// NoShow handles POST /api/v1/appointments/no-show.
func (h *SchedulingHandler) NoShow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	actor, ok := h.requireStaff(w, r)
	if !ok {
		return
	}

	var req noShowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.MarkNoShow(r.Context(), scheduling.MarkNoShowRequest{
		AppointmentID: req.AppointmentID,
		Actor:         actor,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

type updateAppointmentRequest struct {
	AppointmentID    int64   `json:"appointment_id"`
	Notes            *string `json:"notes"`
	MeetingLink      *string `json:"meeting_link"`
	ContactFirstName *string `json:"contact_first_name"`
	ContactLastName  *string `json:"contact_last_name"`
	ContactEmail     *string `json:"contact_email"`
	ContactPhone     *string `json:"contact_phone"`
	ContactAddress   *string `json:"contact_address"`
}

// Update handles POST /api/v1/appointments/update. Omitted fields are left
// untouched.
func (h *SchedulingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	actor, ok := h.requireStaff(w, r)
	if !ok {
		return
	}

	var req updateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.Update(r.Context(), scheduling.UpdateRequest{
		AppointmentID:    req.AppointmentID,
		Notes:            req.Notes,
		MeetingLink:      req.MeetingLink,
		ContactFirstName: req.ContactFirstName,
		ContactLastName:  req.ContactLastName,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
		ContactAddress:   req.ContactAddress,
		Actor:            actor,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

// StaffAppointments handles GET /api/v1/appointments/by-staff?staff_id=&from=&to=.
// It lists a staff member's active appointments overlapping [from, to).
func (h *SchedulingHandler) StaffAppointments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := h.requireStaff(w, r); !ok {
		return
	}
	staffID, err := queryInt64(r, "staff_id")
	if err != nil {
		http.Error(w, "invalid staff_id", http.StatusBadRequest)
		return
	}
	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "invalid from", http.StatusBadRequest)
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "invalid to", http.StatusBadRequest)
		return
	}

	appts, err := h.svc.StaffAppointments(r.Context(), staffID, from, to)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	items := make([]appointmentResponse, 0, len(appts))
	for _, a := range appts {
		items = append(items, toAppointmentResponse(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": items})
}

type historyItem struct {
	ChangeType     string `json:"change_type"`
	OldValue       string `json:"old_value,omitempty"`
	NewValue       string `json:"new_value,omitempty"`
	OverrideReason string `json:"override_reason,omitempty"`
	ChangedByUser  int64  `json:"changed_by_user_id"`
	CreatedAt      string `json:"created_at"`
}

// History handles GET /api/v1/appointments/history?appointment_id=.
func (h *SchedulingHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := h.requireStaff(w, r); !ok {
		return
	}
	apptID, err := queryInt64(r, "appointment_id")
	if err != nil {
		http.Error(w, "invalid appointment_id", http.StatusBadRequest)
		return
	}

	entries, err := h.svc.History(r.Context(), apptID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	items := make([]historyItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, historyItem{
			ChangeType:     string(e.ChangeType),
			OldValue:       e.OldValue,
			NewValue:       e.NewValue,
			OverrideReason: e.OverrideReason,
			ChangedByUser:  e.ChangedByUserID,
			CreatedAt:      e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": items})
}

func (h *SchedulingHandler) requireStaff(w http.ResponseWriter, r *http.Request) (model.StaffMember, bool) {
	actor, err := h.perm.RequireSchedulerStaff(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return model.StaffMember{}, false
	}
	return actor, true
}

func queryInt64(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
}
