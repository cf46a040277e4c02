package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/oaklinehq/scheduler/internal/model"
	"github.com/oaklinehq/scheduler/internal/scheduling"
	"github.com/oaklinehq/scheduler/internal/scheduling/schedulingtest"
)

type staticProvider struct {
	staff model.StaffMember
	err   error
}

func (p staticProvider) RequireSchedulerStaff(ctx context.Context) (model.StaffMember, error) {
	return p.staff, p.err
}

func newTestHandler(t *testing.T) (*SchedulingHandler, *schedulingtest.Store) {
	t.Helper()
	store := schedulingtest.New()
	store.Contacts[1] = model.Contact{ID: 1, FirstName: "Dana", LastName: "Reyes", Zipcode: "30301"}
	store.Staff[1] = model.StaffMember{ID: 1, UserID: 10, IsActive: true, DefaultMeetingLink: "https://meet.example/avery"}
	store.Config = model.Configuration{
		Timezone:                   "UTC",
		DefaultDurationMinutes:     30,
		DefaultBufferTimeMinutes:   10,
		MinCancellationNoticeHours: 24,
	}
	store.HasConfig = true
	store.Types[1] = model.AppointmentType{ID: 1, Name: "Consultation", Mode: model.ModeEither, IsActive: true}
	store.Eligible[1] = []int64{1}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := scheduling.NewService(store, logger)
	h := NewSchedulingHandler(svc, staticProvider{staff: store.Staff[1]}, logger)
	return h, store
}

func futureStart() string {
	return time.Now().UTC().Add(48 * time.Hour).Truncate(time.Minute).Format(time.RFC3339)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestCreate_Created(t *testing.T) {
	h, store := newTestHandler(t)

	rec := postJSON(t, h.Create, "/api/v1/appointments", `{
		"contact_id": 1,
		"appointment_type_id": 1,
		"staff_member_id": 1,
		"mode": "virtual",
		"start_time": "`+futureStart()+`"
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		AppointmentID int64  `json:"appointment_id"`
		Status        string `json:"status"`
		MeetingLink   string `json:"meeting_link"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.AppointmentID != 1 || resp.Status != "scheduled" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.MeetingLink != "https://meet.example/avery" {
		t.Fatalf("expected staff default link, got %q", resp.MeetingLink)
	}
	if len(store.Events) != 1 {
		t.Fatalf("expected one outbox event, got %d", len(store.Events))
	}
}

func TestCreate_ErrorMapping(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown contact", `{"contact_id":99,"appointment_type_id":1,"staff_member_id":1,"mode":"virtual","start_time":"` + futureStart() + `"}`, http.StatusNotFound},
		{"unknown mode", `{"contact_id":1,"appointment_type_id":1,"staff_member_id":1,"mode":"hybrid","start_time":"` + futureStart() + `"}`, http.StatusBadRequest},
		{"past start", `{"contact_id":1,"appointment_type_id":1,"staff_member_id":1,"mode":"virtual","start_time":"2020-01-01T10:00:00Z"}`, http.StatusUnprocessableEntity},
		{"malformed json", `{`, http.StatusBadRequest},
		{"malformed start_time", `{"contact_id":1,"appointment_type_id":1,"staff_member_id":1,"mode":"virtual","start_time":"tomorrow"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.Create, "/api/v1/appointments", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreate_ForbiddenActor(t *testing.T) {
	h, store := newTestHandler(t)
	h.perm = staticProvider{err: &scheduling.ForbiddenError{Msg: "user is not scheduler staff"}}

	rec := postJSON(t, h.Create, "/api/v1/appointments", `{"contact_id":1}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if len(store.Appointments) != 0 {
		t.Fatal("forbidden request must not create anything")
	}
}

func TestChangeStatus_Mapping(t *testing.T) {
	h, store := newTestHandler(t)
	store.Appointments[5] = model.Appointment{
		ID: 5, AssignedStaffMemberID: 1, AppointmentTypeID: 1,
		Mode: model.ModeVirtual, MeetingLink: "x",
		ScheduledStartTime: time.Now().UTC().Add(24 * time.Hour),
		DurationMinutes:    30, Status: model.StatusScheduled,
	}

	rec := postJSON(t, h.ChangeStatus, "/api/v1/appointments/status", `{"appointment_id":5,"status":"in_progress"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for illegal transition, got %d", rec.Code)
	}

	rec = postJSON(t, h.ChangeStatus, "/api/v1/appointments/status", `{"appointment_id":5,"status":"done"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}

	rec = postJSON(t, h.ChangeStatus, "/api/v1/appointments/status", `{"appointment_id":5,"status":"confirmed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSlots_QueryValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/slots?staff_id=abc&appointment_type_id=1&date=2026-03-02", nil)
	rec := httptest.NewRecorder()
	h.Slots(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/slots", nil)
	rec = httptest.NewRecorder()
	h.Slots(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestSlots_UnknownStaffReturnsEmptyList(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/slots?staff_id=99&appointment_type_id=1&date=2026-03-02", nil)
	rec := httptest.NewRecorder()
	h.Slots(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Slots []any `json:"slots"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Slots == nil || len(resp.Slots) != 0 {
		t.Fatalf("expected empty slots array, got %v", resp.Slots)
	}
}

func TestHistory_Mapping(t *testing.T) {
	h, store := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/history?appointment_id=42", nil)
	rec := httptest.NewRecorder()
	h.History(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	store.Appointments[42] = model.Appointment{
		ID: 42, AssignedStaffMemberID: 1, Mode: model.ModeVirtual,
		Status: model.StatusScheduled, DurationMinutes: 30,
	}
	store.History = append(store.History, model.AppointmentHistory{
		AppointmentID: 42, ChangeType: model.ChangeCreated, ChangedByUserID: 10,
		CreatedAt: time.Now().UTC(),
	})

	rec = httptest.NewRecorder()
	h.History(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		History []struct {
			ChangeType string `json:"change_type"`
		} `json:"history"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resp.History) != 1 || resp.History[0].ChangeType != "created" {
		t.Fatalf("unexpected history payload: %+v", resp.History)
	}
}

func TestStaffAppointments(t *testing.T) {
	h, store := newTestHandler(t)
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	store.Appointments[1] = model.Appointment{
		ID: 1, AssignedStaffMemberID: 1, Mode: model.ModeVirtual,
		ScheduledStartTime: start, DurationMinutes: 30, Status: model.StatusScheduled,
	}
	store.Appointments[2] = model.Appointment{
		ID: 2, AssignedStaffMemberID: 1, Mode: model.ModeVirtual,
		ScheduledStartTime: start.Add(time.Hour), DurationMinutes: 30, Status: model.StatusCancelled,
	}

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/appointments/by-staff?staff_id=1&from=2026-03-02T00:00:00Z&to=2026-03-03T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	h.StaffAppointments(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Appointments []struct {
			AppointmentID int64 `json:"appointment_id"`
		} `json:"appointments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	// Cancelled appointments are not listed.
	if len(resp.Appointments) != 1 || resp.Appointments[0].AppointmentID != 1 {
		t.Fatalf("unexpected appointments: %+v", resp.Appointments)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/appointments/by-staff?staff_id=1&from=yesterday&to=today", nil)
	rec = httptest.NewRecorder()
	h.StaffAppointments(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad range, got %d", rec.Code)
	}
}

func TestDeleteBlockOut_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postJSON(t, h.DeleteBlockOut, "/api/v1/blockouts/delete", `{"id":7}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateBlockOut_DefaultsToActorCalendar(t *testing.T) {
	h, store := newTestHandler(t)

	rec := postJSON(t, h.CreateBlockOut, "/api/v1/blockouts", `{
		"title": "Focus time",
		"start_time": "2026-03-02T12:00:00Z",
		"end_time": "2026-03-02T13:00:00Z"
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.BlockOuts) != 1 {
		t.Fatalf("expected one block-out, got %d", len(store.BlockOuts))
	}
	for _, b := range store.BlockOuts {
		if b.StaffMemberID != 1 {
			t.Fatalf("expected actor's calendar, got staff %d", b.StaffMemberID)
		}
	}
}
