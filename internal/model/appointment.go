package model

import "time"

// Appointment is the scheduling aggregate. Contact fields are a snapshot
// copied at creation time and editable independently of the contact record.
// ScheduledStartTime is always a UTC instant. Appointments are never hard
// deleted.
type Appointment struct {
	ID                     int64
	ContactID              int64
	ContactFirstName       string
	ContactLastName        string
	ContactEmail           string
	ContactPhone           string
	ContactAddress         string
	AppointmentTypeID      int64
	AssignedStaffMemberID  int64
	Mode                   Mode
	MeetingLink            string
	ScheduledStartTime     time.Time
	DurationMinutes        int
	Status                 Status
	Notes                  string
	CoverageOverrideReason string
	CreatedByStaffID       int64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// EndTime returns the exclusive end of the appointment's occupied interval.
func (a *Appointment) EndTime() time.Time {
	return a.ScheduledStartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// ChangeType classifies an appointment history row.
type ChangeType string

const (
	ChangeCreated                    ChangeType = "created"
	ChangeStatusChanged              ChangeType = "status_changed"
	ChangeRescheduled                ChangeType = "rescheduled"
	ChangeEdited                     ChangeType = "edited"
	ChangeCoverageOverride           ChangeType = "coverage_override"
	ChangeCancellationNoticeOverride ChangeType = "cancellation_notice_override"
)

// AppointmentHistory is an append-only audit row owned by its appointment.
type AppointmentHistory struct {
	ID              int64
	AppointmentID   int64
	ChangeType      ChangeType
	OldValue        string
	NewValue        string
	OverrideReason  string
	ChangedByUserID int64
	CreatedAt       time.Time
}
