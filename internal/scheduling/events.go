package scheduling

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/oaklinehq/scheduler/internal/model"
	"github.com/oaklinehq/scheduler/internal/outbox"
)

const (
	EventAppointmentCreated       = "scheduling.appointment.created.v1"
	EventAppointmentStatusChanged = "scheduling.appointment.status_changed.v1"
	EventAppointmentCompleted     = "scheduling.appointment.completed.v1"
	EventAppointmentRescheduled   = "scheduling.appointment.rescheduled.v1"
)

func appointmentEvent(eventType string, appt *model.Appointment, extra map[string]any) outbox.Event {
	payload := map[string]any{
		"appointment_id":       appt.ID,
		"staff_member_id":      appt.AssignedStaffMemberID,
		"appointment_type_id":  appt.AppointmentTypeID,
		"contact_first_name":   appt.ContactFirstName,
		"contact_last_name":    appt.ContactLastName,
		"contact_email":        appt.ContactEmail,
		"mode":                 appt.Mode.String(),
		"status":               appt.Status.String(),
		"scheduled_start_time": appt.ScheduledStartTime.UTC().Format(time.RFC3339),
		"duration_minutes":     appt.DurationMinutes,
	}
	for k, v := range extra {
		payload[k] = v
	}
	// Payload fields are all marshalable primitives.
	raw, _ := json.Marshal(payload)
	return outbox.Event{
		AggregateType: "appointment",
		AggregateID:   strconv.FormatInt(appt.ID, 10),
		EventType:     eventType,
		Payload:       raw,
	}
}
