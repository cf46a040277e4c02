package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oaklinehq/scheduler/internal/model"
	"github.com/oaklinehq/scheduler/internal/outbox"
)

type ChangeStatusRequest struct {
	AppointmentID int64
	TargetStatus  string
	Actor         model.StaffMember
}

// ChangeStatus moves an appointment along the status graph. Moving to
// completed additionally emits a completed event.
func (s *Service) ChangeStatus(ctx context.Context, req ChangeStatusRequest) (model.Appointment, error) {
	target, err := model.ParseStatus(req.TargetStatus)
	if err != nil {
		return model.Appointment{}, &UnsupportedValueError{Kind: "status", Value: req.TargetStatus}
	}

	var appt model.Appointment
	err = s.store.RunInTx(ctx, func(tx Store) error {
		appt, err = tx.GetAppointment(ctx, req.AppointmentID)
		if err != nil {
			return err
		}
		if !appt.Status.CanTransitionTo(target) {
			return validationf("cannot transition from %s to %s", appt.Status, target)
		}

		old := appt.Status
		appt.Status = target
		if err := tx.UpdateAppointment(ctx, &appt); err != nil {
			return err
		}
		if err := tx.InsertHistory(ctx, model.AppointmentHistory{
			AppointmentID:   appt.ID,
			ChangeType:      model.ChangeStatusChanged,
			OldValue:        old.String(),
			NewValue:        target.String(),
			ChangedByUserID: req.Actor.UserID,
		}); err != nil {
			return err
		}

		events := []outbox.Event{
			appointmentEvent(EventAppointmentStatusChanged, &appt, map[string]any{"old_status": old.String()}),
		}
		if target == model.StatusCompleted {
			events = append(events, appointmentEvent(EventAppointmentCompleted, &appt, nil))
		}
		return tx.AppendEvents(ctx, events)
	})
	if err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

type RescheduleRequest struct {
	AppointmentID   int64
	NewStartTime    time.Time
	DurationMinutes int // 0 keeps the current duration
	// OverrideReason is mandatory when rescheduling inside the minimum
	// cancellation notice window.
	OverrideReason string
	Actor          model.StaffMember
}

// Reschedule moves an active appointment to a new slot.
func (s *Service) Reschedule(ctx context.Context, req RescheduleRequest) (model.Appointment, error) {
	var appt model.Appointment
	err := s.store.RunInTx(ctx, func(tx Store) error {
		var err error
		appt, err = tx.GetAppointment(ctx, req.AppointmentID)
		if err != nil {
			return err
		}
		if !appt.Status.IsActive() {
			return validationf("appointment %d is not active", appt.ID)
		}

		newStart := req.NewStartTime.UTC()
		if !newStart.After(s.now()) {
			return validationf("new start time must be in the future")
		}
		durationMins := req.DurationMinutes
		if durationMins == 0 {
			durationMins = appt.DurationMinutes
		}
		if durationMins <= 0 {
			return validationf("duration must be positive")
		}

		free, err := isSlotAvailable(ctx, tx, appt.AssignedStaffMemberID, newStart, durationMins, appt.ID)
		if err != nil {
			return err
		}
		if !free {
			return validationf("requested slot overlaps an existing appointment or block-out")
		}

		cfg, err := tx.GetConfiguration(ctx)
		if err != nil {
			return err
		}
		overrideReason := strings.TrimSpace(req.OverrideReason)
		notice := time.Duration(cfg.MinCancellationNoticeHours) * time.Hour
		shortNotice := notice > 0 && appt.ScheduledStartTime.Sub(s.now()) < notice
		if shortNotice && overrideReason == "" {
			return validationf("rescheduling within %d hours of the appointment requires an override reason", cfg.MinCancellationNoticeHours)
		}

		oldValue := formatSchedule(appt.ScheduledStartTime, appt.DurationMinutes)
		appt.ScheduledStartTime = newStart
		appt.DurationMinutes = durationMins
		if err := tx.UpdateAppointment(ctx, &appt); err != nil {
			return err
		}

		if err := tx.InsertHistory(ctx, model.AppointmentHistory{
			AppointmentID:   appt.ID,
			ChangeType:      model.ChangeRescheduled,
			OldValue:        oldValue,
			NewValue:        formatSchedule(newStart, durationMins),
			ChangedByUserID: req.Actor.UserID,
		}); err != nil {
			return err
		}
		if shortNotice {
			if err := tx.InsertHistory(ctx, model.AppointmentHistory{
				AppointmentID:   appt.ID,
				ChangeType:      model.ChangeCancellationNoticeOverride,
				OverrideReason:  overrideReason,
				ChangedByUserID: req.Actor.UserID,
			}); err != nil {
				return err
			}
		}

		return tx.AppendEvents(ctx, []outbox.Event{
			appointmentEvent(EventAppointmentRescheduled, &appt, map[string]any{"old_schedule": oldValue}),
		})
	})
	if err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

type MarkNoShowRequest struct {
	AppointmentID int64
	Actor         model.StaffMember
}

// MarkNoShow closes an active appointment as no_show. The transition is legal
// from every active status.
func (s *Service) MarkNoShow(ctx context.Context, req MarkNoShowRequest) (model.Appointment, error) {
	var appt model.Appointment
	err := s.store.RunInTx(ctx, func(tx Store) error {
		var err error
		appt, err = tx.GetAppointment(ctx, req.AppointmentID)
		if err != nil {
			return err
		}
		if !appt.Status.IsActive() {
			return validationf("appointment %d is not active", appt.ID)
		}

		old := appt.Status
		appt.Status = model.StatusNoShow
		if err := tx.UpdateAppointment(ctx, &appt); err != nil {
			return err
		}
		if err := tx.InsertHistory(ctx, model.AppointmentHistory{
			AppointmentID:   appt.ID,
			ChangeType:      model.ChangeStatusChanged,
			OldValue:        old.String(),
			NewValue:        model.StatusNoShow.String(),
			ChangedByUserID: req.Actor.UserID,
		}); err != nil {
			return err
		}
		return tx.AppendEvents(ctx, []outbox.Event{
			appointmentEvent(EventAppointmentStatusChanged, &appt, map[string]any{"old_status": old.String()}),
		})
	})
	if err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

func formatSchedule(start time.Time, durationMinutes int) string {
	return fmt.Sprintf("%s (%dm)", start.UTC().Format(time.RFC3339), durationMinutes)
}
