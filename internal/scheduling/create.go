package scheduling

import (
	"context"
	"strings"
	"time"

	"github.com/oaklinehq/scheduler/internal/coverage"
	"github.com/oaklinehq/scheduler/internal/model"
	"github.com/oaklinehq/scheduler/internal/outbox"
)

type CreateRequest struct {
	ContactID         int64
	AppointmentTypeID int64
	StaffMemberID     int64
	Mode              string
	MeetingLink       string
	StartTime         time.Time
	DurationMinutes   int // 0 resolves the type/org default
	Notes             string
	// OverrideReason bypasses a failed coverage check for in-person
	// appointments.
	OverrideReason string
	Actor          model.StaffMember
}

// Create validates and books a new appointment. On success the appointment, a
// "created" history row (plus a "coverage_override" row when the coverage
// check was overridden) and a created event commit in one transaction.
func (s *Service) Create(ctx context.Context, req CreateRequest) (model.Appointment, error) {
	var appt model.Appointment
	err := s.store.RunInTx(ctx, func(tx Store) error {
		contact, err := tx.GetContact(ctx, req.ContactID)
		if err != nil {
			return err
		}

		apptType, err := tx.GetAppointmentType(ctx, req.AppointmentTypeID)
		if err != nil {
			return err
		}
		if !apptType.IsActive {
			return validationf("appointment type %d is inactive", apptType.ID)
		}

		staff, err := tx.GetStaffMember(ctx, req.StaffMemberID)
		if err != nil {
			return err
		}
		if !staff.IsActive {
			return validationf("staff member %d is inactive", staff.ID)
		}

		eligible, err := tx.IsStaffEligible(ctx, apptType.ID, staff.ID)
		if err != nil {
			return err
		}
		if !eligible {
			return validationf("staff member %d is not eligible for appointment type %d", staff.ID, apptType.ID)
		}

		mode, err := model.ParseMode(req.Mode)
		if err != nil {
			return &UnsupportedValueError{Kind: "mode", Value: req.Mode}
		}
		if err := model.ValidateRequestedMode(apptType.Mode, mode); err != nil {
			return &ValidationError{Msg: err.Error()}
		}

		meetingLink := strings.TrimSpace(req.MeetingLink)
		if mode.RequiresMeetingLink() {
			if meetingLink == "" {
				meetingLink = strings.TrimSpace(staff.DefaultMeetingLink)
			}
			if meetingLink == "" {
				return validationf("virtual appointments require a meeting link")
			}
		}

		start := req.StartTime.UTC()
		if !start.After(s.now()) {
			return validationf("start time must be in the future")
		}

		cfg, err := tx.GetConfiguration(ctx)
		if err != nil {
			return err
		}
		durationMins := req.DurationMinutes
		if durationMins == 0 {
			d, _ := resolveTiming(apptType, cfg)
			durationMins = int(d / time.Minute)
		}
		if durationMins <= 0 {
			return validationf("duration must be positive")
		}

		free, err := isSlotAvailable(ctx, tx, staff.ID, start, durationMins, 0)
		if err != nil {
			return err
		}
		if !free {
			return validationf("requested slot overlaps an existing appointment or block-out")
		}

		overrideReason := strings.TrimSpace(req.OverrideReason)
		var coverageOverridden bool
		if mode.RequiresCoverageCheck() {
			result := coverage.Check(contact.Zipcode, staff.CoverageZones, cfg.DefaultCoverageZones)
			if !result.Valid {
				if overrideReason == "" {
					return &ValidationError{Msg: result.Warning}
				}
				coverageOverridden = true
			}
		}

		id, err := tx.NextAppointmentID(ctx)
		if err != nil {
			return err
		}

		appt = model.Appointment{
			ID:                    id,
			ContactID:             contact.ID,
			ContactFirstName:      contact.FirstName,
			ContactLastName:       contact.LastName,
			ContactEmail:          contact.Email,
			ContactPhone:          contact.Phone,
			ContactAddress:        contact.Address,
			AppointmentTypeID:     apptType.ID,
			AssignedStaffMemberID: staff.ID,
			Mode:                  mode,
			MeetingLink:           meetingLink,
			ScheduledStartTime:    start,
			DurationMinutes:       durationMins,
			Status:                model.StatusScheduled,
			Notes:                 req.Notes,
			CreatedByStaffID:      req.Actor.ID,
		}
		if coverageOverridden {
			appt.CoverageOverrideReason = overrideReason
		}
		if err := tx.InsertAppointment(ctx, &appt); err != nil {
			return err
		}

		if err := tx.InsertHistory(ctx, model.AppointmentHistory{
			AppointmentID:   id,
			ChangeType:      model.ChangeCreated,
			NewValue:        formatSchedule(start, durationMins),
			ChangedByUserID: req.Actor.UserID,
		}); err != nil {
			return err
		}
		if coverageOverridden {
			if err := tx.InsertHistory(ctx, model.AppointmentHistory{
				AppointmentID:   id,
				ChangeType:      model.ChangeCoverageOverride,
				OldValue:        contact.Zipcode,
				OverrideReason:  overrideReason,
				ChangedByUserID: req.Actor.UserID,
			}); err != nil {
				return err
			}
		}

		return tx.AppendEvents(ctx, []outbox.Event{
			appointmentEvent(EventAppointmentCreated, &appt, nil),
		})
	})
	if err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}
