package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oaklinehq/scheduler/internal/availability"
	"github.com/oaklinehq/scheduler/internal/model"
)

// GetAvailableSlots computes bookable slots for a staff member on one date
// ("2006-01-02", interpreted in the organization's timezone). A missing or
// inactive staff member, configuration or appointment type yields an empty
// result rather than an error.
func (s *Service) GetAvailableSlots(ctx context.Context, staffMemberID int64, date string, appointmentTypeID int64) ([]availability.Slot, error) {
	staff, err := s.store.GetStaffMember(ctx, staffMemberID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if !staff.IsActive {
		return nil, nil
	}

	cfg, err := s.store.GetConfiguration(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	apptType, err := s.store.GetAppointmentType(ctx, appointmentTypeID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if !apptType.IsActive {
		return nil, nil
	}

	duration, buffer := resolveTiming(apptType, cfg)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid organization timezone %q: %w", cfg.Timezone, err)
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, validationf("invalid date %q, expected YYYY-MM-DD", date)
	}

	dayStart, dayEnd, open := availability.DayWindow(day, cfg.AvailableHours, staff.Availability, loc)
	if !open {
		return nil, nil
	}

	appts, err := s.store.ListActiveAppointments(ctx, staffMemberID, dayStart, dayEnd, 0)
	if err != nil {
		return nil, err
	}
	blockOuts, err := s.store.ListBlockOuts(ctx, staffMemberID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	// Existing appointments block their surrounding buffer as well;
	// block-out windows are used as-is.
	blocked := make([]availability.Interval, 0, len(appts)+len(blockOuts))
	for i := range appts {
		blocked = append(blocked, availability.Pad(availability.Interval{
			Start: appts[i].ScheduledStartTime,
			End:   appts[i].EndTime(),
		}, buffer))
	}
	for i := range blockOuts {
		blocked = append(blocked, availability.Interval{
			Start: blockOuts[i].StartTimeUTC,
			End:   blockOuts[i].EndTimeUTC,
		})
	}

	return availability.Slots(dayStart, dayEnd, duration, buffer, blocked), nil
}

// IsSlotAvailable is the authoritative conflict check used by create and
// reschedule validation: raw half-open overlap against active appointments
// and block-out windows, with no buffer applied. excludeAppointmentID skips
// one appointment (0 skips none), so rescheduling to the current slot is
// always available.
func (s *Service) IsSlotAvailable(ctx context.Context, staffMemberID int64, startUTC time.Time, durationMinutes int, excludeAppointmentID int64) (bool, error) {
	return isSlotAvailable(ctx, s.store, staffMemberID, startUTC, durationMinutes, excludeAppointmentID)
}

// isSlotAvailable runs against the given store view so commands can perform
// the check inside their own transaction.
func isSlotAvailable(ctx context.Context, store Store, staffMemberID int64, startUTC time.Time, durationMinutes int, excludeAppointmentID int64) (bool, error) {
	start := startUTC.UTC()
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	candidate := availability.Interval{Start: start, End: end}

	appts, err := store.ListActiveAppointments(ctx, staffMemberID, start, end, excludeAppointmentID)
	if err != nil {
		return false, err
	}
	for i := range appts {
		existing := availability.Interval{Start: appts[i].ScheduledStartTime, End: appts[i].EndTime()}
		if candidate.Overlaps(existing) {
			return false, nil
		}
	}

	blockOuts, err := store.ListBlockOuts(ctx, staffMemberID, start, end)
	if err != nil {
		return false, err
	}
	for i := range blockOuts {
		if candidate.Overlaps(availability.Interval{Start: blockOuts[i].StartTimeUTC, End: blockOuts[i].EndTimeUTC}) {
			return false, nil
		}
	}
	return true, nil
}

// resolveTiming picks duration and buffer independently: the appointment
// type's override when set, else the org default.
func resolveTiming(apptType model.AppointmentType, cfg model.Configuration) (duration, buffer time.Duration) {
	durMins := cfg.DefaultDurationMinutes
	if apptType.DefaultDurationMinutes != nil && *apptType.DefaultDurationMinutes > 0 {
		durMins = *apptType.DefaultDurationMinutes
	}
	bufMins := cfg.DefaultBufferTimeMinutes
	if apptType.BufferTimeMinutes != nil && *apptType.BufferTimeMinutes >= 0 {
		bufMins = *apptType.BufferTimeMinutes
	}
	return time.Duration(durMins) * time.Minute, time.Duration(bufMins) * time.Minute
}

func isNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
