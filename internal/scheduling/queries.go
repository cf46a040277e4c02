package scheduling

import (
	"context"
	"time"

	"github.com/oaklinehq/scheduler/internal/model"
)

func (s *Service) GetAppointment(ctx context.Context, id int64) (model.Appointment, error) {
	return s.store.GetAppointment(ctx, id)
}

// History lists the audit trail for an appointment, oldest first.
func (s *Service) History(ctx context.Context, appointmentID int64) ([]model.AppointmentHistory, error) {
	if _, err := s.store.GetAppointment(ctx, appointmentID); err != nil {
		return nil, err
	}
	return s.store.ListHistory(ctx, appointmentID)
}

// StaffAppointments lists a staff member's active appointments overlapping
// [from, to).
func (s *Service) StaffAppointments(ctx context.Context, staffMemberID int64, from, to time.Time) ([]model.Appointment, error) {
	return s.store.ListActiveAppointments(ctx, staffMemberID, from.UTC(), to.UTC(), 0)
}
