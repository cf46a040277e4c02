package scheduling

import (
	"context"
	"strings"

	"github.com/oaklinehq/scheduler/internal/model"
)

// UpdateRequest carries the editable non-schedule fields. Nil pointers leave
// the field untouched.
type UpdateRequest struct {
	AppointmentID    int64
	Notes            *string
	MeetingLink      *string
	ContactFirstName *string
	ContactLastName  *string
	ContactEmail     *string
	ContactPhone     *string
	ContactAddress   *string
	Actor            model.StaffMember
}

// Update applies field edits to a non-terminal appointment and records a
// single "edited" history row naming the changed fields. No row is written
// when nothing changed. Completed appointments remain editable; only
// cancelled and no_show are closed.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (model.Appointment, error) {
	var appt model.Appointment
	err := s.store.RunInTx(ctx, func(tx Store) error {
		var err error
		appt, err = tx.GetAppointment(ctx, req.AppointmentID)
		if err != nil {
			return err
		}
		if appt.Status.IsTerminal() {
			return validationf("appointment %d is %s and can no longer be edited", appt.ID, appt.Status)
		}

		if req.MeetingLink != nil && appt.Mode == model.ModeVirtual && strings.TrimSpace(*req.MeetingLink) == "" {
			return validationf("a virtual appointment cannot have an empty meeting link")
		}

		var changed []string
		apply := func(name string, dst *string, src *string) {
			if src != nil && *src != *dst {
				*dst = *src
				changed = append(changed, name)
			}
		}
		apply("notes", &appt.Notes, req.Notes)
		apply("meeting_link", &appt.MeetingLink, req.MeetingLink)
		apply("contact_first_name", &appt.ContactFirstName, req.ContactFirstName)
		apply("contact_last_name", &appt.ContactLastName, req.ContactLastName)
		apply("contact_email", &appt.ContactEmail, req.ContactEmail)
		apply("contact_phone", &appt.ContactPhone, req.ContactPhone)
		apply("contact_address", &appt.ContactAddress, req.ContactAddress)

		if len(changed) == 0 {
			return nil
		}

		if err := tx.UpdateAppointment(ctx, &appt); err != nil {
			return err
		}
		return tx.InsertHistory(ctx, model.AppointmentHistory{
			AppointmentID:   appt.ID,
			ChangeType:      model.ChangeEdited,
			NewValue:        strings.Join(changed, ", "),
			ChangedByUserID: req.Actor.UserID,
		})
	})
	if err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}
