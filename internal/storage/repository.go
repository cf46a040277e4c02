// Package storage is the pgx-backed persistence layer. It implements
// scheduling.Store; RunInTx gives each command single-transaction semantics.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oaklinehq/scheduler/internal/model"
	"github.com/oaklinehq/scheduler/internal/outbox"
	"github.com/oaklinehq/scheduler/internal/scheduling"
	"github.com/oaklinehq/scheduler/libs/db"
	"github.com/oaklinehq/scheduler/libs/otelx"
)

// querier is satisfied by both the pool and a pgx transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	pool *db.Pool
	q    querier
	inTx bool
}

func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool, q: pool}
}

var _ scheduling.Store = (*Repository)(nil)

func (r *Repository) RunInTx(ctx context.Context, fn func(scheduling.Store) error) error {
	if r.inTx {
		return fn(r)
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&Repository{pool: r.pool, q: tx, inTx: true}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func notFound(err error, entity string, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &scheduling.NotFoundError{Entity: entity, ID: id}
	}
	return err
}

func (r *Repository) GetContact(ctx context.Context, id int64) (model.Contact, error) {
	var c model.Contact
	err := r.q.QueryRow(ctx, `
		SELECT id, first_name, last_name, COALESCE(email, ''), COALESCE(phone, ''),
			COALESCE(address, ''), COALESCE(zipcode, '')
		FROM contacts
		WHERE id = $1
	`, id).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address, &c.Zipcode)
	if err != nil {
		return model.Contact{}, notFound(err, "contact", id)
	}
	return c, nil
}

const staffColumns = `id, user_id, is_active, COALESCE(default_meeting_link, ''),
	COALESCE(availability, '{}'::jsonb), COALESCE(coverage_zones, '{}'),
	can_manage_others_calendars`

func scanStaff(row pgx.Row) (model.StaffMember, error) {
	var sm model.StaffMember
	err := row.Scan(&sm.ID, &sm.UserID, &sm.IsActive, &sm.DefaultMeetingLink,
		&sm.Availability, &sm.CoverageZones, &sm.CanManageOthersCalendars)
	return sm, err
}

func (r *Repository) GetStaffMember(ctx context.Context, id int64) (model.StaffMember, error) {
	sm, err := scanStaff(r.q.QueryRow(ctx, `
		SELECT `+staffColumns+`
		FROM scheduler_staff_members
		WHERE id = $1
	`, id))
	if err != nil {
		return model.StaffMember{}, notFound(err, "staff member", id)
	}
	return sm, nil
}

func (r *Repository) GetStaffMemberByUserID(ctx context.Context, userID int64) (model.StaffMember, error) {
	sm, err := scanStaff(r.q.QueryRow(ctx, `
		SELECT `+staffColumns+`
		FROM scheduler_staff_members
		WHERE user_id = $1
	`, userID))
	if err != nil {
		return model.StaffMember{}, notFound(err, "staff member for user", userID)
	}
	return sm, nil
}

func (r *Repository) GetConfiguration(ctx context.Context) (model.Configuration, error) {
	var cfg model.Configuration
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(available_hours, '{}'::jsonb), timezone,
			default_duration_minutes, default_buffer_time_minutes,
			min_cancellation_notice_hours, COALESCE(default_coverage_zones, '{}')
		FROM scheduler_configurations
		ORDER BY id
		LIMIT 1
	`).Scan(&cfg.AvailableHours, &cfg.Timezone, &cfg.DefaultDurationMinutes,
		&cfg.DefaultBufferTimeMinutes, &cfg.MinCancellationNoticeHours, &cfg.DefaultCoverageZones)
	if err != nil {
		return model.Configuration{}, notFound(err, "scheduler configuration", 0)
	}
	return cfg, nil
}

func (r *Repository) GetAppointmentType(ctx context.Context, id int64) (model.AppointmentType, error) {
	var at model.AppointmentType
	var mode string
	err := r.q.QueryRow(ctx, `
		SELECT id, name, mode, default_duration_minutes, buffer_time_minutes, is_active
		FROM appointment_types
		WHERE id = $1
	`, id).Scan(&at.ID, &at.Name, &mode, &at.DefaultDurationMinutes, &at.BufferTimeMinutes, &at.IsActive)
	if err != nil {
		return model.AppointmentType{}, notFound(err, "appointment type", id)
	}
	at.Mode, err = model.ParseMode(mode)
	if err != nil {
		return model.AppointmentType{}, err
	}
	return at, nil
}

func (r *Repository) IsStaffEligible(ctx context.Context, appointmentTypeID, staffMemberID int64) (bool, error) {
	var eligible bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointment_type_staff
			WHERE appointment_type_id = $1 AND staff_member_id = $2
		)
	`, appointmentTypeID, staffMemberID).Scan(&eligible)
	return eligible, err
}

func (r *Repository) NextAppointmentID(ctx context.Context) (int64, error) {
	var next int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(MAX(id), 0) + 1 FROM appointments
	`).Scan(&next)
	return next, err
}

const appointmentColumns = `id, contact_id, contact_first_name, contact_last_name,
	COALESCE(contact_email, ''), COALESCE(contact_phone, ''), COALESCE(contact_address, ''),
	appointment_type_id, assigned_staff_member_id, mode, COALESCE(meeting_link, ''),
	scheduled_start_time, duration_minutes, status, COALESCE(notes, ''),
	COALESCE(coverage_override_reason, ''), created_by_staff_id, created_at, updated_at`

func scanAppointment(row pgx.Row) (model.Appointment, error) {
	var a model.Appointment
	var mode, status string
	err := row.Scan(&a.ID, &a.ContactID, &a.ContactFirstName, &a.ContactLastName,
		&a.ContactEmail, &a.ContactPhone, &a.ContactAddress,
		&a.AppointmentTypeID, &a.AssignedStaffMemberID, &mode, &a.MeetingLink,
		&a.ScheduledStartTime, &a.DurationMinutes, &status, &a.Notes,
		&a.CoverageOverrideReason, &a.CreatedByStaffID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return model.Appointment{}, err
	}
	if a.Mode, err = model.ParseMode(mode); err != nil {
		return model.Appointment{}, err
	}
	if a.Status, err = model.ParseStatus(status); err != nil {
		return model.Appointment{}, err
	}
	a.ScheduledStartTime = a.ScheduledStartTime.UTC()
	return a, nil
}

func (r *Repository) GetAppointment(ctx context.Context, id int64) (model.Appointment, error) {
	appt, err := scanAppointment(r.q.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id))
	if err != nil {
		return model.Appointment{}, notFound(err, "appointment", id)
	}
	return appt, nil
}

func (r *Repository) InsertAppointment(ctx context.Context, appt *model.Appointment) error {
	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	_, err := r.q.Exec(ctx, `
		INSERT INTO appointments
			(id, contact_id, contact_first_name, contact_last_name, contact_email,
			contact_phone, contact_address, appointment_type_id, assigned_staff_member_id,
			mode, meeting_link, scheduled_start_time, duration_minutes, status, notes,
			coverage_override_reason, created_by_staff_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`, appt.ID, appt.ContactID, appt.ContactFirstName, appt.ContactLastName, appt.ContactEmail,
		appt.ContactPhone, appt.ContactAddress, appt.AppointmentTypeID, appt.AssignedStaffMemberID,
		appt.Mode.String(), appt.MeetingLink, appt.ScheduledStartTime, appt.DurationMinutes,
		appt.Status.String(), appt.Notes, appt.CoverageOverrideReason, appt.CreatedByStaffID,
		appt.CreatedAt, appt.UpdatedAt)
	return err
}

func (r *Repository) UpdateAppointment(ctx context.Context, appt *model.Appointment) error {
	appt.UpdatedAt = time.Now().UTC()
	tag, err := r.q.Exec(ctx, `
		UPDATE appointments
		SET contact_first_name = $2,
			contact_last_name = $3,
			contact_email = $4,
			contact_phone = $5,
			contact_address = $6,
			meeting_link = $7,
			scheduled_start_time = $8,
			duration_minutes = $9,
			status = $10,
			notes = $11,
			updated_at = $12
		WHERE id = $1
	`, appt.ID, appt.ContactFirstName, appt.ContactLastName, appt.ContactEmail,
		appt.ContactPhone, appt.ContactAddress, appt.MeetingLink, appt.ScheduledStartTime,
		appt.DurationMinutes, appt.Status.String(), appt.Notes, appt.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &scheduling.NotFoundError{Entity: "appointment", ID: appt.ID}
	}
	return nil
}

func (r *Repository) ListActiveAppointments(ctx context.Context, staffMemberID int64, from, to time.Time, excludeID int64) ([]model.Appointment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE assigned_staff_member_id = $1
			AND status IN ('scheduled', 'confirmed', 'in_progress')
			AND scheduled_start_time < $3
			AND scheduled_start_time + make_interval(mins => duration_minutes) > $2
			AND ($4 = 0 OR id <> $4)
		ORDER BY scheduled_start_time
	`, staffMemberID, from, to, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	return appts, rows.Err()
}

func (r *Repository) InsertHistory(ctx context.Context, h model.AppointmentHistory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO appointment_history
			(appointment_id, change_type, old_value, new_value, override_reason, changed_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, h.AppointmentID, string(h.ChangeType), h.OldValue, h.NewValue, h.OverrideReason, h.ChangedByUserID)
	return err
}

func (r *Repository) ListHistory(ctx context.Context, appointmentID int64) ([]model.AppointmentHistory, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, appointment_id, change_type, COALESCE(old_value, ''), COALESCE(new_value, ''),
			COALESCE(override_reason, ''), changed_by_user_id, created_at
		FROM appointment_history
		WHERE appointment_id = $1
		ORDER BY id
	`, appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.AppointmentHistory
	for rows.Next() {
		var h model.AppointmentHistory
		var changeType string
		if err := rows.Scan(&h.ID, &h.AppointmentID, &changeType, &h.OldValue, &h.NewValue,
			&h.OverrideReason, &h.ChangedByUserID, &h.CreatedAt); err != nil {
			return nil, err
		}
		h.ChangeType = model.ChangeType(changeType)
		entries = append(entries, h)
	}
	return entries, rows.Err()
}

func (r *Repository) GetBlockOut(ctx context.Context, id int64) (model.BlockOutTime, error) {
	var b model.BlockOutTime
	err := r.q.QueryRow(ctx, `
		SELECT id, staff_member_id, title, start_time_utc, end_time_utc, is_all_day, COALESCE(reason, '')
		FROM staff_block_out_times
		WHERE id = $1
	`, id).Scan(&b.ID, &b.StaffMemberID, &b.Title, &b.StartTimeUTC, &b.EndTimeUTC, &b.IsAllDay, &b.Reason)
	if err != nil {
		return model.BlockOutTime{}, notFound(err, "block-out time", id)
	}
	b.StartTimeUTC = b.StartTimeUTC.UTC()
	b.EndTimeUTC = b.EndTimeUTC.UTC()
	return b, nil
}

func (r *Repository) ListBlockOuts(ctx context.Context, staffMemberID int64, from, to time.Time) ([]model.BlockOutTime, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, staff_member_id, title, start_time_utc, end_time_utc, is_all_day, COALESCE(reason, '')
		FROM staff_block_out_times
		WHERE staff_member_id = $1
			AND start_time_utc < $3
			AND end_time_utc > $2
		ORDER BY start_time_utc
	`, staffMemberID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blockOuts []model.BlockOutTime
	for rows.Next() {
		var b model.BlockOutTime
		if err := rows.Scan(&b.ID, &b.StaffMemberID, &b.Title, &b.StartTimeUTC, &b.EndTimeUTC, &b.IsAllDay, &b.Reason); err != nil {
			return nil, err
		}
		b.StartTimeUTC = b.StartTimeUTC.UTC()
		b.EndTimeUTC = b.EndTimeUTC.UTC()
		blockOuts = append(blockOuts, b)
	}
	return blockOuts, rows.Err()
}

func (r *Repository) InsertBlockOut(ctx context.Context, b *model.BlockOutTime) error {
	return r.q.QueryRow(ctx, `
		INSERT INTO staff_block_out_times
			(staff_member_id, title, start_time_utc, end_time_utc, is_all_day, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, b.StaffMemberID, b.Title, b.StartTimeUTC, b.EndTimeUTC, b.IsAllDay, b.Reason).Scan(&b.ID)
}

func (r *Repository) UpdateBlockOut(ctx context.Context, b model.BlockOutTime) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE staff_block_out_times
		SET title = $2,
			start_time_utc = $3,
			end_time_utc = $4,
			is_all_day = $5,
			reason = $6
		WHERE id = $1
	`, b.ID, b.Title, b.StartTimeUTC, b.EndTimeUTC, b.IsAllDay, b.Reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &scheduling.NotFoundError{Entity: "block-out time", ID: b.ID}
	}
	return nil
}

func (r *Repository) DeleteBlockOut(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `
		DELETE FROM staff_block_out_times
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &scheduling.NotFoundError{Entity: "block-out time", ID: id}
	}
	return nil
}

func (r *Repository) AppendEvents(ctx context.Context, events []outbox.Event) error {
	traceparent, tracestate := otelx.TraceContextStrings(ctx)
	for _, evt := range events {
		_, err := r.q.Exec(ctx, `
			INSERT INTO outbox_events
				(event_id, aggregate_type, aggregate_id, event_type, payload, traceparent, tracestate)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.NewString(), evt.AggregateType, evt.AggregateID, evt.EventType, evt.Payload, traceparent, tracestate)
		if err != nil {
			return err
		}
	}
	return nil
}
