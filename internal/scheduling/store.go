package scheduling

import (
	"context"
	"time"

	"github.com/oaklinehq/scheduler/internal/model"
	"github.com/oaklinehq/scheduler/internal/outbox"
)

// Store is the persistence collaborator. The pgx implementation lives in
// internal/storage; command tests use an in-memory fake.
//
// Entity lookups return *NotFoundError when no row matches.
type Store interface {
	// RunInTx runs fn against a transactional view of the store. Every
	// command executes inside exactly one transaction, so its conflict
	// check, state mutation, history rows and outbox events commit or roll
	// back as a unit.
	RunInTx(ctx context.Context, fn func(Store) error) error

	GetContact(ctx context.Context, id int64) (model.Contact, error)
	GetStaffMember(ctx context.Context, id int64) (model.StaffMember, error)
	GetStaffMemberByUserID(ctx context.Context, userID int64) (model.StaffMember, error)
	GetConfiguration(ctx context.Context) (model.Configuration, error)
	GetAppointmentType(ctx context.Context, id int64) (model.AppointmentType, error)
	IsStaffEligible(ctx context.Context, appointmentTypeID, staffMemberID int64) (bool, error)

	// NextAppointmentID returns max(id)+1 across all appointments,
	// starting at 1.
	NextAppointmentID(ctx context.Context) (int64, error)
	GetAppointment(ctx context.Context, id int64) (model.Appointment, error)
	InsertAppointment(ctx context.Context, appt *model.Appointment) error
	UpdateAppointment(ctx context.Context, appt *model.Appointment) error
	// ListActiveAppointments returns appointments for the staff member in
	// status scheduled, confirmed or in_progress whose [start, end)
	// interval overlaps [from, to). excludeID skips one appointment (0
	// skips none).
	ListActiveAppointments(ctx context.Context, staffMemberID int64, from, to time.Time, excludeID int64) ([]model.Appointment, error)

	InsertHistory(ctx context.Context, h model.AppointmentHistory) error
	ListHistory(ctx context.Context, appointmentID int64) ([]model.AppointmentHistory, error)

	GetBlockOut(ctx context.Context, id int64) (model.BlockOutTime, error)
	ListBlockOuts(ctx context.Context, staffMemberID int64, from, to time.Time) ([]model.BlockOutTime, error)
	InsertBlockOut(ctx context.Context, b *model.BlockOutTime) error
	UpdateBlockOut(ctx context.Context, b model.BlockOutTime) error
	DeleteBlockOut(ctx context.Context, id int64) error

	// AppendEvents writes domain events to the outbox within the current
	// transaction.
	AppendEvents(ctx context.Context, events []outbox.Event) error
}
