// Package schedulingtest provides an in-memory scheduling.Store for
// exercising commands and handlers without a database.
package schedulingtest

import (
	"context"
	"slices"
	"time"

	"github.com/oaklinehq/scheduler/internal/model"
	"github.com/oaklinehq/scheduler/internal/outbox"
	"github.com/oaklinehq/scheduler/internal/scheduling"
)

// Store keeps everything in maps and slices. It is not safe for concurrent
// use, and RunInTx offers no rollback; tests assert on final state only.
type Store struct {
	Contacts     map[int64]model.Contact
	Staff        map[int64]model.StaffMember
	Config       model.Configuration
	HasConfig    bool
	Types        map[int64]model.AppointmentType
	Eligible     map[int64][]int64 // appointment type id -> eligible staff ids
	Appointments map[int64]model.Appointment
	History      []model.AppointmentHistory
	BlockOuts    map[int64]model.BlockOutTime
	Events       []outbox.Event

	nextBlockOutID int64
	nextHistoryID  int64
}

func New() *Store {
	return &Store{
		Contacts:     map[int64]model.Contact{},
		Staff:        map[int64]model.StaffMember{},
		Types:        map[int64]model.AppointmentType{},
		Eligible:     map[int64][]int64{},
		Appointments: map[int64]model.Appointment{},
		BlockOuts:    map[int64]model.BlockOutTime{},
	}
}

var _ scheduling.Store = (*Store)(nil)

func (s *Store) RunInTx(ctx context.Context, fn func(scheduling.Store) error) error {
	return fn(s)
}

func (s *Store) GetContact(ctx context.Context, id int64) (model.Contact, error) {
	c, ok := s.Contacts[id]
	if !ok {
		return model.Contact{}, &scheduling.NotFoundError{Entity: "contact", ID: id}
	}
	return c, nil
}

func (s *Store) GetStaffMember(ctx context.Context, id int64) (model.StaffMember, error) {
	sm, ok := s.Staff[id]
	if !ok {
		return model.StaffMember{}, &scheduling.NotFoundError{Entity: "staff member", ID: id}
	}
	return sm, nil
}

func (s *Store) GetStaffMemberByUserID(ctx context.Context, userID int64) (model.StaffMember, error) {
	for _, sm := range s.Staff {
		if sm.UserID == userID {
			return sm, nil
		}
	}
	return model.StaffMember{}, &scheduling.NotFoundError{Entity: "staff member for user", ID: userID}
}

func (s *Store) GetConfiguration(ctx context.Context) (model.Configuration, error) {
	if !s.HasConfig {
		return model.Configuration{}, &scheduling.NotFoundError{Entity: "scheduler configuration", ID: 0}
	}
	return s.Config, nil
}

func (s *Store) GetAppointmentType(ctx context.Context, id int64) (model.AppointmentType, error) {
	at, ok := s.Types[id]
	if !ok {
		return model.AppointmentType{}, &scheduling.NotFoundError{Entity: "appointment type", ID: id}
	}
	return at, nil
}

func (s *Store) IsStaffEligible(ctx context.Context, appointmentTypeID, staffMemberID int64) (bool, error) {
	return slices.Contains(s.Eligible[appointmentTypeID], staffMemberID), nil
}

func (s *Store) NextAppointmentID(ctx context.Context) (int64, error) {
	var max int64
	for id := range s.Appointments {
		if id > max {
			max = id
		}
	}
	return max + 1, nil
}

func (s *Store) GetAppointment(ctx context.Context, id int64) (model.Appointment, error) {
	a, ok := s.Appointments[id]
	if !ok {
		return model.Appointment{}, &scheduling.NotFoundError{Entity: "appointment", ID: id}
	}
	return a, nil
}

func (s *Store) InsertAppointment(ctx context.Context, appt *model.Appointment) error {
	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	s.Appointments[appt.ID] = *appt
	return nil
}

func (s *Store) UpdateAppointment(ctx context.Context, appt *model.Appointment) error {
	if _, ok := s.Appointments[appt.ID]; !ok {
		return &scheduling.NotFoundError{Entity: "appointment", ID: appt.ID}
	}
	appt.UpdatedAt = time.Now().UTC()
	s.Appointments[appt.ID] = *appt
	return nil
}

func (s *Store) ListActiveAppointments(ctx context.Context, staffMemberID int64, from, to time.Time, excludeID int64) ([]model.Appointment, error) {
	var out []model.Appointment
	for _, a := range s.Appointments {
		if a.AssignedStaffMemberID != staffMemberID || !a.Status.IsActive() {
			continue
		}
		if excludeID != 0 && a.ID == excludeID {
			continue
		}
		if a.ScheduledStartTime.Before(to) && a.EndTime().After(from) {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b model.Appointment) int {
		return a.ScheduledStartTime.Compare(b.ScheduledStartTime)
	})
	return out, nil
}

func (s *Store) InsertHistory(ctx context.Context, h model.AppointmentHistory) error {
	s.nextHistoryID++
	h.ID = s.nextHistoryID
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	s.History = append(s.History, h)
	return nil
}

func (s *Store) ListHistory(ctx context.Context, appointmentID int64) ([]model.AppointmentHistory, error) {
	var out []model.AppointmentHistory
	for _, h := range s.History {
		if h.AppointmentID == appointmentID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *Store) GetBlockOut(ctx context.Context, id int64) (model.BlockOutTime, error) {
	b, ok := s.BlockOuts[id]
	if !ok {
		return model.BlockOutTime{}, &scheduling.NotFoundError{Entity: "block-out time", ID: id}
	}
	return b, nil
}

func (s *Store) ListBlockOuts(ctx context.Context, staffMemberID int64, from, to time.Time) ([]model.BlockOutTime, error) {
	var out []model.BlockOutTime
	for _, b := range s.BlockOuts {
		if b.StaffMemberID != staffMemberID {
			continue
		}
		if b.StartTimeUTC.Before(to) && b.EndTimeUTC.After(from) {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b model.BlockOutTime) int {
		return a.StartTimeUTC.Compare(b.StartTimeUTC)
	})
	return out, nil
}

func (s *Store) InsertBlockOut(ctx context.Context, b *model.BlockOutTime) error {
	s.nextBlockOutID++
	b.ID = s.nextBlockOutID
	s.BlockOuts[b.ID] = *b
	return nil
}

func (s *Store) UpdateBlockOut(ctx context.Context, b model.BlockOutTime) error {
	if _, ok := s.BlockOuts[b.ID]; !ok {
		return &scheduling.NotFoundError{Entity: "block-out time", ID: b.ID}
	}
	s.BlockOuts[b.ID] = b
	return nil
}

func (s *Store) DeleteBlockOut(ctx context.Context, id int64) error {
	if _, ok := s.BlockOuts[id]; !ok {
		return &scheduling.NotFoundError{Entity: "block-out time", ID: id}
	}
	delete(s.BlockOuts, id)
	return nil
}

func (s *Store) AppendEvents(ctx context.Context, events []outbox.Event) error {
	s.Events = append(s.Events, events...)
	return nil
}
