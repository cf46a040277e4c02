package scheduling

import (
	"context"
	"strings"
	"time"

	"github.com/oaklinehq/scheduler/internal/model"
)

const maxBlockOutTitleLen = 250

type BlockOutRequest struct {
	ID            int64 // ignored on create
	StaffMemberID int64 // ignored on update/delete (owner comes from the row)
	Title         string
	StartTimeUTC  time.Time
	EndTimeUTC    time.Time
	IsAllDay      bool
	Reason        string
	Actor         model.StaffMember
}

// CreateBlockOut adds an unavailable window to a staff calendar. Staff manage
// their own calendars freely; touching another calendar requires the
// manage-others capability. Block-outs carry no history trail.
func (s *Service) CreateBlockOut(ctx context.Context, req BlockOutRequest) (model.BlockOutTime, error) {
	if err := validateBlockOutFields(req); err != nil {
		return model.BlockOutTime{}, err
	}
	if err := authorizeCalendarEdit(req.Actor, req.StaffMemberID); err != nil {
		return model.BlockOutTime{}, err
	}

	var blockOut model.BlockOutTime
	err := s.store.RunInTx(ctx, func(tx Store) error {
		staff, err := tx.GetStaffMember(ctx, req.StaffMemberID)
		if err != nil {
			return err
		}
		if !staff.IsActive {
			return validationf("staff member %d is inactive", staff.ID)
		}

		blockOut = model.BlockOutTime{
			StaffMemberID: staff.ID,
			Title:         strings.TrimSpace(req.Title),
			StartTimeUTC:  req.StartTimeUTC.UTC(),
			EndTimeUTC:    req.EndTimeUTC.UTC(),
			IsAllDay:      req.IsAllDay,
			Reason:        req.Reason,
		}
		return tx.InsertBlockOut(ctx, &blockOut)
	})
	if err != nil {
		return model.BlockOutTime{}, err
	}
	return blockOut, nil
}

func (s *Service) UpdateBlockOut(ctx context.Context, req BlockOutRequest) (model.BlockOutTime, error) {
	if err := validateBlockOutFields(req); err != nil {
		return model.BlockOutTime{}, err
	}

	var blockOut model.BlockOutTime
	err := s.store.RunInTx(ctx, func(tx Store) error {
		existing, err := tx.GetBlockOut(ctx, req.ID)
		if err != nil {
			return err
		}
		if err := authorizeCalendarEdit(req.Actor, existing.StaffMemberID); err != nil {
			return err
		}

		existing.Title = strings.TrimSpace(req.Title)
		existing.StartTimeUTC = req.StartTimeUTC.UTC()
		existing.EndTimeUTC = req.EndTimeUTC.UTC()
		existing.IsAllDay = req.IsAllDay
		existing.Reason = req.Reason
		blockOut = existing
		return tx.UpdateBlockOut(ctx, existing)
	})
	if err != nil {
		return model.BlockOutTime{}, err
	}
	return blockOut, nil
}

func (s *Service) DeleteBlockOut(ctx context.Context, id int64, actor model.StaffMember) error {
	return s.store.RunInTx(ctx, func(tx Store) error {
		existing, err := tx.GetBlockOut(ctx, id)
		if err != nil {
			return err
		}
		if err := authorizeCalendarEdit(actor, existing.StaffMemberID); err != nil {
			return err
		}
		return tx.DeleteBlockOut(ctx, id)
	})
}

func validateBlockOutFields(req BlockOutRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return validationf("title is required")
	}
	if len(title) > maxBlockOutTitleLen {
		return validationf("title must be at most %d characters", maxBlockOutTitleLen)
	}
	if !req.EndTimeUTC.After(req.StartTimeUTC) {
		return validationf("end time must be after start time")
	}
	return nil
}

func authorizeCalendarEdit(actor model.StaffMember, ownerStaffID int64) error {
	if actor.ID == ownerStaffID || actor.CanManageOthersCalendars {
		return nil
	}
	return &ForbiddenError{Msg: "not allowed to manage another staff member's calendar"}
}
