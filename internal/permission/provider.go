// Package permission gates every scheduling mutation: the acting user must be
// an active scheduler staff member.
package permission

import (
	"context"
	"errors"

	"github.com/oaklinehq/scheduler/internal/model"
	"github.com/oaklinehq/scheduler/internal/scheduling"
)

type Provider interface {
	// RequireSchedulerStaff resolves the authenticated user to an active
	// staff member, or fails with a ForbiddenError.
	RequireSchedulerStaff(ctx context.Context) (model.StaffMember, error)
}

// StaffDirectory is the lookup the default provider needs; satisfied by
// storage.Repository.
type StaffDirectory interface {
	GetStaffMemberByUserID(ctx context.Context, userID int64) (model.StaffMember, error)
}

type storeProvider struct {
	directory StaffDirectory
}

// NewStoreProvider returns a Provider that resolves staff membership from the
// service's own database.
func NewStoreProvider(directory StaffDirectory) Provider {
	return &storeProvider{directory: directory}
}

func (p *storeProvider) RequireSchedulerStaff(ctx context.Context) (model.StaffMember, error) {
	userID := UserIDFromContext(ctx)
	if userID == 0 {
		return model.StaffMember{}, &scheduling.ForbiddenError{Msg: "authentication required"}
	}
	staff, err := p.directory.GetStaffMemberByUserID(ctx, userID)
	if err != nil {
		var nf *scheduling.NotFoundError
		if errors.As(err, &nf) {
			return model.StaffMember{}, &scheduling.ForbiddenError{Msg: "user is not scheduler staff"}
		}
		return model.StaffMember{}, err
	}
	if !staff.IsActive {
		return model.StaffMember{}, &scheduling.ForbiddenError{Msg: "staff member is inactive"}
	}
	return staff, nil
}

type ctxKey int

const ctxKeyUserID ctxKey = iota

// ContextWithUserID stamps the authenticated user id on the context; the auth
// middleware calls this after verifying the request JWT.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, userID)
}

func UserIDFromContext(ctx context.Context) int64 {
	v, _ := ctx.Value(ctxKeyUserID).(int64)
	return v
}
