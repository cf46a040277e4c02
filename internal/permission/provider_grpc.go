//go:build protogen

package permission

import (
	"context"
	"log/slog"
	"time"

	directoryv1 "github.com/oaklinehq/scheduler/protos/gen/directory/v1"

	"github.com/oaklinehq/scheduler/internal/model"
	"github.com/oaklinehq/scheduler/internal/scheduling"
	"github.com/oaklinehq/scheduler/libs/grpcx"
)

type grpcProvider struct {
	client directoryv1.StaffDirectoryClient
}

// NewDirectoryProvider resolves staff membership from the staff directory
// service. Falls back to the given local provider when the directory is
// unreachable at startup.
func NewDirectoryProvider(logger *slog.Logger, fallback Provider, addr string) Provider {
	if addr == "" {
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := grpcx.Dial(ctx, addr, grpcx.DialOptions{Timeout: 5 * time.Second})
	if err != nil {
		logger.Warn("staff directory unavailable, using local provider", "err", err)
		return fallback
	}
	logger.Info("staff directory provider enabled", "addr", addr)
	return &grpcProvider{client: directoryv1.NewStaffDirectoryClient(conn)}
}

func (p *grpcProvider) RequireSchedulerStaff(ctx context.Context) (model.StaffMember, error) {
	userID := UserIDFromContext(ctx)
	if userID == 0 {
		return model.StaffMember{}, &scheduling.ForbiddenError{Msg: "authentication required"}
	}
	resp, err := p.client.GetStaffMember(ctx, &directoryv1.StaffMemberRequest{UserId: userID})
	if err != nil {
		return model.StaffMember{}, err
	}
	if !resp.GetIsActive() {
		return model.StaffMember{}, &scheduling.ForbiddenError{Msg: "staff member is inactive"}
	}
	return model.StaffMember{
		ID:                       resp.GetStaffMemberId(),
		UserID:                   userID,
		IsActive:                 true,
		DefaultMeetingLink:       resp.GetDefaultMeetingLink(),
		CanManageOthersCalendars: resp.GetCanManageOthersCalendars(),
	}, nil
}
