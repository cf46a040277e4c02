// Package scheduling implements the appointment scheduling engine: slot
// discovery, conflict checks, and validate-then-execute lifecycle commands.
// All persistence goes through the Store collaborator; every command runs in a
// single transaction.
package scheduling

import (
	"log/slog"
	"time"
)

type Service struct {
	store  Store
	logger *slog.Logger
	// now returns the current UTC instant; overridable in tests.
	now func() time.Time
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}
