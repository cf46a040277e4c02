package model

import "fmt"

// Status is the lifecycle state of an appointment. Transitions only ever move
// forward; there is no path back to an earlier state.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// ParseStatus validates a raw status string. Unknown values fail closed.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unsupported status %q", s)
	}
}

func (s Status) String() string { return string(s) }

// IsActive reports whether the appointment still occupies its slot.
func (s Status) IsActive() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the appointment is closed for editing. Note that
// completed is deliberately not terminal: it permits no further transitions,
// but completed appointments remain editable.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusNoShow
}

// CanTransitionTo reports whether the status graph permits moving to target.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusScheduled:
		return target == StatusConfirmed || target == StatusCancelled || target == StatusNoShow
	case StatusConfirmed:
		return target == StatusInProgress || target == StatusCancelled || target == StatusNoShow
	case StatusInProgress:
		return target == StatusCompleted || target == StatusCancelled || target == StatusNoShow
	default:
		return false
	}
}
