package scheduling

import "fmt"

// NotFoundError signals that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ValidationError is a business-rule violation discovered before any write.
// The operation performed zero side effects.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError is an invariant violation discovered during execution, after
// validation passed — typically a concurrent mutation of the same aggregate.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// ForbiddenError signals a failed permission or calendar-ownership check.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string { return e.Msg }

// UnsupportedValueError is an unknown enum value (status, mode) in the
// request. Treated as a programming or data error; the operation fails closed.
type UnsupportedValueError struct {
	Kind  string
	Value string
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("unsupported %s %q", e.Kind, e.Value)
}
