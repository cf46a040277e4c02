package model

import (
	"fmt"
	"strings"
)

// Mode is the delivery mode of an appointment. ModeEither is only legal as an
// appointment type configuration; a concrete appointment is always resolved to
// virtual or in_person.
type Mode string

const (
	ModeVirtual  Mode = "virtual"
	ModeInPerson Mode = "in_person"
	ModeEither   Mode = "either"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeVirtual:
		return ModeVirtual, nil
	case ModeInPerson:
		return ModeInPerson, nil
	case ModeEither:
		return ModeEither, nil
	default:
		return "", fmt.Errorf("unsupported mode %q", s)
	}
}

func (m Mode) String() string { return string(m) }

// RequiresMeetingLink reports whether appointments in this mode need a
// resolvable meeting link.
func (m Mode) RequiresMeetingLink() bool { return m == ModeVirtual }

// RequiresCoverageCheck reports whether appointments in this mode are subject
// to coverage zone validation.
func (m Mode) RequiresCoverageCheck() bool { return m == ModeInPerson }

// ValidateRequestedMode checks a concrete requested mode against the mode
// configured on the appointment type.
func ValidateRequestedMode(typeMode, requested Mode) error {
	if requested == ModeEither {
		return fmt.Errorf("mode %q is not valid for an appointment", requested)
	}
	if typeMode == ModeEither {
		return nil
	}
	if requested != typeMode {
		return fmt.Errorf("appointment type requires mode %q", typeMode)
	}
	return nil
}
