// Package coverage validates a contact's postal zone against the zones a
// staff member serves for in-person appointments.
package coverage

import (
	"fmt"
	"strings"
)

// Result reports whether a coverage check passed and, when it did not, a
// human-readable warning. A failed check is a soft block: callers may proceed
// with an override reason.
type Result struct {
	Valid   bool
	Warning string
}

// Check compares the contact's postal code against the applicable zone list:
// the staff member's own zones when non-empty, else the organization default.
// No postal code on the contact, or no zones configured anywhere, passes
// trivially.
func Check(contactZipcode string, staffZones, defaultZones []string) Result {
	zip := strings.TrimSpace(contactZipcode)
	if zip == "" {
		return Result{Valid: true}
	}

	zones := staffZones
	if len(zones) == 0 {
		zones = defaultZones
	}
	if len(zones) == 0 {
		return Result{Valid: true}
	}

	for _, z := range zones {
		if strings.EqualFold(strings.TrimSpace(z), zip) {
			return Result{Valid: true}
		}
	}
	return Result{
		Valid:   false,
		Warning: fmt.Sprintf("contact zipcode %s is outside the configured coverage zones", zip),
	}
}
