package model

import "time"

// StaffMember is a user enrolled as scheduler staff.
type StaffMember struct {
	ID                       int64
	UserID                   int64
	IsActive                 bool
	DefaultMeetingLink       string
	Availability             WeeklyHours // nil or missing days fall back to org hours
	CoverageZones            []string    // empty means inherit the org default list
	CanManageOthersCalendars bool
}

// BlockOutTime is a window during which a staff member takes no appointments.
// Block-outs have no history trail and may be hard deleted.
type BlockOutTime struct {
	ID            int64
	StaffMemberID int64
	Title         string
	StartTimeUTC  time.Time
	EndTimeUTC    time.Time
	IsAllDay      bool
	Reason        string
}

// Configuration is the org-wide scheduler settings row, read fresh per
// operation and treated as an immutable snapshot.
type Configuration struct {
	AvailableHours             WeeklyHours
	Timezone                   string
	DefaultDurationMinutes     int
	DefaultBufferTimeMinutes   int
	MinCancellationNoticeHours int
	DefaultCoverageZones       []string
}

// AppointmentType configures a bookable service. Duration and buffer overrides
// are independent; a nil value inherits the org default.
type AppointmentType struct {
	ID                     int64
	Name                   string
	Mode                   Mode
	DefaultDurationMinutes *int
	BufferTimeMinutes      *int
	IsActive               bool
}

// Contact is the read-only view of a contact record used for snapshotting and
// coverage checks.
type Contact struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	Zipcode   string
}
