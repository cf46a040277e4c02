package availability

import (
	"time"

	"github.com/oaklinehq/scheduler/internal/model"
)

// DayWindow resolves the effective open window for one date: the intersection
// of the organization's hours with the staff member's own hours for that
// weekday, converted to UTC instants via the org timezone. A staff member with
// no entry for the weekday inherits the org window unmodified. The returned
// bool is false when the day is closed or the intersection is empty.
func DayWindow(date time.Time, orgHours, staffHours model.WeeklyHours, loc *time.Location) (start, end time.Time, ok bool) {
	localDate := date.In(loc)
	weekday := localDate.Weekday()

	orgWindow, open := orgHours.WindowFor(weekday)
	if !open {
		return time.Time{}, time.Time{}, false
	}
	orgStart, orgEnd, err := orgWindow.Minutes()
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	effStart, effEnd := orgStart, orgEnd
	if staffWindow, has := staffHours.WindowFor(weekday); has {
		staffStart, staffEnd, err := staffWindow.Minutes()
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		effStart = max(orgStart, staffStart)
		effEnd = min(orgEnd, staffEnd)
	}
	if effStart >= effEnd {
		return time.Time{}, time.Time{}, false
	}

	midnight := time.Date(localDate.Year(), localDate.Month(), localDate.Day(), 0, 0, 0, 0, loc)
	start = midnight.Add(time.Duration(effStart) * time.Minute).UTC()
	end = midnight.Add(time.Duration(effEnd) * time.Minute).UTC()
	return start, end, true
}
