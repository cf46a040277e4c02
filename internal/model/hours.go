package model

import (
	"fmt"
	"strings"
	"time"
)

// DayWindow is an open window on a single weekday, as "HH:mm" wall-clock
// strings in the organization's timezone.
type DayWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Minutes returns the window bounds as minutes since midnight.
func (w DayWindow) Minutes() (start, end int, err error) {
	start, err = parseClock(w.Start)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid window start: %w", err)
	}
	end, err = parseClock(w.End)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid window end: %w", err)
	}
	return start, end, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("expected HH:mm, got %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// WeeklyHours maps lowercase English weekday names to open windows. A missing
// day means closed (org hours) or no personal override (staff hours).
type WeeklyHours map[string]DayWindow

// WindowFor returns the window for the given weekday, if any.
func (h WeeklyHours) WindowFor(day time.Weekday) (DayWindow, bool) {
	if h == nil {
		return DayWindow{}, false
	}
	w, ok := h[strings.ToLower(day.String())]
	return w, ok
}
