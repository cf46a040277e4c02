// Package availability holds the pure interval math behind slot discovery and
// conflict checks. Nothing here touches storage or the clock.
package availability

import "time"

// Interval is a half-open [Start, End) time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect. Intervals that
// merely touch at a boundary do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Slot is a bookable candidate interval.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Slots slides a window of duration minutes across [dayStart, dayEnd),
// emitting every candidate that clears all blocked intervals. After a free
// candidate the cursor advances by duration+buffer so emitted slots never
// overlap each other; after a blocked candidate it advances by the buffer
// alone, so a slot opening right after a blocking interval is not skipped.
func Slots(dayStart, dayEnd time.Time, duration, buffer time.Duration, blocked []Interval) []Slot {
	if duration <= 0 || !dayEnd.After(dayStart) {
		return nil
	}

	// A zero buffer would stall the cursor on a blocked candidate.
	blockedStep := buffer
	if blockedStep <= 0 {
		blockedStep = time.Minute
	}

	var slots []Slot
	for t := dayStart; !t.Add(duration).After(dayEnd); {
		candidate := Interval{Start: t, End: t.Add(duration)}
		if overlapsAny(candidate, blocked) {
			t = t.Add(blockedStep)
			continue
		}
		slots = append(slots, Slot{Start: candidate.Start, End: candidate.End})
		t = t.Add(duration + buffer)
	}
	return slots
}

// Free reports whether the candidate interval clears every blocked interval.
// This is the raw conflict check: no buffer is applied here.
func Free(candidate Interval, blocked []Interval) bool {
	return !overlapsAny(candidate, blocked)
}

func overlapsAny(candidate Interval, blocked []Interval) bool {
	for _, b := range blocked {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

// Pad widens an interval by the buffer on both sides. Used to expand existing
// appointments into blocked intervals during slot discovery.
func Pad(iv Interval, buffer time.Duration) Interval {
	return Interval{Start: iv.Start.Add(-buffer), End: iv.End.Add(buffer)}
}
