package schedule

import (
	"time"

	"verdandi/internal/tz"
)

// ViewMode selects the visible granularity.
type ViewMode int

const (
	ViewDay ViewMode = iota
	ViewWeek
	ViewMonth
)

func (v ViewMode) String() string {
	switch v {
	case ViewDay:
		return "day"
	case ViewWeek:
		return "week"
	case ViewMonth:
		return "month"
	default:
		return "unknown"
	}
}

// ViewRange is a half-open [From, To) range of UTC instants aligned to
// zone-local midnight boundaries.
type ViewRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether instant falls inside the range.
func (r ViewRange) Contains(instant time.Time) bool {
	return !instant.Before(r.From) && instant.Before(r.To)
}

// RangeFor computes the fetch/display range for a view anchored at focus.
// Day: the local day containing focus. Week: 7 days from the week-start day
// containing focus. Month: a fixed 42-day grid from the week-start day
// containing the 1st of the focus month, so the render grid never changes
// shape. All boundaries resolve through wall-clock parts, never by adding
// fixed offsets to instants.
func RangeFor(mode ViewMode, focus time.Time, loc *time.Location, weekStart time.Weekday) ViewRange {
	switch mode {
	case ViewWeek:
		from := startOfWeek(focus, loc, weekStart)
		return ViewRange{From: from, To: tz.AddDays(from, 7, loc)}
	case ViewMonth:
		p := tz.PartsOf(focus, loc)
		first := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc).UTC()
		from := startOfWeek(first, loc, weekStart)
		return ViewRange{From: from, To: tz.AddDays(from, 42, loc)}
	default:
		from := tz.Midnight(focus, loc)
		return ViewRange{From: from, To: tz.AddDays(from, 1, loc)}
	}
}

// startOfWeek returns local midnight of the week-start day containing
// instant.
func startOfWeek(instant time.Time, loc *time.Location, weekStart time.Weekday) time.Time {
	back := int(tz.Weekday(instant, loc) - weekStart)
	if back < 0 {
		back += 7
	}
	return tz.Midnight(tz.AddDays(instant, -back, loc), loc)
}

// DaysIn lists local midnight instants for every day of the range.
func (r ViewRange) DaysIn(loc *time.Location) []time.Time {
	var days []time.Time
	for d := r.From; d.Before(r.To); d = tz.AddDays(d, 1, loc) {
		days = append(days, d)
	}
	return days
}
