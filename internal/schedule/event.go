// Package schedule holds the pure calendar math: view ranges, working-hour
// windows, day layout and snapping. Everything here takes an explicit
// *time.Location; nothing reads ambient timezone state.
package schedule

import (
	"sort"
	"strings"
	"time"

	"verdandi/internal/tz"
)

// Kind distinguishes a client appointment from a personal time block. The
// two share one event shape so layout and gesture code stay uniform, but
// they persist through different backend endpoints.
type Kind int

const (
	KindAppointment Kind = iota
	KindBlock
)

// Status is presentation-only; layout math ignores it.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// blockIDPrefix marks block events so the two entity kinds can never
// collide in one event list.
const blockIDPrefix = "block-"

// Event is a single positionable calendar entry in UTC.
type Event struct {
	ID         string
	BackingID  string // id used for persistence calls
	Kind       Kind
	Start      time.Time
	End        time.Time
	Title      string
	ClientName string
	Status     Status
	// DurationMinutes is the explicit service duration; 0 means derive
	// from End-Start.
	DurationMinutes int
}

// Duration returns the event's duration in minutes, deriving it from the
// instants when no explicit duration is set.
func (e Event) Duration() int {
	if e.DurationMinutes > 0 {
		return e.DurationMinutes
	}
	return int(e.End.Sub(e.Start).Minutes())
}

// BlockID builds the display id for a block from its backing id.
func BlockID(backingID string) string {
	return blockIDPrefix + backingID
}

// BlockBackingID extracts the persistence id from a block's display id.
func BlockBackingID(id string) string {
	return strings.TrimPrefix(id, blockIDPrefix)
}

// IsBlockID reports whether id names a block rather than an appointment.
func IsBlockID(id string) bool {
	return strings.HasPrefix(id, blockIDPrefix)
}

// MergeSorted combines appointment and block events into one list sorted by
// start instant, with ID as the tiebreaker for stable ordering.
func MergeSorted(appointments, blocks []Event) []Event {
	merged := make([]Event, 0, len(appointments)+len(blocks))
	merged = append(merged, appointments...)
	merged = append(merged, blocks...)

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].Start.Equal(merged[j].Start) {
			return merged[i].Start.Before(merged[j].Start)
		}
		return merged[i].ID < merged[j].ID
	})

	return merged
}

// BlockedMinutesOn totals the minutes of block events overlapping the local
// calendar day containing day, clipped to that day. Feeds the status-bar
// stat, so real durations are used, not render heights.
func BlockedMinutesOn(events []Event, day time.Time, loc *time.Location) int {
	dayStart := tz.Midnight(day, loc)
	dayEnd := tz.AddDays(dayStart, 1, loc)

	total := 0
	for _, ev := range events {
		if ev.Kind != KindBlock || !ev.End.After(ev.Start) {
			continue
		}
		start, end := ev.Start, ev.End
		if start.Before(dayStart) {
			start = dayStart
		}
		if end.After(dayEnd) {
			end = dayEnd
		}
		if end.After(start) {
			total += int(end.Sub(start).Minutes())
		}
	}
	return total
}
