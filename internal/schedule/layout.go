package schedule

import (
	"time"

	"verdandi/internal/tz"
)

const (
	// MinutesPerDay is the fixed height of the rendered day grid. Wall-clock
	// positions are used even on DST days, so the grid is always 1440
	// minutes tall.
	MinutesPerDay = 1440

	// MinRenderMinutes keeps very short events tall enough to hit with a
	// pointer.
	MinRenderMinutes = 15
)

// Placement is an event positioned on one day's minute grid.
type Placement struct {
	Event         Event
	TopMinutes    int
	HeightMinutes int
	// ClippedTop / ClippedBottom mark events continuing from the previous
	// day or into the next one, so the renderer can show open edges.
	ClippedTop    bool
	ClippedBottom bool
}

// LayoutDay positions events on the local calendar day containing day.
// Events that do not touch the day are omitted; events with end <= start
// are discarded. Invariants: TopMinutes in [0, 1440) and
// TopMinutes+HeightMinutes <= 1440.
func LayoutDay(day time.Time, events []Event, loc *time.Location) []Placement {
	var placements []Placement

	for _, ev := range events {
		if !ev.End.After(ev.Start) {
			continue
		}

		p, ok := placeOn(day, ev, loc)
		if ok {
			placements = append(placements, p)
		}
	}

	return placements
}

func placeOn(day time.Time, ev Event, loc *time.Location) (Placement, bool) {
	startsOn := tz.SameDay(ev.Start, day, loc)

	// An end at exactly local midnight belongs to the previous day, so the
	// end's day membership is judged one millisecond earlier. That same
	// shift makes a midnight end render as 1440, not 0.
	endEdge := ev.End.Add(-time.Millisecond)
	endsOn := tz.SameDay(endEdge, day, loc)

	if !startsOn && !endsOn {
		// Only keep events spanning the entire day.
		if !(ev.Start.Before(tz.Midnight(day, loc)) && endEdge.After(tz.AddDays(tz.Midnight(day, loc), 1, loc))) {
			return Placement{}, false
		}
	}

	top := 0
	if startsOn {
		top = tz.MinuteOfDay(ev.Start, loc)
	}

	bottom := MinutesPerDay
	if endsOn {
		bottom = tz.MinuteOfDay(endEdge, loc) + 1
	}

	height := bottom - top
	if height < MinRenderMinutes {
		height = MinRenderMinutes
	}
	if top+height > MinutesPerDay {
		height = MinutesPerDay - top
	}
	if height <= 0 {
		return Placement{}, false
	}

	return Placement{
		Event:         ev,
		TopMinutes:    top,
		HeightMinutes: height,
		ClippedTop:    !startsOn,
		ClippedBottom: !endsOn,
	}, true
}
