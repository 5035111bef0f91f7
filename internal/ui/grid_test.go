package ui

import (
	"strings"
	"testing"
	"time"

	"verdandi/internal/schedule"
)

func TestHitTestMapsCellsToGrid(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.scrollMinutes = 8 * 60
	g := m.geometry()

	tests := []struct {
		name        string
		x, y        int
		wantDay     int
		wantMinutes int
		wantOK      bool
	}{
		{
			name:   "time gutter misses",
			x:      gutterWidth - 1,
			y:      g.top,
			wantOK: false,
		},
		{
			name:   "header row misses",
			x:      gutterWidth,
			y:      g.top - 1,
			wantOK: false,
		},
		{
			name:        "first cell",
			x:           gutterWidth,
			y:           g.top,
			wantDay:     0,
			wantMinutes: 8 * 60,
			wantOK:      true,
		},
		{
			name:        "third column two rows down",
			x:           gutterWidth + 2*g.colWidth + 1,
			y:           g.top + 2,
			wantDay:     2,
			wantMinutes: 9 * 60,
			wantOK:      true,
		},
		{
			name:   "below the grid misses",
			x:      gutterWidth,
			y:      g.top + g.rows,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, minutes, ok := m.hitTest(tt.x, tt.y)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if day != tt.wantDay || minutes != tt.wantMinutes {
				t.Errorf("hit = day %d minute %d, want day %d minute %d",
					day, minutes, tt.wantDay, tt.wantMinutes)
			}
		})
	}
}

func TestEventAtFindsBodyAndEdge(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	ev := testAppointment(m) // 10:00-11:00
	m.events = []schedule.Event{ev}

	if _, _, ok := m.eventAt(0, 9*60); ok {
		t.Error("hit before the event")
	}

	got, onEdge, ok := m.eventAt(0, 10*60)
	if !ok || got.ID != ev.ID {
		t.Fatalf("body hit = %v %v", got.ID, ok)
	}
	if onEdge {
		t.Error("first row reported as resize edge")
	}

	_, onEdge, ok = m.eventAt(0, 10*60+30)
	if !ok || !onEdge {
		t.Errorf("last row: ok=%v onEdge=%v, want resize edge", ok, onEdge)
	}

	if _, _, ok := m.eventAt(0, 11*60); ok {
		t.Error("hit at the exclusive end")
	}
}

func TestEventAtSingleRowIsNotEdge(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	ev := testAppointment(m)
	ev.End = ev.Start.Add(30 * time.Minute)
	ev.DurationMinutes = 30
	m.events = []schedule.Event{ev}

	// The event fills exactly one 30-minute row. Its body must hit as a
	// move grab, not a resize handle, or it could never be moved.
	_, onEdge, ok := m.eventAt(0, 10*60)
	if !ok {
		t.Fatal("single-row event not hit")
	}
	if onEdge {
		t.Error("single-row event body reported as resize edge")
	}
}

func TestEventAtPrefersTopmost(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	under := testAppointment(m)
	over := under
	over.ID = "block-late"
	over.BackingID = "late"
	over.Kind = schedule.KindBlock

	m.events = []schedule.Event{under, over}

	got, _, ok := m.eventAt(0, 10*60)
	if !ok || got.ID != "block-late" {
		t.Errorf("topmost = %q, want the later-sorted event", got.ID)
	}
}

func TestFollowCursorScrolls(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	rows := m.geometry().rows

	m.scrollMinutes = 8 * 60
	m.cursorMinutes = 7 * 60
	m.followCursor()
	if m.scrollMinutes != 7*60 {
		t.Errorf("scroll = %d after moving above, want %d", m.scrollMinutes, 7*60)
	}

	m.cursorMinutes = m.scrollMinutes + rows*m.increment
	m.followCursor()
	if bottom := m.scrollMinutes + (rows-1)*m.increment; bottom != m.cursorMinutes {
		t.Errorf("cursor %d not on bottom row %d", m.cursorMinutes, bottom)
	}
}

func TestZoomStepsAndRealigns(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.increment = 30
	m.cursorMinutes = 10*60 + 30

	m.zoom(1)
	if m.increment != 60 {
		t.Fatalf("increment = %d, want 60", m.increment)
	}
	if m.cursorMinutes%60 != 0 {
		t.Errorf("cursor %d not aligned to 60", m.cursorMinutes)
	}

	m.zoom(-1)
	m.zoom(-1)
	if m.increment != 15 {
		t.Fatalf("increment = %d, want 15", m.increment)
	}
	m.zoom(-1)
	if m.increment != 15 {
		t.Error("zoom past the finest step")
	}
}

func TestGridViewRendersEvents(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.workingConfigs = workingNineToFive()
	m.events = []schedule.Event{testAppointment(m)}
	m.scrollMinutes = 9 * 60

	out := m.viewGrid()
	// Columns are narrow, so only the truncated prefix is guaranteed.
	if !strings.Contains(out, "Dana:") {
		t.Error("event title missing from grid")
	}
	if !strings.Contains(out, "10:00") {
		t.Error("time gutter missing")
	}
	if !strings.Contains(out, "Week of 2025-06-02") {
		t.Error("title line missing week start")
	}
}

func TestStatusLineShowsBlockedMinutes(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	ev := testAppointment(m)
	block := ev
	block.ID = schedule.BlockID("b1")
	block.BackingID = "b1"
	block.Kind = schedule.KindBlock
	block.End = block.Start.Add(90 * time.Minute)
	m.events = []schedule.Event{ev, block}

	out := m.statusLine()
	if !strings.Contains(out, "1h30m blocked") {
		t.Errorf("status = %q, want blocked total", out)
	}
}

func TestConfirmLineWarnsOutsideHours(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.workingConfigs = workingNineToFive()
	ev := testAppointment(m)

	newStart := ev.Start.Add(9 * time.Hour) // 19:00
	m.pending = m.newPendingChange(ChangeMove, ev, newStart, newStart.Add(time.Hour))

	out := m.confirmLine()
	if !strings.Contains(out, "outside working hours") {
		t.Errorf("confirm line = %q, want warning", out)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h"},
		{90, "1h30m"},
		{150, "2h30m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.minutes); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
