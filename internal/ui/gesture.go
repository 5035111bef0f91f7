package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"verdandi/internal/schedule"
	"verdandi/internal/tz"
)

// clickSuppress is how long click actions are ignored after a drag ends,
// so the release of a drag never doubles as a click.
const clickSuppress = 250 * time.Millisecond

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureMove
	gestureResize
	gestureCreate
)

// gestureState tracks one in-progress mouse gesture. Only one gesture can
// be active at a time; presses while a change awaits confirmation are
// refused.
type gestureState struct {
	kind     gestureKind
	eventID  string
	original schedule.Event

	// anchor is where the press happened; day/minutes track the pointer.
	anchorDay     int
	anchorMinutes int
	day           int
	minutes       int

	// grabOffset keeps the grab point stable while moving: minutes from
	// the event's start to the pressed row.
	grabOffset int

	moved bool
}

type ChangeKind int

const (
	ChangeMove ChangeKind = iota
	ChangeResize
)

type TargetKind int

const (
	TargetBooking TargetKind = iota
	TargetBlock
)

// PendingChange is a drag result awaiting confirmation. Original is a full
// snapshot of the event before the gesture, so cancel and failed saves
// restore it exactly.
type PendingChange struct {
	Kind      ChangeKind
	Target    TargetKind
	EventID   string
	BackingID string
	NewStart  time.Time
	NewEnd    time.Time
	Original  schedule.Event

	// OutsideHours flags a drop outside every working window of the day,
	// shown as a warning in the confirm prompt.
	OutsideHours bool
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.screen != ScreenGrid {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollBy(-m.increment)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.scrollBy(m.increment)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			return m.mousePress(msg.X, msg.Y)
		}
	case tea.MouseActionMotion:
		return m.mouseMotion(msg.X, msg.Y)
	case tea.MouseActionRelease:
		return m.mouseRelease()
	}
	return m, nil
}

func (m *Model) mousePress(x, y int) (tea.Model, tea.Cmd) {
	// One gesture at a time. A press mid-gesture would snapshot the
	// live-patched event as its original, poisoning the rollback.
	if m.gesture.kind != gestureNone || m.pending != nil || m.applying {
		return m, nil
	}

	day, minutes, ok := m.hitTest(x, y)
	if !ok {
		return m, nil
	}

	ev, onEdge, found := m.eventAt(day, minutes)
	if !found {
		m.gesture = gestureState{
			kind:          gestureCreate,
			anchorDay:     day,
			anchorMinutes: schedule.Snap(minutes),
			day:           day,
			minutes:       minutes,
		}
		return m, nil
	}

	g := gestureState{
		eventID:       ev.ID,
		original:      ev,
		anchorDay:     day,
		anchorMinutes: minutes,
		day:           day,
		minutes:       minutes,
	}
	if onEdge {
		g.kind = gestureResize
	} else {
		g.kind = gestureMove
		g.grabOffset = minutes - tz.MinuteOfDay(ev.Start, m.loc)
	}
	m.gesture = g
	return m, nil
}

func (m *Model) mouseMotion(x, y int) (tea.Model, tea.Cmd) {
	if m.gesture.kind == gestureNone {
		return m, nil
	}

	day, minutes, ok := m.hitTest(x, y)
	if !ok {
		return m, nil
	}
	if day != m.gesture.day || minutes != m.gesture.minutes {
		m.gesture.moved = true
	}
	m.gesture.day = day
	m.gesture.minutes = minutes

	if m.gesture.kind == gestureResize {
		// Resize gives live feedback: the event's end is written
		// optimistically on every motion and reverted on a no-op release.
		start, end := m.resizeCandidate()
		m.patchEvent(m.gesture.eventID, func(ev *schedule.Event) {
			ev.Start = start
			ev.End = end
		})
	}
	return m, nil
}

func (m *Model) mouseRelease() (tea.Model, tea.Cmd) {
	g := m.gesture
	m.gesture = gestureState{}

	switch g.kind {
	case gestureMove:
		return m.finishMove(g)
	case gestureResize:
		return m.finishResize(g)
	case gestureCreate:
		return m.finishCreate(g)
	}
	return m, nil
}

func (m *Model) finishMove(g gestureState) (tea.Model, tea.Cmd) {
	start, end := moveCandidate(g, m.days(), m.loc)

	if !g.moved || start.Equal(g.original.Start) {
		// A press-and-release in place is a click: select the event,
		// unless a just-finished drag is still suppressing clicks.
		if m.now().Before(m.suppressClickUntil) {
			return m, nil
		}
		m.detailEventID = g.eventID
		return m, nil
	}
	m.suppressClickUntil = m.now().Add(clickSuppress)

	// Moves write optimistically on drop, so the grid shows the result
	// while the confirm prompt is up.
	m.patchEvent(g.eventID, func(ev *schedule.Event) {
		ev.Start = start
		ev.End = end
	})
	m.pending = m.newPendingChange(ChangeMove, g.original, start, end)
	return m, nil
}

func (m *Model) finishResize(g gestureState) (tea.Model, tea.Cmd) {
	ev, ok := m.eventByID(g.eventID)
	if !ok {
		return m, nil
	}

	if ev.End.Equal(g.original.End) {
		// Duration unchanged: silently revert the live edits, no prompt.
		m.rollbackTo(g.original)
		return m, nil
	}
	m.suppressClickUntil = m.now().Add(clickSuppress)

	m.pending = m.newPendingChange(ChangeResize, g.original, ev.Start, ev.End)
	return m, nil
}

func (m *Model) finishCreate(g gestureState) (tea.Model, tea.Cmd) {
	days := m.days()
	if g.anchorDay < 0 || g.anchorDay >= len(days) {
		return m, nil
	}

	startMin := g.anchorMinutes
	endMin := schedule.Snap(g.minutes) + m.increment
	if endMin <= startMin {
		endMin = startMin + m.increment
	}
	duration := schedule.ClampDuration(endMin - startMin)

	if !g.moved && m.now().Before(m.suppressClickUntil) {
		return m, nil
	}
	if g.moved {
		m.suppressClickUntil = m.now().Add(clickSuppress)
	}

	m.openEditor(tz.AtMinutes(days[g.anchorDay], startMin, m.loc), duration)
	return m, nil
}

// moveCandidate resolves the dragged event's new start/end for the pointer
// position. The snapped minute-of-day is re-resolved in the calendar zone,
// and the real duration is preserved.
func moveCandidate(g gestureState, days []time.Time, loc *time.Location) (time.Time, time.Time) {
	day := g.day
	if day < 0 {
		day = 0
	}
	if day >= len(days) {
		day = len(days) - 1
	}

	startMin := schedule.Snap(g.minutes - g.grabOffset)
	start := tz.AtMinutes(days[day], startMin, loc)
	return start, start.Add(time.Duration(g.original.Duration()) * time.Minute)
}

// resizeCandidate computes the live end for the active resize gesture. The
// start never moves; the end lands on the bottom of the hovered row,
// clamped to the allowed duration range.
func (m *Model) resizeCandidate() (time.Time, time.Time) {
	g := m.gesture
	startMin := tz.MinuteOfDay(g.original.Start, m.loc)
	endMin := schedule.Snap(g.minutes + m.increment)
	duration := schedule.ClampDuration(endMin - startMin)
	return g.original.Start, g.original.Start.Add(time.Duration(duration) * time.Minute)
}

func (m *Model) newPendingChange(kind ChangeKind, original schedule.Event, start, end time.Time) *PendingChange {
	target := TargetBooking
	backingID := original.ID
	if original.Kind == schedule.KindBlock {
		target = TargetBlock
		backingID = original.BackingID
	}

	startMin := tz.MinuteOfDay(start, m.loc)
	endMin := startMin + int(end.Sub(start).Minutes())
	if endMin > schedule.MinutesPerDay {
		endMin = schedule.MinutesPerDay
	}

	return &PendingChange{
		Kind:         kind,
		Target:       target,
		EventID:      original.ID,
		BackingID:    backingID,
		NewStart:     start,
		NewEnd:       end,
		Original:     original,
		OutsideHours: schedule.OutsideWorkingHours(tz.Midnight(start, m.loc), startMin, endMin, m.workingConfigs, m.loc),
	}
}

// confirmPending sends the pending change to the backend. Exactly one
// persistence call per confirmed gesture.
func (m *Model) confirmPending() tea.Cmd {
	if m.pending == nil || m.applying {
		return nil
	}
	m.applying = true
	return m.applyCmd(*m.pending)
}

// cancelPending discards the pending change and restores the snapshot.
func (m *Model) cancelPending() {
	if m.pending == nil || m.applying {
		return
	}
	m.rollback(*m.pending)
	m.pending = nil
}

// rollbackTo restores one event from a snapshot.
func (m *Model) rollbackTo(original schedule.Event) {
	m.patchEvent(original.ID, func(ev *schedule.Event) {
		ev.Start = original.Start
		ev.End = original.End
		ev.DurationMinutes = original.DurationMinutes
	})
}

// displayEvent substitutes the ghost position for the event being moved,
// without touching model state until the drop.
func (m *Model) displayEvent(ev schedule.Event) schedule.Event {
	if m.gesture.kind != gestureMove || m.gesture.eventID != ev.ID || !m.gesture.moved {
		return ev
	}
	start, end := moveCandidate(m.gesture, m.days(), m.loc)
	ev.Start = start
	ev.End = end
	return ev
}

// draggingID reports the event id under an active gesture or pending
// confirmation, for highlight.
func (m *Model) draggingID() string {
	if m.gesture.kind == gestureMove || m.gesture.kind == gestureResize {
		return m.gesture.eventID
	}
	if m.pending != nil {
		return m.pending.EventID
	}
	return ""
}

func (m *Model) openEditor(start time.Time, minutes int) {
	m.screen = ScreenEditor
	m.editorStart = start
	m.editorMinutes = minutes
	m.editorNote = m.config.DefaultBlockNote
	m.editorCursor = len(m.editorNote)
}
