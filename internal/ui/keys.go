package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"verdandi/internal/schedule"
	"verdandi/internal/tz"
)

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// The confirm prompt captures all input until answered.
	if m.pending != nil {
		switch key {
		case "y", "enter":
			return m, m.confirmPending()
		case "n", "esc":
			m.cancelPending()
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.screen {
	case ScreenHelp:
		switch key {
		case "esc", "q", "?", "enter":
			m.screen = ScreenGrid
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case ScreenEditor:
		return m.handleEditorKeys(msg)

	case ScreenMonth:
		return m.handleMonthKeys(key)
	}

	return m.handleGridKeys(key)
}

func (m *Model) handleGridKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.screen = ScreenHelp

	case "r":
		return m, m.loadCmd()

	case "i":
		m.showEventIDs = !m.showEventIDs

	case "d":
		return m.setMode(schedule.ViewDay)
	case "w":
		return m.setMode(schedule.ViewWeek)
	case "m":
		m.screen = ScreenMonth
		return m.setMode(schedule.ViewMonth)
	case "v":
		switch m.mode {
		case schedule.ViewDay:
			return m.setMode(schedule.ViewWeek)
		case schedule.ViewWeek:
			m.screen = ScreenMonth
			return m.setMode(schedule.ViewMonth)
		default:
			m.screen = ScreenGrid
			return m.setMode(schedule.ViewDay)
		}

	case "t":
		m.focus = m.now().UTC()
		m.cursorDay = m.todayColumn()
		return m, m.loadCmd()

	case "h", "left":
		return m.moveCursorDay(-1)
	case "l", "right":
		return m.moveCursorDay(1)
	case "j", "down":
		m.moveCursorMinutes(m.increment)
	case "k", "up":
		m.moveCursorMinutes(-m.increment)
	case "J", "pgdown":
		m.focus = tz.AddDays(m.focus, 7, m.loc)
		return m, m.loadCmd()
	case "K", "pgup":
		m.focus = tz.AddDays(m.focus, -7, m.loc)
		return m, m.loadCmd()

	case "g", "home":
		m.scrollMinutes = 0
		m.cursorMinutes = 0
	case "G", "end":
		m.cursorMinutes = schedule.MinutesPerDay - m.increment
		m.followCursor()

	case "+", "=":
		m.zoom(-1)
	case "-", "_":
		m.zoom(1)
	case "z":
		if m.increment == 15 {
			m.zoom(2)
		} else {
			m.zoom(-1)
		}

	case "n":
		days := m.days()
		day := m.cursorDay
		if day >= len(days) {
			day = len(days) - 1
		}
		m.openEditor(tz.AtMinutes(days[day], schedule.Snap(m.cursorMinutes), m.loc), 60)

	case "enter":
		if ev, _, ok := m.eventAt(m.cursorDay, m.cursorMinutes); ok {
			m.detailEventID = ev.ID
		}

	case "esc":
		m.detailEventID = ""
		m.message = ""
	}

	return m, nil
}

func (m *Model) handleMonthKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.screen = ScreenHelp
		return m, nil
	case "r":
		return m, m.loadCmd()
	case "esc", "w":
		m.screen = ScreenGrid
		return m.setMode(schedule.ViewWeek)
	case "enter", "d":
		m.screen = ScreenGrid
		return m.setMode(schedule.ViewDay)
	case "t":
		m.focus = m.now().UTC()
		return m, m.loadCmd()
	case "v":
		m.screen = ScreenGrid
		return m.setMode(schedule.ViewDay)
	case "h", "left":
		return m.moveFocusDays(-1)
	case "l", "right":
		return m.moveFocusDays(1)
	case "k", "up":
		return m.moveFocusDays(-7)
	case "j", "down":
		return m.moveFocusDays(7)
	case "K", "pgup":
		return m.moveFocusDays(-28)
	case "J", "pgdown":
		return m.moveFocusDays(28)
	}
	return m, nil
}

func (m *Model) handleEditorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.screen = ScreenGrid
		return m, nil

	case "enter":
		m.screen = ScreenGrid
		return m, m.createBlockCmd(m.editorStart, m.editorMinutes, m.editorNote)

	case "up", "+":
		m.editorMinutes = schedule.ClampDuration(m.editorMinutes + schedule.SnapMinutes)
	case "down", "-":
		m.editorMinutes = schedule.ClampDuration(m.editorMinutes - schedule.SnapMinutes)

	case "left":
		if m.editorCursor > 0 {
			m.editorCursor--
		}
	case "right":
		if m.editorCursor < len(m.editorNote) {
			m.editorCursor++
		}
	case "home", "ctrl+a":
		m.editorCursor = 0
	case "end", "ctrl+e":
		m.editorCursor = len(m.editorNote)

	case "backspace":
		if m.editorCursor > 0 {
			m.editorNote = m.editorNote[:m.editorCursor-1] + m.editorNote[m.editorCursor:]
			m.editorCursor--
		}
	case "ctrl+u":
		m.editorNote = m.editorNote[m.editorCursor:]
		m.editorCursor = 0

	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			text := string(msg.Runes)
			if msg.Type == tea.KeySpace {
				text = " "
			}
			m.editorNote = m.editorNote[:m.editorCursor] + text + m.editorNote[m.editorCursor:]
			m.editorCursor += len(text)
		}
	}
	return m, nil
}

// setMode switches the view mode and reloads, since the fetch range
// depends on it.
func (m *Model) setMode(mode schedule.ViewMode) (tea.Model, tea.Cmd) {
	if m.mode == mode {
		return m, nil
	}
	m.mode = mode
	if mode == schedule.ViewDay {
		m.cursorDay = 0
	} else {
		m.cursorDay = m.todayColumn()
	}
	return m, m.loadCmd()
}

// moveCursorDay shifts the cursor column; crossing the edge of the visible
// range pages the focus date instead.
func (m *Model) moveCursorDay(delta int) (tea.Model, tea.Cmd) {
	if m.mode == schedule.ViewDay {
		m.focus = tz.AddDays(m.focus, delta, m.loc)
		return m, m.loadCmd()
	}

	next := m.cursorDay + delta
	if next < 0 {
		m.focus = tz.AddDays(m.focus, -7, m.loc)
		m.cursorDay = 6
		return m, m.loadCmd()
	}
	if next > 6 {
		m.focus = tz.AddDays(m.focus, 7, m.loc)
		m.cursorDay = 0
		return m, m.loadCmd()
	}
	m.cursorDay = next
	return m, nil
}

// moveFocusDays shifts the focus date and reloads when the visible range
// changed.
func (m *Model) moveFocusDays(days int) (tea.Model, tea.Cmd) {
	before := m.viewRange()
	m.focus = tz.AddDays(m.focus, days, m.loc)
	if after := m.viewRange(); !after.From.Equal(before.From) {
		return m, m.loadCmd()
	}
	return m, nil
}

func (m *Model) moveCursorMinutes(delta int) {
	m.cursorMinutes += delta
	if m.cursorMinutes < 0 {
		m.cursorMinutes = 0
	}
	if m.cursorMinutes > schedule.MinutesPerDay-m.increment {
		m.cursorMinutes = schedule.MinutesPerDay - m.increment
	}
	m.followCursor()
}

// zoom steps the row granularity: 60 - 30 - 15 minutes per row.
func (m *Model) zoom(dir int) {
	steps := []int{15, 30, 60}
	idx := 1
	for i, s := range steps {
		if s == m.increment {
			idx = i
		}
	}
	idx += dir
	if idx < 0 || idx >= len(steps) {
		return
	}
	m.increment = steps[idx]
	m.cursorMinutes = (m.cursorMinutes / m.increment) * m.increment
	m.scrollMinutes = (m.scrollMinutes / m.increment) * m.increment
	m.followCursor()
}

// todayColumn returns the column of today within the visible week, or 0
// when today is not visible.
func (m *Model) todayColumn() int {
	today := tz.Midnight(m.now(), m.loc)
	for i, day := range m.days() {
		if day.Equal(today) {
			return i
		}
	}
	return 0
}
