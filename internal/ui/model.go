package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"verdandi/internal/api"
	"verdandi/internal/config"
	"verdandi/internal/schedule"
	"verdandi/internal/tz"
)

// Screen selects which full-screen surface is rendered. The grid screens
// share all interaction state; help/editor/confirm are modal.
type Screen int

const (
	ScreenGrid Screen = iota
	ScreenMonth
	ScreenHelp
	ScreenEditor
)

type Model struct {
	// Core components
	config  *config.Config
	backend api.Backend

	// View state
	screen Screen
	mode   schedule.ViewMode
	focus  time.Time // UTC instant anchoring the visible range

	// Timezone state, owned here and passed explicitly to all calendar
	// math. loc is never the terminal's local zone: a missing or invalid
	// backend zone falls back to UTC and raises needsTZSetup instead.
	loc          *time.Location
	tzName       string
	needsTZSetup bool

	// Loaded data
	events         []schedule.Event
	workingConfigs map[string]schedule.HoursConfig
	stats          api.CalendarStats

	// loadSeq tags every load request; responses carrying any other
	// sequence number are stale and discarded.
	loadSeq int
	loading bool

	// Grid state
	increment     int // minutes per grid row
	scrollMinutes int // first visible minute of day
	cursorDay     int // column index within the visible range
	cursorMinutes int

	// Gesture state (see gesture.go)
	gesture            gestureState
	pending            *PendingChange
	applying           bool
	suppressClickUntil time.Time

	// Block editor state
	editorStart   time.Time // UTC
	editorMinutes int
	editorNote    string
	editorCursor  int

	// Detail selection
	detailEventID string

	// UI state
	width          int
	height         int
	showEventIDs   bool
	message        string
	messageIsError bool
	messageSeq     int

	// now is swappable for tests.
	now func() time.Time

	styles Styles
}

func NewModel(cfg *config.Config, backend api.Backend) *Model {
	m := &Model{
		config:         cfg,
		backend:        backend,
		screen:         ScreenGrid,
		mode:           schedule.ViewWeek,
		loc:            tz.Fallback,
		workingConfigs: map[string]schedule.HoursConfig{},
		increment:      cfg.TimeIncrement,
		scrollMinutes:  8 * 60,
		cursorMinutes:  9 * 60,
		now:            time.Now,
		styles:         DefaultStyles(),
	}
	m.focus = m.now().UTC()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.tickCmd())
}

// Message types
type tickMsg struct{}

type messageTimeoutMsg struct{ seq int }

type configReloadedMsg struct {
	cfg *config.Config
	err error
}

// ConfigReloaded builds the message the config watcher feeds into the
// program when the file changes on disk.
func ConfigReloaded(cfg *config.Config, err error) tea.Msg {
	return configReloadedMsg{cfg: cfg, err: err}
}

type calendarLoadedMsg struct {
	seq    int
	cal    *api.Calendar
	blocks []api.Block
	err    error
}

type changeAppliedMsg struct {
	change PendingChange
	err    error
}

type blockCreatedMsg struct{ err error }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tickMsg:
		if m.config.AutoRefresh && m.gesture.kind == gestureNone && m.pending == nil {
			return m, tea.Batch(m.loadCmd(), m.tickCmd())
		}
		return m, m.tickCmd()

	case calendarLoadedMsg:
		return m.handleCalendarLoaded(msg)

	case changeAppliedMsg:
		return m.handleChangeApplied(msg)

	case blockCreatedMsg:
		if msg.err != nil {
			return m, m.showError(fmt.Sprintf("Create failed: %v", msg.err))
		}
		return m, tea.Batch(m.loadCmd(), m.showMessage("Block created"))

	case configReloadedMsg:
		if msg.err != nil {
			return m, m.showError(fmt.Sprintf("Config reload failed: %v", msg.err))
		}
		m.config = msg.cfg
		m.increment = msg.cfg.TimeIncrement
		m.clampScroll()
		return m, tea.Batch(m.loadCmd(), m.showMessage("Config reloaded"))

	case messageTimeoutMsg:
		if msg.seq == m.messageSeq {
			m.message = ""
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch m.screen {
	case ScreenMonth:
		return m.viewMonth()
	case ScreenHelp:
		return m.viewHelp()
	case ScreenEditor:
		return m.viewEditor()
	default:
		return m.viewGrid()
	}
}

// viewRange computes the visible/fetch range for the current view state.
func (m *Model) viewRange() schedule.ViewRange {
	return schedule.RangeFor(m.mode, m.focus, m.loc, m.config.WeekStartDay())
}

// days lists the local-midnight instants of the visible grid columns.
func (m *Model) days() []time.Time {
	if m.mode == schedule.ViewDay {
		return []time.Time{tz.Midnight(m.focus, m.loc)}
	}
	return schedule.RangeFor(schedule.ViewWeek, m.focus, m.loc, m.config.WeekStartDay()).DaysIn(m.loc)
}

func (m *Model) loadCmd() tea.Cmd {
	m.loadSeq++
	m.loading = true

	seq := m.loadSeq
	rng := m.viewRange()
	backend := m.backend

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cal, err := backend.FetchCalendar(ctx)
		if err != nil {
			return calendarLoadedMsg{seq: seq, err: err}
		}
		blocks, err := backend.FetchBlocks(ctx, rng.From, rng.To)
		if err != nil {
			return calendarLoadedMsg{seq: seq, err: err}
		}
		return calendarLoadedMsg{seq: seq, cal: cal, blocks: blocks}
	}
}

func (m *Model) handleCalendarLoaded(msg calendarLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.loadSeq {
		// A newer load is already in flight or applied; this response is
		// stale and benign.
		return m, nil
	}
	m.loading = false

	if msg.err != nil {
		return m, m.showError(fmt.Sprintf("Load failed: %v", msg.err))
	}

	loc, ok := tz.Load(msg.cal.TimeZone)
	m.loc = loc
	m.tzName = msg.cal.TimeZone
	m.needsTZSetup = msg.cal.NeedsTimeZoneSetup || !ok

	var badField string
	appointments := make([]schedule.Event, 0, len(msg.cal.Appointments))
	for _, a := range msg.cal.Appointments {
		ev, err := a.Event()
		if err != nil {
			if badField == "" {
				badField = err.Error()
			}
			continue
		}
		appointments = append(appointments, ev)
	}

	blocks := make([]schedule.Event, 0, len(msg.blocks))
	for _, b := range msg.blocks {
		ev, err := b.Event()
		if err != nil {
			if badField == "" {
				badField = err.Error()
			}
			continue
		}
		blocks = append(blocks, ev)
	}

	m.events = schedule.MergeSorted(appointments, blocks)
	m.workingConfigs = msg.cal.WorkingConfigs()
	m.stats = msg.cal.Stats

	if badField != "" {
		return m, m.showError("Skipped unreadable entry: " + badField)
	}
	return m, nil
}

func (m *Model) handleChangeApplied(msg changeAppliedMsg) (tea.Model, tea.Cmd) {
	m.applying = false
	m.pending = nil

	if msg.err != nil {
		// Failed confirm: restore the snapshot so no half-applied state
		// survives, then surface the error.
		m.rollback(msg.change)
		return m, m.showError(fmt.Sprintf("Update failed: %v", msg.err))
	}

	return m, tea.Batch(m.loadCmd(), m.showMessage("Saved"))
}

// patchEvent mutates one event in place by id.
func (m *Model) patchEvent(id string, patch func(*schedule.Event)) bool {
	for i := range m.events {
		if m.events[i].ID == id {
			patch(&m.events[i])
			return true
		}
	}
	return false
}

// rollback restores the event touched by a pending change to its
// pre-gesture snapshot, field for field.
func (m *Model) rollback(pc PendingChange) {
	m.patchEvent(pc.EventID, func(ev *schedule.Event) {
		ev.Start = pc.Original.Start
		ev.End = pc.Original.End
		ev.DurationMinutes = pc.Original.DurationMinutes
	})
}

func (m *Model) applyCmd(pc PendingChange) tea.Cmd {
	backend := m.backend

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		start := api.FormatInstant(pc.NewStart)
		end := api.FormatInstant(pc.NewEnd)

		var err error
		switch pc.Target {
		case TargetBooking:
			update := api.AppointmentUpdate{}
			if pc.Kind == ChangeMove {
				update.ScheduledFor = &start
			} else {
				minutes := int(pc.NewEnd.Sub(pc.NewStart).Minutes())
				update.TotalDurationMinutes = &minutes
			}
			_, err = backend.UpdateAppointment(ctx, pc.BackingID, update)

		case TargetBlock:
			update := api.BlockUpdate{EndsAt: &end}
			if pc.Kind == ChangeMove {
				update.StartsAt = &start
			}
			_, err = backend.UpdateBlock(ctx, pc.BackingID, update)
		}

		return changeAppliedMsg{change: pc, err: err}
	}
}

func (m *Model) createBlockCmd(start time.Time, minutes int, note string) tea.Cmd {
	backend := m.backend

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		_, err := backend.CreateBlock(ctx, api.BlockCreate{
			StartsAt: api.FormatInstant(start),
			EndsAt:   api.FormatInstant(start.Add(time.Duration(minutes) * time.Minute)),
			Note:     note,
		})
		return blockCreatedMsg{err: err}
	}
}

func (m *Model) showMessage(msg string) tea.Cmd {
	m.message = msg
	m.messageIsError = false
	m.messageSeq++
	seq := m.messageSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return messageTimeoutMsg{seq: seq}
	})
}

func (m *Model) showError(msg string) tea.Cmd {
	cmd := m.showMessage(msg)
	m.messageIsError = true
	return cmd
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.config.RefreshRate, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// eventByID finds an event in the loaded list.
func (m *Model) eventByID(id string) (schedule.Event, bool) {
	for _, ev := range m.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return schedule.Event{}, false
}
