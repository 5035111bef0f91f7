package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"verdandi/internal/schedule"
	"verdandi/internal/tz"
)

const (
	gutterWidth  = 6
	headerLines  = 2
	footerLines  = 1
	sidebarWidth = 30
	minColWidth  = 5
)

type gridGeometry struct {
	top      int
	rows     int
	dayCount int
	colWidth int
	sidebar  bool
}

func (m *Model) geometry() gridGeometry {
	g := gridGeometry{
		top:      headerLines,
		dayCount: len(m.days()),
	}
	g.rows = m.height - headerLines - footerLines
	if g.rows < 1 {
		g.rows = 1
	}

	width := m.width - gutterWidth
	if m.mode == schedule.ViewDay && m.width >= 80 {
		g.sidebar = true
		width -= sidebarWidth
	}
	if g.dayCount < 1 {
		g.dayCount = 1
	}
	g.colWidth = width / g.dayCount
	if g.colWidth < minColWidth {
		g.colWidth = minColWidth
		g.sidebar = false
	}
	return g
}

func (m *Model) clampScroll() {
	max := schedule.MinutesPerDay - m.geometry().rows*m.increment
	if max < 0 {
		max = 0
	}
	if m.scrollMinutes > max {
		m.scrollMinutes = max
	}
	if m.scrollMinutes < 0 {
		m.scrollMinutes = 0
	}
}

func (m *Model) scrollBy(delta int) {
	m.scrollMinutes += delta
	m.clampScroll()
}

// followCursor scrolls just enough to keep the cursor row visible.
func (m *Model) followCursor() {
	rows := m.geometry().rows
	if m.cursorMinutes < m.scrollMinutes {
		m.scrollMinutes = m.cursorMinutes
	}
	bottom := m.scrollMinutes + (rows-1)*m.increment
	if m.cursorMinutes > bottom {
		m.scrollMinutes = m.cursorMinutes - (rows-1)*m.increment
	}
	m.clampScroll()
}

// hitTest maps a terminal cell onto a grid position: day column index and
// minutes from local midnight of that day's row.
func (m *Model) hitTest(x, y int) (day, minutes int, ok bool) {
	g := m.geometry()
	if y < g.top || y >= g.top+g.rows {
		return 0, 0, false
	}
	x -= gutterWidth
	if x < 0 {
		return 0, 0, false
	}
	day = x / g.colWidth
	if day >= g.dayCount {
		return 0, 0, false
	}
	minutes = m.scrollMinutes + (y-g.top)*m.increment
	if minutes >= schedule.MinutesPerDay {
		return 0, 0, false
	}
	return day, minutes, true
}

// eventAt finds the topmost event covering the grid position, and whether
// the position is on the event's bottom row (the resize handle).
func (m *Model) eventAt(day, minutes int) (schedule.Event, bool, bool) {
	days := m.days()
	if day < 0 || day >= len(days) {
		return schedule.Event{}, false, false
	}

	var hit schedule.Placement
	found := false
	for _, p := range schedule.LayoutDay(days[day], m.events, m.loc) {
		if minutes >= p.TopMinutes && minutes < p.TopMinutes+p.HeightMinutes {
			hit = p
			found = true
		}
	}
	if !found {
		return schedule.Event{}, false, false
	}

	// A single-row event has no separate edge row; treating its body as
	// the resize handle would make it impossible to move.
	onEdge := !hit.ClippedBottom &&
		hit.HeightMinutes > m.increment &&
		minutes >= hit.TopMinutes+hit.HeightMinutes-m.increment
	return hit.Event, onEdge, true
}

func (m *Model) viewGrid() string {
	g := m.geometry()
	days := m.days()

	display := make([]schedule.Event, len(m.events))
	for i, ev := range m.events {
		display[i] = m.displayEvent(ev)
	}

	placements := make([][]schedule.Placement, len(days))
	windows := make([][]schedule.WorkingWindow, len(days))
	for i, day := range days {
		placements[i] = schedule.LayoutDay(day, display, m.loc)
		windows[i] = schedule.MergeWindows(schedule.WindowsFor(day, m.loc, m.workingConfigs))
	}

	var sidebar []string
	if g.sidebar {
		sidebar = m.sidebarLines(days[0], placements[0])
	}

	today := tz.Midnight(m.now(), m.loc)
	nowMin := tz.MinuteOfDay(m.now(), m.loc)

	var b strings.Builder
	b.WriteString(m.titleLine())
	b.WriteByte('\n')
	b.WriteString(m.dayHeaderLine(g, days, today))
	b.WriteByte('\n')

	for r := 0; r < g.rows; r++ {
		minutes := m.scrollMinutes + r*m.increment
		if minutes < schedule.MinutesPerDay {
			b.WriteString(m.timeLabel(minutes))
			for d := range days {
				b.WriteString(m.renderCell(g, days[d], d, minutes, placements[d], windows[d], today, nowMin))
			}
			if r < len(sidebar) {
				b.WriteByte(' ')
				b.WriteString(sidebar[r])
			}
		}
		b.WriteByte('\n')
	}

	b.WriteString(m.statusLine())
	return b.String()
}

func (m *Model) titleLine() string {
	p := tz.PartsOf(m.focus, m.loc)
	var left string
	switch m.mode {
	case schedule.ViewDay:
		left = fmt.Sprintf("%s %04d-%02d-%02d",
			tz.Weekday(m.focus, m.loc).String()[:3], p.Year, p.Month, p.Day)
	default:
		rng := m.viewRange()
		fp := tz.PartsOf(rng.From, m.loc)
		left = fmt.Sprintf("Week of %04d-%02d-%02d", fp.Year, fp.Month, fp.Day)
	}

	zone := m.tzName
	if zone == "" {
		zone = "UTC"
	}
	right := zone
	if m.needsTZSetup {
		right = m.styles.Warning.Render(zone + " (set your timezone)")
	}
	if m.loading {
		right += " " + m.styles.Help.Render("loading...")
	}

	return m.styles.Header.Render("verdandi") + "  " + left + "  " + right
}

func (m *Model) dayHeaderLine(g gridGeometry, days []time.Time, today time.Time) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gutterWidth))
	for i, day := range days {
		p := tz.PartsOf(day, m.loc)
		label := fmt.Sprintf("%s %02d", tz.Weekday(day, m.loc).String()[:3], p.Day)
		label = padding.String(truncate.String(label, uint(g.colWidth-1)), uint(g.colWidth))

		style := m.styles.Header
		if day.Equal(today) {
			style = m.styles.Today
		}
		if i == m.cursorDay && m.mode != schedule.ViewDay {
			style = style.Underline(true)
		}
		b.WriteString(style.Render(label))
	}
	return b.String()
}

func (m *Model) timeLabel(minutes int) string {
	if minutes%60 != 0 {
		return strings.Repeat(" ", gutterWidth)
	}
	return m.styles.Help.Render(fmt.Sprintf("%02d:00 ", minutes/60))
}

func (m *Model) renderCell(g gridGeometry, day time.Time, dayIdx, minutes int, placements []schedule.Placement, windows []schedule.WorkingWindow, today time.Time, nowMin int) string {
	width := g.colWidth

	var hit schedule.Placement
	found := false
	for _, p := range placements {
		if minutes >= p.TopMinutes && minutes < p.TopMinutes+p.HeightMinutes {
			hit = p
			found = true
		}
	}

	var text string
	var style = m.styles.Normal

	switch {
	case found:
		ev := hit.Event
		style = m.styles.eventStyle(ev)
		if ev.ID == m.draggingID() {
			style = m.styles.Dragging
		} else if ev.ID == m.detailEventID {
			style = style.Bold(true)
		}

		if minutes == hit.TopMinutes || (hit.ClippedTop && minutes == m.scrollMinutes) {
			text = m.cellTitle(ev, hit.ClippedTop)
		} else if !hit.ClippedBottom && minutes >= hit.TopMinutes+hit.HeightMinutes-m.increment {
			text = "└" // resize handle row
		}

	case m.isOpen(minutes, windows):
		text = ""
	default:
		style = m.styles.Closed
		text = ""
	}

	if !found && day.Equal(today) && nowMin >= minutes && nowMin < minutes+m.increment {
		text = strings.Repeat("─", width-1)
		style = m.styles.Today
	}

	if m.mode != schedule.ViewDay && dayIdx == m.cursorDay && minutes == m.cursorMinutes ||
		m.mode == schedule.ViewDay && minutes == m.cursorMinutes {
		style = m.styles.Selected
	}

	cell := padding.String(truncate.StringWithTail(text, uint(width-1), "…"), uint(width))
	return style.Render(cell)
}

// isOpen reports whether the row's span intersects any working window.
// Shading uses intersection, not containment: a row half inside the window
// still renders open.
func (m *Model) isOpen(minutes int, windows []schedule.WorkingWindow) bool {
	for _, w := range windows {
		if minutes < w.EndMinutes && minutes+m.increment > w.StartMinutes {
			return true
		}
	}
	return false
}

func (m *Model) cellTitle(ev schedule.Event, clipped bool) string {
	title := ev.Title
	if ev.ClientName != "" {
		title = ev.ClientName + ": " + title
	}
	if m.showEventIDs {
		title = ev.ID + " " + title
	}
	if clipped {
		title = "▴" + title
	}
	return title
}

// sidebarLines renders the day view's detail column: the day's agenda,
// then the selected event's details.
func (m *Model) sidebarLines(day time.Time, placements []schedule.Placement) []string {
	width := sidebarWidth - 2

	var lines []string
	add := func(s string) {
		lines = append(lines, padding.String(truncate.String(s, uint(width)), uint(width)))
	}

	add(m.styles.Header.Render("Agenda"))
	if len(placements) == 0 {
		add(m.styles.Help.Render("nothing scheduled"))
	}
	for _, p := range placements {
		ev := p.Event
		add(fmt.Sprintf("%s %s", clockOf(tz.MinuteOfDay(ev.Start, m.loc)), m.cellTitle(ev, false)))
	}

	if ev, ok := m.eventByID(m.detailEventID); ok {
		add("")
		add(m.styles.Header.Render("Selected"))
		add(ev.Title)
		if ev.ClientName != "" {
			add("Client: " + ev.ClientName)
		}
		if ev.Status != "" {
			add("Status: " + string(ev.Status))
		}
		add(fmt.Sprintf("%s - %s (%s)",
			clockOf(tz.MinuteOfDay(ev.Start, m.loc)),
			clockOf(tz.MinuteOfDay(ev.End, m.loc)),
			formatDuration(ev.Duration())))
		if ev.Kind == schedule.KindBlock && ev.Title != "" {
			for _, w := range strings.Split(wordwrap.String(ev.Title, width), "\n") {
				add(w)
			}
		}
	}
	return lines
}

func (m *Model) statusLine() string {
	if m.pending != nil {
		return m.confirmLine()
	}
	if m.message != "" {
		if m.messageIsError {
			return m.styles.Error.Render(m.message)
		}
		return m.styles.Message.Render(m.message)
	}

	blocked := schedule.BlockedMinutesOn(m.events, m.now(), m.loc)
	stats := fmt.Sprintf("today: %d appts, %s blocked",
		m.stats.AppointmentsToday, formatDuration(blocked))
	return m.styles.Help.Render(stats + "  |  ?:help n:block v:view t:today q:quit")
}

func (m *Model) confirmLine() string {
	pc := m.pending
	verb := "Move"
	if pc.Kind == ChangeResize {
		verb = "Resize"
	}
	what := pc.Original.Title
	if what == "" {
		what = "block"
	}

	p := tz.PartsOf(pc.NewStart, m.loc)
	prompt := fmt.Sprintf("%s %q from %s to %04d-%02d-%02d %s-%s? [y/n]",
		verb, what,
		clockOf(tz.MinuteOfDay(pc.Original.Start, m.loc)),
		p.Year, p.Month, p.Day,
		clockOf(tz.MinuteOfDay(pc.NewStart, m.loc)),
		clockOf(tz.MinuteOfDay(pc.NewEnd, m.loc)))

	if m.applying {
		return m.styles.Message.Render("Saving...")
	}
	if pc.OutsideHours {
		return m.styles.Warning.Render(prompt + " (outside working hours)")
	}
	return m.styles.Message.Render(prompt)
}

func clockOf(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func formatDuration(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
