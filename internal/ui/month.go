package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"

	"verdandi/internal/schedule"
	"verdandi/internal/tz"
)

// viewMonth renders the read-only month overview: a fixed 6x7 grid of day
// cells with appointment and block counts. Editing happens in day and week
// views only.
func (m *Model) viewMonth() string {
	rng := schedule.RangeFor(schedule.ViewMonth, m.focus, m.loc, m.config.WeekStartDay())
	days := rng.DaysIn(m.loc)

	colWidth := (m.width - 1) / 7
	if colWidth < 8 {
		colWidth = 8
	}
	rowHeight := (m.height - headerLines - footerLines) / 6
	if rowHeight < 2 {
		rowHeight = 2
	}

	focusParts := tz.PartsOf(m.focus, m.loc)
	today := tz.Midnight(m.now(), m.loc)
	focusDay := tz.Midnight(m.focus, m.loc)

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("verdandi") + "  " +
		fmt.Sprintf("%s %04d", focusParts.Month, focusParts.Year))
	if m.needsTZSetup {
		b.WriteString("  " + m.styles.Warning.Render("(set your timezone)"))
	}
	b.WriteByte('\n')

	b.WriteByte(' ')
	for i := 0; i < 7; i++ {
		label := tz.Weekday(days[i], m.loc).String()[:3]
		b.WriteString(m.styles.Header.Render(padding.String(label, uint(colWidth))))
	}
	b.WriteByte('\n')

	for week := 0; week < 6; week++ {
		for line := 0; line < rowHeight; line++ {
			b.WriteByte(' ')
			for col := 0; col < 7; col++ {
				day := days[week*7+col]
				b.WriteString(m.monthCell(day, line, colWidth, today, focusDay, focusParts.Month))
			}
			b.WriteByte('\n')
		}
	}

	b.WriteString(m.styles.Help.Render("hjkl:move enter:open day w:week t:today q:quit"))
	return b.String()
}

func (m *Model) monthCell(day time.Time, line, width int, today, focusDay time.Time, focusMonth time.Month) string {
	p := tz.PartsOf(day, m.loc)

	style := m.styles.Normal
	if p.Month != focusMonth {
		style = m.styles.Help
	}
	if day.Equal(today) {
		style = m.styles.Today
	}
	if day.Equal(focusDay) {
		style = m.styles.Selected
	}

	var text string
	switch line {
	case 0:
		text = fmt.Sprintf("%2d", p.Day)
	case 1:
		appts, blocks := m.countsOn(day)
		if appts > 0 {
			text = fmt.Sprintf("%d appt", appts)
		}
		if blocks > 0 {
			if text != "" {
				text += " "
			}
			text += fmt.Sprintf("%d blk", blocks)
		}
	}

	cell := padding.String(truncate.String(text, uint(width-1)), uint(width))
	return style.Render(cell)
}

// countsOn tallies appointments and blocks touching the local day.
func (m *Model) countsOn(day time.Time) (appointments, blocks int) {
	for _, p := range schedule.LayoutDay(day, m.events, m.loc) {
		if p.Event.Kind == schedule.KindBlock {
			blocks++
		} else {
			appointments++
		}
	}
	return appointments, blocks
}
