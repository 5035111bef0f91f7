package ui

import (
	"fmt"
	"strings"

	"verdandi/internal/tz"
)

func (m *Model) viewHelp() string {
	sections := []struct {
		title string
		keys  [][2]string
	}{
		{"Navigation", [][2]string{
			{"h/l", "previous / next day"},
			{"j/k", "move cursor down / up"},
			{"J/K", "previous / next week"},
			{"t", "jump to today"},
			{"g/G", "scroll to top / bottom"},
		}},
		{"Views", [][2]string{
			{"d/w/m", "day / week / month view"},
			{"v", "cycle views"},
			{"z or +/-", "zoom rows (15/30/60 min)"},
		}},
		{"Editing", [][2]string{
			{"mouse drag", "move an event"},
			{"drag bottom edge", "resize an event"},
			{"drag empty cells", "create a block"},
			{"n", "new block at cursor"},
			{"y / n", "confirm / cancel a change"},
		}},
		{"Other", [][2]string{
			{"enter", "select event under cursor"},
			{"i", "toggle event ids"},
			{"r", "reload"},
			{"?", "close help"},
			{"q", "quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("verdandi - keys"))
	b.WriteString("\n\n")
	for _, s := range sections {
		b.WriteString(m.styles.Today.Render(s.title))
		b.WriteByte('\n')
		for _, k := range s.keys {
			b.WriteString(fmt.Sprintf("  %-18s %s\n",
				m.styles.Message.Render(k[0]), m.styles.Help.Render(k[1])))
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.styles.Help.Render("press any key to close"))
	return b.String()
}

// viewEditor renders the block creation form: fixed start, adjustable
// duration, free-text note.
func (m *Model) viewEditor() string {
	p := tz.PartsOf(m.editorStart, m.loc)
	endMin := tz.MinuteOfDay(m.editorStart, m.loc) + m.editorMinutes

	note := m.editorNote[:m.editorCursor] +
		"_" + m.editorNote[m.editorCursor:]

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("New block"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  Start:    %04d-%02d-%02d %02d:%02d\n",
		p.Year, p.Month, p.Day, p.Hour, p.Minute))
	b.WriteString(fmt.Sprintf("  End:      %s  (%s)\n",
		clockOf(endMin%1440), formatDuration(m.editorMinutes)))
	b.WriteString(fmt.Sprintf("  Note:     %s\n", note))
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("  up/down:duration  enter:save  esc:cancel"))

	if m.message != "" && m.messageIsError {
		b.WriteString("\n\n" + m.styles.Error.Render(m.message))
	}
	return m.styles.Border.Render(b.String())
}
