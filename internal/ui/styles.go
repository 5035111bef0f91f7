package ui

import (
	"github.com/charmbracelet/lipgloss"

	"verdandi/internal/schedule"
)

type Styles struct {
	Normal      lipgloss.Style
	Selected    lipgloss.Style
	Today       lipgloss.Style
	Closed      lipgloss.Style
	Header      lipgloss.Style
	Appointment lipgloss.Style
	Block       lipgloss.Style
	Dragging    lipgloss.Style
	Warning     lipgloss.Style
	Help        lipgloss.Style
	Message     lipgloss.Style
	Error       lipgloss.Style
	Border      lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color("220")).
			Bold(true),
		Today: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true),
		Closed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Background(lipgloss.Color("236")),
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true).
			Underline(true),
		Appointment: lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("63")),
		Block: lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("240")),
		Dragging: lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color("214")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Message: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("124")).
			Padding(0, 1),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")),
	}
}

// eventStyle picks the block color for an event, dimming cancelled
// appointments.
func (s Styles) eventStyle(ev schedule.Event) lipgloss.Style {
	if ev.Kind == schedule.KindBlock {
		return s.Block
	}
	if ev.Status == schedule.StatusCancelled || ev.Status == schedule.StatusNoShow {
		return s.Block
	}
	return s.Appointment
}
