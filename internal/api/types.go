// Package api is the HTTP client for the booking backend. All instants
// cross the wire as ISO-8601 UTC strings; conversion into schedule types
// happens at this boundary so the rest of the program never touches wire
// shapes.
package api

import (
	"fmt"
	"time"

	"verdandi/internal/schedule"
)

// Appointment is the wire shape of a client booking.
type Appointment struct {
	ID                   string `json:"id"`
	ScheduledFor         string `json:"scheduledFor"`
	TotalDurationMinutes int    `json:"totalDurationMinutes"`
	ServiceName          string `json:"serviceName"`
	ClientName           string `json:"clientName"`
	Status               string `json:"status"`
}

// Block is the wire shape of a personal time block.
type Block struct {
	ID       string `json:"id"`
	StartsAt string `json:"startsAt"`
	EndsAt   string `json:"endsAt"`
	Note     string `json:"note"`
}

// CalendarStats is the backend's precomputed dashboard numbers.
type CalendarStats struct {
	AppointmentsToday int `json:"appointmentsToday"`
	UpcomingWeek      int `json:"upcomingWeek"`
}

// Calendar is the response of GET /calendar.
type Calendar struct {
	Appointments []Appointment `json:"appointments"`
	Blocks       []Block       `json:"blocks"`
	// WorkingHours maps configuration name (e.g. a service location) to
	// weekday entries.
	WorkingHours       map[string]map[string]WireDayHours `json:"workingHours"`
	TimeZone           string                             `json:"timeZone"`
	NeedsTimeZoneSetup bool                               `json:"needsTimeZoneSetup"`
	Stats              CalendarStats                      `json:"stats"`
}

// WireDayHours is one weekday of a working-hours configuration.
type WireDayHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"` // "HH:MM"
	End     string `json:"end"`
}

// AppointmentUpdate is the PATCH body for an appointment; nil fields are
// omitted so untouched attributes stay untouched server-side.
type AppointmentUpdate struct {
	ScheduledFor         *string `json:"scheduledFor,omitempty"`
	TotalDurationMinutes *int    `json:"totalDurationMinutes,omitempty"`
	Status               *string `json:"status,omitempty"`
}

// BlockUpdate is the PATCH body for a block.
type BlockUpdate struct {
	StartsAt *string `json:"startsAt,omitempty"`
	EndsAt   *string `json:"endsAt,omitempty"`
}

// BlockCreate is the POST body for a new block.
type BlockCreate struct {
	StartsAt string `json:"startsAt"`
	EndsAt   string `json:"endsAt"`
	Note     string `json:"note"`
}

// ParseInstant parses an ISO-8601 UTC instant, naming the field on failure.
func ParseInstant(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid instant %q: %w", field, s, err)
	}
	return t.UTC(), nil
}

// FormatInstant renders an instant the way the backend expects it.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Event converts an appointment into the uniform event shape. Appointments
// with an unparseable schedule are reported, not silently dropped.
func (a Appointment) Event() (schedule.Event, error) {
	start, err := ParseInstant("scheduledFor", a.ScheduledFor)
	if err != nil {
		return schedule.Event{}, err
	}

	duration := a.TotalDurationMinutes
	if duration <= 0 {
		duration = schedule.MinEventMinutes
	}

	return schedule.Event{
		ID:              a.ID,
		BackingID:       a.ID,
		Kind:            schedule.KindAppointment,
		Start:           start,
		End:             start.Add(time.Duration(duration) * time.Minute),
		Title:           a.ServiceName,
		ClientName:      a.ClientName,
		Status:          schedule.Status(a.Status),
		DurationMinutes: a.TotalDurationMinutes,
	}, nil
}

// Event converts a block into the uniform event shape. Block event IDs are
// prefixed so the two entity kinds never collide; the backing id is kept
// for persistence calls.
func (b Block) Event() (schedule.Event, error) {
	start, err := ParseInstant("startsAt", b.StartsAt)
	if err != nil {
		return schedule.Event{}, err
	}
	end, err := ParseInstant("endsAt", b.EndsAt)
	if err != nil {
		return schedule.Event{}, err
	}

	title := b.Note
	if title == "" {
		title = "Blocked"
	}

	return schedule.Event{
		ID:        schedule.BlockID(b.ID),
		BackingID: b.ID,
		Kind:      schedule.KindBlock,
		Start:     start,
		End:       end,
		Title:     title,
	}, nil
}

// WorkingConfigs converts the wire working-hours mapping into resolver
// input.
func (c Calendar) WorkingConfigs() map[string]schedule.HoursConfig {
	configs := make(map[string]schedule.HoursConfig, len(c.WorkingHours))
	for name, days := range c.WorkingHours {
		cfg := make(schedule.HoursConfig, len(days))
		for key, d := range days {
			cfg[key] = schedule.DayHours{Enabled: d.Enabled, Start: d.Start, End: d.End}
		}
		configs[name] = cfg
	}
	return configs
}
