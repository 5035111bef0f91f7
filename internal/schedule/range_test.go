package schedule

import (
	"testing"
	"time"

	"verdandi/internal/tz"
)

func loadZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("LoadLocation(%s): %v", name, err)
	}
	return loc
}

func TestRangeForDay(t *testing.T) {
	ny := loadZone(t, "America/New_York")

	// 2025-06-18 02:00 UTC is still 2025-06-17 22:00 in New York.
	focus := time.Date(2025, 6, 18, 2, 0, 0, 0, time.UTC)
	r := RangeFor(ViewDay, focus, ny, time.Monday)

	wantFrom := time.Date(2025, 6, 17, 4, 0, 0, 0, time.UTC) // Jun 17 00:00 EDT
	if !r.From.Equal(wantFrom) {
		t.Errorf("From = %v, want %v", r.From, wantFrom)
	}
	if got := r.To.Sub(r.From); got != 24*time.Hour {
		t.Errorf("day span = %v, want 24h", got)
	}
}

func TestRangeForWeekAlignment(t *testing.T) {
	tests := []struct {
		name      string
		weekStart time.Weekday
		focus     time.Time
		wantLocal string // local wall clock of From
	}{
		{
			name:      "monday start mid-week",
			weekStart: time.Monday,
			focus:     time.Date(2025, 6, 18, 15, 0, 0, 0, time.UTC), // Wed
			wantLocal: "2025-06-16 00:00:00",
		},
		{
			name:      "sunday start mid-week",
			weekStart: time.Sunday,
			focus:     time.Date(2025, 6, 18, 15, 0, 0, 0, time.UTC),
			wantLocal: "2025-06-15 00:00:00",
		},
		{
			name:      "focus on week start day",
			weekStart: time.Monday,
			focus:     time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC),
			wantLocal: "2025-06-16 00:00:00",
		},
	}

	ny := loadZone(t, "America/New_York")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := RangeFor(ViewWeek, tt.focus, ny, tt.weekStart)

			p := tz.PartsOf(r.From, ny)
			if got := p.String(); got != tt.wantLocal {
				t.Errorf("From local = %s, want %s", got, tt.wantLocal)
			}
			if tz.Weekday(r.From, ny) != tt.weekStart {
				t.Errorf("From weekday = %v, want %v", tz.Weekday(r.From, ny), tt.weekStart)
			}
			if got := r.To.Sub(r.From); got != 7*24*time.Hour {
				t.Errorf("week span = %v, want 168h", got)
			}
		})
	}
}

func TestRangeForWeekAcrossDST(t *testing.T) {
	ny := loadZone(t, "America/New_York")

	// The week of 2025-03-09 contains the US spring-forward. It must still
	// be bounded by local midnights even though it is one real hour short.
	focus := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	r := RangeFor(ViewWeek, focus, ny, time.Sunday)

	if got := tz.PartsOf(r.From, ny).String(); got != "2025-03-09 00:00:00" {
		t.Errorf("From local = %s", got)
	}
	if got := tz.PartsOf(r.To, ny).String(); got != "2025-03-16 00:00:00" {
		t.Errorf("To local = %s", got)
	}
	if got := r.To.Sub(r.From); got != 7*24*time.Hour-time.Hour {
		t.Errorf("DST week real span = %v, want 167h", got)
	}
}

func TestRangeForMonthGrid(t *testing.T) {
	ny := loadZone(t, "America/New_York")

	// June 2025 starts on a Sunday; with Monday week start the grid begins
	// Mon May 26 and always spans exactly 42 days.
	focus := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	r := RangeFor(ViewMonth, focus, ny, time.Monday)

	if got := tz.PartsOf(r.From, ny).String(); got != "2025-05-26 00:00:00" {
		t.Errorf("From local = %s", got)
	}

	days := r.DaysIn(ny)
	if len(days) != 42 {
		t.Fatalf("grid days = %d, want 42", len(days))
	}
	if got := tz.PartsOf(days[41], ny).String(); got != "2025-07-06 00:00:00" {
		t.Errorf("last grid day = %s", got)
	}
}

func TestRangeContains(t *testing.T) {
	r := ViewRange{
		From: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC),
	}

	if !r.Contains(r.From) {
		t.Error("From must be inside the half-open range")
	}
	if r.Contains(r.To) {
		t.Error("To must be outside the half-open range")
	}
}
