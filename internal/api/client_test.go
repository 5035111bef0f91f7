package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"verdandi/internal/schedule"
)

func TestFetchCalendar(t *testing.T) {
	var gotPath, gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")

		json.NewEncoder(w).Encode(Calendar{
			Appointments: []Appointment{{
				ID:                   "appt-1",
				ScheduledFor:         "2025-06-16T14:00:00Z",
				TotalDurationMinutes: 30,
				ServiceName:          "Cut",
				ClientName:           "Ada",
				Status:               "confirmed",
			}},
			Blocks:   []Block{{ID: "9", StartsAt: "2025-06-16T17:00:00Z", EndsAt: "2025-06-16T18:00:00Z", Note: "Gym"}},
			TimeZone: "America/New_York",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")
	cal, err := client.FetchCalendar(context.Background())
	if err != nil {
		t.Fatalf("FetchCalendar: %v", err)
	}

	if gotPath != "/api/calendar" {
		t.Errorf("path = %s", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("missing X-Request-Id header")
	}
	if cal.TimeZone != "America/New_York" {
		t.Errorf("timezone = %s", cal.TimeZone)
	}
	if len(cal.Appointments) != 1 || len(cal.Blocks) != 1 {
		t.Fatalf("calendar = %d appointments, %d blocks", len(cal.Appointments), len(cal.Blocks))
	}
}

func TestFetchBlocksQuery(t *testing.T) {
	var gotFrom, gotTo string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFrom = r.URL.Query().Get("from")
		gotTo = r.URL.Query().Get("to")
		json.NewEncoder(w).Encode([]Block{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	from := time.Date(2025, 6, 16, 4, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 23, 4, 0, 0, 0, time.UTC)
	if _, err := client.FetchBlocks(context.Background(), from, to); err != nil {
		t.Fatalf("FetchBlocks: %v", err)
	}

	if gotFrom != "2025-06-16T04:00:00Z" || gotTo != "2025-06-23T04:00:00Z" {
		t.Errorf("query = from %s to %s", gotFrom, gotTo)
	}
}

func TestUpdateAppointmentBody(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(Appointment{ID: "appt-1"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	when := "2025-06-16T15:00:00Z"
	_, err := client.UpdateAppointment(context.Background(), "appt-1", AppointmentUpdate{ScheduledFor: &when})
	if err != nil {
		t.Fatalf("UpdateAppointment: %v", err)
	}

	if gotMethod != http.MethodPatch || gotPath != "/api/appointments/appt-1" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if gotBody["scheduledFor"] != when {
		t.Errorf("body = %v", gotBody)
	}
	// Unset fields must be omitted entirely, not sent as null.
	if _, present := gotBody["totalDurationMinutes"]; present {
		t.Error("unset duration leaked into PATCH body")
	}
}

func TestStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "appointment not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.UpdateBlock(context.Background(), "nope", BlockUpdate{})
	if err == nil {
		t.Fatal("expected error for 404")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error type = %T: %v", err, err)
	}
	if statusErr.Code != http.StatusNotFound {
		t.Errorf("code = %d", statusErr.Code)
	}
}

func TestAppointmentEvent(t *testing.T) {
	appt := Appointment{
		ID:                   "appt-1",
		ScheduledFor:         "2025-06-16T14:00:00Z",
		TotalDurationMinutes: 45,
		ServiceName:          "Massage",
		ClientName:           "Grace",
		Status:               "scheduled",
	}

	ev, err := appt.Event()
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if ev.Kind != schedule.KindAppointment || ev.ID != "appt-1" || ev.BackingID != "appt-1" {
		t.Errorf("identity = %+v", ev)
	}
	if !ev.End.Equal(ev.Start.Add(45 * time.Minute)) {
		t.Errorf("end = %v", ev.End)
	}
	if ev.Duration() != 45 {
		t.Errorf("duration = %d", ev.Duration())
	}

	if _, err := (Appointment{ID: "x", ScheduledFor: "yesterday"}).Event(); err == nil {
		t.Error("unparseable instant must error")
	}
}

func TestBlockEvent(t *testing.T) {
	block := Block{ID: "9", StartsAt: "2025-06-16T17:00:00Z", EndsAt: "2025-06-16T18:00:00Z", Note: "Gym"}

	ev, err := block.Event()
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if ev.ID != "block-9" || ev.BackingID != "9" || ev.Kind != schedule.KindBlock {
		t.Errorf("identity = %+v", ev)
	}
	if ev.Title != "Gym" {
		t.Errorf("title = %s", ev.Title)
	}

	unnamed := Block{ID: "9", StartsAt: "2025-06-16T17:00:00Z", EndsAt: "2025-06-16T18:00:00Z"}
	ev, err = unnamed.Event()
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if ev.Title != "Blocked" {
		t.Errorf("default title = %s", ev.Title)
	}
}

func TestWorkingConfigs(t *testing.T) {
	cal := Calendar{
		WorkingHours: map[string]map[string]WireDayHours{
			"studio": {"mon": {Enabled: true, Start: "09:00", End: "17:00"}},
		},
	}

	configs := cal.WorkingConfigs()
	day, ok := configs["studio"]["mon"]
	if !ok || !day.Enabled || day.Start != "09:00" || day.End != "17:00" {
		t.Errorf("configs = %+v", configs)
	}
}
