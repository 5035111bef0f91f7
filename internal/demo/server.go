// Package demo is an in-memory booking backend implementing the same API
// the real service exposes, so the TUI can be tried end-to-end without an
// account: `verdandi demo` in one terminal, `verdandi --api http://...` in
// another.
package demo

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"verdandi/internal/api"
)

// Store holds the demo data behind a mutex; handlers are the only writers.
type Store struct {
	mu           sync.Mutex
	appointments map[string]api.Appointment
	blocks       map[string]api.Block
	workingHours map[string]map[string]api.WireDayHours
	timeZone     string
}

// NewStore seeds a store with a plausible week for a professional in the
// given zone.
func NewStore(timeZone string) *Store {
	s := &Store{
		appointments: make(map[string]api.Appointment),
		blocks:       make(map[string]api.Block),
		timeZone:     timeZone,
		workingHours: map[string]map[string]api.WireDayHours{
			"studio": {
				"mon": {Enabled: true, Start: "09:00", End: "17:00"},
				"tue": {Enabled: true, Start: "09:00", End: "17:00"},
				"wed": {Enabled: true, Start: "09:00", End: "13:00"},
				"thu": {Enabled: true, Start: "09:00", End: "17:00"},
				"fri": {Enabled: true, Start: "09:00", End: "15:00"},
			},
			"mobile": {
				"wed": {Enabled: true, Start: "14:00", End: "19:00"},
				"sat": {Enabled: true, Start: "10:00", End: "14:00"},
			},
		},
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	loc, err := time.LoadLocation(s.timeZone)
	if err != nil {
		loc = time.UTC
	}

	now := time.Now().In(loc)
	day := func(offset int, hour, minute int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day()+offset, hour, minute, 0, 0, loc).UTC()
	}

	seedAppointments := []struct {
		offset   int
		hour     int
		minute   int
		duration int
		service  string
		client   string
		status   string
	}{
		{0, 10, 0, 60, "Deep tissue massage", "Ada Lovelace", "confirmed"},
		{0, 13, 30, 30, "Consultation", "Grace Hopper", "scheduled"},
		{1, 9, 0, 90, "Full session", "Mary Shelley", "confirmed"},
		{2, 15, 0, 45, "Follow-up", "Alan Turing", "scheduled"},
		{-1, 11, 0, 60, "Deep tissue massage", "Katherine Johnson", "completed"},
	}
	for _, a := range seedAppointments {
		id := uuid.NewString()
		s.appointments[id] = api.Appointment{
			ID:                   id,
			ScheduledFor:         api.FormatInstant(day(a.offset, a.hour, a.minute)),
			TotalDurationMinutes: a.duration,
			ServiceName:          a.service,
			ClientName:           a.client,
			Status:               a.status,
		}
	}

	seedBlocks := []struct {
		offset  int
		hour    int
		minute  int
		minutes int
		note    string
	}{
		{0, 12, 0, 60, "Lunch"},
		{1, 16, 0, 120, "School pickup"},
		{3, 9, 0, 180, "Training course"},
	}
	for _, b := range seedBlocks {
		id := uuid.NewString()
		start := day(b.offset, b.hour, b.minute)
		s.blocks[id] = api.Block{
			ID:       id,
			StartsAt: api.FormatInstant(start),
			EndsAt:   api.FormatInstant(start.Add(time.Duration(b.minutes) * time.Minute)),
			Note:     b.note,
		}
	}
}

// Handler wires the five collaborator endpoints onto a chi router.
func Handler(store *Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/calendar", store.getCalendar)
		r.Get("/blocks", store.listBlocks)
		r.Post("/blocks", store.createBlock)
		r.Patch("/blocks/{id}", store.updateBlock)
		r.Patch("/appointments/{id}", store.updateAppointment)
	})

	return r
}

func (s *Store) getCalendar(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cal := api.Calendar{
		Appointments: make([]api.Appointment, 0, len(s.appointments)),
		Blocks:       make([]api.Block, 0, len(s.blocks)),
		WorkingHours: s.workingHours,
		TimeZone:     s.timeZone,
	}
	for _, a := range s.appointments {
		cal.Appointments = append(cal.Appointments, a)
	}
	for _, b := range s.blocks {
		cal.Blocks = append(cal.Blocks, b)
	}
	s.mu.Unlock()

	cal.NeedsTimeZoneSetup = s.timeZone == ""
	cal.Stats = s.stats(&cal)
	writeJSON(w, http.StatusOK, cal)
}

func (s *Store) stats(cal *api.Calendar) api.CalendarStats {
	loc, err := time.LoadLocation(s.timeZone)
	if err != nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)

	stats := api.CalendarStats{}
	for _, a := range cal.Appointments {
		t, err := api.ParseInstant("scheduledFor", a.ScheduledFor)
		if err != nil {
			continue
		}
		local := t.In(loc)
		if local.Year() == now.Year() && local.YearDay() == now.YearDay() {
			stats.AppointmentsToday++
		}
		if t.After(now.UTC()) && t.Before(now.UTC().Add(7*24*time.Hour)) {
			stats.UpcomingWeek++
		}
	}
	return stats
}

func (s *Store) listBlocks(w http.ResponseWriter, r *http.Request) {
	from, err := api.ParseInstant("from", r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := api.ParseInstant("to", r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	blocks := []api.Block{}
	for _, b := range s.blocks {
		start, err1 := api.ParseInstant("startsAt", b.StartsAt)
		end, err2 := api.ParseInstant("endsAt", b.EndsAt)
		if err1 != nil || err2 != nil {
			continue
		}
		if start.Before(to) && end.After(from) {
			blocks = append(blocks, b)
		}
	}
	writeJSON(w, http.StatusOK, blocks)
}

func (s *Store) createBlock(w http.ResponseWriter, r *http.Request) {
	var create api.BlockCreate
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	start, err := api.ParseInstant("startsAt", create.StartsAt)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	end, err := api.ParseInstant("endsAt", create.EndsAt)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !end.After(start) {
		http.Error(w, "endsAt: must be after startsAt", http.StatusUnprocessableEntity)
		return
	}

	block := api.Block{
		ID:       uuid.NewString(),
		StartsAt: api.FormatInstant(start),
		EndsAt:   api.FormatInstant(end),
		Note:     create.Note,
	}

	s.mu.Lock()
	s.blocks[block.ID] = block
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, block)
}

func (s *Store) updateBlock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var update api.BlockUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	block, ok := s.blocks[id]
	if !ok {
		http.Error(w, "block not found", http.StatusNotFound)
		return
	}

	if update.StartsAt != nil {
		if _, err := api.ParseInstant("startsAt", *update.StartsAt); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		block.StartsAt = *update.StartsAt
	}
	if update.EndsAt != nil {
		if _, err := api.ParseInstant("endsAt", *update.EndsAt); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		block.EndsAt = *update.EndsAt
	}

	s.blocks[id] = block
	writeJSON(w, http.StatusOK, block)
}

func (s *Store) updateAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var update api.AppointmentUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.appointments[id]
	if !ok {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}

	if update.ScheduledFor != nil {
		if _, err := api.ParseInstant("scheduledFor", *update.ScheduledFor); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		appt.ScheduledFor = *update.ScheduledFor
	}
	if update.TotalDurationMinutes != nil {
		if *update.TotalDurationMinutes <= 0 {
			http.Error(w, "totalDurationMinutes: must be positive", http.StatusUnprocessableEntity)
			return
		}
		appt.TotalDurationMinutes = *update.TotalDurationMinutes
	}
	if update.Status != nil {
		appt.Status = *update.Status
	}

	s.appointments[id] = appt
	writeJSON(w, http.StatusOK, appt)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
