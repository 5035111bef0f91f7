package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WeekStart != "monday" || cfg.TimeIncrement != 30 {
		t.Errorf("defaults = %+v", cfg)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 0600", perm)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	want := &Config{
		APIURL:        "https://api.example.com",
		APIToken:      "tok",
		WeekStart:     "sunday",
		TimeIncrement: 15,
		AutoRefresh:   true,
		RefreshRate:   30 * time.Second,
	}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.APIURL != want.APIURL || got.APIToken != want.APIToken ||
		got.WeekStart != want.WeekStart || got.TimeIncrement != want.TimeIncrement ||
		got.RefreshRate != want.RefreshRate {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want func(*Config) bool
	}{
		{
			name: "unknown week start falls back to monday",
			in:   Config{WeekStart: "friday"},
			want: func(c *Config) bool { return c.WeekStart == "monday" },
		},
		{
			name: "unknown increment falls back to 30",
			in:   Config{TimeIncrement: 45},
			want: func(c *Config) bool { return c.TimeIncrement == 30 },
		},
		{
			name: "zero refresh rate gets default",
			in:   Config{},
			want: func(c *Config) bool { return c.RefreshRate == 60*time.Second },
		},
		{
			name: "valid values kept",
			in:   Config{WeekStart: "sunday", TimeIncrement: 15},
			want: func(c *Config) bool { return c.WeekStart == "sunday" && c.TimeIncrement == 15 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.in
			cfg.Normalize()
			if !tt.want(&cfg) {
				t.Errorf("normalized = %+v", cfg)
			}
		})
	}
}

func TestWeekStartDay(t *testing.T) {
	if (&Config{WeekStart: "sunday"}).WeekStartDay() != time.Sunday {
		t.Error("sunday not mapped")
	}
	if (&Config{WeekStart: "monday"}).WeekStartDay() != time.Monday {
		t.Error("monday not mapped")
	}
}

func TestWatcherFiresOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(path, DefaultConfig()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	changed := make(chan string, 1)
	w, err := NewWatcher(path, func(p string) {
		select {
		case changed <- p:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	cfg := DefaultConfig()
	cfg.TimeIncrement = 15
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not fire after write")
	}
}
