package schedule

import (
	"fmt"
	"sort"
	"time"

	"verdandi/internal/tz"
)

// DayHours is one weekday's entry of a working-hours configuration, as the
// backend delivers it: zone-naive "HH:MM" wall-clock strings interpreted in
// the professional's timezone only at the point of use.
type DayHours struct {
	Enabled bool
	Start   string // "HH:MM", 24-hour, zero-padded
	End     string
}

// HoursConfig maps weekday keys ("sun".."sat") to that day's hours. A
// professional may carry several named configurations (for example two
// service locations); each is a peer input to MergeWindows.
type HoursConfig map[string]DayHours

// WorkingWindow is a per-day open interval in minutes from local midnight.
type WorkingWindow struct {
	StartMinutes int
	EndMinutes   int
}

var weekdayKeys = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// WeekdayKey returns the backend's key for a weekday.
func WeekdayKey(d time.Weekday) string {
	return weekdayKeys[int(d)]
}

// ParseClock converts "HH:MM" to minutes from midnight. The field name is
// reported on failure so config errors stay attributable.
func ParseClock(field, s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("%s: invalid clock time %q", field, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%s: clock time %q out of range", field, s)
	}
	return h*60 + m, nil
}

// WindowFor resolves one configuration's open window for the local calendar
// day containing day. The weekday is resolved in loc, not in the caller's
// zone. Returns ok=false when the day is closed: entry absent, disabled,
// unparseable, or end <= start.
func WindowFor(day time.Time, loc *time.Location, config HoursConfig) (WorkingWindow, bool) {
	entry, present := config[WeekdayKey(tz.Weekday(day, loc))]
	if !present || !entry.Enabled {
		return WorkingWindow{}, false
	}

	start, err := ParseClock("start", entry.Start)
	if err != nil {
		return WorkingWindow{}, false
	}
	end, err := ParseClock("end", entry.End)
	if err != nil {
		return WorkingWindow{}, false
	}
	if end <= start {
		return WorkingWindow{}, false
	}

	return WorkingWindow{StartMinutes: start, EndMinutes: end}, true
}

// WindowsFor resolves every named configuration for the day, skipping
// closed ones.
func WindowsFor(day time.Time, loc *time.Location, configs map[string]HoursConfig) []WorkingWindow {
	var windows []WorkingWindow
	for _, name := range sortedNames(configs) {
		if w, ok := WindowFor(day, loc, configs[name]); ok {
			windows = append(windows, w)
		}
	}
	return windows
}

// MergeWindows reduces overlapping or touching windows to a minimal sorted
// set of disjoint segments. Standard interval union: sort by start, then a
// single walk extending the running segment while the next start is within
// reach.
func MergeWindows(windows []WorkingWindow) []WorkingWindow {
	if len(windows) == 0 {
		return nil
	}

	sorted := make([]WorkingWindow, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StartMinutes != sorted[j].StartMinutes {
			return sorted[i].StartMinutes < sorted[j].StartMinutes
		}
		return sorted[i].EndMinutes < sorted[j].EndMinutes
	})

	merged := []WorkingWindow{sorted[0]}
	for _, w := range sorted[1:] {
		last := &merged[len(merged)-1]
		if w.StartMinutes <= last.EndMinutes {
			if w.EndMinutes > last.EndMinutes {
				last.EndMinutes = w.EndMinutes
			}
			continue
		}
		merged = append(merged, w)
	}

	return merged
}

// Contains reports whether [startMinutes, endMinutes) fits entirely inside
// the window.
func (w WorkingWindow) Contains(startMinutes, endMinutes int) bool {
	return startMinutes >= w.StartMinutes && endMinutes <= w.EndMinutes
}

// OutsideWorkingHours reports whether the requested minute span on the
// given day falls outside every resolved working window. Used both to warn
// before an out-of-hours booking and to shade the grid.
func OutsideWorkingHours(day time.Time, startMinutes, endMinutes int, configs map[string]HoursConfig, loc *time.Location) bool {
	for _, seg := range MergeWindows(WindowsFor(day, loc, configs)) {
		if seg.Contains(startMinutes, endMinutes) {
			return false
		}
	}
	return true
}

func sortedNames(configs map[string]HoursConfig) []string {
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
