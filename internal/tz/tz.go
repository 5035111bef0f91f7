// Package tz converts between UTC instants and wall-clock readings in the
// professional's configured IANA timezone. All times are stored in UTC;
// zoned parts exist only for display and interaction math.
package tz

import (
	"fmt"
	"time"
)

// Parts is a wall-clock reading as it would appear in some timezone.
type Parts struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
}

// Fallback is the zone used for calendar math when the configured timezone
// is missing or invalid. Never the machine-local zone: a professional in
// one city rendering on a machine in another must not get mixed math.
var Fallback = time.UTC

// Load resolves an IANA zone name, falling back to UTC on failure. The
// second return reports whether the name was usable so callers can flag
// incomplete configuration separately.
func Load(name string) (*time.Location, bool) {
	if name == "" {
		return Fallback, false
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Fallback, false
	}
	return loc, true
}

// Valid reports whether name resolves to a known IANA zone.
func Valid(name string) bool {
	_, ok := Load(name)
	return ok
}

// PartsOf returns the wall-clock reading of instant in loc.
func PartsOf(instant time.Time, loc *time.Location) Parts {
	t := instant.In(loc)
	return Parts{
		Year:   t.Year(),
		Month:  t.Month(),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// InstantOf converts a wall-clock reading in loc back to a UTC instant.
// time.Date resolves the zone offset for the given wall clock itself, so
// this is DST-safe: a reading inside a spring-forward gap normalizes to a
// real instant instead of looping or failing, and an ambiguous fall-back
// reading picks one offset deterministically.
func InstantOf(p Parts, loc *time.Location) time.Time {
	return time.Date(p.Year, p.Month, p.Day, p.Hour, p.Minute, p.Second, 0, loc).UTC()
}

// Midnight returns the UTC instant of local midnight of the day containing
// instant in loc.
func Midnight(instant time.Time, loc *time.Location) time.Time {
	p := PartsOf(instant, loc)
	return time.Date(p.Year, p.Month, p.Day, 0, 0, 0, 0, loc).UTC()
}

// AddDays shifts instant by a number of calendar days in loc, keeping the
// wall-clock time of day. Day arithmetic goes through time.Date so the
// offset is re-resolved; adding 24h worth of milliseconds to an instant is
// wrong across DST transitions.
func AddDays(instant time.Time, days int, loc *time.Location) time.Time {
	p := PartsOf(instant, loc)
	return time.Date(p.Year, p.Month, p.Day+days, p.Hour, p.Minute, p.Second, 0, loc).UTC()
}

// MinuteOfDay returns the wall-clock minutes since local midnight of
// instant in loc, in [0, 1439].
func MinuteOfDay(instant time.Time, loc *time.Location) int {
	p := PartsOf(instant, loc)
	return p.Hour*60 + p.Minute
}

// SameDay reports whether two instants fall on the same calendar date
// in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	pa, pb := PartsOf(a, loc), PartsOf(b, loc)
	return pa.Year == pb.Year && pa.Month == pb.Month && pa.Day == pb.Day
}

// AtMinutes returns the UTC instant for the given minutes-from-midnight on
// the local calendar day containing day.
func AtMinutes(day time.Time, minutes int, loc *time.Location) time.Time {
	p := PartsOf(day, loc)
	return time.Date(p.Year, p.Month, p.Day, minutes/60, minutes%60, 0, 0, loc).UTC()
}

// Weekday returns the local day of week of instant in loc.
func Weekday(instant time.Time, loc *time.Location) time.Weekday {
	return instant.In(loc).Weekday()
}

func (p Parts) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		p.Year, p.Month, p.Day, p.Hour, p.Minute, p.Second)
}
