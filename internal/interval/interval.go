// Package interval holds the time arithmetic shared by the booking and
// scheduling paths. Weekday numbering follows time.Weekday (0 = Sunday)
// everywhere; no caller applies an offset.
package interval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Minutes is a clock time expressed as minutes since midnight.
type Minutes int

const minutesPerDay = 24 * 60

var errBadClock = errors.New("time must be in HH:MM format")

// ParseClock parses "HH:MM" (seconds tolerated and ignored) into Minutes.
func ParseClock(raw string) (Minutes, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errBadClock
	}
	parts := strings.Split(raw, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, errBadClock
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, errBadClock
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, errBadClock
	}
	return Minutes(hour*60 + minute), nil
}

func (m Minutes) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

func (m Minutes) Valid() bool {
	return m >= 0 && m <= minutesPerDay
}

// At composes a calendar date with a clock time in loc.
func At(date time.Time, m Minutes, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(m)/60, int(m)%60, 0, 0, loc)
}

// Absolute is a half-open [Start, End) timestamp interval. An interval with
// Start == End is a point exclusion rather than an empty interval.
type Absolute struct {
	Start time.Time
	End   time.Time
}

// Span builds the absolute interval covered by [start, end) on date in loc.
func Span(date time.Time, start, end Minutes, loc *time.Location) Absolute {
	return Absolute{Start: At(date, start, loc), End: At(date, end, loc)}
}

// Overlaps reports whether a and b share any instant. Touching endpoints do
// not overlap. A zero-width interval overlaps any interval containing its
// instant, including one that starts exactly on it.
func (a Absolute) Overlaps(b Absolute) bool {
	if a.Start.Equal(a.End) && b.Start.Equal(b.End) {
		return a.Start.Equal(b.Start)
	}
	if a.Start.Equal(a.End) {
		return contains(b, a.Start)
	}
	if b.Start.Equal(b.End) {
		return contains(a, b.Start)
	}
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func contains(a Absolute, t time.Time) bool {
	return !t.Before(a.Start) && t.Before(a.End)
}

// Weekly is a recurring window on a single weekday.
type Weekly struct {
	Day   time.Weekday
	Start Minutes
	End   Minutes
}

// Covers reports whether the requested [start, end) window on date falls
// entirely inside the weekly window.
func (w Weekly) Covers(date time.Time, start, end Minutes) bool {
	if date.Weekday() != w.Day {
		return false
	}
	return w.Start <= start && end <= w.End
}

// Truncate drops the clock portion of value, keeping its location.
func Truncate(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

const DateLayout = "2006-01-02"

// ParseDate parses a "2006-01-02" date in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in YYYY-MM-DD format")
	}
	return date, nil
}
