// Package availability decides whether a requested slot on a field is
// bookable, combining the field's weekly windows with ad-hoc blocked
// intervals. Blocked intervals always win over weekly availability.
package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mgallardo/canchas/internal/interval"
	"github.com/mgallardo/canchas/internal/store"
)

type Status int

const (
	StatusAllowed Status = iota
	StatusBlocked
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusAllowed:
		return "allowed"
	case StatusBlocked:
		return "blocked"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of a slot check. Price is only meaningful when
// Status is StatusAllowed; it is copied from the matching weekly window.
type Resolution struct {
	Status Status
	Price  float64
}

// Resolve checks the requested [start, end) window on date for the field.
// It is read-only; callers that intend to book must invoke it on a
// transaction-bound Queries so the read and the insert are one unit.
func Resolve(ctx context.Context, q *store.Queries, loc *time.Location, fieldID int64, date time.Time, start, end interval.Minutes) (Resolution, error) {
	requested := interval.Span(date, start, end, loc)

	blocked, err := q.ListBlockedIntervals(ctx, fieldID)
	if err != nil {
		return Resolution{}, fmt.Errorf("list blocked intervals: %w", err)
	}
	for _, row := range blocked {
		span, err := parseBlockedSpan(row)
		if err != nil {
			return Resolution{}, err
		}
		if span.Overlaps(requested) {
			return Resolution{Status: StatusBlocked}, nil
		}
	}

	row, err := q.GetWeeklyAvailabilityForDay(ctx, store.GetWeeklyAvailabilityForDayParams{
		FieldID:   fieldID,
		DayOfWeek: int64(date.Weekday()),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Resolution{Status: StatusUnavailable}, nil
	}
	if err != nil {
		return Resolution{}, fmt.Errorf("get weekly availability: %w", err)
	}

	window, err := weeklyWindow(row)
	if err != nil {
		return Resolution{}, err
	}
	if !window.Covers(date, start, end) {
		return Resolution{Status: StatusUnavailable}, nil
	}

	return Resolution{Status: StatusAllowed, Price: row.Price}, nil
}

func weeklyWindow(row store.WeeklyAvailability) (interval.Weekly, error) {
	start, err := interval.ParseClock(row.StartTime)
	if err != nil {
		return interval.Weekly{}, fmt.Errorf("weekly availability %d has invalid start_time %q", row.ID, row.StartTime)
	}
	end, err := interval.ParseClock(row.EndTime)
	if err != nil {
		return interval.Weekly{}, fmt.Errorf("weekly availability %d has invalid end_time %q", row.ID, row.EndTime)
	}
	return interval.Weekly{Day: time.Weekday(row.DayOfWeek), Start: start, End: end}, nil
}

func parseBlockedSpan(row store.BlockedInterval) (interval.Absolute, error) {
	start, err := time.Parse(time.RFC3339, row.StartTime)
	if err != nil {
		return interval.Absolute{}, fmt.Errorf("blocked interval %d has invalid start_time %q", row.ID, row.StartTime)
	}
	end, err := time.Parse(time.RFC3339, row.EndTime)
	if err != nil {
		return interval.Absolute{}, fmt.Errorf("blocked interval %d has invalid end_time %q", row.ID, row.EndTime)
	}
	return interval.Absolute{Start: start, End: end}, nil
}
