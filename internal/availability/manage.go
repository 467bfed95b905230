package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mgallardo/canchas/internal/db"
	"github.com/mgallardo/canchas/internal/interval"
	"github.com/mgallardo/canchas/internal/store"
)

var ErrBlockedNotFound = errors.New("blocked interval not found")

// ValidationError reports a malformed availability entry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// WeeklyEntry is one weekly window write. Durations are the permitted booking
// lengths in minutes.
type WeeklyEntry struct {
	FieldID   int64
	Day       time.Weekday
	Start     interval.Minutes
	End       interval.Minutes
	Price     float64
	Durations []int
}

func (e WeeklyEntry) validate() error {
	if e.FieldID <= 0 {
		return ValidationError{Field: "field_id", Reason: "is required"}
	}
	if e.Day < time.Sunday || e.Day > time.Saturday {
		return ValidationError{Field: "day_of_week", Reason: "must be between 0 and 6"}
	}
	if e.Start >= e.End {
		return ValidationError{Field: "start_time", Reason: "must be before end_time"}
	}
	if e.Price < 0 {
		return ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if len(e.Durations) == 0 {
		return ValidationError{Field: "available_durations", Reason: "must not be empty"}
	}
	for _, d := range e.Durations {
		if d <= 0 {
			return ValidationError{Field: "available_durations", Reason: "must contain positive minutes"}
		}
	}
	return nil
}

// ReplaceWeekly writes the given weekly windows with replace-by-key
// semantics: for each (field, day) the previous row is removed and the new
// one inserted in the same transaction, so no request ever observes the field
// without a row for that day.
func ReplaceWeekly(ctx context.Context, database *db.DB, entries []WeeklyEntry) ([]store.WeeklyAvailability, error) {
	if len(entries) == 0 {
		return nil, ValidationError{Field: "entries", Reason: "must not be empty"}
	}
	for _, entry := range entries {
		if err := entry.validate(); err != nil {
			return nil, err
		}
	}

	var saved []store.WeeklyAvailability
	err := database.RunInTx(ctx, func(tx *db.DB) error {
		for _, entry := range entries {
			if err := tx.Queries.DeleteWeeklyAvailabilityForDay(ctx, store.DeleteWeeklyAvailabilityForDayParams{
				FieldID:   entry.FieldID,
				DayOfWeek: int64(entry.Day),
			}); err != nil {
				return fmt.Errorf("delete weekly availability: %w", err)
			}

			durations, err := json.Marshal(entry.Durations)
			if err != nil {
				return fmt.Errorf("encode durations: %w", err)
			}
			row, err := tx.Queries.InsertWeeklyAvailability(ctx, store.InsertWeeklyAvailabilityParams{
				FieldID:            entry.FieldID,
				DayOfWeek:          int64(entry.Day),
				StartTime:          entry.Start.String(),
				EndTime:            entry.End.String(),
				Price:              entry.Price,
				AvailableDurations: string(durations),
			})
			if err != nil {
				return fmt.Errorf("insert weekly availability: %w", err)
			}
			saved = append(saved, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Int("entries", len(saved)).Msg("Weekly availability replaced")
	return saved, nil
}

// RemoveWeekly deletes the weekly windows for the given days of a field.
func RemoveWeekly(ctx context.Context, database *db.DB, fieldID int64, days []time.Weekday) error {
	if fieldID <= 0 {
		return ValidationError{Field: "field_id", Reason: "is required"}
	}
	if len(days) == 0 {
		return ValidationError{Field: "days", Reason: "must not be empty"}
	}
	return database.RunInTx(ctx, func(tx *db.DB) error {
		for _, day := range days {
			if day < time.Sunday || day > time.Saturday {
				return ValidationError{Field: "days", Reason: "must be between 0 and 6"}
			}
			if err := tx.Queries.DeleteWeeklyAvailabilityForDay(ctx, store.DeleteWeeklyAvailabilityForDayParams{
				FieldID:   fieldID,
				DayOfWeek: int64(day),
			}); err != nil {
				return fmt.Errorf("delete weekly availability: %w", err)
			}
		}
		return nil
	})
}

// BlockedEntry is one absolute exclusion window. A zero End defaults to
// Start, producing a point exclusion.
type BlockedEntry struct {
	FieldID int64
	Start   time.Time
	End     time.Time
	Reason  string
}

// AddBlocked inserts the given exclusion windows in one transaction.
func AddBlocked(ctx context.Context, database *db.DB, entries []BlockedEntry) ([]store.BlockedInterval, error) {
	if len(entries) == 0 {
		return nil, ValidationError{Field: "entries", Reason: "must not be empty"}
	}

	var saved []store.BlockedInterval
	err := database.RunInTx(ctx, func(tx *db.DB) error {
		for _, entry := range entries {
			if entry.FieldID <= 0 {
				return ValidationError{Field: "field_id", Reason: "is required"}
			}
			if entry.Start.IsZero() {
				return ValidationError{Field: "start_time", Reason: "is required"}
			}
			end := entry.End
			if end.IsZero() {
				end = entry.Start
			}
			if end.Before(entry.Start) {
				return ValidationError{Field: "end_time", Reason: "must not be before start_time"}
			}

			row, err := tx.Queries.InsertBlockedInterval(ctx, store.InsertBlockedIntervalParams{
				FieldID:   entry.FieldID,
				StartTime: entry.Start.UTC().Format(time.RFC3339),
				EndTime:   end.UTC().Format(time.RFC3339),
				Reason:    entry.Reason,
			})
			if err != nil {
				return fmt.Errorf("insert blocked interval: %w", err)
			}
			saved = append(saved, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Int("entries", len(saved)).Msg("Blocked intervals added")
	return saved, nil
}

// RemoveBlocked deletes the exclusion window matching (field, start, end).
// A zero end defaults to start, mirroring AddBlocked.
func RemoveBlocked(ctx context.Context, database *db.DB, fieldID int64, start, end time.Time) error {
	if fieldID <= 0 {
		return ValidationError{Field: "field_id", Reason: "is required"}
	}
	if start.IsZero() {
		return ValidationError{Field: "start_time", Reason: "is required"}
	}
	if end.IsZero() {
		end = start
	}

	affected, err := database.Queries.DeleteBlockedInterval(ctx, store.DeleteBlockedIntervalParams{
		FieldID:   fieldID,
		StartTime: start.UTC().Format(time.RFC3339),
		EndTime:   end.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("delete blocked interval: %w", err)
	}
	if affected == 0 {
		return ErrBlockedNotFound
	}
	return nil
}
