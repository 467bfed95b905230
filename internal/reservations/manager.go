// Package reservations owns the booking state machine. A booking is a single
// transaction: the availability check and the insert commit or roll back as
// one unit, and a partial unique index on active slots rejects the loser of
// any concurrent race for the same slot.
package reservations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/mgallardo/canchas/internal/availability"
	"github.com/mgallardo/canchas/internal/db"
	"github.com/mgallardo/canchas/internal/interval"
	"github.com/mgallardo/canchas/internal/store"
)

var (
	ErrSlotBlocked     = errors.New("slot is blocked")
	ErrSlotUnavailable = errors.New("slot is not offered")
	ErrSlotTaken       = errors.New("slot is already booked")
	ErrNotFound        = errors.New("reservation not found")
)

// ValidationError reports a malformed booking request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type Manager struct {
	database *db.DB
	loc      *time.Location
}

func NewManager(database *db.DB, loc *time.Location) *Manager {
	if loc == nil {
		loc = time.UTC
	}
	return &Manager{database: database, loc: loc}
}

type BookRequest struct {
	FieldID int64
	UserID  int64
	Date    time.Time
	Start   interval.Minutes
	End     interval.Minutes
}

func (r BookRequest) validate() error {
	if r.FieldID <= 0 {
		return ValidationError{Field: "field_id", Reason: "is required"}
	}
	if r.UserID <= 0 {
		return ValidationError{Field: "user_id", Reason: "is required"}
	}
	if r.Date.IsZero() {
		return ValidationError{Field: "date", Reason: "is required"}
	}
	if !r.Start.Valid() || !r.End.Valid() || r.Start >= r.End {
		return ValidationError{Field: "start_time", Reason: "must be before end_time"}
	}
	return nil
}

// Book reserves the requested slot. The price is copied from the weekly
// availability window resolved inside the same transaction as the insert.
func (m *Manager) Book(ctx context.Context, req BookRequest) (store.Reservation, error) {
	if err := req.validate(); err != nil {
		return store.Reservation{}, err
	}

	var reservation store.Reservation
	err := m.database.RunInTx(ctx, func(tx *db.DB) error {
		resolution, err := availability.Resolve(ctx, tx.Queries, m.loc, req.FieldID, req.Date, req.Start, req.End)
		if err != nil {
			return err
		}
		switch resolution.Status {
		case availability.StatusBlocked:
			return ErrSlotBlocked
		case availability.StatusUnavailable:
			return ErrSlotUnavailable
		}

		reservation, err = tx.Queries.CreateReservation(ctx, store.CreateReservationParams{
			FieldID:         req.FieldID,
			UserID:          req.UserID,
			ReservationDate: req.Date.Format(interval.DateLayout),
			StartTime:       req.Start.String(),
			EndTime:         req.End.String(),
			Price:           resolution.Price,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("insert reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return store.Reservation{}, err
	}

	log.Ctx(ctx).Info().
		Int64("reservation_id", reservation.ID).
		Int64("field_id", reservation.FieldID).
		Str("date", reservation.ReservationDate).
		Str("slot", reservation.StartTime+"-"+reservation.EndTime).
		Msg("Reservation booked")
	return reservation, nil
}

// Cancel flips a booked reservation to cancelled. Cancelling a missing or
// already-cancelled reservation returns ErrNotFound; the first transition is
// the only state change the row ever makes.
func (m *Manager) Cancel(ctx context.Context, reservationID int64) (store.Reservation, error) {
	reservation, err := m.database.Queries.CancelReservation(ctx, reservationID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Reservation{}, ErrNotFound
	}
	if err != nil {
		return store.Reservation{}, fmt.Errorf("cancel reservation: %w", err)
	}

	log.Ctx(ctx).Info().Int64("reservation_id", reservation.ID).Msg("Reservation cancelled")
	return reservation, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
