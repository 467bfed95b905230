package store

import (
	"context"
	"database/sql"
)

const reservationColumns = `id, field_id, user_id, reservation_date, start_time, end_time, price, status, created_at`

const createReservation = `
INSERT INTO reservations (field_id, user_id, reservation_date, start_time, end_time, price, status)
VALUES (?, ?, ?, ?, ?, ?, 'booked')
RETURNING ` + reservationColumns

type CreateReservationParams struct {
	FieldID         int64
	UserID          int64
	ReservationDate string
	StartTime       string
	EndTime         string
	Price           float64
}

func (q *Queries) CreateReservation(ctx context.Context, arg CreateReservationParams) (Reservation, error) {
	row := q.db.QueryRowContext(ctx, createReservation,
		arg.FieldID,
		arg.UserID,
		arg.ReservationDate,
		arg.StartTime,
		arg.EndTime,
		arg.Price,
	)
	return scanReservation(row)
}

const getReservation = `
SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`

func (q *Queries) GetReservation(ctx context.Context, id int64) (Reservation, error) {
	return scanReservation(q.db.QueryRowContext(ctx, getReservation, id))
}

// CancelReservation flips a booked reservation to cancelled. The status guard
// makes a second cancel (or a cancel of a missing row) report sql.ErrNoRows.
const cancelReservation = `
UPDATE reservations SET status = 'cancelled'
WHERE id = ? AND status = 'booked'
RETURNING ` + reservationColumns

func (q *Queries) CancelReservation(ctx context.Context, id int64) (Reservation, error) {
	return scanReservation(q.db.QueryRowContext(ctx, cancelReservation, id))
}

const listReservationsByField = `
SELECT ` + reservationColumns + `
FROM reservations
WHERE field_id = ?
ORDER BY reservation_date, start_time`

func (q *Queries) ListReservationsByField(ctx context.Context, fieldID int64) ([]Reservation, error) {
	return q.queryReservations(ctx, listReservationsByField, fieldID)
}

const listReservationsByFieldBetween = `
SELECT ` + reservationColumns + `
FROM reservations
WHERE field_id = ? AND reservation_date >= ? AND reservation_date <= ?
ORDER BY reservation_date, start_time`

type ListReservationsByFieldBetweenParams struct {
	FieldID   int64
	StartDate string
	EndDate   string
}

func (q *Queries) ListReservationsByFieldBetween(ctx context.Context, arg ListReservationsByFieldBetweenParams) ([]Reservation, error) {
	return q.queryReservations(ctx, listReservationsByFieldBetween, arg.FieldID, arg.StartDate, arg.EndDate)
}

const listUpcomingReservationsByUser = `
SELECT ` + reservationColumns + `
FROM reservations
WHERE user_id = ? AND reservation_date >= ?
ORDER BY reservation_date, start_time`

type ListUpcomingReservationsByUserParams struct {
	UserID   int64
	FromDate string
}

func (q *Queries) ListUpcomingReservationsByUser(ctx context.Context, arg ListUpcomingReservationsByUserParams) ([]Reservation, error) {
	return q.queryReservations(ctx, listUpcomingReservationsByUser, arg.UserID, arg.FromDate)
}

func (q *Queries) queryReservations(ctx context.Context, query string, args ...any) ([]Reservation, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []Reservation
	for rows.Next() {
		var r Reservation
		if err := rows.Scan(
			&r.ID, &r.FieldID, &r.UserID, &r.ReservationDate,
			&r.StartTime, &r.EndTime, &r.Price, &r.Status, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

func scanReservation(row *sql.Row) (Reservation, error) {
	var r Reservation
	err := row.Scan(
		&r.ID, &r.FieldID, &r.UserID, &r.ReservationDate,
		&r.StartTime, &r.EndTime, &r.Price, &r.Status, &r.CreatedAt,
	)
	return r, err
}
