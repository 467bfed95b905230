package store

import (
	"context"
	"database/sql"
)

const getWeeklyAvailabilityForDay = `
SELECT id, field_id, day_of_week, start_time, end_time, price, available_durations
FROM weekly_availability
WHERE field_id = ? AND day_of_week = ?
`

type GetWeeklyAvailabilityForDayParams struct {
	FieldID   int64
	DayOfWeek int64
}

func (q *Queries) GetWeeklyAvailabilityForDay(ctx context.Context, arg GetWeeklyAvailabilityForDayParams) (WeeklyAvailability, error) {
	row := q.db.QueryRowContext(ctx, getWeeklyAvailabilityForDay, arg.FieldID, arg.DayOfWeek)
	return scanWeeklyAvailability(row)
}

const listWeeklyAvailability = `
SELECT id, field_id, day_of_week, start_time, end_time, price, available_durations
FROM weekly_availability
WHERE field_id = ?
ORDER BY day_of_week
`

func (q *Queries) ListWeeklyAvailability(ctx context.Context, fieldID int64) ([]WeeklyAvailability, error) {
	rows, err := q.db.QueryContext(ctx, listWeeklyAvailability, fieldID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []WeeklyAvailability
	for rows.Next() {
		var a WeeklyAvailability
		if err := rows.Scan(&a.ID, &a.FieldID, &a.DayOfWeek, &a.StartTime, &a.EndTime, &a.Price, &a.AvailableDurations); err != nil {
			return nil, err
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

const deleteWeeklyAvailabilityForDay = `
DELETE FROM weekly_availability WHERE field_id = ? AND day_of_week = ?
`

type DeleteWeeklyAvailabilityForDayParams struct {
	FieldID   int64
	DayOfWeek int64
}

func (q *Queries) DeleteWeeklyAvailabilityForDay(ctx context.Context, arg DeleteWeeklyAvailabilityForDayParams) error {
	_, err := q.db.ExecContext(ctx, deleteWeeklyAvailabilityForDay, arg.FieldID, arg.DayOfWeek)
	return err
}

const insertWeeklyAvailability = `
INSERT INTO weekly_availability (field_id, day_of_week, start_time, end_time, price, available_durations)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, field_id, day_of_week, start_time, end_time, price, available_durations
`

type InsertWeeklyAvailabilityParams struct {
	FieldID            int64
	DayOfWeek          int64
	StartTime          string
	EndTime            string
	Price              float64
	AvailableDurations string
}

func (q *Queries) InsertWeeklyAvailability(ctx context.Context, arg InsertWeeklyAvailabilityParams) (WeeklyAvailability, error) {
	row := q.db.QueryRowContext(ctx, insertWeeklyAvailability,
		arg.FieldID,
		arg.DayOfWeek,
		arg.StartTime,
		arg.EndTime,
		arg.Price,
		arg.AvailableDurations,
	)
	return scanWeeklyAvailability(row)
}

func scanWeeklyAvailability(row *sql.Row) (WeeklyAvailability, error) {
	var a WeeklyAvailability
	err := row.Scan(&a.ID, &a.FieldID, &a.DayOfWeek, &a.StartTime, &a.EndTime, &a.Price, &a.AvailableDurations)
	return a, err
}

const insertBlockedInterval = `
INSERT INTO blocked_intervals (field_id, start_time, end_time, reason)
VALUES (?, ?, ?, ?)
RETURNING id, field_id, start_time, end_time, reason
`

type InsertBlockedIntervalParams struct {
	FieldID   int64
	StartTime string
	EndTime   string
	Reason    string
}

func (q *Queries) InsertBlockedInterval(ctx context.Context, arg InsertBlockedIntervalParams) (BlockedInterval, error) {
	row := q.db.QueryRowContext(ctx, insertBlockedInterval, arg.FieldID, arg.StartTime, arg.EndTime, arg.Reason)
	var b BlockedInterval
	err := row.Scan(&b.ID, &b.FieldID, &b.StartTime, &b.EndTime, &b.Reason)
	return b, err
}

const listBlockedIntervals = `
SELECT id, field_id, start_time, end_time, reason
FROM blocked_intervals
WHERE field_id = ?
ORDER BY start_time
`

func (q *Queries) ListBlockedIntervals(ctx context.Context, fieldID int64) ([]BlockedInterval, error) {
	return q.queryBlockedIntervals(ctx, listBlockedIntervals, fieldID)
}

const listBlockedIntervalsInRange = `
SELECT id, field_id, start_time, end_time, reason
FROM blocked_intervals
WHERE field_id = ? AND start_time >= ? AND end_time <= ?
ORDER BY start_time
`

type ListBlockedIntervalsInRangeParams struct {
	FieldID   int64
	StartTime string
	EndTime   string
}

func (q *Queries) ListBlockedIntervalsInRange(ctx context.Context, arg ListBlockedIntervalsInRangeParams) ([]BlockedInterval, error) {
	return q.queryBlockedIntervals(ctx, listBlockedIntervalsInRange, arg.FieldID, arg.StartTime, arg.EndTime)
}

const deleteBlockedInterval = `
DELETE FROM blocked_intervals WHERE field_id = ? AND start_time = ? AND end_time = ?
`

type DeleteBlockedIntervalParams struct {
	FieldID   int64
	StartTime string
	EndTime   string
}

func (q *Queries) DeleteBlockedInterval(ctx context.Context, arg DeleteBlockedIntervalParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteBlockedInterval, arg.FieldID, arg.StartTime, arg.EndTime)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (q *Queries) queryBlockedIntervals(ctx context.Context, query string, args ...any) ([]BlockedInterval, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocked []BlockedInterval
	for rows.Next() {
		var b BlockedInterval
		if err := rows.Scan(&b.ID, &b.FieldID, &b.StartTime, &b.EndTime, &b.Reason); err != nil {
			return nil, err
		}
		blocked = append(blocked, b)
	}
	return blocked, rows.Err()
}
