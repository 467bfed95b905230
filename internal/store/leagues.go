package store

import (
	"context"
	"database/sql"
)

const leagueColumns = `id, name, field_id, owner_id, start_date, end_date, game_days, game_times, status`

const createLeague = `
INSERT INTO leagues (name, field_id, owner_id, start_date, end_date, game_days, game_times, status)
VALUES (?, ?, ?, ?, ?, ?, ?, 'pending')
RETURNING ` + leagueColumns

type CreateLeagueParams struct {
	Name      string
	FieldID   int64
	OwnerID   int64
	StartDate string
	EndDate   string
	GameDays  string
	GameTimes string
}

func (q *Queries) CreateLeague(ctx context.Context, arg CreateLeagueParams) (League, error) {
	row := q.db.QueryRowContext(ctx, createLeague,
		arg.Name,
		arg.FieldID,
		arg.OwnerID,
		arg.StartDate,
		arg.EndDate,
		arg.GameDays,
		arg.GameTimes,
	)
	return scanLeague(row)
}

const getLeague = `
SELECT ` + leagueColumns + ` FROM leagues WHERE id = ?`

func (q *Queries) GetLeague(ctx context.Context, id int64) (League, error) {
	return scanLeague(q.db.QueryRowContext(ctx, getLeague, id))
}

const listLeagues = `
SELECT ` + leagueColumns + ` FROM leagues ORDER BY start_date, id`

func (q *Queries) ListLeagues(ctx context.Context) ([]League, error) {
	return q.queryLeagues(ctx, listLeagues)
}

const listLeaguesByOwner = `
SELECT ` + leagueColumns + ` FROM leagues WHERE owner_id = ? ORDER BY start_date, id`

func (q *Queries) ListLeaguesByOwner(ctx context.Context, ownerID int64) ([]League, error) {
	return q.queryLeagues(ctx, listLeaguesByOwner, ownerID)
}

const listLeaguesByOwnerAndField = `
SELECT ` + leagueColumns + ` FROM leagues WHERE owner_id = ? AND field_id = ? ORDER BY start_date, id`

type ListLeaguesByOwnerAndFieldParams struct {
	OwnerID int64
	FieldID int64
}

func (q *Queries) ListLeaguesByOwnerAndField(ctx context.Context, arg ListLeaguesByOwnerAndFieldParams) ([]League, error) {
	return q.queryLeagues(ctx, listLeaguesByOwnerAndField, arg.OwnerID, arg.FieldID)
}

// Leagues the user participates in through a team they captain.
const listLeaguesByMember = `
SELECT DISTINCT l.id, l.name, l.field_id, l.owner_id, l.start_date, l.end_date, l.game_days, l.game_times, l.status
FROM leagues l
JOIN teams t ON t.league_id = l.id
WHERE t.owner_id = ?
ORDER BY l.start_date, l.id`

func (q *Queries) ListLeaguesByMember(ctx context.Context, userID int64) ([]League, error) {
	return q.queryLeagues(ctx, listLeaguesByMember, userID)
}

// MarkLeagueStarted is the single-writer guard for league starts: the status
// condition means exactly one of any number of concurrent starts flips the row.
const markLeagueStarted = `
UPDATE leagues SET status = 'started' WHERE id = ? AND status = 'pending'`

func (q *Queries) MarkLeagueStarted(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, markLeagueStarted, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const markExpiredLeaguesFinished = `
UPDATE leagues SET status = 'finished' WHERE status = 'started' AND end_date < ?`

func (q *Queries) MarkExpiredLeaguesFinished(ctx context.Context, today string) (int64, error) {
	result, err := q.db.ExecContext(ctx, markExpiredLeaguesFinished, today)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteLeague = `
DELETE FROM leagues WHERE id = ?`

func (q *Queries) DeleteLeague(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteLeague, id)
	return err
}

func (q *Queries) queryLeagues(ctx context.Context, query string, args ...any) ([]League, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leagues []League
	for rows.Next() {
		var l League
		if err := rows.Scan(
			&l.ID, &l.Name, &l.FieldID, &l.OwnerID, &l.StartDate,
			&l.EndDate, &l.GameDays, &l.GameTimes, &l.Status,
		); err != nil {
			return nil, err
		}
		leagues = append(leagues, l)
	}
	return leagues, rows.Err()
}

func scanLeague(row *sql.Row) (League, error) {
	var l League
	err := row.Scan(
		&l.ID, &l.Name, &l.FieldID, &l.OwnerID, &l.StartDate,
		&l.EndDate, &l.GameDays, &l.GameTimes, &l.Status,
	)
	return l, err
}
