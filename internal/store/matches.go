package store

import (
	"context"
	"database/sql"
)

const matchColumns = `id, league_id, home_team_id, away_team_id, field_id, match_date, match_time, status, home_score, away_score`

const createMatch = `
INSERT INTO matches (league_id, home_team_id, away_team_id, field_id, match_date, match_time, status)
VALUES (?, ?, ?, ?, ?, ?, 'pending')
RETURNING ` + matchColumns

type CreateMatchParams struct {
	LeagueID   int64
	HomeTeamID int64
	AwayTeamID int64
	FieldID    int64
	MatchDate  string
	MatchTime  string
}

func (q *Queries) CreateMatch(ctx context.Context, arg CreateMatchParams) (Match, error) {
	row := q.db.QueryRowContext(ctx, createMatch,
		arg.LeagueID,
		arg.HomeTeamID,
		arg.AwayTeamID,
		arg.FieldID,
		arg.MatchDate,
		arg.MatchTime,
	)
	return scanMatch(row)
}

const getMatch = `
SELECT ` + matchColumns + ` FROM matches WHERE id = ?`

func (q *Queries) GetMatch(ctx context.Context, id int64) (Match, error) {
	return scanMatch(q.db.QueryRowContext(ctx, getMatch, id))
}

const updateMatchScore = `
UPDATE matches SET home_score = ?, away_score = ?, status = 'played'
WHERE id = ?
RETURNING ` + matchColumns

type UpdateMatchScoreParams struct {
	HomeScore int64
	AwayScore int64
	ID        int64
}

func (q *Queries) UpdateMatchScore(ctx context.Context, arg UpdateMatchScoreParams) (Match, error) {
	row := q.db.QueryRowContext(ctx, updateMatchScore, arg.HomeScore, arg.AwayScore, arg.ID)
	return scanMatch(row)
}

const listMatchesByLeague = `
SELECT ` + matchColumns + `
FROM matches
WHERE league_id = ?
ORDER BY match_date, match_time, id`

func (q *Queries) ListMatchesByLeague(ctx context.Context, leagueID int64) ([]Match, error) {
	rows, err := q.db.QueryContext(ctx, listMatchesByLeague, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := scanMatchFromRows(rows, &m); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

type MatchWithTeamNames struct {
	Match
	HomeTeamName string
	AwayTeamName string
}

const listMatchesByLeagueWithNames = `
SELECT m.id, m.league_id, m.home_team_id, m.away_team_id, m.field_id, m.match_date, m.match_time, m.status, m.home_score, m.away_score,
       ht.name, at.name
FROM matches m
JOIN teams ht ON m.home_team_id = ht.id
JOIN teams at ON m.away_team_id = at.id
WHERE m.league_id = ?
ORDER BY m.match_date, m.match_time, m.id`

func (q *Queries) ListMatchesByLeagueWithNames(ctx context.Context, leagueID int64) ([]MatchWithTeamNames, error) {
	return q.queryMatchesWithNames(ctx, listMatchesByLeagueWithNames, leagueID)
}

const listMatchesByLeagueAndDate = `
SELECT m.id, m.league_id, m.home_team_id, m.away_team_id, m.field_id, m.match_date, m.match_time, m.status, m.home_score, m.away_score,
       ht.name, at.name
FROM matches m
JOIN teams ht ON m.home_team_id = ht.id
JOIN teams at ON m.away_team_id = at.id
WHERE m.league_id = ? AND m.match_date = ?
ORDER BY m.match_time, m.id`

type ListMatchesByLeagueAndDateParams struct {
	LeagueID  int64
	MatchDate string
}

func (q *Queries) ListMatchesByLeagueAndDate(ctx context.Context, arg ListMatchesByLeagueAndDateParams) ([]MatchWithTeamNames, error) {
	return q.queryMatchesWithNames(ctx, listMatchesByLeagueAndDate, arg.LeagueID, arg.MatchDate)
}

const countMatchesByLeague = `
SELECT COUNT(*) FROM matches WHERE league_id = ?`

func (q *Queries) CountMatchesByLeague(ctx context.Context, leagueID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countMatchesByLeague, leagueID).Scan(&count)
	return count, err
}

func (q *Queries) queryMatchesWithNames(ctx context.Context, query string, args ...any) ([]MatchWithTeamNames, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []MatchWithTeamNames
	for rows.Next() {
		var m MatchWithTeamNames
		if err := rows.Scan(
			&m.ID, &m.LeagueID, &m.HomeTeamID, &m.AwayTeamID, &m.FieldID,
			&m.MatchDate, &m.MatchTime, &m.Status, &m.HomeScore, &m.AwayScore,
			&m.HomeTeamName, &m.AwayTeamName,
		); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func scanMatch(row *sql.Row) (Match, error) {
	var m Match
	err := row.Scan(
		&m.ID, &m.LeagueID, &m.HomeTeamID, &m.AwayTeamID, &m.FieldID,
		&m.MatchDate, &m.MatchTime, &m.Status, &m.HomeScore, &m.AwayScore,
	)
	return m, err
}

func scanMatchFromRows(rows *sql.Rows, m *Match) error {
	return rows.Scan(
		&m.ID, &m.LeagueID, &m.HomeTeamID, &m.AwayTeamID, &m.FieldID,
		&m.MatchDate, &m.MatchTime, &m.Status, &m.HomeScore, &m.AwayScore,
	)
}
