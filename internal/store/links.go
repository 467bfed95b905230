package store

import (
	"context"
	"database/sql"
)

const getLeagueLinkByDate = `
SELECT id, league_id, link, link_date, expires_at
FROM league_links
WHERE league_id = ? AND link_date = ?`

type GetLeagueLinkByDateParams struct {
	LeagueID int64
	LinkDate string
}

func (q *Queries) GetLeagueLinkByDate(ctx context.Context, arg GetLeagueLinkByDateParams) (LeagueLink, error) {
	return scanLeagueLink(q.db.QueryRowContext(ctx, getLeagueLinkByDate, arg.LeagueID, arg.LinkDate))
}

const createLeagueLink = `
INSERT INTO league_links (league_id, link, link_date, expires_at)
VALUES (?, ?, ?, ?)
RETURNING id, league_id, link, link_date, expires_at`

type CreateLeagueLinkParams struct {
	LeagueID  int64
	Link      string
	LinkDate  string
	ExpiresAt string
}

func (q *Queries) CreateLeagueLink(ctx context.Context, arg CreateLeagueLinkParams) (LeagueLink, error) {
	row := q.db.QueryRowContext(ctx, createLeagueLink, arg.LeagueID, arg.Link, arg.LinkDate, arg.ExpiresAt)
	return scanLeagueLink(row)
}

const listLeagueLinks = `
SELECT id, league_id, link, link_date, expires_at
FROM league_links
WHERE league_id = ?
ORDER BY expires_at DESC`

func (q *Queries) ListLeagueLinks(ctx context.Context, leagueID int64) ([]LeagueLink, error) {
	rows, err := q.db.QueryContext(ctx, listLeagueLinks, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []LeagueLink
	for rows.Next() {
		var l LeagueLink
		if err := rows.Scan(&l.ID, &l.LeagueID, &l.Link, &l.LinkDate, &l.ExpiresAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func scanLeagueLink(row *sql.Row) (LeagueLink, error) {
	var l LeagueLink
	err := row.Scan(&l.ID, &l.LeagueID, &l.Link, &l.LinkDate, &l.ExpiresAt)
	return l, err
}
