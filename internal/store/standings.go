package store

import "context"

const createStanding = `
INSERT INTO standings (league_id, team_id, played, won, drawn, lost, goals_for, goals_against, points)
VALUES (?, ?, 0, 0, 0, 0, 0, 0, 0)`

type CreateStandingParams struct {
	LeagueID int64
	TeamID   int64
}

func (q *Queries) CreateStanding(ctx context.Context, arg CreateStandingParams) error {
	_, err := q.db.ExecContext(ctx, createStanding, arg.LeagueID, arg.TeamID)
	return err
}

const updateStanding = `
UPDATE standings
SET played = ?, won = ?, drawn = ?, lost = ?, goals_for = ?, goals_against = ?, points = ?
WHERE league_id = ? AND team_id = ?`

type UpdateStandingParams struct {
	Played       int64
	Won          int64
	Drawn        int64
	Lost         int64
	GoalsFor     int64
	GoalsAgainst int64
	Points       int64
	LeagueID     int64
	TeamID       int64
}

func (q *Queries) UpdateStanding(ctx context.Context, arg UpdateStandingParams) error {
	_, err := q.db.ExecContext(ctx, updateStanding,
		arg.Played, arg.Won, arg.Drawn, arg.Lost,
		arg.GoalsFor, arg.GoalsAgainst, arg.Points,
		arg.LeagueID, arg.TeamID,
	)
	return err
}

type StandingWithTeamName struct {
	Standing
	TeamName string
}

const listStandingsByLeague = `
SELECT s.id, s.league_id, s.team_id, s.played, s.won, s.drawn, s.lost, s.goals_for, s.goals_against, s.points,
       t.name
FROM standings s
JOIN teams t ON s.team_id = t.id
WHERE s.league_id = ?
ORDER BY s.points DESC, (s.goals_for - s.goals_against) DESC, s.goals_for DESC, t.name`

func (q *Queries) ListStandingsByLeague(ctx context.Context, leagueID int64) ([]StandingWithTeamName, error) {
	rows, err := q.db.QueryContext(ctx, listStandingsByLeague, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var standings []StandingWithTeamName
	for rows.Next() {
		var s StandingWithTeamName
		if err := rows.Scan(
			&s.ID, &s.LeagueID, &s.TeamID, &s.Played, &s.Won, &s.Drawn, &s.Lost,
			&s.GoalsFor, &s.GoalsAgainst, &s.Points, &s.TeamName,
		); err != nil {
			return nil, err
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}
