package store

import "context"

const createTeam = `
INSERT INTO teams (league_id, name, owner_id)
VALUES (?, ?, ?)
RETURNING id, league_id, name, owner_id`

type CreateTeamParams struct {
	LeagueID int64
	Name     string
	OwnerID  int64
}

func (q *Queries) CreateTeam(ctx context.Context, arg CreateTeamParams) (Team, error) {
	row := q.db.QueryRowContext(ctx, createTeam, arg.LeagueID, arg.Name, arg.OwnerID)
	var t Team
	err := row.Scan(&t.ID, &t.LeagueID, &t.Name, &t.OwnerID)
	return t, err
}

const listTeamsByLeague = `
SELECT id, league_id, name, owner_id FROM teams WHERE league_id = ? ORDER BY id`

func (q *Queries) ListTeamsByLeague(ctx context.Context, leagueID int64) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx, listTeamsByLeague, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.LeagueID, &t.Name, &t.OwnerID); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

const createPlayer = `
INSERT INTO players (team_id, name, dni, dorsal, phone)
VALUES (?, ?, ?, ?, ?)
RETURNING id, team_id, name, dni, dorsal, phone`

type CreatePlayerParams struct {
	TeamID int64
	Name   string
	Dni    string
	Dorsal int64
	Phone  string
}

func (q *Queries) CreatePlayer(ctx context.Context, arg CreatePlayerParams) (Player, error) {
	row := q.db.QueryRowContext(ctx, createPlayer, arg.TeamID, arg.Name, arg.Dni, arg.Dorsal, arg.Phone)
	var p Player
	err := row.Scan(&p.ID, &p.TeamID, &p.Name, &p.Dni, &p.Dorsal, &p.Phone)
	return p, err
}

const listPlayersByTeam = `
SELECT id, team_id, name, dni, dorsal, phone FROM players WHERE team_id = ? ORDER BY dorsal, id`

func (q *Queries) ListPlayersByTeam(ctx context.Context, teamID int64) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listPlayersByTeam, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Name, &p.Dni, &p.Dorsal, &p.Phone); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
