package leagues

import (
	"context"
	"fmt"

	"github.com/mgallardo/canchas/internal/store"
)

const (
	pointsPerWin  = 3
	pointsPerDraw = 1
)

type standingTotals struct {
	played, won, drawn, lost int64
	goalsFor, goalsAgainst   int64
}

func (s *standingTotals) points() int64 {
	return s.won*pointsPerWin + s.drawn*pointsPerDraw
}

// recomputeStandings rebuilds the standings table of a league from its played
// matches. It runs on the transaction that recorded the score, so a reader
// never sees a score without the matching table update.
func recomputeStandings(ctx context.Context, q *store.Queries, leagueID int64) error {
	teams, err := q.ListTeamsByLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}
	matches, err := q.ListMatchesByLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}

	totals := make(map[int64]*standingTotals, len(teams))
	for _, team := range teams {
		totals[team.ID] = &standingTotals{}
	}

	for _, match := range matches {
		if match.Status != "played" || !match.HomeScore.Valid || !match.AwayScore.Valid {
			continue
		}
		home, homeOK := totals[match.HomeTeamID]
		away, awayOK := totals[match.AwayTeamID]
		if !homeOK || !awayOK {
			return fmt.Errorf("match %d references a team outside league %d", match.ID, leagueID)
		}

		homeScore := match.HomeScore.Int64
		awayScore := match.AwayScore.Int64

		home.played++
		away.played++
		home.goalsFor += homeScore
		home.goalsAgainst += awayScore
		away.goalsFor += awayScore
		away.goalsAgainst += homeScore

		switch {
		case homeScore > awayScore:
			home.won++
			away.lost++
		case homeScore < awayScore:
			away.won++
			home.lost++
		default:
			home.drawn++
			away.drawn++
		}
	}

	for teamID, t := range totals {
		if err := q.UpdateStanding(ctx, store.UpdateStandingParams{
			Played:       t.played,
			Won:          t.won,
			Drawn:        t.drawn,
			Lost:         t.lost,
			GoalsFor:     t.goalsFor,
			GoalsAgainst: t.goalsAgainst,
			Points:       t.points(),
			LeagueID:     leagueID,
			TeamID:       teamID,
		}); err != nil {
			return fmt.Errorf("update standing for team %d: %w", teamID, err)
		}
	}
	return nil
}
