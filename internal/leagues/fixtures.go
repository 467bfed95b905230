// Package leagues implements the league lifecycle: fixture generation,
// match distribution over the league's calendar window, team membership,
// standings, and share links.
package leagues

import "errors"

var ErrInsufficientTeams = errors.New("at least two teams are required")

// Fixture is an unscheduled pairing awaiting a date and kickoff time.
type Fixture struct {
	HomeTeamID int64
	AwayTeamID int64
}

// GenerateFixtures produces a double round-robin: every unordered pair once
// with the lower-indexed team at home, then every pair again with roles
// swapped. Emission order is deterministic (lexicographic by team index) so
// distribution is reproducible. For N teams this yields N*(N-1) fixtures,
// each team appearing N-1 times at home and N-1 away.
func GenerateFixtures(teamIDs []int64) ([]Fixture, error) {
	if len(teamIDs) < 2 {
		return nil, ErrInsufficientTeams
	}

	n := len(teamIDs)
	fixtures := make([]Fixture, 0, n*(n-1))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			fixtures = append(fixtures, Fixture{HomeTeamID: teamIDs[i], AwayTeamID: teamIDs[j]})
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			fixtures = append(fixtures, Fixture{HomeTeamID: teamIDs[j], AwayTeamID: teamIDs[i]})
		}
	}
	return fixtures, nil
}
