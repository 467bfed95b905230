package leagues

import (
	"fmt"
	"time"

	"github.com/mgallardo/canchas/internal/interval"
)

// DefaultMaxDayScan bounds the day-advance search for a single fixture when
// the configuration does not override it.
const DefaultMaxDayScan = 100

// InfeasibleError reports that a fixture could not be placed inside the
// league's date window.
type InfeasibleError struct {
	FixtureIndex int
	Reason       string
}

func (e InfeasibleError) Error() string {
	return fmt.Sprintf("cannot schedule fixture %d: %s", e.FixtureIndex, e.Reason)
}

// DistributionPlan describes the calendar the fixtures must fit into.
type DistributionPlan struct {
	StartDate  time.Time
	EndDate    time.Time
	GameDays   []time.Weekday
	Kickoffs   [2]interval.Minutes
	MaxDayScan int
}

// PlannedMatch is a fixture bound to a concrete date and kickoff time.
type PlannedMatch struct {
	Fixture
	Date    time.Time
	Kickoff interval.Minutes
}

type teamDate struct {
	team int64
	date string
}

// DistributeFixtures assigns a date and kickoff to each fixture in order.
//
// Each fixture restarts its scan at the plan's start date. That is
// deliberate: the two kickoff slots of a day are filled independently, so a
// later fixture may land on an earlier date whose second slot is still free.
// A day is a candidate when its weekday is a game day and neither team
// already plays on that date. The scan is capped at MaxDayScan days and by
// the end date; exhausting either makes the whole run infeasible.
func DistributeFixtures(fixtures []Fixture, plan DistributionPlan) ([]PlannedMatch, error) {
	gameDays := make(map[time.Weekday]bool, len(plan.GameDays))
	for _, day := range plan.GameDays {
		gameDays[day] = true
	}
	if len(gameDays) == 0 {
		return nil, InfeasibleError{Reason: "no permitted game days"}
	}

	maxScan := plan.MaxDayScan
	if maxScan <= 0 {
		maxScan = DefaultMaxDayScan
	}

	startDate := interval.Truncate(plan.StartDate)
	endDate := interval.Truncate(plan.EndDate)
	if endDate.Before(startDate) {
		return nil, InfeasibleError{Reason: "end date precedes start date"}
	}

	used := make(map[teamDate]bool)
	kickoffCursor := 0

	planned := make([]PlannedMatch, 0, len(fixtures))
	for idx, fixture := range fixtures {
		date := startDate
		scanned := 0
		for !dateFits(date, fixture, gameDays, used) {
			date = date.AddDate(0, 0, 1)
			scanned++
			if scanned > maxScan {
				return nil, InfeasibleError{FixtureIndex: idx, Reason: fmt.Sprintf("no candidate date within %d days", maxScan)}
			}
			if date.After(endDate) {
				return nil, InfeasibleError{FixtureIndex: idx, Reason: "league window exhausted"}
			}
		}

		key := date.Format(interval.DateLayout)
		used[teamDate{fixture.HomeTeamID, key}] = true
		used[teamDate{fixture.AwayTeamID, key}] = true

		planned = append(planned, PlannedMatch{
			Fixture: fixture,
			Date:    date,
			Kickoff: plan.Kickoffs[kickoffCursor],
		})
		kickoffCursor = (kickoffCursor + 1) % len(plan.Kickoffs)
	}
	return planned, nil
}

func dateFits(date time.Time, fixture Fixture, gameDays map[time.Weekday]bool, used map[teamDate]bool) bool {
	if !gameDays[date.Weekday()] {
		return false
	}
	key := date.Format(interval.DateLayout)
	return !used[teamDate{fixture.HomeTeamID, key}] && !used[teamDate{fixture.AwayTeamID, key}]
}
