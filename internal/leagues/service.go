package leagues

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mgallardo/canchas/internal/db"
	"github.com/mgallardo/canchas/internal/interval"
	"github.com/mgallardo/canchas/internal/store"
)

var (
	ErrNotFound       = errors.New("league not found")
	ErrMatchNotFound  = errors.New("match not found")
	ErrForbidden      = errors.New("not the league owner")
	ErrAlreadyStarted = errors.New("league already started")
)

// ValidationError reports a malformed league request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type Service struct {
	database   *db.DB
	loc        *time.Location
	maxDayScan int
	baseURL    string
}

func NewService(database *db.DB, loc *time.Location, maxDayScan int, baseURL string) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if maxDayScan <= 0 {
		maxDayScan = DefaultMaxDayScan
	}
	return &Service{database: database, loc: loc, maxDayScan: maxDayScan, baseURL: baseURL}
}

type CreateParams struct {
	Name      string
	FieldID   int64
	OwnerID   int64
	StartDate time.Time
	EndDate   time.Time
	GameDays  []time.Weekday
	Kickoffs  []interval.Minutes
}

func (p CreateParams) validate() error {
	if p.Name == "" {
		return ValidationError{Field: "name", Reason: "is required"}
	}
	if p.FieldID <= 0 {
		return ValidationError{Field: "field_id", Reason: "is required"}
	}
	if p.OwnerID <= 0 {
		return ValidationError{Field: "owner_id", Reason: "is required"}
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return ValidationError{Field: "start_date", Reason: "and end_date are required"}
	}
	if p.EndDate.Before(p.StartDate) {
		return ValidationError{Field: "end_date", Reason: "must not precede start_date"}
	}
	if len(p.GameDays) == 0 {
		return ValidationError{Field: "game_days", Reason: "must not be empty"}
	}
	for _, day := range p.GameDays {
		if day < time.Sunday || day > time.Saturday {
			return ValidationError{Field: "game_days", Reason: "must be between 0 and 6"}
		}
	}
	if len(p.Kickoffs) != 2 {
		return ValidationError{Field: "game_times", Reason: "must have exactly two entries"}
	}
	if p.Kickoffs[0] == p.Kickoffs[1] {
		return ValidationError{Field: "game_times", Reason: "must be two distinct times"}
	}
	return nil
}

// Create persists a new league in the pending state.
func (s *Service) Create(ctx context.Context, params CreateParams) (store.League, error) {
	if err := params.validate(); err != nil {
		return store.League{}, err
	}

	days := make([]int, 0, len(params.GameDays))
	for _, day := range params.GameDays {
		days = append(days, int(day))
	}
	gameDays, err := json.Marshal(days)
	if err != nil {
		return store.League{}, fmt.Errorf("encode game days: %w", err)
	}
	gameTimes, err := json.Marshal([]string{params.Kickoffs[0].String(), params.Kickoffs[1].String()})
	if err != nil {
		return store.League{}, fmt.Errorf("encode game times: %w", err)
	}

	league, err := s.database.Queries.CreateLeague(ctx, store.CreateLeagueParams{
		Name:      params.Name,
		FieldID:   params.FieldID,
		OwnerID:   params.OwnerID,
		StartDate: params.StartDate.Format(interval.DateLayout),
		EndDate:   params.EndDate.Format(interval.DateLayout),
		GameDays:  string(gameDays),
		GameTimes: string(gameTimes),
	})
	if err != nil {
		return store.League{}, fmt.Errorf("insert league: %w", err)
	}

	log.Ctx(ctx).Info().Int64("league_id", league.ID).Str("name", league.Name).Msg("League created")
	return league, nil
}

// Get loads a league by id.
func (s *Service) Get(ctx context.Context, leagueID int64) (store.League, error) {
	league, err := s.database.Queries.GetLeague(ctx, leagueID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.League{}, ErrNotFound
	}
	if err != nil {
		return store.League{}, fmt.Errorf("get league: %w", err)
	}
	return league, nil
}

// Start transitions the league from pending to started, generating and
// persisting the full double round-robin in one transaction. The conditional
// status update serializes concurrent starts; a distribution failure rolls
// everything back, including the status flip.
func (s *Service) Start(ctx context.Context, leagueID int64) (int, error) {
	var created int
	err := s.database.RunInTx(ctx, func(tx *db.DB) error {
		league, err := tx.Queries.GetLeague(ctx, leagueID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}

		affected, err := tx.Queries.MarkLeagueStarted(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("mark league started: %w", err)
		}
		if affected == 0 {
			return ErrAlreadyStarted
		}

		teams, err := tx.Queries.ListTeamsByLeague(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		teamIDs := make([]int64, 0, len(teams))
		for _, team := range teams {
			teamIDs = append(teamIDs, team.ID)
		}

		fixtures, err := GenerateFixtures(teamIDs)
		if err != nil {
			return err
		}

		plan, err := s.planFor(league)
		if err != nil {
			return err
		}
		planned, err := DistributeFixtures(fixtures, plan)
		if err != nil {
			return err
		}

		for _, match := range planned {
			if _, err := tx.Queries.CreateMatch(ctx, store.CreateMatchParams{
				LeagueID:   leagueID,
				HomeTeamID: match.HomeTeamID,
				AwayTeamID: match.AwayTeamID,
				FieldID:    league.FieldID,
				MatchDate:  match.Date.Format(interval.DateLayout),
				MatchTime:  match.Kickoff.String(),
			}); err != nil {
				return fmt.Errorf("insert match: %w", err)
			}
		}
		created = len(planned)
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Ctx(ctx).Info().Int64("league_id", leagueID).Int("matches", created).Msg("League started")
	return created, nil
}

// Delete removes a league and everything it owns. Only the owner may delete.
func (s *Service) Delete(ctx context.Context, leagueID, userID int64) error {
	league, err := s.Get(ctx, leagueID)
	if err != nil {
		return err
	}
	if league.OwnerID != userID {
		return ErrForbidden
	}
	if err := s.database.Queries.DeleteLeague(ctx, leagueID); err != nil {
		return fmt.Errorf("delete league: %w", err)
	}

	log.Ctx(ctx).Info().Int64("league_id", leagueID).Msg("League deleted")
	return nil
}

type PlayerParams struct {
	Name   string
	Dni    string
	Dorsal int64
	Phone  string
}

type AddTeamParams struct {
	LeagueID int64
	Name     string
	OwnerID  int64
	Players  []PlayerParams
}

// AddTeam registers a team (optionally with its roster) and seeds its zeroed
// standings row, all in one transaction.
func (s *Service) AddTeam(ctx context.Context, params AddTeamParams) (store.Team, error) {
	if params.Name == "" {
		return store.Team{}, ValidationError{Field: "name", Reason: "is required"}
	}
	if params.OwnerID <= 0 {
		return store.Team{}, ValidationError{Field: "owner_id", Reason: "is required"}
	}
	for _, player := range params.Players {
		if player.Name == "" {
			return store.Team{}, ValidationError{Field: "players", Reason: "must all have a name"}
		}
	}

	var team store.Team
	err := s.database.RunInTx(ctx, func(tx *db.DB) error {
		if _, err := tx.Queries.GetLeague(ctx, params.LeagueID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("get league: %w", err)
		}

		var err error
		team, err = tx.Queries.CreateTeam(ctx, store.CreateTeamParams{
			LeagueID: params.LeagueID,
			Name:     params.Name,
			OwnerID:  params.OwnerID,
		})
		if err != nil {
			return fmt.Errorf("insert team: %w", err)
		}

		for _, player := range params.Players {
			if _, err := tx.Queries.CreatePlayer(ctx, store.CreatePlayerParams{
				TeamID: team.ID,
				Name:   player.Name,
				Dni:    player.Dni,
				Dorsal: player.Dorsal,
				Phone:  player.Phone,
			}); err != nil {
				return fmt.Errorf("insert player: %w", err)
			}
		}

		if err := tx.Queries.CreateStanding(ctx, store.CreateStandingParams{
			LeagueID: params.LeagueID,
			TeamID:   team.ID,
		}); err != nil {
			return fmt.Errorf("insert standing: %w", err)
		}
		return nil
	})
	if err != nil {
		return store.Team{}, err
	}

	log.Ctx(ctx).Info().Int64("league_id", params.LeagueID).Int64("team_id", team.ID).Msg("Team added")
	return team, nil
}

// RecordScore stores a match result and recomputes the league standings in
// the same transaction.
func (s *Service) RecordScore(ctx context.Context, matchID, homeScore, awayScore int64) (store.Match, error) {
	if homeScore < 0 || awayScore < 0 {
		return store.Match{}, ValidationError{Field: "score", Reason: "must not be negative"}
	}

	var match store.Match
	err := s.database.RunInTx(ctx, func(tx *db.DB) error {
		var err error
		match, err = tx.Queries.UpdateMatchScore(ctx, store.UpdateMatchScoreParams{
			HomeScore: homeScore,
			AwayScore: awayScore,
			ID:        matchID,
		})
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		if err != nil {
			return fmt.Errorf("update match score: %w", err)
		}
		return recomputeStandings(ctx, tx.Queries, match.LeagueID)
	})
	if err != nil {
		return store.Match{}, err
	}

	log.Ctx(ctx).Info().Int64("match_id", matchID).Msg("Match score recorded")
	return match, nil
}

const linkValidity = 48 * time.Hour

// GenerateLink returns the share link for a league's match day, creating it
// on first request. Repeated requests for the same date return the same link.
func (s *Service) GenerateLink(ctx context.Context, leagueID int64, date time.Time) (store.LeagueLink, error) {
	if _, err := s.Get(ctx, leagueID); err != nil {
		return store.LeagueLink{}, err
	}

	linkDate := interval.Truncate(date).Format(interval.DateLayout)
	existing, err := s.database.Queries.GetLeagueLinkByDate(ctx, store.GetLeagueLinkByDateParams{
		LeagueID: leagueID,
		LinkDate: linkDate,
	})
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return store.LeagueLink{}, fmt.Errorf("get league link: %w", err)
	}

	token := uuid.New().String()
	link := fmt.Sprintf("%s/%d/matches/%s/%s", s.baseURL, leagueID, linkDate, token)
	expiresAt := interval.Truncate(date).Add(linkValidity).UTC().Format(time.RFC3339)

	created, err := s.database.Queries.CreateLeagueLink(ctx, store.CreateLeagueLinkParams{
		LeagueID:  leagueID,
		Link:      link,
		LinkDate:  linkDate,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return store.LeagueLink{}, fmt.Errorf("insert league link: %w", err)
	}
	return created, nil
}

// TeamWithPlayers pairs a team with its roster.
type TeamWithPlayers struct {
	Team    store.Team
	Players []store.Player
}

// Details is the full league view: teams with rosters, scheduled matches and
// the current table.
type Details struct {
	League    store.League
	Teams     []TeamWithPlayers
	Matches   []store.MatchWithTeamNames
	Standings []store.StandingWithTeamName
}

func (s *Service) Details(ctx context.Context, leagueID int64) (Details, error) {
	league, err := s.Get(ctx, leagueID)
	if err != nil {
		return Details{}, err
	}

	q := s.database.Queries
	teams, err := q.ListTeamsByLeague(ctx, leagueID)
	if err != nil {
		return Details{}, fmt.Errorf("list teams: %w", err)
	}
	withPlayers := make([]TeamWithPlayers, 0, len(teams))
	for _, team := range teams {
		players, err := q.ListPlayersByTeam(ctx, team.ID)
		if err != nil {
			return Details{}, fmt.Errorf("list players: %w", err)
		}
		withPlayers = append(withPlayers, TeamWithPlayers{Team: team, Players: players})
	}

	matches, err := q.ListMatchesByLeagueWithNames(ctx, leagueID)
	if err != nil {
		return Details{}, fmt.Errorf("list matches: %w", err)
	}
	standings, err := q.ListStandingsByLeague(ctx, leagueID)
	if err != nil {
		return Details{}, fmt.Errorf("list standings: %w", err)
	}

	return Details{
		League:    league,
		Teams:     withPlayers,
		Matches:   matches,
		Standings: standings,
	}, nil
}

func (s *Service) planFor(league store.League) (DistributionPlan, error) {
	startDate, err := interval.ParseDate(league.StartDate, s.loc)
	if err != nil {
		return DistributionPlan{}, fmt.Errorf("league %d has invalid start_date %q", league.ID, league.StartDate)
	}
	endDate, err := interval.ParseDate(league.EndDate, s.loc)
	if err != nil {
		return DistributionPlan{}, fmt.Errorf("league %d has invalid end_date %q", league.ID, league.EndDate)
	}

	var days []int
	if err := json.Unmarshal([]byte(league.GameDays), &days); err != nil {
		return DistributionPlan{}, fmt.Errorf("league %d has invalid game_days %q", league.ID, league.GameDays)
	}
	gameDays := make([]time.Weekday, 0, len(days))
	for _, day := range days {
		gameDays = append(gameDays, time.Weekday(day))
	}

	var times []string
	if err := json.Unmarshal([]byte(league.GameTimes), &times); err != nil || len(times) != 2 {
		return DistributionPlan{}, fmt.Errorf("league %d has invalid game_times %q", league.ID, league.GameTimes)
	}
	var kickoffs [2]interval.Minutes
	for i, raw := range times {
		kickoff, err := interval.ParseClock(raw)
		if err != nil {
			return DistributionPlan{}, fmt.Errorf("league %d has invalid kickoff time %q", league.ID, raw)
		}
		kickoffs[i] = kickoff
	}

	return DistributionPlan{
		StartDate:  startDate,
		EndDate:    endDate,
		GameDays:   gameDays,
		Kickoffs:   kickoffs,
		MaxDayScan: s.maxDayScan,
	}, nil
}
