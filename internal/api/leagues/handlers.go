// internal/api/leagues/handlers.go
package leagues

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mgallardo/canchas/internal/api/apiutil"
	"github.com/mgallardo/canchas/internal/db"
	"github.com/mgallardo/canchas/internal/interval"
	"github.com/mgallardo/canchas/internal/leagues"
	"github.com/mgallardo/canchas/internal/store"
)

var (
	database *db.DB
	service  *leagues.Service
	initOnce sync.Once
)

const leaguesQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(d *db.DB, svc *leagues.Service) {
	if d == nil || svc == nil {
		return
	}
	initOnce.Do(func() {
		database = d
		service = svc
	})
}

type createLeagueRequest struct {
	Name      string   `json:"name"`
	FieldID   int64    `json:"field_id"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	GameDays  []int    `json:"game_days"`
	GameTimes []string `json:"game_times"`
}

type leagueResponse struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	FieldID   int64    `json:"field_id"`
	OwnerID   int64    `json:"owner_id"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	GameDays  []int    `json:"game_days"`
	GameTimes []string `json:"game_times"`
	Status    string   `json:"status"`
}

func toLeagueResponse(league store.League) leagueResponse {
	resp := leagueResponse{
		ID:        league.ID,
		Name:      league.Name,
		FieldID:   league.FieldID,
		OwnerID:   league.OwnerID,
		StartDate: league.StartDate,
		EndDate:   league.EndDate,
		Status:    league.Status,
	}
	_ = json.Unmarshal([]byte(league.GameDays), &resp.GameDays)
	_ = json.Unmarshal([]byte(league.GameTimes), &resp.GameTimes)
	return resp
}

// POST /api/v1/leagues
func HandleCreateLeague(w http.ResponseWriter, r *http.Request) {
	userID, ok := apiutil.RequireUserID(w, r)
	if !ok {
		return
	}

	var req createLeagueRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, apiutil.KindValidation, "invalid request body")
		return
	}

	startDate, err := interval.ParseDate(req.StartDate, time.UTC)
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "start_date", Reason: "must be in YYYY-MM-DD format"})
		return
	}
	endDate, err := interval.ParseDate(req.EndDate, time.UTC)
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "end_date", Reason: "must be in YYYY-MM-DD format"})
		return
	}
	gameDays := make([]time.Weekday, 0, len(req.GameDays))
	for _, day := range req.GameDays {
		gameDays = append(gameDays, time.Weekday(day))
	}
	kickoffs := make([]interval.Minutes, 0, len(req.GameTimes))
	for _, raw := range req.GameTimes {
		kickoff, err := interval.ParseClock(raw)
		if err != nil {
			apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "game_times", Reason: "must be in HH:MM format"})
			return
		}
		kickoffs = append(kickoffs, kickoff)
	}

	league, err := service.Create(r.Context(), leagues.CreateParams{
		Name:      req.Name,
		FieldID:   req.FieldID,
		OwnerID:   userID,
		StartDate: startDate,
		EndDate:   endDate,
		GameDays:  gameDays,
		Kickoffs:  kickoffs,
	})
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusCreated, toLeagueResponse(league))
}

// GET /api/v1/leagues?owner=me&member=me&field_id=
func HandleListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), leaguesQueryTimeout)
	defer cancel()

	query := r.URL.Query()
	var (
		rows []store.League
		err  error
	)
	switch {
	case query.Get("owner") == "me" && query.Get("field_id") != "":
		userID, ok := apiutil.RequireUserID(w, r)
		if !ok {
			return
		}
		fieldID, perr := apiutil.ParsePositiveInt64Field(query.Get("field_id"), "field_id")
		if perr != nil {
			apiutil.WriteDomainError(w, r, perr)
			return
		}
		rows, err = database.Queries.ListLeaguesByOwnerAndField(ctx, store.ListLeaguesByOwnerAndFieldParams{
			OwnerID: userID,
			FieldID: fieldID,
		})
	case query.Get("owner") == "me":
		userID, ok := apiutil.RequireUserID(w, r)
		if !ok {
			return
		}
		rows, err = database.Queries.ListLeaguesByOwner(ctx, userID)
	case query.Get("member") == "me":
		userID, ok := apiutil.RequireUserID(w, r)
		if !ok {
			return
		}
		rows, err = database.Queries.ListLeaguesByMember(ctx, userID)
	default:
		rows, err = database.Queries.ListLeagues(ctx)
	}
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to list leagues")
		apiutil.WriteDomainError(w, r, err)
		return
	}

	resp := make([]leagueResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, toLeagueResponse(row))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, resp)
}

// GET /api/v1/leagues/{id}
func HandleGetLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	league, err := service.Get(r.Context(), leagueID)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, toLeagueResponse(league))
}

type playerResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Dni    string `json:"dni,omitempty"`
	Dorsal int64  `json:"dorsal,omitempty"`
	Phone  string `json:"phone,omitempty"`
}

type teamResponse struct {
	ID      int64            `json:"id"`
	Name    string           `json:"name"`
	OwnerID int64            `json:"owner_id"`
	Players []playerResponse `json:"players"`
}

type matchResponse struct {
	ID           int64  `json:"id"`
	HomeTeamID   int64  `json:"home_team_id"`
	AwayTeamID   int64  `json:"away_team_id"`
	HomeTeamName string `json:"home_team_name"`
	AwayTeamName string `json:"away_team_name"`
	FieldID      int64  `json:"field_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Status       string `json:"status"`
	HomeScore    *int64 `json:"home_score"`
	AwayScore    *int64 `json:"away_score"`
}

type standingResponse struct {
	TeamID       int64  `json:"team_id"`
	TeamName     string `json:"team_name"`
	Played       int64  `json:"played"`
	Won          int64  `json:"won"`
	Drawn        int64  `json:"drawn"`
	Lost         int64  `json:"lost"`
	GoalsFor     int64  `json:"goals_for"`
	GoalsAgainst int64  `json:"goals_against"`
	Points       int64  `json:"points"`
}

type leagueDetailsResponse struct {
	League    leagueResponse     `json:"league"`
	Teams     []teamResponse     `json:"teams"`
	Matches   []matchResponse    `json:"matches"`
	Standings []standingResponse `json:"standings"`
}

func toMatchResponse(m store.MatchWithTeamNames) matchResponse {
	resp := matchResponse{
		ID:           m.ID,
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		HomeTeamName: m.HomeTeamName,
		AwayTeamName: m.AwayTeamName,
		FieldID:      m.FieldID,
		Date:         m.MatchDate,
		Time:         m.MatchTime,
		Status:       m.Status,
	}
	if m.HomeScore.Valid {
		resp.HomeScore = &m.HomeScore.Int64
	}
	if m.AwayScore.Valid {
		resp.AwayScore = &m.AwayScore.Int64
	}
	return resp
}

func toStandingResponse(row store.StandingWithTeamName) standingResponse {
	return standingResponse{
		TeamID:       row.TeamID,
		TeamName:     row.TeamName,
		Played:       row.Played,
		Won:          row.Won,
		Drawn:        row.Drawn,
		Lost:         row.Lost,
		GoalsFor:     row.GoalsFor,
		GoalsAgainst: row.GoalsAgainst,
		Points:       row.Points,
	}
}

// GET /api/v1/leagues/{id}/details
func HandleLeagueDetails(w http.ResponseWriter, r *http.Request) {
	leagueID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	details, err := service.Details(r.Context(), leagueID)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	resp := leagueDetailsResponse{
		League:    toLeagueResponse(details.League),
		Teams:     make([]teamResponse, 0, len(details.Teams)),
		Matches:   make([]matchResponse, 0, len(details.Matches)),
		Standings: make([]standingResponse, 0, len(details.Standings)),
	}
	for _, team := range details.Teams {
		players := make([]playerResponse, 0, len(team.Players))
		for _, player := range team.Players {
			players = append(players, playerResponse{
				ID:     player.ID,
				Name:   player.Name,
				Dni:    player.Dni,
				Dorsal: player.Dorsal,
				Phone:  player.Phone,
			})
		}
		resp.Teams = append(resp.Teams, teamResponse{
			ID:      team.Team.ID,
			Name:    team.Team.Name,
			OwnerID: team.Team.OwnerID,
			Players: players,
		})
	}
	for _, m := range details.Matches {
		resp.Matches = append(resp.Matches, toMatchResponse(m))
	}
	for _, row := range details.Standings {
		resp.Standings = append(resp.Standings, toStandingResponse(row))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, resp)
}

type startLeagueResponse struct {
	LeagueID int64 `json:"league_id"`
	Matches  int   `json:"matches"`
}

// POST /api/v1/leagues/{id}/start
func HandleStartLeague(w http.ResponseWriter, r *http.Request) {
	if _, ok := apiutil.RequireUserID(w, r); !ok {
		return
	}
	leagueID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	created, err := service.Start(r.Context(), leagueID)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, startLeagueResponse{LeagueID: leagueID, Matches: created})
}

// DELETE /api/v1/leagues/{id}
func HandleDeleteLeague(w http.ResponseWriter, r *http.Request) {
	userID, ok := apiutil.RequireUserID(w, r)
	if !ok {
		return
	}
	leagueID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	if err := service.Delete(r.Context(), leagueID, userID); err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/leagues/{id}/matches?date=
func HandleListLeagueMatches(w http.ResponseWriter, r *http.Request) {
	leagueID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	if _, err := service.Get(r.Context(), leagueID); err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), leaguesQueryTimeout)
	defer cancel()

	var rows []store.MatchWithTeamNames
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		if _, err := interval.ParseDate(raw, time.UTC); err != nil {
			apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "date", Reason: "must be in YYYY-MM-DD format"})
			return
		}
		rows, err = database.Queries.ListMatchesByLeagueAndDate(ctx, store.ListMatchesByLeagueAndDateParams{
			LeagueID:  leagueID,
			MatchDate: raw,
		})
	} else {
		rows, err = database.Queries.ListMatchesByLeagueWithNames(ctx, leagueID)
	}
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("league_id", leagueID).Msg("Failed to list matches")
		apiutil.WriteDomainError(w, r, err)
		return
	}

	resp := make([]matchResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, toMatchResponse(row))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, resp)
}
