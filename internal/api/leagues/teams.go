// internal/api/leagues/teams.go
package leagues

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mgallardo/canchas/internal/api/apiutil"
	"github.com/mgallardo/canchas/internal/interval"
	"github.com/mgallardo/canchas/internal/leagues"
	"github.com/mgallardo/canchas/internal/store"
)

type playerRequest struct {
	Name   string `json:"name"`
	Dni    string `json:"dni"`
	Dorsal int64  `json:"dorsal"`
	Phone  string `json:"phone"`
}

type addTeamRequest struct {
	Name    string          `json:"name"`
	Players []playerRequest `json:"players"`
}

// POST /api/v1/leagues/{id}/teams
func HandleAddTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := apiutil.RequireUserID(w, r)
	if !ok {
		return
	}
	leagueID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	var req addTeamRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, apiutil.KindValidation, "invalid request body")
		return
	}

	players := make([]leagues.PlayerParams, 0, len(req.Players))
	for _, player := range req.Players {
		players = append(players, leagues.PlayerParams{
			Name:   player.Name,
			Dni:    player.Dni,
			Dorsal: player.Dorsal,
			Phone:  player.Phone,
		})
	}

	team, err := service.AddTeam(r.Context(), leagues.AddTeamParams{
		LeagueID: leagueID,
		Name:     req.Name,
		OwnerID:  userID,
		Players:  players,
	})
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusCreated, teamResponse{
		ID:      team.ID,
		Name:    team.Name,
		OwnerID: team.OwnerID,
		Players: make([]playerResponse, 0, len(players)),
	})
}

// GET /api/v1/leagues/{id}/teams
func HandleListTeams(w http.ResponseWriter, r *http.Request) {
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

	teams, err := database.Queries.ListTeamsByLeague(ctx, leagueID)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("league_id", leagueID).Msg("Failed to list teams")
		apiutil.WriteDomainError(w, r, err)
		return
	}

	resp := make([]teamResponse, 0, len(teams))
	for _, team := range teams {
		rows, err := database.Queries.ListPlayersByTeam(ctx, team.ID)
		if err != nil {
			log.Ctx(r.Context()).Error().Err(err).Int64("team_id", team.ID).Msg("Failed to list players")
			apiutil.WriteDomainError(w, r, err)
			return
		}
		players := make([]playerResponse, 0, len(rows))
		for _, player := range rows {
			players = append(players, playerResponse{
				ID:     player.ID,
				Name:   player.Name,
				Dni:    player.Dni,
				Dorsal: player.Dorsal,
				Phone:  player.Phone,
			})
		}
		resp = append(resp, teamResponse{
			ID:      team.ID,
			Name:    team.Name,
			OwnerID: team.OwnerID,
			Players: players,
		})
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, resp)
}

type createLinkRequest struct {
	Date string `json:"date"`
}

type linkResponse struct {
	ID        int64  `json:"id"`
	LeagueID  int64  `json:"league_id"`
	Link      string `json:"link"`
	Date      string `json:"date"`
	ExpiresAt string `json:"expires_at"`
}

func toLinkResponse(link store.LeagueLink) linkResponse {
	return linkResponse{
		ID:        link.ID,
		LeagueID:  link.LeagueID,
		Link:      link.Link,
		Date:      link.LinkDate,
		ExpiresAt: link.ExpiresAt,
	}
}

// POST /api/v1/leagues/{id}/links
func HandleCreateLink(w http.ResponseWriter, r *http.Request) {
	if _, ok := apiutil.RequireUserID(w, r); !ok {
		return
	}
	leagueID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	var req createLinkRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, apiutil.KindValidation, "invalid request body")
		return
	}
	date, err := interval.ParseDate(req.Date, time.UTC)
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "date", Reason: "must be in YYYY-MM-DD format"})
		return
	}

	link, err := service.GenerateLink(r.Context(), leagueID, date)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusCreated, toLinkResponse(link))
}

// GET /api/v1/leagues/{id}/links
func HandleListLinks(w http.ResponseWriter, r *http.Request) {
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

	links, err := database.Queries.ListLeagueLinks(ctx, leagueID)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("league_id", leagueID).Msg("Failed to list league links")
		apiutil.WriteDomainError(w, r, err)
		return
	}

	resp := make([]linkResponse, 0, len(links))
	for _, link := range links {
		resp = append(resp, toLinkResponse(link))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, resp)
}
