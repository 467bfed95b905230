// internal/api/matches/handlers.go
package matches

import (
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mgallardo/canchas/internal/api/apiutil"
	"github.com/mgallardo/canchas/internal/leagues"
	"github.com/mgallardo/canchas/internal/store"
)

var (
	service  *leagues.Service
	initOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *leagues.Service) {
	if svc == nil {
		return
	}
	initOnce.Do(func() {
		service = svc
	})
}

type scoreRequest struct {
	HomeScore *int64 `json:"home_score"`
	AwayScore *int64 `json:"away_score"`
}

type scoredMatchResponse struct {
	ID         int64  `json:"id"`
	LeagueID   int64  `json:"league_id"`
	HomeTeamID int64  `json:"home_team_id"`
	AwayTeamID int64  `json:"away_team_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Status     string `json:"status"`
	HomeScore  int64  `json:"home_score"`
	AwayScore  int64  `json:"away_score"`
}

func toScoredMatchResponse(m store.Match) scoredMatchResponse {
	return scoredMatchResponse{
		ID:         m.ID,
		LeagueID:   m.LeagueID,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		Date:       m.MatchDate,
		Time:       m.MatchTime,
		Status:     m.Status,
		HomeScore:  m.HomeScore.Int64,
		AwayScore:  m.AwayScore.Int64,
	}
}

// POST /api/v1/matches/{id}/score
func HandleRecordScore(w http.ResponseWriter, r *http.Request) {
	if _, ok := apiutil.RequireUserID(w, r); !ok {
		return
	}
	matchID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	var req scoreRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, apiutil.KindValidation, "invalid request body")
		return
	}
	if req.HomeScore == nil || req.AwayScore == nil {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "home_score", Reason: "and away_score are required"})
		return
	}

	match, err := service.RecordScore(r.Context(), matchID, *req.HomeScore, *req.AwayScore)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().
		Int64("match_id", match.ID).
		Int64("league_id", match.LeagueID).
		Msg("Match score recorded")
	_ = apiutil.WriteJSON(w, http.StatusOK, toScoredMatchResponse(match))
}
