package matches

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mgallardo/canchas/internal/api"
	"github.com/mgallardo/canchas/internal/interval"
	"github.com/mgallardo/canchas/internal/leagues"
	"github.com/mgallardo/canchas/internal/testutil"
)

func doRequest(t *testing.T, handler http.Handler, method, target, body string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID > 0 {
		req.Header.Set("X-User-ID", strconv.FormatInt(userID, 10))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRecordScoreHandler(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := leagues.NewService(database, time.UTC, 0, "http://localhost:8080/leagues")
	InitHandlers(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/matches/{id}/score", HandleRecordScore)
	handler := api.ChainMiddleware(mux, api.WithIdentity)

	const ownerID = 1
	ctx := context.Background()

	fieldID := testutil.CreateTestField(t, database, ownerID)
	league, err := svc.Create(ctx, leagues.CreateParams{
		Name:      "Liga",
		FieldID:   fieldID,
		OwnerID:   ownerID,
		StartDate: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.September, 20, 0, 0, 0, 0, time.UTC),
		GameDays:  []time.Weekday{time.Tuesday},
		Kickoffs:  []interval.Minutes{18 * 60, 20 * 60},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Rojo", "Azul"} {
		if _, err := svc.AddTeam(ctx, leagues.AddTeamParams{LeagueID: league.ID, Name: name, OwnerID: ownerID}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.Start(ctx, league.ID); err != nil {
		t.Fatal(err)
	}
	matches, err := database.Queries.ListMatchesByLeague(ctx, league.ID)
	if err != nil {
		t.Fatal(err)
	}
	matchID := matches[0].ID

	t.Run("unauthenticated", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/matches/%d/score", matchID), `{"home_score":3,"away_score":1}`, 0)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status %d, want 401", rec.Code)
		}
	})

	t.Run("missing scores", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/matches/%d/score", matchID), `{"home_score":3}`, ownerID)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status %d, want 400: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("record", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/matches/%d/score", matchID), `{"home_score":3,"away_score":1}`, ownerID)
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
		}
		var resp scoredMatchResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Status != "played" || resp.HomeScore != 3 || resp.AwayScore != 1 {
			t.Errorf("unexpected response %+v", resp)
		}

		standings, err := database.Queries.ListStandingsByLeague(ctx, league.ID)
		if err != nil {
			t.Fatal(err)
		}
		if standings[0].Points != 3 {
			t.Errorf("leader has %d points, want 3", standings[0].Points)
		}
	})

	t.Run("missing match", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/api/v1/matches/9999/score", `{"home_score":1,"away_score":1}`, ownerID)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status %d, want 404", rec.Code)
		}
	})
}
