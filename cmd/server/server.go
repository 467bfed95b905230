// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mgallardo/canchas/internal/api"
	apifields "github.com/mgallardo/canchas/internal/api/fields"
	apileagues "github.com/mgallardo/canchas/internal/api/leagues"
	apimatches "github.com/mgallardo/canchas/internal/api/matches"
	apireservations "github.com/mgallardo/canchas/internal/api/reservations"
	"github.com/mgallardo/canchas/internal/config"
	"github.com/mgallardo/canchas/internal/db"
	"github.com/mgallardo/canchas/internal/leagues"
)

func newServer(cfg *config.Config, database *db.DB) *http.Server {
	loc := cfg.Location()
	leagueService := leagues.NewService(database, loc, cfg.Scheduling.MaxDayScan, cfg.App.BaseURL+"/leagues")

	apifields.InitHandlers(database)
	apireservations.InitHandlers(database, loc)
	apileagues.InitHandlers(database, leagueService)
	apimatches.InitHandlers(leagueService)

	router := http.NewServeMux()
	registerRoutes(router)

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithIdentity,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Field routes
	mux.HandleFunc("POST /api/v1/fields", apifields.HandleCreateField)
	mux.HandleFunc("GET /api/v1/fields", apifields.HandleListFields)
	mux.HandleFunc("GET /api/v1/fields/{id}", apifields.HandleGetField)

	// Availability routes
	mux.HandleFunc("PUT /api/v1/fields/{id}/availability", apifields.HandleReplaceAvailability)
	mux.HandleFunc("GET /api/v1/fields/{id}/availability", apifields.HandleListAvailability)
	mux.HandleFunc("DELETE /api/v1/fields/{id}/availability", apifields.HandleRemoveAvailability)
	mux.HandleFunc("POST /api/v1/fields/{id}/blocked", apifields.HandleAddBlocked)
	mux.HandleFunc("GET /api/v1/fields/{id}/blocked", apifields.HandleListBlocked)
	mux.HandleFunc("DELETE /api/v1/fields/{id}/blocked", apifields.HandleRemoveBlocked)

	// Reservation routes
	mux.HandleFunc("POST /api/v1/reservations", apireservations.HandleBook)
	mux.HandleFunc("POST /api/v1/reservations/{id}/cancel", apireservations.HandleCancel)
	mux.HandleFunc("GET /api/v1/fields/{id}/reservations", apireservations.HandleListByField)
	mux.HandleFunc("GET /api/v1/users/me/reservations", apireservations.HandleListMine)

	// League routes
	mux.HandleFunc("POST /api/v1/leagues", apileagues.HandleCreateLeague)
	mux.HandleFunc("GET /api/v1/leagues", apileagues.HandleListLeagues)
	mux.HandleFunc("GET /api/v1/leagues/{id}", apileagues.HandleGetLeague)
	mux.HandleFunc("GET /api/v1/leagues/{id}/details", apileagues.HandleLeagueDetails)
	mux.HandleFunc("POST /api/v1/leagues/{id}/start", apileagues.HandleStartLeague)
	mux.HandleFunc("DELETE /api/v1/leagues/{id}", apileagues.HandleDeleteLeague)
	mux.HandleFunc("POST /api/v1/leagues/{id}/teams", apileagues.HandleAddTeam)
	mux.HandleFunc("GET /api/v1/leagues/{id}/teams", apileagues.HandleListTeams)
	mux.HandleFunc("POST /api/v1/leagues/{id}/links", apileagues.HandleCreateLink)
	mux.HandleFunc("GET /api/v1/leagues/{id}/links", apileagues.HandleListLinks)
	mux.HandleFunc("GET /api/v1/leagues/{id}/matches", apileagues.HandleListLeagueMatches)

	// Match routes
	mux.HandleFunc("POST /api/v1/matches/{id}/score", apimatches.HandleRecordScore)
}
