package apiutil

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mgallardo/canchas/internal/availability"
	"github.com/mgallardo/canchas/internal/leagues"
	"github.com/mgallardo/canchas/internal/reservations"
)

// Machine-readable error kinds returned in response bodies.
const (
	KindValidation        = "validation"
	KindUnauthenticated   = "unauthenticated"
	KindForbidden         = "forbidden"
	KindNotFound          = "not_found"
	KindSlotBlocked       = "slot_blocked"
	KindSlotUnavailable   = "slot_unavailable"
	KindSlotTaken         = "slot_taken"
	KindAlreadyStarted    = "already_started"
	KindInsufficientTeams = "insufficient_teams"
	KindInfeasible        = "infeasible_schedule"
	KindInternal          = "internal"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, kind, message string) {
	_ = WriteJSON(w, status, errorBody{Kind: kind, Message: message})
}

// WriteDomainError maps a domain error onto its HTTP status and kind.
// Unrecognized errors are logged and reported as a 500 without leaking the
// underlying message.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		fieldErr        FieldError
		availabilityErr availability.ValidationError
		reservationErr  reservations.ValidationError
		leagueErr       leagues.ValidationError
		infeasibleErr   leagues.InfeasibleError
	)
	switch {
	case errors.As(err, &fieldErr),
		errors.As(err, &availabilityErr),
		errors.As(err, &reservationErr),
		errors.As(err, &leagueErr):
		WriteError(w, http.StatusBadRequest, KindValidation, err.Error())
	case errors.Is(err, reservations.ErrNotFound),
		errors.Is(err, leagues.ErrNotFound),
		errors.Is(err, leagues.ErrMatchNotFound),
		errors.Is(err, availability.ErrBlockedNotFound):
		WriteError(w, http.StatusNotFound, KindNotFound, err.Error())
	case errors.Is(err, leagues.ErrForbidden):
		WriteError(w, http.StatusForbidden, KindForbidden, err.Error())
	case errors.Is(err, reservations.ErrSlotBlocked):
		WriteError(w, http.StatusConflict, KindSlotBlocked, err.Error())
	case errors.Is(err, reservations.ErrSlotUnavailable):
		WriteError(w, http.StatusConflict, KindSlotUnavailable, err.Error())
	case errors.Is(err, reservations.ErrSlotTaken):
		WriteError(w, http.StatusConflict, KindSlotTaken, err.Error())
	case errors.Is(err, leagues.ErrAlreadyStarted):
		WriteError(w, http.StatusConflict, KindAlreadyStarted, err.Error())
	case errors.Is(err, leagues.ErrInsufficientTeams):
		WriteError(w, http.StatusUnprocessableEntity, KindInsufficientTeams, err.Error())
	case errors.As(err, &infeasibleErr):
		WriteError(w, http.StatusUnprocessableEntity, KindInfeasible, err.Error())
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg("Unhandled domain error")
		WriteError(w, http.StatusInternalServerError, KindInternal, "internal server error")
	}
}
