// internal/api/fields/availability.go
package fields

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mgallardo/canchas/internal/api/apiutil"
	"github.com/mgallardo/canchas/internal/availability"
	"github.com/mgallardo/canchas/internal/interval"
	"github.com/mgallardo/canchas/internal/store"
)

type weeklyWindowRequest struct {
	DayOfWeek int     `json:"day_of_week"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Price     float64 `json:"price"`
	Durations []int   `json:"available_durations"`
}

type replaceAvailabilityRequest struct {
	Windows []weeklyWindowRequest `json:"windows"`
}

type removeAvailabilityRequest struct {
	Days []int `json:"days"`
}

type weeklyWindowResponse struct {
	ID        int64   `json:"id"`
	FieldID   int64   `json:"field_id"`
	DayOfWeek int64   `json:"day_of_week"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Price     float64 `json:"price"`
	Durations []int   `json:"available_durations,omitempty"`
}

func toWeeklyWindowResponse(row store.WeeklyAvailability) weeklyWindowResponse {
	resp := weeklyWindowResponse{
		ID:        row.ID,
		FieldID:   row.FieldID,
		DayOfWeek: row.DayOfWeek,
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
		Price:     row.Price,
	}
	if row.AvailableDurations != "" {
		_ = json.Unmarshal([]byte(row.AvailableDurations), &resp.Durations)
	}
	return resp
}

// requireFieldOwner loads the field and checks that the authenticated user
// owns it. It writes the error response on failure.
func requireFieldOwner(w http.ResponseWriter, r *http.Request, fieldID int64) bool {
	userID, ok := apiutil.RequireUserID(w, r)
	if !ok {
		return false
	}

	ctx, cancel := context.WithTimeout(r.Context(), fieldsQueryTimeout)
	defer cancel()

	field, err := database.Queries.GetField(ctx, fieldID)
	if errors.Is(err, sql.ErrNoRows) {
		apiutil.WriteError(w, http.StatusNotFound, apiutil.KindNotFound, "field not found")
		return false
	}
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("field_id", fieldID).Msg("Failed to load field")
		apiutil.WriteDomainError(w, r, err)
		return false
	}
	if field.OwnerID != userID {
		apiutil.WriteError(w, http.StatusForbidden, apiutil.KindForbidden, "not the field owner")
		return false
	}
	return true
}

// PUT /api/v1/fields/{id}/availability
func HandleReplaceAvailability(w http.ResponseWriter, r *http.Request) {
	fieldID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	if !requireFieldOwner(w, r, fieldID) {
		return
	}

	var req replaceAvailabilityRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, apiutil.KindValidation, "invalid request body")
		return
	}
	if len(req.Windows) == 0 {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "windows", Reason: "must not be empty"})
		return
	}

	entries := make([]availability.WeeklyEntry, 0, len(req.Windows))
	for _, window := range req.Windows {
		start, err := interval.ParseClock(window.StartTime)
		if err != nil {
			apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "start_time", Reason: "must be in HH:MM format"})
			return
		}
		end, err := interval.ParseClock(window.EndTime)
		if err != nil {
			apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "end_time", Reason: "must be in HH:MM format"})
			return
		}
		entries = append(entries, availability.WeeklyEntry{
			FieldID:   fieldID,
			Day:       time.Weekday(window.DayOfWeek),
			Start:     start,
			End:       end,
			Price:     window.Price,
			Durations: window.Durations,
		})
	}

	rows, err := availability.ReplaceWeekly(r.Context(), database, entries)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().Int64("field_id", fieldID).Int("windows", len(rows)).Msg("Weekly availability replaced")
	resp := make([]weeklyWindowResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, toWeeklyWindowResponse(row))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, resp)
}

// GET /api/v1/fields/{id}/availability
func HandleListAvailability(w http.ResponseWriter, r *http.Request) {
	fieldID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fieldsQueryTimeout)
	defer cancel()

	rows, err := database.Queries.ListWeeklyAvailability(ctx, fieldID)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("field_id", fieldID).Msg("Failed to list weekly availability")
		apiutil.WriteDomainError(w, r, err)
		return
	}

	resp := make([]weeklyWindowResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, toWeeklyWindowResponse(row))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, resp)
}

// DELETE /api/v1/fields/{id}/availability
func HandleRemoveAvailability(w http.ResponseWriter, r *http.Request) {
	fieldID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	if !requireFieldOwner(w, r, fieldID) {
		return
	}

	var req removeAvailabilityRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, apiutil.KindValidation, "invalid request body")
		return
	}
	if len(req.Days) == 0 {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "days", Reason: "must not be empty"})
		return
	}

	days := make([]time.Weekday, 0, len(req.Days))
	for _, day := range req.Days {
		days = append(days, time.Weekday(day))
	}
	if err := availability.RemoveWeekly(r.Context(), database, fieldID, days); err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().Int64("field_id", fieldID).Ints("days", req.Days).Msg("Weekly availability removed")
	w.WriteHeader(http.StatusNoContent)
}
