// internal/api/fields/blocked.go
package fields

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mgallardo/canchas/internal/api/apiutil"
	"github.com/mgallardo/canchas/internal/availability"
	"github.com/mgallardo/canchas/internal/store"
)

type blockedIntervalRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason"`
}

type addBlockedRequest struct {
	Intervals []blockedIntervalRequest `json:"intervals"`
}

type blockedIntervalResponse struct {
	ID        int64  `json:"id"`
	FieldID   int64  `json:"field_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason,omitempty"`
}

func toBlockedIntervalResponse(row store.BlockedInterval) blockedIntervalResponse {
	return blockedIntervalResponse{
		ID:        row.ID,
		FieldID:   row.FieldID,
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
		Reason:    row.Reason,
	}
}

func parseTimestampField(raw, field string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apiutil.FieldError{Field: field, Reason: "is required"}
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apiutil.FieldError{Field: field, Reason: "must be an RFC 3339 timestamp"}
	}
	return value, nil
}

// POST /api/v1/fields/{id}/blocked
func HandleAddBlocked(w http.ResponseWriter, r *http.Request) {
	fieldID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	if !requireFieldOwner(w, r, fieldID) {
		return
	}

	var req addBlockedRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, apiutil.KindValidation, "invalid request body")
		return
	}
	if len(req.Intervals) == 0 {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "intervals", Reason: "must not be empty"})
		return
	}

	entries := make([]availability.BlockedEntry, 0, len(req.Intervals))
	for _, in := range req.Intervals {
		start, err := parseTimestampField(in.StartTime, "start_time")
		if err != nil {
			apiutil.WriteDomainError(w, r, err)
			return
		}
		entry := availability.BlockedEntry{FieldID: fieldID, Start: start, Reason: in.Reason}
		if strings.TrimSpace(in.EndTime) != "" {
			end, err := parseTimestampField(in.EndTime, "end_time")
			if err != nil {
				apiutil.WriteDomainError(w, r, err)
				return
			}
			entry.End = end
		}
		entries = append(entries, entry)
	}

	rows, err := availability.AddBlocked(r.Context(), database, entries)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().Int64("field_id", fieldID).Int("intervals", len(rows)).Msg("Blocked intervals added")
	resp := make([]blockedIntervalResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, toBlockedIntervalResponse(row))
	}
	_ = apiutil.WriteJSON(w, http.StatusCreated, resp)
}

// GET /api/v1/fields/{id}/blocked
func HandleListBlocked(w http.ResponseWriter, r *http.Request) {
	fieldID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fieldsQueryTimeout)
	defer cancel()

	var rows []store.BlockedInterval
	startRaw := strings.TrimSpace(r.URL.Query().Get("start"))
	endRaw := strings.TrimSpace(r.URL.Query().Get("end"))
	if startRaw != "" || endRaw != "" {
		start, err := parseTimestampField(startRaw, "start")
		if err != nil {
			apiutil.WriteDomainError(w, r, err)
			return
		}
		end, err := parseTimestampField(endRaw, "end")
		if err != nil {
			apiutil.WriteDomainError(w, r, err)
			return
		}
		rows, err = database.Queries.ListBlockedIntervalsInRange(ctx, store.ListBlockedIntervalsInRangeParams{
			FieldID:   fieldID,
			StartTime: start.UTC().Format(time.RFC3339),
			EndTime:   end.UTC().Format(time.RFC3339),
		})
		if err != nil {
			log.Ctx(r.Context()).Error().Err(err).Int64("field_id", fieldID).Msg("Failed to list blocked intervals")
			apiutil.WriteDomainError(w, r, err)
			return
		}
	} else {
		rows, err = database.Queries.ListBlockedIntervals(ctx, fieldID)
		if err != nil {
			log.Ctx(r.Context()).Error().Err(err).Int64("field_id", fieldID).Msg("Failed to list blocked intervals")
			apiutil.WriteDomainError(w, r, err)
			return
		}
	}

	resp := make([]blockedIntervalResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, toBlockedIntervalResponse(row))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, resp)
}

// DELETE /api/v1/fields/{id}/blocked?start=&end=
func HandleRemoveBlocked(w http.ResponseWriter, r *http.Request) {
	fieldID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	if !requireFieldOwner(w, r, fieldID) {
		return
	}

	start, err := parseTimestampField(r.URL.Query().Get("start"), "start")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	var end time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("end")); raw != "" {
		end, err = parseTimestampField(raw, "end")
		if err != nil {
			apiutil.WriteDomainError(w, r, err)
			return
		}
	}

	if err := availability.RemoveBlocked(r.Context(), database, fieldID, start, end); err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().Int64("field_id", fieldID).Msg("Blocked interval removed")
	w.WriteHeader(http.StatusNoContent)
}
