// internal/api/reservations/handlers.go
package reservations

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mgallardo/canchas/internal/api/apiutil"
	"github.com/mgallardo/canchas/internal/db"
	"github.com/mgallardo/canchas/internal/interval"
	"github.com/mgallardo/canchas/internal/reservations"
	"github.com/mgallardo/canchas/internal/store"
)

var (
	database *db.DB
	manager  *reservations.Manager
	initOnce sync.Once
)

const reservationsQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(d *db.DB, loc *time.Location) {
	if d == nil {
		return
	}
	initOnce.Do(func() {
		database = d
		manager = reservations.NewManager(d, loc)
	})
}

type bookRequest struct {
	FieldID   int64  `json:"field_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type reservationResponse struct {
	ID        int64   `json:"id"`
	FieldID   int64   `json:"field_id"`
	UserID    int64   `json:"user_id"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Price     float64 `json:"price"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

func toReservationResponse(res store.Reservation) reservationResponse {
	return reservationResponse{
		ID:        res.ID,
		FieldID:   res.FieldID,
		UserID:    res.UserID,
		Date:      res.ReservationDate,
		StartTime: res.StartTime,
		EndTime:   res.EndTime,
		Price:     res.Price,
		Status:    res.Status,
		CreatedAt: res.CreatedAt,
	}
}

// POST /api/v1/reservations
func HandleBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := apiutil.RequireUserID(w, r)
	if !ok {
		return
	}

	var req bookRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, apiutil.KindValidation, "invalid request body")
		return
	}

	date, err := interval.ParseDate(req.Date, time.UTC)
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "date", Reason: "must be in YYYY-MM-DD format"})
		return
	}
	start, err := interval.ParseClock(req.StartTime)
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "start_time", Reason: "must be in HH:MM format"})
		return
	}
	end, err := interval.ParseClock(req.EndTime)
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "end_time", Reason: "must be in HH:MM format"})
		return
	}

	reservation, err := manager.Book(r.Context(), reservations.BookRequest{
		FieldID: req.FieldID,
		UserID:  userID,
		Date:    date,
		Start:   start,
		End:     end,
	})
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusCreated, toReservationResponse(reservation))
}

// POST /api/v1/reservations/{id}/cancel
func HandleCancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := apiutil.RequireUserID(w, r)
	if !ok {
		return
	}
	reservationID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationsQueryTimeout)
	defer cancel()

	existing, err := database.Queries.GetReservation(ctx, reservationID)
	if errors.Is(err, sql.ErrNoRows) {
		apiutil.WriteError(w, http.StatusNotFound, apiutil.KindNotFound, "reservation not found")
		return
	}
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("reservation_id", reservationID).Msg("Failed to load reservation")
		apiutil.WriteDomainError(w, r, err)
		return
	}
	if existing.UserID != userID {
		apiutil.WriteError(w, http.StatusForbidden, apiutil.KindForbidden, "not the reservation owner")
		return
	}

	reservation, err := manager.Cancel(r.Context(), reservationID)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, toReservationResponse(reservation))
}

// GET /api/v1/fields/{id}/reservations?start=&end=
func HandleListByField(w http.ResponseWriter, r *http.Request) {
	fieldID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationsQueryTimeout)
	defer cancel()

	var rows []store.Reservation
	startRaw := strings.TrimSpace(r.URL.Query().Get("start"))
	endRaw := strings.TrimSpace(r.URL.Query().Get("end"))
	if startRaw != "" || endRaw != "" {
		if _, err := interval.ParseDate(startRaw, time.UTC); err != nil {
			apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "start", Reason: "must be in YYYY-MM-DD format"})
			return
		}
		if _, err := interval.ParseDate(endRaw, time.UTC); err != nil {
			apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "end", Reason: "must be in YYYY-MM-DD format"})
			return
		}
		rows, err = database.Queries.ListReservationsByFieldBetween(ctx, store.ListReservationsByFieldBetweenParams{
			FieldID:   fieldID,
			StartDate: startRaw,
			EndDate:   endRaw,
		})
	} else {
		rows, err = database.Queries.ListReservationsByField(ctx, fieldID)
	}
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("field_id", fieldID).Msg("Failed to list reservations")
		apiutil.WriteDomainError(w, r, err)
		return
	}

	resp := make([]reservationResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, toReservationResponse(row))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, resp)
}

// GET /api/v1/users/me/reservations
func HandleListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := apiutil.RequireUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationsQueryTimeout)
	defer cancel()

	rows, err := database.Queries.ListUpcomingReservationsByUser(ctx, store.ListUpcomingReservationsByUserParams{
		UserID:   userID,
		FromDate: time.Now().UTC().Format(interval.DateLayout),
	})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("user_id", userID).Msg("Failed to list user reservations")
		apiutil.WriteDomainError(w, r, err)
		return
	}

	resp := make([]reservationResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, toReservationResponse(row))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, resp)
}
