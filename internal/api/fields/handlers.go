// internal/api/fields/handlers.go
package fields

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mgallardo/canchas/internal/api/apiutil"
	"github.com/mgallardo/canchas/internal/db"
	"github.com/mgallardo/canchas/internal/store"
)

var (
	database *db.DB
	dbOnce   sync.Once
)

const fieldsQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(d *db.DB) {
	if d == nil {
		return
	}
	dbOnce.Do(func() {
		database = d
	})
}

type createFieldRequest struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	FieldType string   `json:"field_type"`
	FieldInfo string   `json:"field_info"`
	Services  string   `json:"services"`
}

type fieldResponse struct {
	ID        int64    `json:"id"`
	OwnerID   int64    `json:"owner_id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	FieldType string   `json:"field_type,omitempty"`
	FieldInfo string   `json:"field_info,omitempty"`
	Services  string   `json:"services,omitempty"`
	CreatedAt string   `json:"created_at"`
}

func toFieldResponse(f store.Field) fieldResponse {
	resp := fieldResponse{
		ID:        f.ID,
		OwnerID:   f.OwnerID,
		Name:      f.Name,
		Address:   f.Address,
		FieldType: f.FieldType,
		FieldInfo: f.FieldInfo,
		Services:  f.Services,
		CreatedAt: f.CreatedAt,
	}
	if f.Latitude.Valid {
		resp.Latitude = &f.Latitude.Float64
	}
	if f.Longitude.Valid {
		resp.Longitude = &f.Longitude.Float64
	}
	return resp
}

// POST /api/v1/fields
func HandleCreateField(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	userID, ok := apiutil.RequireUserID(w, r)
	if !ok {
		return
	}

	var req createFieldRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, apiutil.KindValidation, "invalid request body")
		return
	}
	if req.Name == "" {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "name", Reason: "is required"})
		return
	}
	if req.Address == "" {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "address", Reason: "is required"})
		return
	}

	params := store.CreateFieldParams{
		OwnerID:   userID,
		Name:      req.Name,
		Address:   req.Address,
		FieldType: req.FieldType,
		FieldInfo: req.FieldInfo,
		Services:  req.Services,
	}
	if req.Latitude != nil {
		params.Latitude = sql.NullFloat64{Float64: *req.Latitude, Valid: true}
	}
	if req.Longitude != nil {
		params.Longitude = sql.NullFloat64{Float64: *req.Longitude, Valid: true}
	}

	ctx, cancel := context.WithTimeout(r.Context(), fieldsQueryTimeout)
	defer cancel()

	field, err := database.Queries.CreateField(ctx, params)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create field")
		apiutil.WriteDomainError(w, r, err)
		return
	}

	logger.Info().Int64("field_id", field.ID).Msg("Field created")
	_ = apiutil.WriteJSON(w, http.StatusCreated, toFieldResponse(field))
}

// GET /api/v1/fields
func HandleListFields(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), fieldsQueryTimeout)
	defer cancel()

	fields, err := database.Queries.ListFields(ctx)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to list fields")
		apiutil.WriteDomainError(w, r, err)
		return
	}

	resp := make([]fieldResponse, 0, len(fields))
	for _, f := range fields {
		resp = append(resp, toFieldResponse(f))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, resp)
}

// GET /api/v1/fields/{id}
func HandleGetField(w http.ResponseWriter, r *http.Request) {
	fieldID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fieldsQueryTimeout)
	defer cancel()

	field, err := database.Queries.GetField(ctx, fieldID)
	if errors.Is(err, sql.ErrNoRows) {
		apiutil.WriteError(w, http.StatusNotFound, apiutil.KindNotFound, "field not found")
		return
	}
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("field_id", fieldID).Msg("Failed to load field")
		apiutil.WriteDomainError(w, r, err)
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, toFieldResponse(field))
}
