package reservations

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
	"github.com/mgallardo/canchas/internal/availability"
	"github.com/mgallardo/canchas/internal/interval"
	"github.com/mgallardo/canchas/internal/testutil"
)

func newTestMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/reservations", HandleBook)
	mux.HandleFunc("POST /api/v1/reservations/{id}/cancel", HandleCancel)
	mux.HandleFunc("GET /api/v1/fields/{id}/reservations", HandleListByField)
	mux.HandleFunc("GET /api/v1/users/me/reservations", HandleListMine)
	return api.ChainMiddleware(mux, api.WithIdentity)
}

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

func decodeErrorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Kind
}

func TestReservationHandlers(t *testing.T) {
	database := testutil.NewTestDB(t)
	InitHandlers(database, time.UTC)
	handler := newTestMux()

	const ownerID, bookerID, strangerID = 1, 2, 3

	fieldID := testutil.CreateTestField(t, database, ownerID)
	_, err := availability.ReplaceWeekly(context.Background(), database, []availability.WeeklyEntry{{
		FieldID:   fieldID,
		Day:       time.Monday,
		Start:     9 * 60,
		End:       12 * 60,
		Price:     60,
		Durations: []int{60},
	}})
	if err != nil {
		t.Fatalf("seed weekly availability: %v", err)
	}

	monday := testutil.NextWeekday(time.Now().UTC(), time.Monday).Format(interval.DateLayout)
	bookBody := fmt.Sprintf(`{"field_id":%d,"date":%q,"start_time":"10:00","end_time":"11:00"}`, fieldID, monday)

	t.Run("unauthenticated", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/api/v1/reservations", bookBody, 0)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status %d, want 401", rec.Code)
		}
		if kind := decodeErrorKind(t, rec); kind != "unauthenticated" {
			t.Errorf("kind %q, want unauthenticated", kind)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/api/v1/reservations", `{"field_id":`, bookerID)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status %d, want 400", rec.Code)
		}
	})

	t.Run("unavailable weekday", func(t *testing.T) {
		tuesday := testutil.NextWeekday(time.Now().UTC(), time.Tuesday).Format(interval.DateLayout)
		body := fmt.Sprintf(`{"field_id":%d,"date":%q,"start_time":"10:00","end_time":"11:00"}`, fieldID, tuesday)
		rec := doRequest(t, handler, http.MethodPost, "/api/v1/reservations", body, bookerID)
		if rec.Code != http.StatusConflict {
			t.Fatalf("status %d, want 409: %s", rec.Code, rec.Body.String())
		}
		if kind := decodeErrorKind(t, rec); kind != "slot_unavailable" {
			t.Errorf("kind %q, want slot_unavailable", kind)
		}
	})

	var reservationID int64

	t.Run("book", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/api/v1/reservations", bookBody, bookerID)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status %d, want 201: %s", rec.Code, rec.Body.String())
		}
		var resp reservationResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Price != 60 {
			t.Errorf("price %v, want 60 from the weekly window", resp.Price)
		}
		if resp.Status != "booked" {
			t.Errorf("status %q, want booked", resp.Status)
		}
		reservationID = resp.ID
	})

	t.Run("duplicate slot", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/api/v1/reservations", bookBody, strangerID)
		if rec.Code != http.StatusConflict {
			t.Fatalf("status %d, want 409: %s", rec.Code, rec.Body.String())
		}
		if kind := decodeErrorKind(t, rec); kind != "slot_taken" {
			t.Errorf("kind %q, want slot_taken", kind)
		}
	})

	t.Run("list by field", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/fields/%d/reservations", fieldID), "", 0)
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, want 200", rec.Code)
		}
		var resp []reservationResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if len(resp) != 1 {
			t.Errorf("got %d reservations, want 1", len(resp))
		}
	})

	t.Run("list mine", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/api/v1/users/me/reservations", "", bookerID)
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, want 200", rec.Code)
		}
		var resp []reservationResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if len(resp) != 1 {
			t.Errorf("got %d reservations, want 1", len(resp))
		}
	})

	t.Run("cancel wrong owner", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/reservations/%d/cancel", reservationID), "", strangerID)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status %d, want 403", rec.Code)
		}
	})

	t.Run("cancel", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/reservations/%d/cancel", reservationID), "", bookerID)
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
		}
		var resp reservationResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Status != "cancelled" {
			t.Errorf("status %q, want cancelled", resp.Status)
		}
	})

	t.Run("cancel again", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/reservations/%d/cancel", reservationID), "", bookerID)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status %d, want 404: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing reservation", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/api/v1/reservations/9999/cancel", "", bookerID)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status %d, want 404", rec.Code)
		}
	})
}
