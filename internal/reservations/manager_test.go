package reservations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mgallardo/canchas/internal/availability"
	"github.com/mgallardo/canchas/internal/db"
	"github.com/mgallardo/canchas/internal/interval"
	"github.com/mgallardo/canchas/internal/testutil"
)

func mustClock(t *testing.T, raw string) interval.Minutes {
	t.Helper()
	m, err := interval.ParseClock(raw)
	if err != nil {
		t.Fatalf("parse clock %q: %v", raw, err)
	}
	return m
}

func setupBookableMonday(t *testing.T) (*Manager, *db.DB, int64, time.Time) {
	t.Helper()

	database := testutil.NewTestDB(t)
	fieldID := testutil.CreateTestField(t, database, 1)

	_, err := availability.ReplaceWeekly(context.Background(), database, []availability.WeeklyEntry{{
		FieldID:   fieldID,
		Day:       time.Monday,
		Start:     mustClock(t, "09:00"),
		End:       mustClock(t, "12:00"),
		Price:     60,
		Durations: []int{60},
	}})
	if err != nil {
		t.Fatalf("seed weekly availability: %v", err)
	}

	monday := testutil.NextWeekday(time.Now().UTC(), time.Monday)
	return NewManager(database, time.UTC), database, fieldID, monday
}

func TestBookCopiesPriceFromAvailability(t *testing.T) {
	manager, _, fieldID, monday := setupBookableMonday(t)

	reservation, err := manager.Book(context.Background(), BookRequest{
		FieldID: fieldID,
		UserID:  7,
		Date:    monday,
		Start:   mustClock(t, "09:00"),
		End:     mustClock(t, "10:00"),
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if reservation.Status != "booked" {
		t.Errorf("status = %q, want booked", reservation.Status)
	}
	if reservation.Price != 60 {
		t.Errorf("price = %v, want 60", reservation.Price)
	}
	if reservation.ReservationDate != monday.Format(interval.DateLayout) {
		t.Errorf("date = %q, want %q", reservation.ReservationDate, monday.Format(interval.DateLayout))
	}
}

func TestBookBlockedSlot(t *testing.T) {
	manager, database, fieldID, monday := setupBookableMonday(t)
	ctx := context.Background()

	if _, err := availability.AddBlocked(ctx, database, []availability.BlockedEntry{{
		FieldID: fieldID,
		Start:   interval.At(monday, mustClock(t, "09:30"), time.UTC),
		End:     interval.At(monday, mustClock(t, "10:30"), time.UTC),
	}}); err != nil {
		t.Fatalf("add blocked: %v", err)
	}

	_, err := manager.Book(ctx, BookRequest{
		FieldID: fieldID,
		UserID:  7,
		Date:    monday,
		Start:   mustClock(t, "10:00"),
		End:     mustClock(t, "11:00"),
	})
	if !errors.Is(err, ErrSlotBlocked) {
		t.Fatalf("err = %v, want ErrSlotBlocked", err)
	}

	rows, listErr := database.Queries.ListReservationsByField(ctx, fieldID)
	if listErr != nil {
		t.Fatalf("list reservations: %v", listErr)
	}
	if len(rows) != 0 {
		t.Errorf("reservations = %d rows, want 0 after rollback", len(rows))
	}
}

func TestBookUnavailableSlot(t *testing.T) {
	manager, _, fieldID, monday := setupBookableMonday(t)

	_, err := manager.Book(context.Background(), BookRequest{
		FieldID: fieldID,
		UserID:  7,
		Date:    monday,
		Start:   mustClock(t, "14:00"),
		End:     mustClock(t, "15:00"),
	})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("err = %v, want ErrSlotUnavailable", err)
	}
}

func TestBookIdenticalSlotTwice(t *testing.T) {
	manager, _, fieldID, monday := setupBookableMonday(t)
	ctx := context.Background()

	req := BookRequest{
		FieldID: fieldID,
		UserID:  7,
		Date:    monday,
		Start:   mustClock(t, "09:00"),
		End:     mustClock(t, "10:00"),
	}
	if _, err := manager.Book(ctx, req); err != nil {
		t.Fatalf("first book: %v", err)
	}

	req.UserID = 8
	if _, err := manager.Book(ctx, req); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("second book = %v, want ErrSlotTaken", err)
	}
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	manager, _, fieldID, monday := setupBookableMonday(t)
	ctx := context.Background()

	req := BookRequest{
		FieldID: fieldID,
		UserID:  7,
		Date:    monday,
		Start:   mustClock(t, "09:00"),
		End:     mustClock(t, "10:00"),
	}
	first, err := manager.Book(ctx, req)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if _, err := manager.Cancel(ctx, first.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	req.UserID = 8
	if _, err := manager.Book(ctx, req); err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}
}

func TestCancelRoundTrip(t *testing.T) {
	manager, database, fieldID, monday := setupBookableMonday(t)
	ctx := context.Background()

	reservation, err := manager.Book(ctx, BookRequest{
		FieldID: fieldID,
		UserID:  7,
		Date:    monday,
		Start:   mustClock(t, "10:00"),
		End:     mustClock(t, "11:00"),
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	cancelled, err := manager.Cancel(ctx, reservation.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != "cancelled" {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}

	stored, err := database.Queries.GetReservation(ctx, reservation.ID)
	if err != nil {
		t.Fatalf("get reservation: %v", err)
	}
	if stored.Status != "cancelled" {
		t.Errorf("stored status = %q, want cancelled", stored.Status)
	}

	// Second cancel is not a second state change.
	if _, err := manager.Cancel(ctx, reservation.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second cancel = %v, want ErrNotFound", err)
	}
}

func TestCancelMissingReservation(t *testing.T) {
	manager, _, _, _ := setupBookableMonday(t)

	if _, err := manager.Cancel(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("cancel = %v, want ErrNotFound", err)
	}
}

func TestBookValidation(t *testing.T) {
	manager, _, fieldID, monday := setupBookableMonday(t)

	_, err := manager.Book(context.Background(), BookRequest{
		FieldID: fieldID,
		UserID:  7,
		Date:    monday,
		Start:   mustClock(t, "10:00"),
		End:     mustClock(t, "10:00"),
	})
	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}
