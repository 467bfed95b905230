package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mgallardo/canchas/internal/testutil"
)

func TestReplaceWeeklyKeepsOneRowPerDay(t *testing.T) {
	database := testutil.NewTestDB(t)
	fieldID := testutil.CreateTestField(t, database, 1)
	ctx := context.Background()

	first := WeeklyEntry{
		FieldID:   fieldID,
		Day:       time.Monday,
		Start:     mustClock(t, "09:00"),
		End:       mustClock(t, "12:00"),
		Price:     60,
		Durations: []int{60},
	}
	if _, err := ReplaceWeekly(ctx, database, []WeeklyEntry{first}); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	second := first
	second.Start = mustClock(t, "10:00")
	second.End = mustClock(t, "14:00")
	second.Price = 75
	if _, err := ReplaceWeekly(ctx, database, []WeeklyEntry{second}); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	rows, err := database.Queries.ListWeeklyAvailability(ctx, fieldID)
	if err != nil {
		t.Fatalf("list weekly availability: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].StartTime != "10:00" || rows[0].EndTime != "14:00" {
		t.Errorf("window = %s-%s, want 10:00-14:00", rows[0].StartTime, rows[0].EndTime)
	}
	if rows[0].Price != 75 {
		t.Errorf("price = %v, want 75", rows[0].Price)
	}
}

func TestReplaceWeeklyRejectsInvertedWindow(t *testing.T) {
	database := testutil.NewTestDB(t)
	fieldID := testutil.CreateTestField(t, database, 1)

	_, err := ReplaceWeekly(context.Background(), database, []WeeklyEntry{{
		FieldID:   fieldID,
		Day:       time.Monday,
		Start:     mustClock(t, "12:00"),
		End:       mustClock(t, "09:00"),
		Price:     60,
		Durations: []int{60},
	}})
	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestAddBlockedDefaultsEndToStart(t *testing.T) {
	database := testutil.NewTestDB(t)
	fieldID := testutil.CreateTestField(t, database, 1)

	start := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	saved, err := AddBlocked(context.Background(), database, []BlockedEntry{{
		FieldID: fieldID,
		Start:   start,
	}})
	if err != nil {
		t.Fatalf("add blocked: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("saved = %d rows, want 1", len(saved))
	}
	if saved[0].StartTime != saved[0].EndTime {
		t.Errorf("end = %s, want %s", saved[0].EndTime, saved[0].StartTime)
	}
}

func TestRemoveBlocked(t *testing.T) {
	database := testutil.NewTestDB(t)
	fieldID := testutil.CreateTestField(t, database, 1)
	ctx := context.Background()

	start := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	if _, err := AddBlocked(ctx, database, []BlockedEntry{{FieldID: fieldID, Start: start, End: end}}); err != nil {
		t.Fatalf("add blocked: %v", err)
	}

	if err := RemoveBlocked(ctx, database, fieldID, start, end); err != nil {
		t.Fatalf("remove blocked: %v", err)
	}
	if err := RemoveBlocked(ctx, database, fieldID, start, end); !errors.Is(err, ErrBlockedNotFound) {
		t.Errorf("second remove = %v, want ErrBlockedNotFound", err)
	}
}
