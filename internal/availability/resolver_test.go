package availability

import (
	"context"
	"testing"
	"time"

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

func seedMondayMorning(t *testing.T, database *db.DB, fieldID int64) {
	t.Helper()
	_, err := ReplaceWeekly(context.Background(), database, []WeeklyEntry{{
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
}

func TestResolveAllowedWithPrice(t *testing.T) {
	database := testutil.NewTestDB(t)
	fieldID := testutil.CreateTestField(t, database, 1)
	seedMondayMorning(t, database, fieldID)

	monday := testutil.NextWeekday(time.Now().UTC(), time.Monday)
	resolution, err := Resolve(context.Background(), database.Queries, time.UTC, fieldID, monday,
		mustClock(t, "09:00"), mustClock(t, "10:00"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolution.Status != StatusAllowed {
		t.Fatalf("status = %v, want allowed", resolution.Status)
	}
	if resolution.Price != 60 {
		t.Errorf("price = %v, want 60", resolution.Price)
	}
}

func TestResolveUnavailableOutsideWindow(t *testing.T) {
	database := testutil.NewTestDB(t)
	fieldID := testutil.CreateTestField(t, database, 1)
	seedMondayMorning(t, database, fieldID)

	monday := testutil.NextWeekday(time.Now().UTC(), time.Monday)
	resolution, err := Resolve(context.Background(), database.Queries, time.UTC, fieldID, monday,
		mustClock(t, "11:30"), mustClock(t, "12:30"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolution.Status != StatusUnavailable {
		t.Errorf("status = %v, want unavailable", resolution.Status)
	}
}

func TestResolveUnavailableWrongWeekday(t *testing.T) {
	database := testutil.NewTestDB(t)
	fieldID := testutil.CreateTestField(t, database, 1)
	seedMondayMorning(t, database, fieldID)

	tuesday := testutil.NextWeekday(time.Now().UTC(), time.Tuesday)
	resolution, err := Resolve(context.Background(), database.Queries, time.UTC, fieldID, tuesday,
		mustClock(t, "09:00"), mustClock(t, "10:00"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolution.Status != StatusUnavailable {
		t.Errorf("status = %v, want unavailable", resolution.Status)
	}
}

func TestResolveBlockedTakesPrecedence(t *testing.T) {
	database := testutil.NewTestDB(t)
	fieldID := testutil.CreateTestField(t, database, 1)
	seedMondayMorning(t, database, fieldID)

	monday := testutil.NextWeekday(time.Now().UTC(), time.Monday)
	blockStart := interval.At(monday, mustClock(t, "09:30"), time.UTC)
	blockEnd := interval.At(monday, mustClock(t, "10:30"), time.UTC)
	if _, err := AddBlocked(context.Background(), database, []BlockedEntry{{
		FieldID: fieldID,
		Start:   blockStart,
		End:     blockEnd,
		Reason:  "maintenance",
	}}); err != nil {
		t.Fatalf("add blocked interval: %v", err)
	}

	// 10:00-11:00 overlaps the block even though the weekly window covers it.
	resolution, err := Resolve(context.Background(), database.Queries, time.UTC, fieldID, monday,
		mustClock(t, "10:00"), mustClock(t, "11:00"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolution.Status != StatusBlocked {
		t.Errorf("status = %v, want blocked", resolution.Status)
	}
}

func TestResolvePointExclusionBlocksExactStart(t *testing.T) {
	database := testutil.NewTestDB(t)
	fieldID := testutil.CreateTestField(t, database, 1)
	seedMondayMorning(t, database, fieldID)

	monday := testutil.NextWeekday(time.Now().UTC(), time.Monday)
	point := interval.At(monday, mustClock(t, "10:00"), time.UTC)
	if _, err := AddBlocked(context.Background(), database, []BlockedEntry{{
		FieldID: fieldID,
		Start:   point,
	}}); err != nil {
		t.Fatalf("add blocked point: %v", err)
	}

	resolution, err := Resolve(context.Background(), database.Queries, time.UTC, fieldID, monday,
		mustClock(t, "10:00"), mustClock(t, "11:00"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolution.Status != StatusBlocked {
		t.Errorf("status = %v, want blocked", resolution.Status)
	}

	// A window ending exactly at the point is untouched.
	resolution, err = Resolve(context.Background(), database.Queries, time.UTC, fieldID, monday,
		mustClock(t, "09:00"), mustClock(t, "10:00"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolution.Status != StatusAllowed {
		t.Errorf("status = %v, want allowed", resolution.Status)
	}
}
