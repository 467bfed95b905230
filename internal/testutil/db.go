package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mgallardo/canchas/internal/db"
	"github.com/mgallardo/canchas/internal/store"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// CreateTestField inserts a field owned by the given user and returns its id.
func CreateTestField(t *testing.T, database *db.DB, ownerID int64) int64 {
	t.Helper()

	field, err := database.Queries.CreateField(context.Background(), store.CreateFieldParams{
		OwnerID: ownerID,
		Name:    "Test Field",
		Address: "Calle Falsa 123",
	})
	if err != nil {
		t.Fatalf("insert field: %v", err)
	}
	return field.ID
}

// NextWeekday returns the first date strictly after from that falls on day.
func NextWeekday(from time.Time, day time.Weekday) time.Time {
	date := from.AddDate(0, 0, 1)
	for date.Weekday() != day {
		date = date.AddDate(0, 0, 1)
	}
	return date
}
