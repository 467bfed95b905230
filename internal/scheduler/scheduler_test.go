package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/mgallardo/canchas/internal/testutil"
)

// The package holds one shared scheduler, so the lifecycle is exercised in a
// single test in call order: before Init, after Init, after Stop.
func TestSchedulerLifecycle(t *testing.T) {
	if _, err := AddJob("noop", "* * * * *", func() {}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("AddJob before Init: %v, want ErrNotInitialized", err)
	}
	if err := Stop(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Stop before Init: %v, want ErrNotInitialized", err)
	}

	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := Init(); err != nil {
		t.Fatalf("repeated Init: %v", err)
	}

	if _, err := AddJob("", "* * * * *", func() {}); !errors.Is(err, ErrEmptyJobName) {
		t.Errorf("empty name: %v, want ErrEmptyJobName", err)
	}
	if _, err := AddJob("noop", "  ", func() {}); !errors.Is(err, ErrEmptyCronExpr) {
		t.Errorf("blank cron: %v, want ErrEmptyCronExpr", err)
	}
	if _, err := AddJob("noop", "not a cron", func() {}); err == nil {
		t.Error("malformed cron expression accepted")
	}

	job, err := AddJob("noop", "*/5 * * * *", func() {}, gocron.WithSingletonMode(gocron.LimitModeWait))
	if err != nil {
		t.Fatalf("AddJob: %v", err)
	}
	if job.Name() != "noop" {
		t.Errorf("job name %q, want noop", job.Name())
	}

	if err := RegisterLeagueFinisher(nil, time.UTC, "*/30 * * * *"); err == nil {
		t.Error("RegisterLeagueFinisher accepted nil database")
	}
	database := testutil.NewTestDB(t)
	if err := RegisterLeagueFinisher(database, time.UTC, "*/30 * * * *"); err != nil {
		t.Fatalf("RegisterLeagueFinisher: %v", err)
	}

	if err := Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := Stop(); err != nil {
		t.Fatalf("repeated Stop: %v", err)
	}
}
