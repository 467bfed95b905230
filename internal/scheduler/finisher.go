package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/mgallardo/canchas/internal/db"
	"github.com/mgallardo/canchas/internal/interval"
)

// RegisterLeagueFinisher registers the sweep that closes out leagues whose
// end date has passed. The sweep is a plain conditional update, so running it
// again is harmless.
func RegisterLeagueFinisher(database *db.DB, loc *time.Location, cronExpr string) error {
	if database == nil {
		return fmt.Errorf("league finisher requires database")
	}
	if loc == nil {
		loc = time.UTC
	}

	jobName := "league_finisher"
	jobLogger := log.With().
		Str("component", "league_finisher_job").
		Str("job_name", jobName).
		Str("cron", cronExpr).
		Logger()

	_, err := AddJob(jobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		today := time.Now().In(loc).Format(interval.DateLayout)
		finished, err := database.Queries.MarkExpiredLeaguesFinished(ctx, today)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Failed to finish expired leagues")
			return
		}
		if finished > 0 {
			jobLogger.Info().Int64("leagues", finished).Msg("Expired leagues finished")
		}
	}, gocron.WithSingletonMode(gocron.LimitModeWait))
	if err != nil {
		return fmt.Errorf("add league finisher job: %w", err)
	}

	jobLogger.Info().Msg("League finisher job registered")
	return nil
}
