// Package scheduler owns the background job runner. One gocron scheduler is
// shared process-wide: jobs register between Init and Start, and Stop waits
// for in-flight runs during shutdown.
package scheduler

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotInitialized = errors.New("scheduler not initialized")
	ErrEmptyJobName   = errors.New("job name is required")
	ErrEmptyCronExpr  = errors.New("cron expression is required")
)

var (
	initOnce sync.Once
	initErr  error
	sched    gocron.Scheduler
	stopOnce sync.Once
	stopErr  error
)

// Init builds the shared scheduler. Calling it again is a no-op returning the
// first result.
func Init() error {
	initOnce.Do(func() {
		sched, initErr = gocron.NewScheduler(
			gocron.WithGlobalJobOptions(
				gocron.WithEventListeners(
					gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
						log.Error().
							Str("job_id", jobID.String()).
							Str("job_name", jobName).
							Interface("panic", recoverData).
							Msg("Scheduler job panicked")
					}),
				),
			),
		)
		if initErr == nil {
			log.Info().Msg("Scheduler initialized")
		}
	})
	return initErr
}

// Start begins running registered jobs.
func Start() error {
	if sched == nil {
		return ErrNotInitialized
	}
	log.Info().Msg("Scheduler starting")
	sched.Start()
	return nil
}

// Stop shuts down the scheduler, waiting for running jobs to finish. Repeated
// calls return the first shutdown result.
func Stop() error {
	if sched == nil {
		return ErrNotInitialized
	}
	stopOnce.Do(func() {
		log.Info().Msg("Scheduler stopping")
		stopErr = sched.Shutdown()
	})
	return stopErr
}

// AddJob registers a job on a standard five-field cron expression.
func AddJob(name, cronExpr string, task func(), opts ...gocron.JobOption) (gocron.Job, error) {
	if sched == nil {
		return nil, ErrNotInitialized
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyJobName
	}
	if strings.TrimSpace(cronExpr) == "" {
		return nil, ErrEmptyCronExpr
	}

	jobLogger := log.With().Str("job_name", name).Str("cron", cronExpr).Logger()
	job, err := sched.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			jobLogger.Debug().Msg("Scheduler job started")
			task()
			jobLogger.Debug().Msg("Scheduler job completed")
		}),
		append([]gocron.JobOption{gocron.WithName(name)}, opts...)...,
	)
	if err != nil {
		jobLogger.Error().Err(err).Msg("Failed to register scheduler job")
		return nil, err
	}
	jobLogger.Info().Msg("Scheduler job registered")
	return job, nil
}
