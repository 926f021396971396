package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/osse101/BrandishIdle_Go/internal/worker"
)

// Scheduler runs low-frequency maintenance jobs on a cron schedule. Jobs are
// handed to the worker pool rather than run on the cron goroutine.
type Scheduler struct {
	cron       *cron.Cron
	workerPool *worker.Pool
}

// New creates a new scheduler
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		workerPool: pool,
	}
}

// Schedule registers a job to run at a fixed interval. A run is skipped, not
// queued up, when the worker queue is still full from earlier runs.
func (s *Scheduler) Schedule(name string, interval time.Duration, job worker.Job) error {
	if interval <= 0 {
		return errors.New(ErrMsgInvalidInterval)
	}
	return s.AddJob(name, fmt.Sprintf("@every %s", interval), job)
}

// AddJob registers a job with a cron expression, e.g. "0 */5 * * * *" or "@every 30s"
func (s *Scheduler) AddJob(name, spec string, job worker.Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		if !s.workerPool.TryEnqueue(job) {
			slog.Default().Warn(LogMsgJobSkipped, "job", name)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", name, err)
	}

	slog.Default().Info(LogMsgJobRegistered, "job", name, "schedule", spec)
	return nil
}

// Start starts the cron loop
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the cron loop and waits for running enqueue calls to return
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Default().Info(LogMsgSchedulerStop)
}
