package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/logger"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// Ensurer creates production tasks
type Ensurer interface {
	Ensure(key domain.AssignmentKey) bool
}

// Recovery rebuilds the task registry from the persisted assignments at
// startup. Tasks start on a fresh interval, so time spent down earns nothing.
type Recovery struct {
	store    repository.Maintenance
	migrator *Migrator
	tasks    Ensurer
	status   *StatusTracker
	now      func() time.Time
}

// NewRecovery creates a new startup recovery. status may be nil.
func NewRecovery(store repository.Maintenance, migrator *Migrator, tasks Ensurer, status *StatusTracker) *Recovery {
	return &Recovery{
		store:    store,
		migrator: migrator,
		tasks:    tasks,
		status:   status,
		now:      time.Now,
	}
}

// Run applies the one-time migration, then ensures a task for every
// assignment with a positive quantity. A failed migration aborts recovery.
func (r *Recovery) Run(ctx context.Context) (*domain.RecoveryReport, error) {
	start := r.now()
	report := &domain.RecoveryReport{StartedAt: start}

	// 1. Migration first, so tasks are only built from corrected rows
	migration, err := r.migrator.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgMigrationFailed, err)
	}
	report.Migration = migration

	// 2. One task per remaining assignment
	entries, err := r.store.ListAllAssigned(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListAssigned, err)
	}
	for _, entry := range entries {
		if entry.Quantity <= 0 {
			report.Skipped++
			continue
		}
		if r.tasks.Ensure(entry.Key()) {
			report.Scheduled++
		} else {
			report.Skipped++
		}
	}

	report.Duration = time.Since(start).String()
	if r.status != nil {
		r.status.RecordRecovery(report)
	}
	logger.FromContext(ctx).Info(LogMsgRecoveryCompleted,
		"scheduled", report.Scheduled,
		"skipped", report.Skipped,
		"migration_skipped", migration.Skipped)
	return report, nil
}
