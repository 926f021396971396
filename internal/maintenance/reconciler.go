package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/event"
	"github.com/osse101/BrandishIdle_Go/internal/logger"
	"github.com/osse101/BrandishIdle_Go/internal/metrics"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// Canceller stops production tasks
type Canceller interface {
	Cancel(key domain.AssignmentKey) bool
}

// SeasonStore removes expired global seasons
type SeasonStore interface {
	DeleteExpiredSeasons(ctx context.Context, before time.Time) (int64, error)
}

// Invalidator drops cached season state
type Invalidator interface {
	Invalidate()
}

// Reconciler removes assignments whose owner no longer holds the variant anywhere.
// It never touches currency or the Available ledger.
type Reconciler struct {
	store     repository.Maintenance
	ownership repository.Ownership
	seasons   SeasonStore
	cache     Invalidator
	tasks     Canceller
	status    *StatusTracker
	bus       event.Bus
	now       func() time.Time
}

// NewReconciler creates a new reconciler. seasons, cache, status and bus may be nil.
func NewReconciler(store repository.Maintenance, ownership repository.Ownership, tasks Canceller, seasons SeasonStore, cache Invalidator, status *StatusTracker, bus event.Bus) *Reconciler {
	return &Reconciler{
		store:     store,
		ownership: ownership,
		seasons:   seasons,
		cache:     cache,
		tasks:     tasks,
		status:    status,
		bus:       bus,
		now:       time.Now,
	}
}

// Process runs one sweep. It implements worker.Job.
func (r *Reconciler) Process(ctx context.Context) error {
	_, err := r.Run(ctx)
	return err
}

// Run checks every assignment against the ownership source. Lookup and
// removal errors skip the entry and are counted; only a failure to list the
// assignments aborts the sweep.
func (r *Reconciler) Run(ctx context.Context) (*domain.ReconcileReport, error) {
	ctx = logger.WithRequestID(ctx, logger.GenerateRequestID())
	log := logger.FromContext(ctx)
	start := r.now()
	report := &domain.ReconcileReport{StartedAt: start}

	log.Debug(LogMsgReconcileStarted)

	entries, err := r.store.ListAllAssigned(ctx)
	if err != nil {
		err = fmt.Errorf("%s: %w", ErrMsgFailedToListAssigned, err)
		metrics.ReconcileRuns.WithLabelValues(metrics.ResultError).Inc()
		r.record(report, err)
		return nil, err
	}

	for _, entry := range entries {
		report.Checked++
		key := entry.Key()

		owns, err := r.ownership.OwnsAny(ctx, key.OwnerID, key.VariantKey)
		if err != nil {
			report.Errors++
			log.Warn(LogMsgOwnershipCheckFailed, "key", key.String(), "error", err)
			continue
		}
		if owns {
			continue
		}

		outcome, err := r.removeStale(ctx, key)
		if err != nil {
			report.Errors++
			log.Warn(LogMsgStaleRemovalFailed, "key", key.String(), "error", err)
			continue
		}
		if outcome == staleKept {
			continue
		}
		// a row deleted by another path still leaves a task to stop
		r.tasks.Cancel(key)
		if outcome == staleRemoved {
			report.Removed++
			metrics.ReconcileRemoved.Inc()
			log.Info(LogMsgStaleAssignment,
				"key", key.String(),
				"quantity", entry.Quantity,
				"error", domain.ErrStaleAssignment)
			r.publish(ctx, entry)
		}
	}

	r.cleanupSeasons(ctx, report)

	report.Duration = time.Since(start).String()
	metrics.ReconcileRuns.WithLabelValues(metrics.ResultSuccess).Inc()
	r.record(report, nil)
	log.Info(LogMsgReconcileCompleted,
		"checked", report.Checked,
		"removed", report.Removed,
		"errors", report.Errors,
		"expired_seasons", report.ExpiredSeasons)
	return report, nil
}

type staleOutcome int

const (
	staleRemoved staleOutcome = iota
	staleGone                 // deleted by someone else first
	staleKept                 // ownership reappeared
)

// removeStale deletes the assignment after re-checking ownership under the
// owner lock
func (r *Reconciler) removeStale(ctx context.Context, key domain.AssignmentKey) (staleOutcome, error) {
	tx, err := r.store.BeginMaintenanceTx(ctx)
	if err != nil {
		return staleKept, fmt.Errorf("%w: %s: %w", domain.ErrTransactionFailure, ErrMsgFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.LockOwner(ctx, key.OwnerID); err != nil {
		return staleKept, fmt.Errorf("%w: %s: %w", domain.ErrTransactionFailure, ErrMsgFailedToLock, err)
	}

	entry, err := tx.GetAssignedForUpdate(ctx, key.OwnerID, key.VariantKey)
	if err != nil {
		return staleKept, fmt.Errorf("%w: %s: %w", domain.ErrTransactionFailure, ErrMsgFailedToWriteAssigned, err)
	}
	if entry == nil {
		return staleGone, nil
	}

	owns, err := r.ownership.OwnsAny(ctx, key.OwnerID, key.VariantKey)
	if err != nil {
		return staleKept, err
	}
	if owns {
		return staleKept, nil
	}

	if err := tx.DeleteAssigned(ctx, key.OwnerID, key.VariantKey); err != nil {
		return staleKept, fmt.Errorf("%w: %s: %w", domain.ErrTransactionFailure, ErrMsgFailedToWriteAssigned, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return staleKept, fmt.Errorf("%w: %s: %w", domain.ErrTransactionFailure, ErrMsgFailedToCommit, err)
	}
	return staleRemoved, nil
}

func (r *Reconciler) publish(ctx context.Context, entry domain.AssignedEntry) {
	if r.bus == nil {
		return
	}
	if err := r.bus.Publish(ctx, event.NewRemovedEvent(entry, domain.ErrMsgStaleAssignment)); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "key", entry.Key().String(), "error", err)
	}
}

func (r *Reconciler) cleanupSeasons(ctx context.Context, report *domain.ReconcileReport) {
	if r.seasons == nil {
		return
	}
	deleted, err := r.seasons.DeleteExpiredSeasons(ctx, r.now())
	if err != nil {
		report.Errors++
		logger.FromContext(ctx).Warn(LogMsgSeasonCleanupFailed, "error", err)
		return
	}
	report.ExpiredSeasons = deleted
	if deleted > 0 {
		if r.cache != nil {
			r.cache.Invalidate()
		}
		logger.FromContext(ctx).Info(LogMsgSeasonsExpired, "count", deleted)
	}
}

func (r *Reconciler) record(report *domain.ReconcileReport, err error) {
	if r.status != nil {
		r.status.RecordReconcile(report, err)
	}
}
