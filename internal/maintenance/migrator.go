package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/ledger"
	"github.com/osse101/BrandishIdle_Go/internal/logger"
	"github.com/osse101/BrandishIdle_Go/internal/metrics"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// Migrator applies the one-time correction for producers that were counted
// in both ledgers at once. For every assignment it takes the assigned units
// back out of Available, clamps the assignment to what Available actually
// held, and deletes assignments nothing in Available corroborates.
type Migrator struct {
	store  repository.Maintenance
	status *StatusTracker
	now    func() time.Time
}

// NewMigrator creates a new migrator. status may be nil.
func NewMigrator(store repository.Maintenance, status *StatusTracker) *Migrator {
	return &Migrator{
		store:  store,
		status: status,
		now:    time.Now,
	}
}

// Run applies the migration in a single transaction unless its flag is already set
func (m *Migrator) Run(ctx context.Context) (*domain.MigrationReport, error) {
	log := logger.FromContext(ctx)
	start := m.now()
	report := &domain.MigrationReport{StartedAt: start}

	tx, err := m.store.BeginMaintenanceTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrTransactionFailure, ErrMsgFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	// 1. Only one process applies the migration
	if err := tx.LockMaintenance(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToLock, err)
	}

	done, err := tx.IsMigrationDone(ctx, domain.MigrationDoubleCountFix)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToReadFlag, err)
	}
	if done {
		report.Skipped = true
		report.Duration = time.Since(start).String()
		m.record(report)
		log.Info(LogMsgMigrationSkipped, "migration", domain.MigrationDoubleCountFix)
		return report, nil
	}

	// 2. Correct every assignment
	entries, err := tx.ListAllAssignedForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListAssigned, err)
	}
	for _, entry := range entries {
		report.Scanned++
		if err := m.correct(ctx, tx, entry, report); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", ErrMsgMigrationFailed, entry.Key(), err)
		}
	}

	// 3. Flag and commit together so a crash leaves nothing half-applied
	if err := tx.MarkMigrationDone(ctx, domain.MigrationDoubleCountFix); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToWriteFlag, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrTransactionFailure, ErrMsgFailedToCommit, err)
	}

	metrics.MigrationRows.WithLabelValues(ActionDeducted).Add(float64(report.Deducted))
	metrics.MigrationRows.WithLabelValues(ActionClamped).Add(float64(report.Clamped))
	metrics.MigrationRows.WithLabelValues(ActionDeleted).Add(float64(report.Deleted))

	report.Duration = time.Since(start).String()
	m.record(report)
	log.Info(LogMsgMigrationCompleted,
		"migration", domain.MigrationDoubleCountFix,
		"scanned", report.Scanned,
		"deducted", report.Deducted,
		"clamped", report.Clamped,
		"deleted", report.Deleted)
	return report, nil
}

func (m *Migrator) correct(ctx context.Context, tx repository.MaintenanceTx, entry domain.AssignedEntry, report *domain.MigrationReport) error {
	log := logger.FromContext(ctx)
	key := entry.Key()

	rows, err := tx.GetAvailableRowsForUpdate(ctx, key.OwnerID, key.VariantKey)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToReadAvailable, err)
	}
	held := ledger.SumQuantity(rows)

	if held == 0 {
		if err := tx.DeleteAssigned(ctx, key.OwnerID, key.VariantKey); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToWriteAssigned, err)
		}
		report.Deleted++
		log.Info(LogMsgMigrationRowCorrected, "key", key.String(), "action", ActionDeleted, "assigned", entry.Quantity)
		return nil
	}

	deducted, err := ledger.DeductAvailable(ctx, tx, rows, entry.Quantity)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeduct, err)
	}
	report.Deducted++

	if entry.Quantity > deducted {
		clamped := entry
		clamped.Quantity = deducted
		if err := tx.UpsertAssigned(ctx, clamped); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToWriteAssigned, err)
		}
		report.Clamped++
		log.Info(LogMsgMigrationRowCorrected, "key", key.String(), "action", ActionClamped,
			"assigned", entry.Quantity, "kept", deducted)
	}
	return nil
}

func (m *Migrator) record(report *domain.MigrationReport) {
	if m.status != nil {
		m.status.RecordMigration(report)
	}
}
