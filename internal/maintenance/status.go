package maintenance

import (
	"sync"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
)

// TaskCounter reports the number of live production tasks
type TaskCounter interface {
	Len() int
}

// StatusTracker keeps the last outcome of each maintenance routine for the status query
type StatusTracker struct {
	mu     sync.RWMutex
	status domain.MaintenanceStatus
	tasks  TaskCounter
}

// NewStatusTracker creates a tracker. tasks may be nil.
func NewStatusTracker(tasks TaskCounter) *StatusTracker {
	return &StatusTracker{tasks: tasks}
}

// RecordMigration stores the report of the startup migration
func (t *StatusTracker) RecordMigration(report *domain.MigrationReport) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.Migration = report
}

// RecordRecovery stores the report of the last restart recovery
func (t *StatusTracker) RecordRecovery(report *domain.RecoveryReport) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.Recovery = report
}

// RecordReconcile stores a sweep outcome. A failed sweep keeps the last
// successful report and records the error alongside it.
func (t *StatusTracker) RecordReconcile(report *domain.ReconcileReport, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.status.ReconcileErr = err.Error()
		return
	}
	t.status.Reconcile = report
	t.status.ReconcileErr = ""
}

// Status returns a snapshot of the last known outcomes
func (t *StatusTracker) Status() domain.MaintenanceStatus {
	t.mu.RLock()
	status := t.status
	t.mu.RUnlock()

	if t.tasks != nil {
		status.ActiveTasks = t.tasks.Len()
	}
	return status
}
