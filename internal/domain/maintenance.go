package domain

import "time"

// MigrationDoubleCountFix is the flag name of the one-time ledger correction
const MigrationDoubleCountFix = "double_count_fix_v1"

// MigrationReport summarises a run of the one-time ledger correction
type MigrationReport struct {
	Skipped   bool      `json:"skipped"`
	Scanned   int       `json:"scanned"`
	Deducted  int       `json:"deducted"`
	Clamped   int       `json:"clamped"`
	Deleted   int       `json:"deleted"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
}

// RecoveryReport summarises a startup recovery
type RecoveryReport struct {
	Migration *MigrationReport `json:"migration,omitempty"`
	Scheduled int              `json:"scheduled"`
	Skipped   int              `json:"skipped"`
	StartedAt time.Time        `json:"started_at"`
	Duration  string           `json:"duration"`
}

// ReconcileReport summarises one reconciliation sweep
type ReconcileReport struct {
	Checked        int       `json:"checked"`
	Removed        int       `json:"removed"`
	Errors         int       `json:"errors"`
	ExpiredSeasons int64     `json:"expired_seasons"`
	StartedAt      time.Time `json:"started_at"`
	Duration       string    `json:"duration"`
}

// MaintenanceStatus is the last known outcome of each maintenance routine
type MaintenanceStatus struct {
	Migration    *MigrationReport `json:"migration,omitempty"`
	Recovery     *RecoveryReport  `json:"recovery,omitempty"`
	Reconcile    *ReconcileReport `json:"reconcile,omitempty"`
	ReconcileErr string           `json:"reconcile_error,omitempty"`
	ActiveTasks  int              `json:"active_tasks"`
}
