package maintenance

// Job names used by the cron scheduler
const (
	JobNameReconcile = "reconcile_assignments"
)

// Migration row actions, used as metric label values
const (
	ActionDeducted = "deducted"
	ActionClamped  = "clamped"
	ActionDeleted  = "deleted"
)

// Log messages
const (
	LogMsgReconcileStarted      = "Reconciliation started"
	LogMsgReconcileCompleted    = "Reconciliation completed"
	LogMsgStaleAssignment       = "Removed assignment with no backing ownership"
	LogMsgOwnershipCheckFailed  = "Ownership check failed, entry skipped"
	LogMsgStaleRemovalFailed    = "Failed to remove stale assignment, entry skipped"
	LogMsgSeasonCleanupFailed   = "Failed to delete expired seasons"
	LogMsgSeasonsExpired        = "Deleted expired seasons"
	LogMsgMigrationSkipped      = "Ledger migration already applied"
	LogMsgMigrationCompleted    = "Ledger migration applied"
	LogMsgMigrationRowCorrected = "Ledger migration corrected assignment"
	LogMsgRecoveryCompleted     = "Production tasks recovered"
	LogMsgPublishFailed         = "Failed to publish removal event"
)

// Error messages
const (
	ErrMsgFailedToListAssigned  = "failed to list assigned producers"
	ErrMsgFailedToBeginTx       = "failed to begin maintenance transaction"
	ErrMsgFailedToLock          = "failed to take maintenance lock"
	ErrMsgFailedToReadFlag      = "failed to read migration flag"
	ErrMsgFailedToWriteFlag     = "failed to write migration flag"
	ErrMsgFailedToReadAvailable = "failed to read available producers"
	ErrMsgFailedToDeduct        = "failed to deduct available producers"
	ErrMsgFailedToWriteAssigned = "failed to write assigned producers"
	ErrMsgFailedToCommit        = "failed to commit maintenance transaction"
	ErrMsgMigrationFailed       = "ledger migration failed"
)
