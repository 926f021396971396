package production

// Log messages
const (
	LogMsgTickCompleted = "Production tick credited"
	LogMsgTickDegraded  = "Production tick used neutral multipliers for failed sources"
	LogMsgPublishFailed = "Failed to publish tick event"
)

// Error messages
const (
	ErrMsgFailedToReadAssignment = "failed to read assignment"
	ErrMsgFailedToBeginTx        = "failed to begin production transaction"
	ErrMsgFailedToLockAssignment = "failed to lock assignment"
	ErrMsgFailedToCreditBalance  = "failed to credit balance"
	ErrMsgFailedToRecordProgress = "failed to record production progress"
	ErrMsgFailedToCommit         = "failed to commit production"
)
