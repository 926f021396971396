package ledger

// Operation names used in logs and the transfer metrics
const (
	OpTransferIn     = "transfer_in"
	OpTransferOut    = "transfer_out"
	OpTransferAll    = "transfer_all"
	OpAssignByRarity = "assign_by_rarity"
)

// Log messages
const (
	LogMsgTransferInCompleted     = "Producers assigned"
	LogMsgTransferOutCompleted    = "Producers unassigned"
	LogMsgTransferAllCompleted    = "All producers unassigned"
	LogMsgAssignByRarityCompleted = "Producers assigned by rarity"
	LogMsgTransferRejected        = "Transfer rejected"
	LogMsgTransferFailed          = "Transfer failed"
	LogMsgScheduleNotCreated      = "Assignment committed but no production task was created"
	LogMsgPublishFailed           = "Failed to publish transfer event"
)

// Error messages
const (
	ErrMsgFailedToGetCapacity      = "failed to get capacity"
	ErrMsgFailedToBeginTx          = "failed to begin ledger transaction"
	ErrMsgFailedToLockOwner        = "failed to lock owner ledgers"
	ErrMsgFailedToReadAvailable    = "failed to read available producers"
	ErrMsgFailedToReadAssigned     = "failed to read assigned producers"
	ErrMsgFailedToUpdateAvailable  = "failed to update available producers"
	ErrMsgFailedToInsertAvailable  = "failed to insert available producers"
	ErrMsgFailedToDeleteAvailable  = "failed to delete available producers"
	ErrMsgFailedToUpsertAssigned   = "failed to write assigned producers"
	ErrMsgFailedToDeleteAssigned   = "failed to delete assigned producers"
	ErrMsgFailedToCommit           = "failed to commit transfer"
	ErrMsgOwnerRequired            = "owner id is required"
	ErrMsgDeductionShort           = "available rows hold fewer producers than requested"
	ErrMsgNothingToAssignForRarity = "no available producers of rarity"
)
