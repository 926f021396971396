package postgres

// Advisory lock classes. The two-key form of pg_advisory_xact_lock keeps
// owner locks and the maintenance lock in separate key spaces.
const (
	LockClassOwner       = 1
	LockClassMaintenance = 2
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction = "failed to begin transaction"
	ErrMsgFailedToLockOwner        = "failed to lock owner"
	ErrMsgFailedToLockMaintenance  = "failed to take maintenance lock"
)

// Error Messages - Ledger Queries
const (
	ErrMsgFailedToListAvailable   = "failed to list available producers"
	ErrMsgFailedToUpdateAvailable = "failed to update available row"
	ErrMsgFailedToDeleteAvailable = "failed to delete available row"
	ErrMsgFailedToInsertAvailable = "failed to insert available row"
	ErrMsgFailedToGetAssigned     = "failed to get assigned producers"
	ErrMsgFailedToListAssigned    = "failed to list assigned producers"
	ErrMsgFailedToSumAssigned     = "failed to sum assigned producers"
	ErrMsgFailedToUpsertAssigned  = "failed to upsert assigned producers"
	ErrMsgFailedToDeleteAssigned  = "failed to delete assigned producers"
	ErrMsgAvailableRowNotFound    = "available row not found"
	ErrMsgInvalidStoredVariant    = "stored variant is invalid"
)

// Error Messages - Production and Sources
const (
	ErrMsgFailedToCreditBalance   = "failed to credit balance"
	ErrMsgFailedToRecordStats     = "failed to record production stats"
	ErrMsgFailedToGetBalance      = "failed to get balance"
	ErrMsgFailedToGetBoosts       = "failed to get active boosts"
	ErrMsgFailedToGetBuildings    = "failed to get building levels"
	ErrMsgFailedToGetSeasons      = "failed to get active seasons"
	ErrMsgFailedToGetPrestige     = "failed to get prestige level"
	ErrMsgFailedToGetUpgrades     = "failed to get capacity bonus"
	ErrMsgFailedToDeleteSeasons   = "failed to delete expired seasons"
	ErrMsgFailedToCheckOwnership  = "failed to check ownership"
	ErrMsgFailedToReadFlag        = "failed to read migration flag"
	ErrMsgFailedToWriteFlag       = "failed to write migration flag"
	ErrMsgFailedToGrantProducers  = "failed to grant producers"
	ErrMsgFailedToSetBuilding     = "failed to set building level"
	ErrMsgFailedToAddBoost        = "failed to add boost"
	ErrMsgFailedToStartSeason     = "failed to start season"
	ErrMsgFailedToSetPrestige     = "failed to set prestige level"
	ErrMsgFailedToSetCapacity     = "failed to set capacity bonus"
	ErrMsgFailedToRemoveOwnership = "failed to remove ownership"
)

// Error Messages - Event Journal
const (
	ErrMsgFailedToLogEvent      = "failed to log event"
	ErrMsgFailedToGetEvents     = "failed to get events"
	ErrMsgFailedToCleanupEvents = "failed to clean up events"
)
