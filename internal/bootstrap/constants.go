package bootstrap

import "time"

// File System Permissions
const (
	DirPermission     = 0o755
	LogFilePermission = 0o644
)

// Logger Configuration
const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"
	LogFileNamePattern     = "session_%s.log"
	LogFileExtension       = ".log"

	// LogFileRetentionCount is the number of older log files kept next to the new one
	LogFileRetentionCount = 9
)

// Log messages
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStarting            = "Starting production engine"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
	LogMsgStoreSelected       = "Store backend selected"
	LogMsgTablesLoaded        = "Production tables loaded"
	LogMsgRecoveryComplete    = "Startup recovery complete"
	LogMsgShuttingDown        = "Shutting down"
	LogMsgServerForcedStop    = "Admin server forced to shutdown"
	LogMsgRegistryStopFailed  = "Production tasks did not stop in time"
	LogMsgStopped             = "Production engine stopped"
	LogMsgEventSystemReady    = "Event system initialized"
	LogMsgPublisherStopFailed = "Event publisher did not drain in time"
)

// Error messages
const (
	ErrMsgCreateLogsDir  = "failed to create logs directory"
	ErrMsgOpenLogFile    = "failed to open log file"
	ErrMsgLoadTables     = "failed to load production tables"
	ErrMsgConnectStore   = "failed to connect to database"
	ErrMsgMigrateStore   = "failed to migrate database"
	ErrMsgUnknownBackend = "unknown store backend"
	ErrMsgRecovery       = "startup recovery failed"
	ErrMsgScheduleJob    = "failed to schedule maintenance job"

	ErrMsgCreateDeadLetterDir = "failed to create dead-letter directory"
	ErrMsgEventPublisher      = "failed to start event publisher"
)

// Database pool settings
const (
	DBMaxConnIdleTime = 30 * time.Minute
	DBMaxConnLifetime = time.Hour
)
