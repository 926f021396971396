package eventlog

import "time"

// DefaultOwnerEventLimit caps owner journal queries without an explicit limit
const DefaultOwnerEventLimit = 50

// MaxOwnerEventLimit is the largest page an owner journal query may request
const MaxOwnerEventLimit = 500

// DefaultRetention is used when the configured retention is not positive
const DefaultRetention = 30 * 24 * time.Hour

// JobNameCleanup names the periodic journal cleanup job
const JobNameCleanup = "event_log_cleanup"

// CleanupSchedule runs the cleanup daily at 03:30 (cron with seconds)
const CleanupSchedule = "0 30 3 * * *"

// Log messages - service events
const (
	LogMsgSubscribed        = "Event journal subscribed"
	LogMsgPayloadNotEncoded = "Event payload could not be encoded, skipping journal"
	LogMsgFailedToLogEvent  = "Failed to log event to journal"
	LogMsgEventLogged       = "Event logged to journal"
	LogMsgFailedToGetEvents = "Failed to read event journal"
)

// Log messages - cleanup job
const (
	LogMsgCleanupJobStarting  = "Starting event journal cleanup job"
	LogMsgCleanupJobFailed    = "Event journal cleanup failed"
	LogMsgCleanupJobCompleted = "Event journal cleanup completed"
)

// Error messages
const (
	ErrMsgFailedToLogEvent    = "failed to log event"
	ErrMsgFailedToGetEvents   = "failed to get events"
	ErrMsgFailedToCleanup     = "failed to clean up events"
	ErrMsgFailedToEncodeEvent = "failed to encode event payload"
)
