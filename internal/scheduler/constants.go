package scheduler

// Log messages - registry
const (
	LogMsgTaskScheduled     = "Production task scheduled"
	LogMsgTaskCancelled     = "Production task cancelled"
	LogMsgTaskSelfCancelled = "Production task stopped, assignment no longer exists"
	LogMsgTickFailed        = "Production tick failed, will retry next interval"
	LogMsgTickPanicked      = "Production tick panicked, will retry next interval"
	LogMsgRegistryShutdown  = "Scheduler registry shutting down"
)

// Log messages - periodic jobs
const (
	LogMsgJobRegistered = "Periodic job registered"
	LogMsgJobSkipped    = "Periodic job skipped, worker queue full"
	LogMsgSchedulerStop = "Periodic scheduler stopped"
)

// Error messages
const (
	ErrMsgRegistryClosed  = "scheduler registry is closed"
	ErrMsgInvalidInterval = "interval must be positive"
)
