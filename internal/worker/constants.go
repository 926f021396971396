package worker

// Log messages for the worker pool
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgJobDropped      = "Worker queue full, job dropped"
	LogMsgPoolStopping    = "Worker pool stopping"
)

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount      = 2
	TestQueueSize        = 10
	TestExpectedJobCount = 2
)
