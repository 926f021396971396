package config

const (
	// ConfigPathProductionTables is the default location of the production tables file
	ConfigPathProductionTables = "configs/production.yaml"
)

// Store backends
const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

// Defaults
const (
	DefaultPort              = 8080
	DefaultTickInterval      = "1m"
	DefaultReconcileInterval = "10m"
	DefaultShutdownTimeout   = "15s"
	DefaultDBMaxConns        = 20
	DefaultWorkerCount       = 2
	DefaultWorkerQueueSize   = 32
	DefaultSeasonCacheTTL    = "30s"
	DefaultSeasonCacheSize   = 16

	DefaultEventMaxRetries     = 5
	DefaultEventRetryDelay     = "2s"
	DefaultEventDeadLetterPath = "logs/event_deadletter.jsonl"
	DefaultEventLogRetention   = "720h"
)
