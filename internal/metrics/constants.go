package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Ledger metric names
const (
	MetricNameTransfersTotal     = "producer_transfers_total"
	MetricNameProducersTransfers = "producers_transferred_total"
)

// Production metric names
const (
	MetricNameTicksTotal            = "production_ticks_total"
	MetricNameTickDuration          = "production_tick_duration_seconds"
	MetricNameCurrencyProduced      = "currency_produced_total"
	MetricNameCriticalHits          = "production_critical_hits_total"
	MetricNameMultiplierSourceError = "multiplier_source_errors_total"
	MetricNameSeasonCacheLookups    = "season_cache_lookups_total"
	MetricNameActiveTasks           = "production_active_tasks"
)

// Maintenance metric names
const (
	MetricNameReconcileRuns    = "reconcile_runs_total"
	MetricNameReconcileRemoved = "reconcile_removed_total"
	MetricNameMigrationRows    = "migration_rows_total"
)

// Event metric names
const (
	MetricNameEventDeliveries  = "event_deliveries_total"
	MetricNameEventStreamConns = "event_stream_clients"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Ledger metric help text
const (
	HelpTextTransfersTotal     = "Transfer operations between the available and assigned ledgers"
	HelpTextProducersTransfers = "Producer units moved between ledgers"
)

// Production metric help text
const (
	HelpTextTicksTotal            = "Production ticks by outcome"
	HelpTextTickDuration          = "Time spent executing one production tick"
	HelpTextCurrencyProduced      = "Currency credited by production ticks"
	HelpTextCriticalHits          = "Production ticks that rolled a critical hit"
	HelpTextMultiplierSourceError = "Multiplier source reads that failed and fell back to 1"
	HelpTextSeasonCacheLookups    = "Season state cache lookups by result"
	HelpTextActiveTasks           = "Number of scheduled production tasks"
)

// Maintenance metric help text
const (
	HelpTextReconcileRuns    = "Reconciliation job runs by result"
	HelpTextReconcileRemoved = "Assigned entries removed by reconciliation"
	HelpTextMigrationRows    = "Assigned rows touched by the double-count migration, by action"
)

// Event metric help text
const (
	HelpTextEventDeliveries  = "Event bus deliveries by outcome"
	HelpTextEventStreamConns = "Connected server-sent event clients"
)

// ============================================================================
// Label Names
// ============================================================================

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelOperation = "operation"
	LabelResult    = "result"
	LabelDirection = "direction"
	LabelCurrency  = "currency"
	LabelSource    = "source"
	LabelAction    = "action"
	LabelType      = "type"
)

// Label values
const (
	ResultSuccess  = "success"
	ResultError    = "error"
	ResultSkipped  = "skipped"
	ResultRejected = "rejected"
	ResultHit      = "hit"
	ResultMiss     = "miss"
	ResultRetried  = "retried"
	ResultDead     = "dead_lettered"

	DirectionIn  = "in"
	DirectionOut = "out"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets are histogram buckets for HTTP request latency (in seconds)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// TickLatencyBuckets are histogram buckets for production tick latency (in seconds)
var TickLatencyBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, 1}
