package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Ledger Metrics
var (
	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTransfersTotal,
			Help: HelpTextTransfersTotal,
		},
		[]string{LabelOperation, LabelResult},
	)

	ProducersTransferred = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameProducersTransfers,
			Help: HelpTextProducersTransfers,
		},
		[]string{LabelDirection},
	)
)

// Production Metrics
var (
	TicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTicksTotal,
			Help: HelpTextTicksTotal,
		},
		[]string{LabelResult},
	)

	TickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameTickDuration,
			Help:    HelpTextTickDuration,
			Buckets: TickLatencyBuckets,
		},
	)

	CurrencyProduced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCurrencyProduced,
			Help: HelpTextCurrencyProduced,
		},
		[]string{LabelCurrency},
	)

	CriticalHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCriticalHits,
			Help: HelpTextCriticalHits,
		},
	)

	MultiplierSourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMultiplierSourceError,
			Help: HelpTextMultiplierSourceError,
		},
		[]string{LabelSource},
	)

	SeasonCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSeasonCacheLookups,
			Help: HelpTextSeasonCacheLookups,
		},
		[]string{LabelResult},
	)

	ActiveTasks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameActiveTasks,
			Help: HelpTextActiveTasks,
		},
	)
)

// Maintenance Metrics
var (
	ReconcileRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameReconcileRuns,
			Help: HelpTextReconcileRuns,
		},
		[]string{LabelResult},
	)

	ReconcileRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameReconcileRemoved,
			Help: HelpTextReconcileRemoved,
		},
	)

	MigrationRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMigrationRows,
			Help: HelpTextMigrationRows,
		},
		[]string{LabelAction},
	)
)

// Event Metrics
var (
	EventDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventDeliveries,
			Help: HelpTextEventDeliveries,
		},
		[]string{LabelType, LabelResult},
	)

	EventStreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameEventStreamConns,
			Help: HelpTextEventStreamConns,
		},
	)
)
