package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/capacity"
	"github.com/osse101/BrandishIdle_Go/internal/config"
	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/event"
	"github.com/osse101/BrandishIdle_Go/internal/eventlog"
	"github.com/osse101/BrandishIdle_Go/internal/ledger"
	"github.com/osse101/BrandishIdle_Go/internal/maintenance"
	"github.com/osse101/BrandishIdle_Go/internal/multiplier"
	"github.com/osse101/BrandishIdle_Go/internal/production"
	"github.com/osse101/BrandishIdle_Go/internal/scheduler"
	"github.com/osse101/BrandishIdle_Go/internal/sse"
	"github.com/osse101/BrandishIdle_Go/internal/worker"
)

// Engine holds the wired production engine
type Engine struct {
	Store      Store
	Tables     *config.ProductionTables
	Seasons    *multiplier.SeasonCache
	Pipeline   *multiplier.Pipeline
	Executor   *production.Executor
	Registry   *scheduler.Registry
	Ledger     ledger.Service
	Status     *maintenance.StatusTracker
	Recovery   *maintenance.Recovery
	Reconciler *maintenance.Reconciler
	Workers    *worker.Pool
	Cron       *scheduler.Scheduler

	Bus       *event.MemoryBus
	Publisher *event.ResilientPublisher
	Journal   eventlog.Service
	Hub       *sse.Hub

	reconcileInterval time.Duration
	eventRetention    time.Duration
}

// NewEngine wires every component over the store. Nothing ticks until Start;
// only the event publisher's retry loop is already running.
func NewEngine(cfg *config.Config, store Store, tables *config.ProductionTables, roller multiplier.Roller) (*Engine, error) {
	bus, publisher, err := InitializeEventSystem(cfg)
	if err != nil {
		return nil, err
	}

	journal := eventlog.NewService(store)
	journal.Subscribe(bus)
	hub := sse.NewHub()
	sse.NewSubscriber(hub, bus).Subscribe()

	seasons := multiplier.NewSeasonCache(store, cfg.SeasonCacheSize, cfg.SeasonCacheTTL)
	pipeline := multiplier.NewPipeline(store, seasons, tables, roller)
	executor := production.NewExecutor(store, pipeline, publisher)
	registry := scheduler.NewRegistry(cfg.TickInterval, executor.Tick)
	status := maintenance.NewStatusTracker(registry)
	workers := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)

	return &Engine{
		Store:      store,
		Tables:     tables,
		Seasons:    seasons,
		Pipeline:   pipeline,
		Executor:   executor,
		Registry:   registry,
		Ledger:     ledger.NewService(store, capacity.NewCalculator(store, tables), tables, registry, publisher),
		Status:     status,
		Recovery:   maintenance.NewRecovery(store, maintenance.NewMigrator(store, status), registry, status),
		Reconciler: maintenance.NewReconciler(store, store, registry, store, seasons, status, publisher),
		Workers:    workers,
		Cron:       scheduler.New(workers),

		Bus:       bus,
		Publisher: publisher,
		Journal:   journal,
		Hub:       hub,

		reconcileInterval: cfg.ReconcileInterval,
		eventRetention:    cfg.EventLogRetention,
	}, nil
}

// Start runs restart recovery, then starts the worker pool, the periodic
// maintenance jobs and the event stream hub. The caller still calls Stop
// when Start fails.
func (e *Engine) Start(ctx context.Context) (*domain.RecoveryReport, error) {
	report, err := e.Recovery.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRecovery, err)
	}
	slog.Default().Info(LogMsgRecoveryComplete,
		"scheduled", report.Scheduled,
		"skipped", report.Skipped,
		"duration", report.Duration)

	if err := e.Cron.Schedule(maintenance.JobNameReconcile, e.reconcileInterval, e.Reconciler); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgScheduleJob, err)
	}
	if e.eventRetention > 0 {
		cleanup := eventlog.NewCleanupJob(e.Journal, e.eventRetention)
		if err := e.Cron.AddJob(eventlog.JobNameCleanup, eventlog.CleanupSchedule, cleanup); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgScheduleJob, err)
		}
	}

	e.Hub.Start()
	e.Workers.Start()
	e.Cron.Start()
	return report, nil
}

// Stop halts maintenance first, then every production task, then drains
// pending event deliveries. A tick already committing is allowed to finish
// until ctx expires.
func (e *Engine) Stop(ctx context.Context) error {
	e.Cron.Stop()
	e.Workers.Stop()
	registryErr := e.Registry.Shutdown(ctx)

	var publisherErr error
	if err := e.Publisher.Shutdown(ctx); err != nil {
		slog.Default().Warn(LogMsgPublisherStopFailed, "error", err)
		publisherErr = err
	}
	e.Hub.Stop()
	return errors.Join(registryErr, publisherErr)
}
