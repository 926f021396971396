package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/BrandishIdle_Go/internal/bootstrap"
	"github.com/osse101/BrandishIdle_Go/internal/config"
	"github.com/osse101/BrandishIdle_Go/internal/multiplier"
	"github.com/osse101/BrandishIdle_Go/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Default().Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}

	tables, err := bootstrap.LoadTables(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Store (migrated) and engine wiring
	store, closeStore, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}

	engine, err := bootstrap.NewEngine(cfg, store, tables, multiplier.RandomRoller)
	if err != nil {
		closeStore()
		return err
	}

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		Version:        cfg.Version,
	}, server.Dependencies{
		Store:   store,
		Ledger:  engine.Ledger,
		Status:  engine.Status,
		Journal: engine.Journal,
		Hub:     engine.Hub,
	})

	components := bootstrap.ShutdownComponents{
		Server:     srv,
		Engine:     engine,
		CloseStore: closeStore,
	}
	if logFile != nil {
		components.LogFile = logFile
	}
	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		bootstrap.GracefulShutdown(shutdownCtx, components)
	}

	// 3. Recovery must finish before any transfer or tick can run
	if _, err := engine.Start(ctx); err != nil {
		shutdown()
		return err
	}

	// 4. Serve until a signal arrives or the listener fails
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		shutdown()
		return nil
	case err := <-serveErr:
		shutdown()
		return err
	}
}
