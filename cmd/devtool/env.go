package main

import (
	"context"
	"fmt"

	"github.com/osse101/BrandishIdle_Go/internal/bootstrap"
	"github.com/osse101/BrandishIdle_Go/internal/config"
	"github.com/osse101/BrandishIdle_Go/internal/multiplier"
)

// openEngine connects the configured store and wires an engine that is never
// started: commands use its services directly and leave ticking to the app
func openEngine(ctx context.Context) (*bootstrap.Engine, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.StoreBackend == config.StoreBackendMemory {
		PrintInfo("STORE_BACKEND=memory: changes are lost when the command exits")
	}

	tables, err := bootstrap.LoadTables(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	engine, err := bootstrap.NewEngine(cfg, store, tables, multiplier.RandomRoller)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return engine, func() {
		_ = engine.Stop(ctx)
		closeStore()
	}, nil
}
