package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/BrandishIdle_Go/internal/config"
	"github.com/osse101/BrandishIdle_Go/internal/database"
	"github.com/osse101/BrandishIdle_Go/internal/database/memory"
	"github.com/osse101/BrandishIdle_Go/internal/database/postgres"
	"github.com/osse101/BrandishIdle_Go/internal/handler"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// Store is everything the engine persists. Both backends implement all of it.
type Store interface {
	repository.Ledger
	repository.Production
	repository.Maintenance
	repository.Multipliers
	repository.Ownership
	repository.CapacitySource
	repository.Seeder
	repository.EventLog
	handler.Pinger
}

var (
	_ Store = (*memory.Store)(nil)
	_ Store = (*postgres.Store)(nil)
)

// OpenStore connects the configured backend. PostgreSQL schemas are migrated
// before the store is returned. The close func is never nil.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	slog.Default().Info(LogMsgStoreSelected, "backend", cfg.StoreBackend)

	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		return memory.NewStore(), func() {}, nil

	case config.StoreBackendPostgres:
		pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, DBMaxConnIdleTime, DBMaxConnLifetime)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", ErrMsgConnectStore, err)
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("%s: %w", ErrMsgMigrateStore, err)
		}
		return postgres.NewStore(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("%s: %q", ErrMsgUnknownBackend, cfg.StoreBackend)
	}
}

// LoadTables loads the production tables named by the config
func LoadTables(cfg *config.Config) (*config.ProductionTables, error) {
	tables, err := config.LoadProductionTables(cfg.TablesPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadTables, err)
	}
	slog.Default().Info(LogMsgTablesLoaded, "path", cfg.TablesPath)
	return tables, nil
}
