package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishIdle_Go/internal/config"
	"github.com/osse101/BrandishIdle_Go/internal/database/memory"
	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/event"
	"github.com/osse101/BrandishIdle_Go/internal/multiplier"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment:       "dev",
		LogLevel:          "info",
		LogFormat:         "text",
		ServiceName:       "test",
		StoreBackend:      config.StoreBackendMemory,
		TickInterval:      50 * time.Millisecond,
		ReconcileInterval: time.Hour,
		ShutdownTimeout:   time.Second,
		WorkerCount:       1,
		WorkerQueueSize:   1,
		SeasonCacheSize:   4,
		SeasonCacheTTL:    time.Second,
		TablesPath:        filepath.Join("testdata", "missing.yaml"),

		EventMaxRetries:     1,
		EventRetryDelay:     10 * time.Millisecond,
		EventDeadLetterPath: filepath.Join(t.TempDir(), "events", "deadletter.jsonl"),
		EventLogRetention:   time.Hour,
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	store, closeStore, err := OpenStore(ctx, testConfig(t))
	require.NoError(t, err)
	require.NotNil(t, closeStore)
	assert.IsType(t, &memory.Store{}, store)
	assert.NoError(t, store.Ping(ctx))
	closeStore()

	cfg := testConfig(t)
	cfg.StoreBackend = "sqlite"
	_, _, err = OpenStore(ctx, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnknownBackend)
}

func TestLoadTables_MissingFileUsesDefaults(t *testing.T) {
	tables, err := LoadTables(testConfig(t))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultProductionTables().Capacity.Base, tables.Capacity.Base)
}

func TestEngine_RecoversAndProduces(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	store := memory.NewStore()
	dragon := domain.NewVariant("dragon", domain.RarityRare, domain.TraitNone)

	// state left behind by a previous process
	require.NoError(t, store.GrantProducers(ctx, "o1", dragon, 2))
	require.NoError(t, store.PutAssigned(ctx, domain.AssignedEntry{
		OwnerID: "o1", Variant: dragon, Quantity: 1, CoinRate: 100, GemRate: 20, AssignedAt: time.Now(),
	}))

	engine, err := NewEngine(cfg, store, config.DefaultProductionTables(), multiplier.NeverRoller)
	require.NoError(t, err)
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = engine.Stop(stopCtx)
	})

	report, err := engine.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scheduled)
	assert.True(t, engine.Registry.Has(domain.NewAssignmentKey("o1", dragon)))

	status := engine.Status.Status()
	require.NotNil(t, status.Recovery)
	require.NotNil(t, status.Migration)
	assert.Equal(t, 1, status.ActiveTasks)

	assert.Eventually(t, func() bool {
		return store.Balance("o1").Coins > 0
	}, 2*time.Second, 10*time.Millisecond)

	// the ledger is wired to the same registry and journals through the bus
	_, err = engine.Ledger.TransferOut(ctx, domain.TransferRequest{OwnerID: "o1", Variant: dragon, Quantity: 1})
	require.NoError(t, err)
	assert.False(t, engine.Registry.Has(domain.NewAssignmentKey("o1", dragon)))

	events, err := engine.Journal.OwnerEvents(ctx, "o1", 0)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, string(event.ProducerUnassigned), events[0].EventType)
}

func TestEngine_StopWithoutStart(t *testing.T) {
	engine, err := NewEngine(testConfig(t), memory.NewStore(), config.DefaultProductionTables(), multiplier.NeverRoller)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, engine.Stop(ctx))
	assert.NoError(t, engine.Stop(ctx), "stopping twice is harmless")
}

func TestInitializeEventSystem(t *testing.T) {
	cfg := testConfig(t)

	bus, publisher, err := InitializeEventSystem(cfg)
	require.NoError(t, err)
	require.NotNil(t, bus)
	t.Cleanup(func() { _ = publisher.Shutdown(context.Background()) })
	assert.FileExists(t, cfg.EventDeadLetterPath)

	cfg.EventDeadLetterPath = filepath.Join(cfg.EventDeadLetterPath, "nested", "deadletter.jsonl")
	_, _, err = InitializeEventSystem(cfg)
	assert.Error(t, err, "a regular file cannot become a directory")
}

func TestSetupLogger_PrunesOldSessions(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < LogFileRetentionCount+3; i++ {
		name := fmt.Sprintf(LogFileNamePattern, fmt.Sprintf("2020-01-01_00-00-%02d", i))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, LogFilePermission))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, LogFilePermission))

	cfg := testConfig(t)
	cfg.LogDir = dir
	logFile, err := SetupLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logFile)
	t.Cleanup(func() { _ = logFile.Close() })

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var logs int
	for _, e := range entries {
		if filepath.Ext(e.Name()) == LogFileExtension {
			logs++
		}
	}
	assert.Equal(t, LogFileRetentionCount+1, logs)
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
	_, err = os.Stat(filepath.Join(dir, fmt.Sprintf(LogFileNamePattern, "2020-01-01_00-00-00")))
	assert.True(t, os.IsNotExist(err))
}
