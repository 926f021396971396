package maintenance

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishIdle_Go/internal/database/memory"
	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/event"
	"github.com/osse101/BrandishIdle_Go/internal/scheduler"
)

const testOwner = "owner-1"

var (
	rareDragon = domain.NewVariant("dragon", domain.RarityRare, domain.TraitNone)
	rareCat    = domain.NewVariant("cat", domain.RarityRare, domain.TraitNone)
	commonRat  = domain.NewVariant("rat", domain.RarityCommon, domain.TraitNone)
)

func newRegistry(t *testing.T, interval time.Duration, tick scheduler.TickFunc) *scheduler.Registry {
	t.Helper()
	if tick == nil {
		tick = func(context.Context, domain.AssignmentKey) error { return nil }
	}
	registry := scheduler.NewRegistry(interval, tick)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = registry.Shutdown(ctx)
	})
	return registry
}

func putAssigned(t *testing.T, store *memory.Store, v domain.Variant, qty int) domain.AssignmentKey {
	t.Helper()
	entry := domain.AssignedEntry{OwnerID: testOwner, Variant: v, Quantity: qty, CoinRate: 100, GemRate: 20}
	require.NoError(t, store.PutAssigned(context.Background(), entry))
	return entry.Key()
}

func availableOf(t *testing.T, store *memory.Store, v domain.Variant) int {
	t.Helper()
	rows, err := store.ListAvailable(context.Background(), testOwner)
	require.NoError(t, err)
	total := 0
	for _, row := range rows {
		if row.Variant == v {
			total += row.Quantity
		}
	}
	return total
}

func assignedOf(t *testing.T, store *memory.Store, v domain.Variant) int {
	t.Helper()
	entry, err := store.GetAssigned(context.Background(), testOwner, v.Key())
	require.NoError(t, err)
	if entry == nil {
		return 0
	}
	return entry.Quantity
}

type countingInvalidator struct{ calls atomic.Int32 }

func (c *countingInvalidator) Invalidate() { c.calls.Add(1) }

func TestReconciler_RemovesTradedAwayAssignment(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	registry := newRegistry(t, time.Hour, nil)

	// the cat was traded away outside the ledger; the dragon is still owned
	require.NoError(t, store.GrantProducers(ctx, testOwner, rareDragon, 1))
	owned := putAssigned(t, store, rareDragon, 1)
	stale := putAssigned(t, store, rareCat, 2)
	registry.Ensure(owned)
	registry.Ensure(stale)

	status := NewStatusTracker(registry)
	bus := event.NewMemoryBus()
	var removed []event.Event
	bus.Subscribe(event.AssignmentRemoved, func(ctx context.Context, evt event.Event) error {
		removed = append(removed, evt)
		return nil
	})
	report, err := NewReconciler(store, store, registry, nil, nil, status, bus).Run(ctx)
	require.NoError(t, err)

	require.Len(t, removed, 1)
	assert.Equal(t, testOwner, removed[0].OwnerID)
	assert.Equal(t, event.RemovedPayloadV1{OwnerID: testOwner, VariantKey: rareCat.Key(), Quantity: 2}, removed[0].Payload)

	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 1, report.Removed)
	assert.Zero(t, report.Errors)

	assert.Equal(t, 0, assignedOf(t, store, rareCat))
	assert.Equal(t, 1, assignedOf(t, store, rareDragon))
	assert.False(t, registry.Has(stale))
	assert.True(t, registry.Has(owned))

	// nothing comes back to Available and no currency moves
	assert.Equal(t, 0, availableOf(t, store, rareCat))
	assert.Equal(t, memory.Balance{}, store.Balance(testOwner))

	got := status.Status()
	require.NotNil(t, got.Reconcile)
	assert.Equal(t, 1, got.Reconcile.Removed)
	assert.Equal(t, 1, got.ActiveTasks)
}

func TestReconciler_OwnershipErrorsSkipEntries(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	registry := newRegistry(t, time.Hour, nil)
	key := putAssigned(t, store, rareCat, 2)
	registry.Ensure(key)

	store.Fail("OwnsAny", errors.New("ownership service down"))
	report, err := NewReconciler(store, store, registry, nil, nil, nil, nil).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Errors)
	assert.Zero(t, report.Removed)
	assert.Equal(t, 2, assignedOf(t, store, rareCat))
	assert.True(t, registry.Has(key))
}

func TestReconciler_ListFailureAborts(t *testing.T) {
	store := memory.NewStore()
	registry := newRegistry(t, time.Hour, nil)
	status := NewStatusTracker(nil)

	store.Fail("ListAllAssigned", errors.New("timeout"))
	_, err := NewReconciler(store, store, registry, nil, nil, status, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgFailedToListAssigned)
	assert.Contains(t, status.Status().ReconcileErr, "timeout")
}

func TestReconciler_DeletesExpiredSeasons(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	registry := newRegistry(t, time.Hour, nil)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	require.NoError(t, store.StartSeason(ctx, "blizzard", past.Add(-time.Hour), &past))
	require.NoError(t, store.StartSeason(ctx, "spring", past, &future))
	require.NoError(t, store.StartSeason(ctx, "thunderstorm", past, nil))

	cache := &countingInvalidator{}
	report, err := NewReconciler(store, store, registry, store, cache, nil, nil).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.ExpiredSeasons)
	assert.Equal(t, 2, store.SeasonCount())
	assert.Equal(t, int32(1), cache.calls.Load())
}

func TestMigrator_DoubleCountFixture(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	// dragon: counted in both ledgers in full
	_, err := store.AddAvailableRow(ctx, testOwner, rareDragon, 3)
	require.NoError(t, err)
	putAssigned(t, store, rareDragon, 3)

	// cat: Available only held part of what was assigned, split over two rows
	_, err = store.AddAvailableRow(ctx, testOwner, rareCat, 1)
	require.NoError(t, err)
	_, err = store.AddAvailableRow(ctx, testOwner, rareCat, 1)
	require.NoError(t, err)
	putAssigned(t, store, rareCat, 5)

	// rat: nothing corroborates the assignment
	putAssigned(t, store, commonRat, 2)

	status := NewStatusTracker(nil)
	report, err := NewMigrator(store, status).Run(ctx)
	require.NoError(t, err)

	assert.False(t, report.Skipped)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 2, report.Deducted)
	assert.Equal(t, 1, report.Clamped)
	assert.Equal(t, 1, report.Deleted)

	assert.Equal(t, 0, availableOf(t, store, rareDragon))
	assert.Equal(t, 3, assignedOf(t, store, rareDragon))
	assert.Equal(t, 0, availableOf(t, store, rareCat))
	assert.Equal(t, 2, assignedOf(t, store, rareCat))
	assert.Equal(t, 0, assignedOf(t, store, commonRat))

	require.NotNil(t, status.Status().Migration)
}

func TestMigrator_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_, err := store.AddAvailableRow(ctx, testOwner, rareDragon, 4)
	require.NoError(t, err)
	putAssigned(t, store, rareDragon, 3)

	migrator := NewMigrator(store, nil)
	_, err = migrator.Run(ctx)
	require.NoError(t, err)

	afterFirst := [2]int{availableOf(t, store, rareDragon), assignedOf(t, store, rareDragon)}
	assert.Equal(t, [2]int{1, 3}, afterFirst)

	report, err := migrator.Run(ctx)
	require.NoError(t, err)
	assert.True(t, report.Skipped)
	assert.Equal(t, afterFirst, [2]int{availableOf(t, store, rareDragon), assignedOf(t, store, rareDragon)})
}

func TestMigrator_FailureLeavesFlagUnset(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_, err := store.AddAvailableRow(ctx, testOwner, rareDragon, 3)
	require.NoError(t, err)
	putAssigned(t, store, rareDragon, 3)

	store.Fail("Commit", errors.New("disk full"))
	_, err = NewMigrator(store, nil).Run(ctx)
	require.ErrorIs(t, err, domain.ErrTransactionFailure)
	store.ClearFaults()

	assert.Equal(t, 3, availableOf(t, store, rareDragon), "nothing half-applied")

	report, err := NewMigrator(store, nil).Run(ctx)
	require.NoError(t, err)
	assert.False(t, report.Skipped, "the retry still applies the migration")
	assert.Equal(t, 0, availableOf(t, store, rareDragon))
}

func TestRecovery_RebuildsRegistry(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	registry := newRegistry(t, time.Hour, nil)

	_, err := store.AddAvailableRow(ctx, testOwner, rareDragon, 2)
	require.NoError(t, err)
	dragon := putAssigned(t, store, rareDragon, 2)
	ghost := putAssigned(t, store, commonRat, 1) // deleted by the migration

	status := NewStatusTracker(registry)
	recovery := NewRecovery(store, NewMigrator(store, status), registry, status)

	report, err := recovery.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scheduled)
	require.NotNil(t, report.Migration)
	assert.Equal(t, 1, report.Migration.Deleted)

	assert.Equal(t, []domain.AssignmentKey{dragon}, registry.Keys())
	assert.False(t, registry.Has(ghost))

	// a second run over the same state creates nothing new
	report, err = recovery.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Scheduled)
	assert.Equal(t, 1, report.Skipped)
	assert.True(t, report.Migration.Skipped)
	assert.Equal(t, 1, registry.Len())

	got := status.Status()
	require.NotNil(t, got.Recovery)
	assert.Equal(t, 1, got.ActiveTasks)
}

func TestRecovery_NoCatchUpTicks(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	// the assignment was made long before this process started
	_, err := store.AddAvailableRow(ctx, testOwner, rareDragon, 1)
	require.NoError(t, err)
	require.NoError(t, store.PutAssigned(ctx, domain.AssignedEntry{
		OwnerID: testOwner, Variant: rareDragon, Quantity: 1, CoinRate: 100, GemRate: 20,
		AssignedAt: time.Now().Add(-24 * time.Hour),
	}))

	var ticks atomic.Int32
	registry := newRegistry(t, 200*time.Millisecond, func(context.Context, domain.AssignmentKey) error {
		ticks.Add(1)
		return nil
	})

	_, err = NewRecovery(store, NewMigrator(store, nil), registry, nil).Run(ctx)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, ticks.Load(), "no tick fires for time spent down")
	assert.Eventually(t, func() bool { return ticks.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestRecovery_MigrationFailureAborts(t *testing.T) {
	store := memory.NewStore()
	registry := newRegistry(t, time.Hour, nil)
	putAssigned(t, store, rareDragon, 1)

	store.Fail("IsMigrationDone", errors.New("flag table missing"))
	_, err := NewRecovery(store, NewMigrator(store, nil), registry, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgMigrationFailed)
	assert.Zero(t, registry.Len())
}

func TestStatusTracker_KeepsLastGoodReconcile(t *testing.T) {
	tracker := NewStatusTracker(nil)
	tracker.RecordReconcile(&domain.ReconcileReport{Removed: 3}, nil)
	tracker.RecordReconcile(nil, errors.New("database gone"))

	got := tracker.Status()
	require.NotNil(t, got.Reconcile)
	assert.Equal(t, 3, got.Reconcile.Removed)
	assert.Equal(t, "database gone", got.ReconcileErr)

	tracker.RecordReconcile(&domain.ReconcileReport{Removed: 0}, nil)
	assert.Empty(t, tracker.Status().ReconcileErr)
}
