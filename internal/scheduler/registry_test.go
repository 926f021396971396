package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/testing/leaktest"
)

const testInterval = 10 * time.Millisecond

var (
	keyA = domain.AssignmentKey{OwnerID: "owner-1", VariantKey: "dragon:rare:none"}
	keyB = domain.AssignmentKey{OwnerID: "owner-1", VariantKey: "cat:common:golden"}
	keyC = domain.AssignmentKey{OwnerID: "owner-2", VariantKey: "dragon:rare:none"}
)

// tickCounter counts ticks per key and tracks how many run at once per key
type tickCounter struct {
	mu         sync.Mutex
	counts     map[domain.AssignmentKey]int
	running    map[domain.AssignmentKey]int
	maxRunning int
	hold       time.Duration
}

func newTickCounter(hold time.Duration) *tickCounter {
	return &tickCounter{
		counts:  make(map[domain.AssignmentKey]int),
		running: make(map[domain.AssignmentKey]int),
		hold:    hold,
	}
}

func (c *tickCounter) tick(ctx context.Context, key domain.AssignmentKey) error {
	c.mu.Lock()
	c.running[key]++
	if c.running[key] > c.maxRunning {
		c.maxRunning = c.running[key]
	}
	c.mu.Unlock()

	time.Sleep(c.hold)

	c.mu.Lock()
	c.running[key]--
	c.counts[key]++
	c.mu.Unlock()
	return nil
}

func (c *tickCounter) count(key domain.AssignmentKey) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[key]
}

func shutdown(t *testing.T, r *Registry) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, r.Shutdown(ctx))
}

func TestRegistry_EnsureIsUnique(t *testing.T) {
	counter := newTickCounter(0)
	r := NewRegistry(testInterval, counter.tick)
	defer shutdown(t, r)

	assert.True(t, r.Ensure(keyA))
	assert.False(t, r.Ensure(keyA), "second Ensure must not create a duplicate")
	assert.True(t, r.Ensure(keyB))

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []domain.AssignmentKey{keyB, keyA}, r.Keys())
}

func TestRegistry_ConcurrentEnsureCreatesOneTask(t *testing.T) {
	r := NewRegistry(time.Hour, newTickCounter(0).tick)
	defer shutdown(t, r)

	var created int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.Ensure(keyA) {
				atomic.AddInt32(&created, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_TicksFireEveryInterval(t *testing.T) {
	counter := newTickCounter(0)
	r := NewRegistry(testInterval, counter.tick)
	defer shutdown(t, r)

	r.Ensure(keyA)

	assert.Eventually(t, func() bool { return counter.count(keyA) >= 3 }, time.Second, testInterval)
}

func TestRegistry_FirstTickWaitsOneInterval(t *testing.T) {
	counter := newTickCounter(0)
	r := NewRegistry(200*time.Millisecond, counter.tick)
	defer shutdown(t, r)

	r.Ensure(keyA)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, counter.count(keyA))
}

func TestRegistry_CancelStopsTicks(t *testing.T) {
	counter := newTickCounter(0)
	r := NewRegistry(testInterval, counter.tick)
	defer shutdown(t, r)

	r.Ensure(keyA)
	require.Eventually(t, func() bool { return counter.count(keyA) >= 1 }, time.Second, testInterval)

	assert.True(t, r.Cancel(keyA))
	assert.False(t, r.Cancel(keyA))
	assert.False(t, r.Has(keyA))

	time.Sleep(3 * testInterval)
	frozen := counter.count(keyA)
	time.Sleep(5 * testInterval)
	assert.Equal(t, frozen, counter.count(keyA))
}

func TestRegistry_RecreatedTaskNeverOverlaps(t *testing.T) {
	// ticks take longer than the interval so a careless restart would overlap
	counter := newTickCounter(3 * testInterval)
	r := NewRegistry(testInterval, counter.tick)
	defer shutdown(t, r)

	r.Ensure(keyA)
	for i := 0; i < 20; i++ {
		time.Sleep(testInterval / 2)
		r.Cancel(keyA)
		r.Ensure(keyA)
	}
	time.Sleep(5 * testInterval)

	counter.mu.Lock()
	defer counter.mu.Unlock()
	assert.Equal(t, 1, counter.maxRunning, "two ticks for the same key ran concurrently")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_SelfCancelsWhenAssignmentGone(t *testing.T) {
	var calls int32
	r := NewRegistry(testInterval, func(ctx context.Context, key domain.AssignmentKey) error {
		atomic.AddInt32(&calls, 1)
		return domain.ErrAssignmentNotFound
	})
	defer shutdown(t, r)

	r.Ensure(keyA)

	require.Eventually(t, func() bool { return !r.Has(keyA) }, time.Second, testInterval)
	time.Sleep(5 * testInterval)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRegistry_TickErrorsKeepSchedule(t *testing.T) {
	var calls int32
	r := NewRegistry(testInterval, func(ctx context.Context, key domain.AssignmentKey) error {
		if atomic.AddInt32(&calls, 1) == 2 {
			panic("tick blew up")
		}
		return domain.ErrTransactionFailure
	})
	defer shutdown(t, r)

	r.Ensure(keyA)

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 4 }, time.Second, testInterval)
	assert.True(t, r.Has(keyA))
}

func TestRegistry_InFlightTickCompletesAfterCancel(t *testing.T) {
	started := make(chan struct{})
	var completed int32
	r := NewRegistry(testInterval, func(ctx context.Context, key domain.AssignmentKey) error {
		select {
		case started <- struct{}{}:
		default:
		}
		time.Sleep(5 * testInterval)
		atomic.AddInt32(&completed, 1)
		return nil
	})
	defer shutdown(t, r)

	r.Ensure(keyA)
	<-started
	r.Cancel(keyA)

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&completed) == 1 }, time.Second, testInterval)
}

func TestRegistry_ShutdownStopsEverything(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	counter := newTickCounter(0)
	r := NewRegistry(testInterval, counter.tick)
	r.Ensure(keyA)
	r.Ensure(keyB)
	r.Ensure(keyC)

	shutdown(t, r)

	assert.Equal(t, 0, r.Len())
	assert.False(t, r.Ensure(keyA), "closed registry must not accept tasks")
	checker.Check(0)
}

func TestRegistry_ShutdownTimesOut(t *testing.T) {
	r := NewRegistry(testInterval, func(ctx context.Context, key domain.AssignmentKey) error {
		<-ctx.Done()
		return ctx.Err()
	})
	r.Ensure(keyA)
	time.Sleep(3 * testInterval)

	ctx, cancel := context.WithTimeout(context.Background(), testInterval)
	defer cancel()

	assert.ErrorIs(t, r.Shutdown(ctx), context.DeadlineExceeded)
}
