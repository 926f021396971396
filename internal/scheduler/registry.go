package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/logger"
	"github.com/osse101/BrandishIdle_Go/internal/metrics"
)

// TickFunc is the body of one recurring task. Returning domain.ErrAssignmentNotFound
// stops the task; any other error is logged and the task keeps its schedule.
type TickFunc func(ctx context.Context, key domain.AssignmentKey) error

// Registry owns the recurring production task of every (owner, variant) key.
// Ensure is the only way a task comes into existence, and it refuses to create
// a second task for a key that already has one.
type Registry struct {
	interval time.Duration
	tick     TickFunc

	mu       sync.Mutex
	tasks    map[domain.AssignmentKey]*task
	stopping map[domain.AssignmentKey]*task
	closed   bool

	// tickCtx outlives Cancel so an in-flight tick can finish; Shutdown cancels
	// it only once its own deadline has passed.
	tickCtx    context.Context
	cancelTick context.CancelFunc
	wg         sync.WaitGroup
}

type task struct {
	key  domain.AssignmentKey
	prev *task
	stop chan struct{}
	done chan struct{}
}

// NewRegistry creates an empty registry firing tick every interval per key
func NewRegistry(interval time.Duration, tick TickFunc) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		interval:   interval,
		tick:       tick,
		tasks:      make(map[domain.AssignmentKey]*task),
		stopping:   make(map[domain.AssignmentKey]*task),
		tickCtx:    ctx,
		cancelTick: cancel,
	}
}

// Ensure starts the task for key unless one is already running. It reports
// whether a new task was created. The first tick fires one interval after
// creation, so a task never pays out for time before it existed.
func (r *Registry) Ensure(key domain.AssignmentKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	if _, ok := r.tasks[key]; ok {
		return false
	}

	t := &task{
		key:  key,
		prev: r.stopping[key],
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	delete(r.stopping, key)
	r.tasks[key] = t
	metrics.ActiveTasks.Set(float64(len(r.tasks)))

	r.wg.Add(1)
	go r.run(t)

	logger.FromContext(r.tickCtx).Debug(LogMsgTaskScheduled, "key", key.String())
	return true
}

// Cancel stops the task for key and reports whether one existed.
// A tick already executing is allowed to finish.
func (r *Registry) Cancel(key domain.AssignmentKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.cancelLocked(key) {
		return false
	}
	logger.FromContext(r.tickCtx).Debug(LogMsgTaskCancelled, "key", key.String())
	return true
}

func (r *Registry) cancelLocked(key domain.AssignmentKey) bool {
	t, ok := r.tasks[key]
	if !ok {
		return false
	}
	delete(r.tasks, key)
	close(t.stop)
	// a replacement task created before t exits waits for t.done
	r.stopping[key] = t
	metrics.ActiveTasks.Set(float64(len(r.tasks)))
	return true
}

// Has reports whether a task is scheduled for key
func (r *Registry) Has(key domain.AssignmentKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tasks[key]
	return ok
}

// Len returns the number of scheduled tasks
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// Keys returns the scheduled keys in a stable order
func (r *Registry) Keys() []domain.AssignmentKey {
	r.mu.Lock()
	keys := make([]domain.AssignmentKey, 0, len(r.tasks))
	for key := range r.tasks {
		keys = append(keys, key)
	}
	r.mu.Unlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].OwnerID != keys[j].OwnerID {
			return keys[i].OwnerID < keys[j].OwnerID
		}
		return keys[i].VariantKey < keys[j].VariantKey
	})
	return keys
}

// Shutdown stops every task and waits for in-flight ticks to finish. When ctx
// expires first, running ticks see their context cancelled and ctx.Err() is
// returned without waiting further.
// The registry accepts no new tasks afterwards.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		logger.FromContext(r.tickCtx).Info(LogMsgRegistryShutdown, "tasks", len(r.tasks))
		for key := range r.tasks {
			r.cancelLocked(key)
		}
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.cancelTick()
		return nil
	case <-ctx.Done():
		r.cancelTick()
		return ctx.Err()
	}
}

func (r *Registry) run(t *task) {
	defer r.wg.Done()
	defer r.finish(t)

	// never overlap with the previous task of the same key; waiting even when
	// stopped keeps done ordered along the whole chain
	if t.prev != nil {
		<-t.prev.done
		t.prev = nil
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			// stop may have raced the ticker
			select {
			case <-t.stop:
				return
			default:
			}
			if err := r.safeTick(t.key); err != nil {
				if errors.Is(err, domain.ErrAssignmentNotFound) {
					r.selfCancel(t)
					return
				}
				logger.FromContext(r.tickCtx).Warn(LogMsgTickFailed, "key", t.key.String(), "error", err)
			}
		}
	}
}

func (r *Registry) safeTick(key domain.AssignmentKey) (err error) {
	defer func() {
		if p := recover(); p != nil {
			logger.FromContext(r.tickCtx).Error(LogMsgTickPanicked, "key", key.String(), "panic", p)
			err = nil
		}
	}()
	return r.tick(r.tickCtx, key)
}

// selfCancel removes t only if the registry still points at it
func (r *Registry) selfCancel(t *task) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.tasks[t.key]; ok && cur == t {
		delete(r.tasks, t.key)
		metrics.ActiveTasks.Set(float64(len(r.tasks)))
	}
	logger.FromContext(r.tickCtx).Info(LogMsgTaskSelfCancelled, "key", t.key.String())
}

func (r *Registry) finish(t *task) {
	close(t.done)

	r.mu.Lock()
	if cur, ok := r.stopping[t.key]; ok && cur == t {
		delete(r.stopping, t.key)
	}
	r.mu.Unlock()
}
