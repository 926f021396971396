package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/BrandishIdle_Go/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// JobFunc adapts a function to the Job interface
type JobFunc func(ctx context.Context) error

// Process calls f(ctx)
func (f JobFunc) Process(ctx context.Context) error {
	return f(ctx)
}

// Pool is a fixed set of workers draining a bounded job queue
type Pool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool creates a new worker pool
func NewPool(workers int, queueSize int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			if err := p.run(job); err != nil {
				logger.FromContext(p.ctx).Error(LogMsgWorkerJobFailed, "error", err)
			}
		case <-p.ctx.Done():
			return
		}
	}
}

// run processes one job, turning a panic into an error so the worker survives
func (p *Pool) run(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job.Process(p.ctx)
}

// Enqueue blocks until the job is queued or the pool is stopped
func (p *Pool) Enqueue(job Job) {
	select {
	case p.jobQueue <- job:
	case <-p.ctx.Done():
	}
}

// TryEnqueue queues the job without blocking. It returns false when the
// queue is full or the pool is stopped.
func (p *Pool) TryEnqueue(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		logger.FromContext(p.ctx).Warn(LogMsgJobDropped)
		return false
	}
}

// Stop cancels in-flight jobs and waits for the workers to exit
func (p *Pool) Stop() {
	logger.FromContext(p.ctx).Debug(LogMsgPoolStopping)
	p.cancel()
	p.wg.Wait()
}
