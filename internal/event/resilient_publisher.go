package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/metrics"
)

type retryItem struct {
	event    Event
	attempts int
	lastErr  error
}

// ResilientPublisher wraps a Bus so that failed publishes are retried in the
// background with exponential backoff and dead-lettered once retries run out.
// Publish never returns a handler error to the caller.
type ResilientPublisher struct {
	inner      Bus
	maxRetries int
	baseDelay  time.Duration
	deadLetter *DeadLetterWriter

	queue    chan retryItem
	shutdown chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

var _ Bus = (*ResilientPublisher)(nil)

// NewResilientPublisher creates a publisher around inner and starts its retry loop
func NewResilientPublisher(inner Bus, maxRetries int, baseDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dlw, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	p := &ResilientPublisher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		deadLetter: dlw,
		queue:      make(chan retryItem, RetryQueueBufferSize),
		shutdown:   make(chan struct{}),
	}
	p.wg.Add(1)
	go p.retryLoop()
	return p, nil
}

// Publish delivers the event once synchronously. On failure the event is
// queued for retry and nil is returned.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		metrics.EventDeliveries.WithLabelValues(string(event.Type), metrics.ResultSuccess).Inc()
		return nil
	}

	metrics.EventDeliveries.WithLabelValues(string(event.Type), metrics.ResultRetried).Inc()
	slog.Default().Warn(LogMsgEventPublishFailed, "event_type", event.Type, "error", err)
	p.enqueue(retryItem{event: event, attempts: 1, lastErr: err})
	return nil
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

func (p *ResilientPublisher) enqueue(item retryItem) {
	select {
	case <-p.shutdown:
		p.writeDeadLetter(item)
		return
	default:
	}

	select {
	case p.queue <- item:
	default:
		slog.Default().Error(LogMsgRetryQueueFull, "event_type", item.event.Type)
		p.writeDeadLetter(item)
	}
}

func (p *ResilientPublisher) retryLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.shutdown:
			return
		case item := <-p.queue:
			if !p.retry(item) {
				return
			}
		}
	}
}

// retry waits for the item's backoff and publishes it again. It returns false
// when shutdown interrupted the wait; the item is then dead-lettered.
func (p *ResilientPublisher) retry(item retryItem) bool {
	timer := time.NewTimer(CalculateRetryDelay(p.baseDelay, item.attempts))
	defer timer.Stop()

	select {
	case <-p.shutdown:
		p.writeDeadLetter(item)
		return false
	case <-timer.C:
	}

	err := p.inner.Publish(context.Background(), item.event)
	if err == nil {
		metrics.EventDeliveries.WithLabelValues(string(item.event.Type), metrics.ResultSuccess).Inc()
		slog.Default().Info(LogMsgEventRetrySucceeded, "event_type", item.event.Type, "attempt", item.attempts)
		return true
	}

	item.attempts++
	item.lastErr = err
	if item.attempts > p.maxRetries {
		slog.Default().Error(LogMsgEventRetryExhausted, "event_type", item.event.Type, "attempts", item.attempts)
		p.writeDeadLetter(item)
		return true
	}

	slog.Default().Warn(LogMsgEventRetryFailed, "event_type", item.event.Type, "attempt", item.attempts, "error", err)
	p.enqueue(item)
	return true
}

func (p *ResilientPublisher) writeDeadLetter(item retryItem) {
	metrics.EventDeliveries.WithLabelValues(string(item.event.Type), metrics.ResultDead).Inc()
	if err := p.deadLetter.Write(item.event, item.attempts, item.lastErr); err != nil {
		slog.Default().Error(LogMsgDeadLetterWriteFailed, "event_type", item.event.Type, "error", err)
		return
	}
	slog.Default().Warn(LogMsgEventDeadLettered, "event_type", item.event.Type, "attempts", item.attempts)
}

// Shutdown stops the retry loop, dead-letters every queued event and closes
// the dead-letter file
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.once.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		slog.Default().Warn(LogMsgShutdownTimeout)
		err = ctx.Err()
	}

	drained := 0
	for {
		select {
		case item := <-p.queue:
			p.writeDeadLetter(item)
			drained++
			continue
		default:
		}
		break
	}
	if drained > 0 {
		slog.Default().Info(LogMsgQueueDrainedShutdown, "count", drained)
	}

	return errors.Join(err, p.deadLetter.Close())
}
