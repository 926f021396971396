package production

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/event"
	"github.com/osse101/BrandishIdle_Go/internal/logger"
	"github.com/osse101/BrandishIdle_Go/internal/metrics"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
	"github.com/osse101/BrandishIdle_Go/internal/utils"
)

// Evaluator computes the multipliers of one owner at an instant
type Evaluator interface {
	Evaluate(ctx context.Context, ownerID string, at time.Time) domain.Multipliers
}

// Executor is the body of every recurring production task
type Executor struct {
	repo      repository.Production
	evaluator Evaluator
	bus       event.Bus
	now       func() time.Time
}

// NewExecutor creates a new tick executor. bus may be nil.
func NewExecutor(repo repository.Production, evaluator Evaluator, bus event.Bus) *Executor {
	return &Executor{
		repo:      repo,
		evaluator: evaluator,
		bus:       bus,
		now:       time.Now,
	}
}

// Tick runs one production cycle for key. It matches scheduler.TickFunc.
func (e *Executor) Tick(ctx context.Context, key domain.AssignmentKey) error {
	start := time.Now()
	ctx = logger.WithRequestID(ctx, logger.GenerateRequestID())

	result, err := e.Execute(ctx, key)
	metrics.TickDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrAssignmentNotFound) {
			metrics.TicksTotal.WithLabelValues(metrics.ResultSkipped).Inc()
		} else {
			metrics.TicksTotal.WithLabelValues(metrics.ResultError).Inc()
		}
		return err
	}

	metrics.TicksTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	metrics.CurrencyProduced.WithLabelValues(string(domain.CurrencyCoins)).Add(float64(result.Coins))
	metrics.CurrencyProduced.WithLabelValues(string(domain.CurrencyGems)).Add(float64(result.Gems))
	if result.Multipliers.Critical {
		metrics.CriticalHits.Inc()
	}

	log := logger.FromContext(ctx)
	if len(result.Multipliers.Degraded) > 0 {
		log.Warn(LogMsgTickDegraded, "key", key.String(), "sources", result.Multipliers.Degraded)
	}
	log.Debug(LogMsgTickCompleted,
		"key", key.String(),
		"quantity", result.Quantity,
		"coins", result.Coins,
		"gems", result.Gems,
		"critical", result.Multipliers.Critical)

	if e.bus != nil {
		if err := e.bus.Publish(ctx, event.NewTickEvent(*result)); err != nil {
			log.Warn(LogMsgPublishFailed, "key", key.String(), "error", err)
		}
	}
	return nil
}

// Execute computes and commits the reward of one tick. It returns
// domain.ErrAssignmentNotFound when the assignment is gone, in which case
// nothing is written.
func (e *Executor) Execute(ctx context.Context, key domain.AssignmentKey) (*domain.TickResult, error) {
	// 1. Re-read the assignment; a missing row ends the task
	entry, err := e.repo.GetAssigned(ctx, key.OwnerID, key.VariantKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToReadAssignment, err)
	}
	if entry == nil {
		return nil, domain.ErrAssignmentNotFound
	}

	// 2. Multipliers are read outside the transaction; failed sources degrade to 1
	now := e.now()
	mult := e.evaluator.Evaluate(ctx, key.OwnerID, now)

	// 3. Commit the reward against the locked row
	tx, err := e.repo.BeginProductionTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrTransactionFailure, ErrMsgFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	locked, err := tx.GetAssignedForUpdate(ctx, key.OwnerID, key.VariantKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrTransactionFailure, ErrMsgFailedToLockAssignment, err)
	}
	if locked == nil {
		// removed between the read and the lock
		return nil, domain.ErrAssignmentNotFound
	}

	result := &domain.TickResult{
		Key:         key,
		Quantity:    locked.Quantity,
		Coins:       utils.FloorReward(locked.CoinRate, locked.Quantity, mult.Coin),
		Gems:        utils.FloorReward(locked.GemRate, locked.Quantity, mult.Gem),
		Multipliers: mult,
		At:          now,
	}

	if result.Coins > 0 || result.Gems > 0 {
		if err := tx.CreditBalance(ctx, key.OwnerID, result.Coins, result.Gems); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrTransactionFailure, ErrMsgFailedToCreditBalance, err)
		}
	}
	if err := tx.RecordProduction(ctx, key.OwnerID, key.VariantKey, result.Coins, result.Gems, mult.Critical); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrTransactionFailure, ErrMsgFailedToRecordProgress, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrTransactionFailure, ErrMsgFailedToCommit, err)
	}
	return result, nil
}
