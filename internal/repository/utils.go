package repository

import (
	"context"
	"errors"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error
func SafeRollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(ctx); err != nil {
		// Check for common "closed" errors to avoid noise
		if err.Error() != domain.ErrMsgTxClosed && !errors.Is(err, ErrTxClosed) {
			logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
		}
	}
}

// ErrTxClosed is returned by stores when a finished transaction is used again
var ErrTxClosed = errors.New(domain.ErrMsgTxClosed)
