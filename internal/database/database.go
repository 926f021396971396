package database

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool opens the pgx pool behind the PostgreSQL ledger store. Every transfer,
// tick and maintenance transaction holds one connection for its whole unit of
// work, so maxConns bounds how many owners can be written concurrently.
// The pool is pinged before it is returned.
func NewPool(connString string, maxConns int, maxIdle, maxLife time.Duration) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToParseConnString, err)
	}

	config.MaxConns, config.MinConns = poolBounds(maxConns)
	config.MaxConnLifetime = maxLife
	config.MaxConnIdleTime = maxIdle

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}

	slog.Default().Info(LogMsgSuccessfullyConnectedToDatabase,
		"max_conns", config.MaxConns,
		"min_conns", config.MinConns)
	return pool, nil
}

// poolBounds clamps the configured size into [1, MaxInt32] and keeps the warm
// minimum from exceeding it
func poolBounds(maxConns int) (maxC, minC int32) {
	switch {
	case maxConns < 1:
		maxConns = 1
	case maxConns > math.MaxInt32:
		maxConns = math.MaxInt32
	}
	maxC = int32(maxConns)
	minC = min(DefaultMinConnections, maxC)
	return maxC, minC
}
