package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// querier is the part of pgx shared by the pool and an open transaction
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements every engine repository on PostgreSQL
type Store struct {
	db *pgxpool.Pool
}

var (
	_ repository.Ledger         = (*Store)(nil)
	_ repository.Production     = (*Store)(nil)
	_ repository.Maintenance    = (*Store)(nil)
	_ repository.Multipliers    = (*Store)(nil)
	_ repository.Ownership      = (*Store)(nil)
	_ repository.CapacitySource = (*Store)(nil)
	_ repository.Seeder         = (*Store)(nil)
	_ repository.EventLog       = (*Store)(nil)
)

// NewStore creates a new PostgreSQL store
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) begin(ctx context.Context) (*storeTx, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &storeTx{tx: tx}, nil
}

// BeginTx starts a ledger transaction
func (s *Store) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	return s.begin(ctx)
}

// BeginProductionTx starts a transaction for one tick
func (s *Store) BeginProductionTx(ctx context.Context) (repository.ProductionTx, error) {
	return s.begin(ctx)
}

// BeginMaintenanceTx starts a transaction for reconciliation or migration work
func (s *Store) BeginMaintenanceTx(ctx context.Context) (repository.MaintenanceTx, error) {
	return s.begin(ctx)
}

// storeTx implements repository.LedgerTx, repository.ProductionTx and repository.MaintenanceTx
type storeTx struct {
	tx pgx.Tx
}

func (t *storeTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *storeTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("%w: %w", repository.ErrTxClosed, err)
	}
	return err
}

// LockOwner serialises ledger writes of one owner until the transaction ends
func (t *storeTx) LockOwner(ctx context.Context, ownerID string) error {
	if _, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, hashtext($2))`, LockClassOwner, ownerID); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLockOwner, err)
	}
	return nil
}

// LockMaintenance serialises maintenance routines across processes
func (t *storeTx) LockMaintenance(ctx context.Context) error {
	if _, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, 0)`, LockClassMaintenance); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLockMaintenance, err)
	}
	return nil
}
