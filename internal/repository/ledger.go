package repository

import (
	"context"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
)

// Ledger defines read access to the Available and Assigned ledgers
type Ledger interface {
	// ListAvailable returns every Available row of an owner, one entry per physical row
	ListAvailable(ctx context.Context, ownerID string) ([]domain.AvailableEntry, error)

	// ListAssigned returns the Assigned entries of an owner
	ListAssigned(ctx context.Context, ownerID string) ([]domain.AssignedEntry, error)

	// GetAssigned returns one Assigned entry, or nil when none exists
	GetAssigned(ctx context.Context, ownerID, variantKey string) (*domain.AssignedEntry, error)

	// ListAllAssigned returns every Assigned entry across all owners
	ListAllAssigned(ctx context.Context) ([]domain.AssignedEntry, error)

	// SumAssigned returns the total assigned quantity of an owner
	SumAssigned(ctx context.Context, ownerID string) (int, error)

	// Transaction support
	BeginTx(ctx context.Context) (LedgerTx, error)
}

// LedgerTx is one atomic unit over both ledgers
type LedgerTx interface {
	Tx

	// LockOwner takes an exclusive, transaction-scoped lock on all ledger rows of an owner
	LockOwner(ctx context.Context, ownerID string) error

	// GetAvailableRowsForUpdate returns every Available row for the variant, locked
	GetAvailableRowsForUpdate(ctx context.Context, ownerID, variantKey string) ([]domain.AvailableEntry, error)

	// ListAvailableForUpdate returns every Available row of the owner, locked
	ListAvailableForUpdate(ctx context.Context, ownerID string) ([]domain.AvailableEntry, error)
	UpdateAvailableRow(ctx context.Context, rowID int64, quantity int) error
	DeleteAvailableRow(ctx context.Context, rowID int64) error
	InsertAvailableRow(ctx context.Context, entry domain.AvailableEntry) (int64, error)

	// GetAssignedForUpdate returns the locked Assigned entry, or nil when none exists
	GetAssignedForUpdate(ctx context.Context, ownerID, variantKey string) (*domain.AssignedEntry, error)
	ListAssignedForUpdate(ctx context.Context, ownerID string) ([]domain.AssignedEntry, error)
	SumAssigned(ctx context.Context, ownerID string) (int, error)
	UpsertAssigned(ctx context.Context, entry domain.AssignedEntry) error
	DeleteAssigned(ctx context.Context, ownerID, variantKey string) error
}

// Production defines persistence for the tick executor
type Production interface {
	GetAssigned(ctx context.Context, ownerID, variantKey string) (*domain.AssignedEntry, error)
	BeginProductionTx(ctx context.Context) (ProductionTx, error)
}

// ProductionTx commits one tick's reward as a single unit of work
type ProductionTx interface {
	Tx

	GetAssignedForUpdate(ctx context.Context, ownerID, variantKey string) (*domain.AssignedEntry, error)

	// CreditBalance adds the deltas to the owner's currency balance
	CreditBalance(ctx context.Context, ownerID string, coins, gems int64) error

	// RecordProduction updates the owner's production progress counters
	RecordProduction(ctx context.Context, ownerID, variantKey string, coins, gems int64, critical bool) error
}

// Maintenance defines persistence for reconciliation and the one-time migration
type Maintenance interface {
	ListAllAssigned(ctx context.Context) ([]domain.AssignedEntry, error)
	BeginMaintenanceTx(ctx context.Context) (MaintenanceTx, error)
}

// MaintenanceTx is a ledger transaction with access to the migration flags
type MaintenanceTx interface {
	LedgerTx

	// LockMaintenance serialises maintenance routines across processes
	LockMaintenance(ctx context.Context) error
	ListAllAssignedForUpdate(ctx context.Context) ([]domain.AssignedEntry, error)
	IsMigrationDone(ctx context.Context, name string) (bool, error)
	MarkMigrationDone(ctx context.Context, name string) error
}
