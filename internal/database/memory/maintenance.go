package memory

import (
	"context"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// BeginMaintenanceTx starts a transaction for reconciliation or migration work
func (s *Store) BeginMaintenanceTx(ctx context.Context) (repository.MaintenanceTx, error) {
	return s.begin(ctx)
}

// LockMaintenance is a no-op for a single-process store
func (t *tx) LockMaintenance(ctx context.Context) error {
	return t.store.fault("LockMaintenance")
}

func (t *tx) ListAllAssignedForUpdate(ctx context.Context) ([]domain.AssignedEntry, error) {
	if err := t.store.fault("ListAllAssignedForUpdate"); err != nil {
		return nil, err
	}
	return t.st.assignedOf(""), nil
}

func (t *tx) IsMigrationDone(ctx context.Context, name string) (bool, error) {
	if err := t.store.fault("IsMigrationDone"); err != nil {
		return false, err
	}
	_, ok := t.st.flags[name]
	return ok, nil
}

func (t *tx) MarkMigrationDone(ctx context.Context, name string) error {
	if err := t.store.fault("MarkMigrationDone"); err != nil {
		return err
	}
	t.st.flags[name] = time.Now()
	return nil
}

// OwnsAny reports whether the owner holds the variant in Available or in the grant records
func (s *Store) OwnsAny(ctx context.Context, ownerID, variantKey string) (bool, error) {
	if err := s.fault("OwnsAny"); err != nil {
		return false, err
	}
	var owns bool
	s.read(func(st *state) {
		if st.grants[domain.AssignmentKey{OwnerID: ownerID, VariantKey: variantKey}] > 0 {
			owns = true
			return
		}
		for _, row := range st.availableRows(ownerID, variantKey) {
			if row.Quantity > 0 {
				owns = true
				return
			}
		}
	})
	return owns, nil
}
