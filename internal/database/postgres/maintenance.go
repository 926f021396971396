package postgres

import (
	"context"
	"fmt"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
)

func (t *storeTx) ListAllAssignedForUpdate(ctx context.Context) ([]domain.AssignedEntry, error) {
	return listAssigned(ctx, t.tx, "", forUpdate)
}

func (t *storeTx) IsMigrationDone(ctx context.Context, name string) (bool, error) {
	var done bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM maintenance_flags WHERE name = $1)`, name).Scan(&done)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToReadFlag, err)
	}
	return done, nil
}

func (t *storeTx) MarkMigrationDone(ctx context.Context, name string) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO maintenance_flags (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToWriteFlag, err)
	}
	return nil
}

// OwnsAny reports whether the owner holds the variant in Available or in the grant records
func (s *Store) OwnsAny(ctx context.Context, ownerID, variantKey string) (bool, error) {
	var owns bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM available_producers
			WHERE owner_id = $1 AND variant_key = $2 AND quantity > 0
		) OR EXISTS (
			SELECT 1 FROM producer_grants
			WHERE owner_id = $1 AND variant_key = $2 AND quantity > 0
		)`, ownerID, variantKey).Scan(&owns)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToCheckOwnership, err)
	}
	return owns, nil
}
