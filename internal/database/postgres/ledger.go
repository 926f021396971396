package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

const availableColumns = `row_id, owner_id, producer_type, rarity, trait, quantity`

const assignedColumns = `owner_id, producer_type, rarity, trait, quantity, coin_rate, gem_rate, assigned_at`

func scanAvailable(rows pgx.Rows) ([]domain.AvailableEntry, error) {
	defer rows.Close()
	var entries []domain.AvailableEntry
	for rows.Next() {
		var (
			e                     domain.AvailableEntry
			typ, rarity, traitTag string
		)
		if err := rows.Scan(&e.RowID, &e.OwnerID, &typ, &rarity, &traitTag, &e.Quantity); err != nil {
			return nil, err
		}
		e.Variant = domain.NewVariant(typ, domain.Rarity(rarity), domain.Trait(traitTag))
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanAssignedRow(row pgx.Row) (domain.AssignedEntry, error) {
	var (
		e                     domain.AssignedEntry
		typ, rarity, traitTag string
	)
	err := row.Scan(&e.OwnerID, &typ, &rarity, &traitTag, &e.Quantity, &e.CoinRate, &e.GemRate, &e.AssignedAt)
	e.Variant = domain.NewVariant(typ, domain.Rarity(rarity), domain.Trait(traitTag))
	return e, err
}

func scanAssigned(rows pgx.Rows) ([]domain.AssignedEntry, error) {
	defer rows.Close()
	var entries []domain.AssignedEntry
	for rows.Next() {
		e, err := scanAssignedRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func listAvailable(ctx context.Context, q querier, ownerID, suffix string) ([]domain.AvailableEntry, error) {
	rows, err := q.Query(ctx, `
		SELECT `+availableColumns+`
		FROM available_producers
		WHERE owner_id = $1
		ORDER BY variant_key, row_id`+suffix, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListAvailable, err)
	}
	entries, err := scanAvailable(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListAvailable, err)
	}
	return entries, nil
}

func getAssigned(ctx context.Context, q querier, ownerID, variantKey, suffix string) (*domain.AssignedEntry, error) {
	row := q.QueryRow(ctx, `
		SELECT `+assignedColumns+`
		FROM assigned_producers
		WHERE owner_id = $1 AND variant_key = $2`+suffix, ownerID, variantKey)
	e, err := scanAssignedRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetAssigned, err)
	}
	return &e, nil
}

func listAssigned(ctx context.Context, q querier, ownerID, suffix string) ([]domain.AssignedEntry, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if ownerID == "" {
		rows, err = q.Query(ctx, `
			SELECT `+assignedColumns+`
			FROM assigned_producers
			ORDER BY owner_id, variant_key`+suffix)
	} else {
		rows, err = q.Query(ctx, `
			SELECT `+assignedColumns+`
			FROM assigned_producers
			WHERE owner_id = $1
			ORDER BY variant_key`+suffix, ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListAssigned, err)
	}
	entries, err := scanAssigned(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListAssigned, err)
	}
	return entries, nil
}

func sumAssigned(ctx context.Context, q querier, ownerID string) (int, error) {
	var total int
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)::INTEGER
		FROM assigned_producers
		WHERE owner_id = $1`, ownerID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToSumAssigned, err)
	}
	return total, nil
}

const forUpdate = ` FOR UPDATE`

// ListAvailable returns every Available row of an owner
func (s *Store) ListAvailable(ctx context.Context, ownerID string) ([]domain.AvailableEntry, error) {
	return listAvailable(ctx, s.db, ownerID, "")
}

// ListAssigned returns the Assigned entries of an owner
func (s *Store) ListAssigned(ctx context.Context, ownerID string) ([]domain.AssignedEntry, error) {
	return listAssigned(ctx, s.db, ownerID, "")
}

// GetAssigned returns one Assigned entry, or nil when none exists
func (s *Store) GetAssigned(ctx context.Context, ownerID, variantKey string) (*domain.AssignedEntry, error) {
	return getAssigned(ctx, s.db, ownerID, variantKey, "")
}

// ListAllAssigned returns every Assigned entry across all owners
func (s *Store) ListAllAssigned(ctx context.Context) ([]domain.AssignedEntry, error) {
	return listAssigned(ctx, s.db, "", "")
}

// SumAssigned returns the total assigned quantity of an owner
func (s *Store) SumAssigned(ctx context.Context, ownerID string) (int, error) {
	return sumAssigned(ctx, s.db, ownerID)
}

func (t *storeTx) GetAvailableRowsForUpdate(ctx context.Context, ownerID, variantKey string) ([]domain.AvailableEntry, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT `+availableColumns+`
		FROM available_producers
		WHERE owner_id = $1 AND variant_key = $2
		ORDER BY row_id
		FOR UPDATE`, ownerID, variantKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListAvailable, err)
	}
	entries, err := scanAvailable(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListAvailable, err)
	}
	return entries, nil
}

func (t *storeTx) ListAvailableForUpdate(ctx context.Context, ownerID string) ([]domain.AvailableEntry, error) {
	return listAvailable(ctx, t.tx, ownerID, forUpdate)
}

func (t *storeTx) UpdateAvailableRow(ctx context.Context, rowID int64, quantity int) error {
	tag, err := t.tx.Exec(ctx, `UPDATE available_producers SET quantity = $2 WHERE row_id = $1`, rowID, quantity)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateAvailable, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: row %d", ErrMsgAvailableRowNotFound, rowID)
	}
	return nil
}

func (t *storeTx) DeleteAvailableRow(ctx context.Context, rowID int64) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM available_producers WHERE row_id = $1`, rowID); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteAvailable, err)
	}
	return nil
}

func (t *storeTx) InsertAvailableRow(ctx context.Context, entry domain.AvailableEntry) (int64, error) {
	return insertAvailable(ctx, t.tx, entry.OwnerID, entry.Variant, entry.Quantity)
}

func insertAvailable(ctx context.Context, q querier, ownerID string, variant domain.Variant, quantity int) (int64, error) {
	if err := variant.Validate(); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgInvalidStoredVariant, err)
	}
	variant = domain.NewVariant(variant.Type, variant.Rarity, variant.Trait)
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO available_producers (owner_id, variant_key, producer_type, rarity, trait, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING row_id`,
		ownerID, variant.Key(), variant.Type, string(variant.Rarity), string(variant.Trait), quantity).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToInsertAvailable, err)
	}
	return id, nil
}

func (t *storeTx) GetAssignedForUpdate(ctx context.Context, ownerID, variantKey string) (*domain.AssignedEntry, error) {
	return getAssigned(ctx, t.tx, ownerID, variantKey, forUpdate)
}

func (t *storeTx) ListAssignedForUpdate(ctx context.Context, ownerID string) ([]domain.AssignedEntry, error) {
	return listAssigned(ctx, t.tx, ownerID, forUpdate)
}

func (t *storeTx) SumAssigned(ctx context.Context, ownerID string) (int, error) {
	return sumAssigned(ctx, t.tx, ownerID)
}

func (t *storeTx) UpsertAssigned(ctx context.Context, entry domain.AssignedEntry) error {
	v := domain.NewVariant(entry.Variant.Type, entry.Variant.Rarity, entry.Variant.Trait)
	_, err := t.tx.Exec(ctx, `
		INSERT INTO assigned_producers
			(owner_id, variant_key, producer_type, rarity, trait, quantity, coin_rate, gem_rate, assigned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (owner_id, variant_key) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			coin_rate = EXCLUDED.coin_rate,
			gem_rate = EXCLUDED.gem_rate,
			assigned_at = EXCLUDED.assigned_at`,
		entry.OwnerID, v.Key(), v.Type, string(v.Rarity), string(v.Trait),
		entry.Quantity, entry.CoinRate, entry.GemRate, entry.AssignedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpsertAssigned, err)
	}
	return nil
}

func (t *storeTx) DeleteAssigned(ctx context.Context, ownerID, variantKey string) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM assigned_producers WHERE owner_id = $1 AND variant_key = $2`, ownerID, variantKey); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteAssigned, err)
	}
	return nil
}

var _ repository.MaintenanceTx = (*storeTx)(nil)
var _ repository.ProductionTx = (*storeTx)(nil)
