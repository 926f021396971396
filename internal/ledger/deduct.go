package ledger

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// SortRowsForDeduction orders Available rows largest first. Ties keep the
// oldest row first so the order is stable across calls.
func SortRowsForDeduction(rows []domain.AvailableEntry) {
	slices.SortFunc(rows, func(a, b domain.AvailableEntry) int {
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		return cmp.Compare(a.RowID, b.RowID)
	})
}

// SumQuantity returns the total quantity of a set of Available rows
func SumQuantity(rows []domain.AvailableEntry) int {
	total := 0
	for _, row := range rows {
		total += row.Quantity
	}
	return total
}

// DeductAvailable removes up to qty units from rows, taking from the largest
// rows first and deleting every row that reaches zero. It returns the number
// of units actually removed.
func DeductAvailable(ctx context.Context, tx repository.LedgerTx, rows []domain.AvailableEntry, qty int) (int, error) {
	sorted := slices.Clone(rows)
	SortRowsForDeduction(sorted)

	deducted := 0
	for _, row := range sorted {
		if deducted >= qty {
			break
		}
		if row.Quantity <= 0 {
			continue
		}

		take := min(row.Quantity, qty-deducted)
		if take == row.Quantity {
			if err := tx.DeleteAvailableRow(ctx, row.RowID); err != nil {
				return deducted, fmt.Errorf("%s: %w", ErrMsgFailedToDeleteAvailable, err)
			}
		} else {
			if err := tx.UpdateAvailableRow(ctx, row.RowID, row.Quantity-take); err != nil {
				return deducted, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateAvailable, err)
			}
		}
		deducted += take
	}
	return deducted, nil
}

// ReturnAvailable adds qty units of a variant back to Available, growing the
// largest existing row or inserting a new one
func ReturnAvailable(ctx context.Context, tx repository.LedgerTx, ownerID string, variant domain.Variant, qty int) error {
	if qty <= 0 {
		return nil
	}

	rows, err := tx.GetAvailableRowsForUpdate(ctx, ownerID, variant.Key())
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToReadAvailable, err)
	}

	if len(rows) > 0 {
		SortRowsForDeduction(rows)
		if err := tx.UpdateAvailableRow(ctx, rows[0].RowID, rows[0].Quantity+qty); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateAvailable, err)
		}
		return nil
	}

	if _, err := tx.InsertAvailableRow(ctx, domain.AvailableEntry{
		OwnerID:  ownerID,
		Variant:  variant,
		Quantity: qty,
	}); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertAvailable, err)
	}
	return nil
}
