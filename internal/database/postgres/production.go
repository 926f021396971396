package postgres

import (
	"context"
	"fmt"
)

func (t *storeTx) CreditBalance(ctx context.Context, ownerID string, coins, gems int64) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO owner_balances (owner_id, coins, gems)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id) DO UPDATE SET
			coins = owner_balances.coins + EXCLUDED.coins,
			gems = owner_balances.gems + EXCLUDED.gems,
			updated_at = NOW()`, ownerID, coins, gems)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCreditBalance, err)
	}
	return nil
}

func (t *storeTx) RecordProduction(ctx context.Context, ownerID, variantKey string, coins, gems int64, critical bool) error {
	var crit int64
	if critical {
		crit = 1
	}
	_, err := t.tx.Exec(ctx, `
		INSERT INTO production_stats (owner_id, variant_key, ticks, coins, gems, criticals)
		VALUES ($1, $2, 1, $3, $4, $5)
		ON CONFLICT (owner_id, variant_key) DO UPDATE SET
			ticks = production_stats.ticks + 1,
			coins = production_stats.coins + EXCLUDED.coins,
			gems = production_stats.gems + EXCLUDED.gems,
			criticals = production_stats.criticals + EXCLUDED.criticals,
			last_tick_at = NOW()`, ownerID, variantKey, coins, gems, crit)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToRecordStats, err)
	}
	return nil
}

// Balance returns an owner's currency balance, zero when nothing was credited yet
func (s *Store) Balance(ctx context.Context, ownerID string) (coins, gems int64, err error) {
	err = s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(coins), 0)::BIGINT, COALESCE(SUM(gems), 0)::BIGINT
		FROM owner_balances WHERE owner_id = $1`, ownerID).Scan(&coins, &gems)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", ErrMsgFailedToGetBalance, err)
	}
	return coins, gems, nil
}
