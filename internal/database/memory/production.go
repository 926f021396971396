package memory

import (
	"context"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// BeginProductionTx starts a transaction for one tick
func (s *Store) BeginProductionTx(ctx context.Context) (repository.ProductionTx, error) {
	return s.begin(ctx)
}

func (t *tx) CreditBalance(ctx context.Context, ownerID string, coins, gems int64) error {
	if err := t.store.fault("CreditBalance"); err != nil {
		return err
	}
	b := t.st.balances[ownerID]
	b.Coins += coins
	b.Gems += gems
	t.st.balances[ownerID] = b
	return nil
}

func (t *tx) RecordProduction(ctx context.Context, ownerID, variantKey string, coins, gems int64, critical bool) error {
	if err := t.store.fault("RecordProduction"); err != nil {
		return err
	}
	key := domain.AssignmentKey{OwnerID: ownerID, VariantKey: variantKey}
	stat := t.st.stats[key]
	stat.Ticks++
	stat.Coins += coins
	stat.Gems += gems
	if critical {
		stat.Criticals++
	}
	t.st.stats[key] = stat
	return nil
}

// Balance returns an owner's currency balance
func (s *Store) Balance(ownerID string) Balance {
	var b Balance
	s.read(func(st *state) { b = st.balances[ownerID] })
	return b
}

// Stats returns the progress counters of one assignment stream
func (s *Store) Stats(key domain.AssignmentKey) ProductionStat {
	var stat ProductionStat
	s.read(func(st *state) { stat = st.stats[key] })
	return stat
}
