package capacity

import (
	"context"
	"fmt"

	"github.com/osse101/BrandishIdle_Go/internal/config"
	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// Calculate returns the assignment capacity for the given components.
// Negative bonuses are treated as zero.
func Calculate(base, upgradeBonus, prestigeBonus int) int {
	return max(base, 0) + max(upgradeBonus, 0) + max(prestigeBonus, 0)
}

// Calculator resolves an owner's capacity from the capacity source and the production tables
type Calculator struct {
	source repository.CapacitySource
	tables *config.ProductionTables
}

// NewCalculator creates a new capacity calculator
func NewCalculator(source repository.CapacitySource, tables *config.ProductionTables) *Calculator {
	return &Calculator{
		source: source,
		tables: tables,
	}
}

// Capacity returns the breakdown of an owner's slots. Used is left at zero;
// callers that know the assigned total fill it in.
func (c *Calculator) Capacity(ctx context.Context, ownerID string) (domain.CapacityInfo, error) {
	upgrade, err := c.source.CapacityBonus(ctx, ownerID)
	if err != nil {
		return domain.CapacityInfo{}, fmt.Errorf("%s: %w", ErrMsgFailedToGetUpgradeBonus, err)
	}

	level, err := c.source.GetPrestigeLevel(ctx, ownerID)
	if err != nil {
		return domain.CapacityInfo{}, fmt.Errorf("%s: %w", ErrMsgFailedToGetPrestigeLevel, err)
	}

	info := domain.CapacityInfo{
		OwnerID:       ownerID,
		Base:          c.tables.Capacity.Base,
		UpgradeBonus:  upgrade,
		PrestigeBonus: c.tables.PrestigeSlotBonus(level),
	}
	info.Total = Calculate(info.Base, info.UpgradeBonus, info.PrestigeBonus)
	return info, nil
}
