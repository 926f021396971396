package repository

import (
	"context"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
)

// Multipliers defines the read-mostly inputs of the multiplier pipeline
type Multipliers interface {
	// GetActiveBoosts returns boosts of an owner that have not expired at the given instant
	GetActiveBoosts(ctx context.Context, ownerID string, at time.Time) ([]domain.ActiveBoost, error)

	// GetBuildingLevels returns every building level of an owner
	GetBuildingLevels(ctx context.Context, ownerID string) (map[domain.BuildingKind]int, error)

	// GetActiveSeasons returns global seasons active at the given instant
	GetActiveSeasons(ctx context.Context, at time.Time) ([]domain.SeasonState, error)

	// GetPrestigeLevel returns the owner's prestige level, 0 when never prestiged
	GetPrestigeLevel(ctx context.Context, ownerID string) (int, error)

	// DeleteExpiredSeasons removes seasons that expired before the given instant
	DeleteExpiredSeasons(ctx context.Context, before time.Time) (int64, error)
}

// Ownership is the ground truth of which producers an owner holds
type Ownership interface {
	OwnsAny(ctx context.Context, ownerID, variantKey string) (bool, error)
}

// CapacitySource provides the owner-specific inputs of the capacity calculator
type CapacitySource interface {
	// CapacityBonus returns the extra slots bought with upgrades
	CapacityBonus(ctx context.Context, ownerID string) (int, error)
	GetPrestigeLevel(ctx context.Context, ownerID string) (int, error)
}
