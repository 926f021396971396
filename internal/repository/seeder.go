package repository

import (
	"context"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
)

// Seeder performs the writes that belong to collaborators outside the engine:
// grants, building upgrades, boosts, seasons and prestige. Dev tooling and
// tests use it to set up owners.
type Seeder interface {
	GrantProducers(ctx context.Context, ownerID string, variant domain.Variant, quantity int) error
	SetBuildingLevel(ctx context.Context, ownerID string, kind domain.BuildingKind, level int) error
	AddBoost(ctx context.Context, boost domain.ActiveBoost) error
	StartSeason(ctx context.Context, seasonType string, startedAt time.Time, expiresAt *time.Time) error
	SetPrestigeLevel(ctx context.Context, ownerID string, level int) error
	SetCapacityBonus(ctx context.Context, ownerID string, bonus int) error
}
