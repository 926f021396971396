package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// GrantProducers records a new grant and adds the units to Available as a new row
func (s *Store) GrantProducers(ctx context.Context, ownerID string, variant domain.Variant, quantity int) error {
	variant = domain.NewVariant(variant.Type, variant.Rarity, variant.Trait)
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer repository.SafeRollback(ctx, &storeTx{tx: tx})

	if _, err := insertAvailable(ctx, tx, ownerID, variant, quantity); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToGrantProducers, err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO producer_grants (owner_id, variant_key, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, variant_key) DO UPDATE SET
			quantity = producer_grants.quantity + EXCLUDED.quantity,
			updated_at = NOW()`, ownerID, variant.Key(), quantity)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToGrantProducers, err)
	}
	return tx.Commit(ctx)
}

// RemoveOwnership drops every Available row and grant record of a variant
func (s *Store) RemoveOwnership(ctx context.Context, ownerID, variantKey string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer repository.SafeRollback(ctx, &storeTx{tx: tx})

	if _, err := tx.Exec(ctx, `DELETE FROM available_producers WHERE owner_id = $1 AND variant_key = $2`, ownerID, variantKey); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToRemoveOwnership, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM producer_grants WHERE owner_id = $1 AND variant_key = $2`, ownerID, variantKey); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToRemoveOwnership, err)
	}
	return tx.Commit(ctx)
}

// SetBuildingLevel sets one building level of an owner
func (s *Store) SetBuildingLevel(ctx context.Context, ownerID string, kind domain.BuildingKind, level int) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO building_levels (owner_id, kind, level) VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, kind) DO UPDATE SET level = EXCLUDED.level`, ownerID, string(kind), level)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSetBuilding, err)
	}
	return nil
}

// AddBoost grants a boost, replacing any boost with the same type and source
func (s *Store) AddBoost(ctx context.Context, boost domain.ActiveBoost) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO active_boosts (owner_id, boost_type, source, category, multiplier, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner_id, boost_type, source) DO UPDATE SET
			category = EXCLUDED.category,
			multiplier = EXCLUDED.multiplier,
			expires_at = EXCLUDED.expires_at`,
		boost.OwnerID, boost.Type, boost.Source, string(boost.Category), boost.Multiplier, boost.ExpiresAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToAddBoost, err)
	}
	return nil
}

// StartSeason activates a global season
func (s *Store) StartSeason(ctx context.Context, seasonType string, startedAt time.Time, expiresAt *time.Time) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO season_states (season_type, started_at, expires_at, active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (season_type) DO UPDATE SET
			started_at = EXCLUDED.started_at,
			expires_at = EXCLUDED.expires_at,
			active = TRUE`, seasonType, startedAt, expiresAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToStartSeason, err)
	}
	return nil
}

// SetPrestigeLevel sets an owner's prestige level
func (s *Store) SetPrestigeLevel(ctx context.Context, ownerID string, level int) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO owner_prestige (owner_id, level) VALUES ($1, $2)
		ON CONFLICT (owner_id) DO UPDATE SET level = EXCLUDED.level`, ownerID, level)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSetPrestige, err)
	}
	return nil
}

// SetCapacityBonus sets the slots an owner bought with upgrades
func (s *Store) SetCapacityBonus(ctx context.Context, ownerID string, bonus int) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO owner_upgrades (owner_id, capacity_bonus) VALUES ($1, $2)
		ON CONFLICT (owner_id) DO UPDATE SET capacity_bonus = EXCLUDED.capacity_bonus`, ownerID, bonus)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSetCapacity, err)
	}
	return nil
}
