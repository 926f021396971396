package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
)

// GetActiveBoosts returns the owner's boosts active at the instant
func (s *Store) GetActiveBoosts(ctx context.Context, ownerID string, at time.Time) ([]domain.ActiveBoost, error) {
	rows, err := s.db.Query(ctx, `
		SELECT boost_type, source, category, multiplier, expires_at
		FROM active_boosts
		WHERE owner_id = $1 AND (expires_at IS NULL OR expires_at > $2)
		ORDER BY boost_type, source`, ownerID, at)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBoosts, err)
	}
	defer rows.Close()

	var boosts []domain.ActiveBoost
	for rows.Next() {
		b := domain.ActiveBoost{OwnerID: ownerID}
		var category string
		if err := rows.Scan(&b.Type, &b.Source, &category, &b.Multiplier, &b.ExpiresAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBoosts, err)
		}
		b.Category = domain.BoostCategory(category)
		boosts = append(boosts, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBoosts, err)
	}
	return boosts, nil
}

// GetBuildingLevels returns every building level of an owner
func (s *Store) GetBuildingLevels(ctx context.Context, ownerID string) (map[domain.BuildingKind]int, error) {
	rows, err := s.db.Query(ctx, `SELECT kind, level FROM building_levels WHERE owner_id = $1`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBuildings, err)
	}
	defer rows.Close()

	levels := make(map[domain.BuildingKind]int)
	for rows.Next() {
		var (
			kind  string
			level int
		)
		if err := rows.Scan(&kind, &level); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBuildings, err)
		}
		levels[domain.BuildingKind(kind)] = level
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBuildings, err)
	}
	return levels, nil
}

// GetActiveSeasons returns the seasons active at the instant, oldest first
func (s *Store) GetActiveSeasons(ctx context.Context, at time.Time) ([]domain.SeasonState, error) {
	rows, err := s.db.Query(ctx, `
		SELECT season_type, started_at, expires_at
		FROM season_states
		WHERE active AND (expires_at IS NULL OR expires_at > $1)
		ORDER BY started_at`, at)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSeasons, err)
	}
	defer rows.Close()

	var seasons []domain.SeasonState
	for rows.Next() {
		season := domain.SeasonState{Active: true}
		if err := rows.Scan(&season.Type, &season.StartedAt, &season.ExpiresAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSeasons, err)
		}
		seasons = append(seasons, season)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSeasons, err)
	}
	return seasons, nil
}

// GetPrestigeLevel returns the owner's prestige level
func (s *Store) GetPrestigeLevel(ctx context.Context, ownerID string) (int, error) {
	var level int
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(level), 0)::INTEGER FROM owner_prestige WHERE owner_id = $1`, ownerID).Scan(&level)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToGetPrestige, err)
	}
	return level, nil
}

// CapacityBonus returns the slots an owner bought with upgrades
func (s *Store) CapacityBonus(ctx context.Context, ownerID string) (int, error) {
	var bonus int
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(capacity_bonus), 0)::INTEGER FROM owner_upgrades WHERE owner_id = $1`, ownerID).Scan(&bonus)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToGetUpgrades, err)
	}
	return bonus, nil
}

// DeleteExpiredSeasons removes seasons that ended before the instant
func (s *Store) DeleteExpiredSeasons(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM season_states WHERE expires_at IS NOT NULL AND expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToDeleteSeasons, err)
	}
	return tag.RowsAffected(), nil
}
