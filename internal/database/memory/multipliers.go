package memory

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
)

// GetActiveBoosts returns the owner's boosts active at the instant
func (s *Store) GetActiveBoosts(ctx context.Context, ownerID string, at time.Time) ([]domain.ActiveBoost, error) {
	if err := s.fault("GetActiveBoosts"); err != nil {
		return nil, err
	}
	var active []domain.ActiveBoost
	s.read(func(st *state) {
		for _, b := range st.boosts[ownerID] {
			if b.IsActive(at) {
				active = append(active, b)
			}
		}
	})
	return active, nil
}

// GetBuildingLevels returns every building level of an owner
func (s *Store) GetBuildingLevels(ctx context.Context, ownerID string) (map[domain.BuildingKind]int, error) {
	if err := s.fault("GetBuildingLevels"); err != nil {
		return nil, err
	}
	levels := make(map[domain.BuildingKind]int)
	s.read(func(st *state) { maps.Copy(levels, st.buildings[ownerID]) })
	return levels, nil
}

// GetActiveSeasons returns the seasons active at the instant
func (s *Store) GetActiveSeasons(ctx context.Context, at time.Time) ([]domain.SeasonState, error) {
	if err := s.fault("GetActiveSeasons"); err != nil {
		return nil, err
	}
	var active []domain.SeasonState
	s.read(func(st *state) {
		for _, season := range st.seasons {
			if season.IsActive(at) {
				active = append(active, season)
			}
		}
	})
	slices.SortFunc(active, func(a, b domain.SeasonState) int { return a.StartedAt.Compare(b.StartedAt) })
	return active, nil
}

// GetPrestigeLevel returns the owner's prestige level
func (s *Store) GetPrestigeLevel(ctx context.Context, ownerID string) (int, error) {
	if err := s.fault("GetPrestigeLevel"); err != nil {
		return 0, err
	}
	var level int
	s.read(func(st *state) { level = st.prestige[ownerID] })
	return level, nil
}

// CapacityBonus returns the slots an owner bought with upgrades
func (s *Store) CapacityBonus(ctx context.Context, ownerID string) (int, error) {
	if err := s.fault("CapacityBonus"); err != nil {
		return 0, err
	}
	var bonus int
	s.read(func(st *state) { bonus = st.upgrades[ownerID] })
	return bonus, nil
}

// DeleteExpiredSeasons removes seasons that ended before the instant
func (s *Store) DeleteExpiredSeasons(ctx context.Context, before time.Time) (int64, error) {
	if err := s.fault("DeleteExpiredSeasons"); err != nil {
		return 0, err
	}
	var removed int64
	err := s.update(ctx, func(st *state) error {
		for name, season := range st.seasons {
			if season.ExpiresAt != nil && season.ExpiresAt.Before(before) {
				delete(st.seasons, name)
				removed++
			}
		}
		return nil
	})
	return removed, err
}
