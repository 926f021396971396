package memory

import (
	"context"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
)

// GrantProducers records a new grant and adds the units to Available as a new row
func (s *Store) GrantProducers(ctx context.Context, ownerID string, variant domain.Variant, quantity int) error {
	return s.update(ctx, func(st *state) error {
		st.nextRowID++
		st.available[st.nextRowID] = domain.AvailableEntry{
			RowID:    st.nextRowID,
			OwnerID:  ownerID,
			Variant:  variant,
			Quantity: quantity,
		}
		st.grants[domain.NewAssignmentKey(ownerID, variant)] += quantity
		return nil
	})
}

// AddAvailableRow inserts a raw Available row without touching grant records
func (s *Store) AddAvailableRow(ctx context.Context, ownerID string, variant domain.Variant, quantity int) (int64, error) {
	var id int64
	err := s.update(ctx, func(st *state) error {
		st.nextRowID++
		id = st.nextRowID
		st.available[id] = domain.AvailableEntry{RowID: id, OwnerID: ownerID, Variant: variant, Quantity: quantity}
		return nil
	})
	return id, err
}

// PutAssigned writes an Assigned entry directly, bypassing the transfer operations
func (s *Store) PutAssigned(ctx context.Context, entry domain.AssignedEntry) error {
	return s.update(ctx, func(st *state) error {
		st.assigned[entry.Key()] = entry
		return nil
	})
}

// RemoveOwnership drops every Available row and grant record of a variant,
// as a trade or consumption outside the ledger would
func (s *Store) RemoveOwnership(ctx context.Context, ownerID, variantKey string) error {
	return s.update(ctx, func(st *state) error {
		for _, row := range st.availableRows(ownerID, variantKey) {
			delete(st.available, row.RowID)
		}
		delete(st.grants, domain.AssignmentKey{OwnerID: ownerID, VariantKey: variantKey})
		return nil
	})
}

// SetBuildingLevel sets one building level of an owner
func (s *Store) SetBuildingLevel(ctx context.Context, ownerID string, kind domain.BuildingKind, level int) error {
	return s.update(ctx, func(st *state) error {
		if st.buildings[ownerID] == nil {
			st.buildings[ownerID] = make(map[domain.BuildingKind]int)
		}
		st.buildings[ownerID][kind] = level
		return nil
	})
}

// AddBoost grants a boost, replacing any boost with the same type and source
func (s *Store) AddBoost(ctx context.Context, boost domain.ActiveBoost) error {
	return s.update(ctx, func(st *state) error {
		boosts := st.boosts[boost.OwnerID][:0:0]
		for _, b := range st.boosts[boost.OwnerID] {
			if b.Type != boost.Type || b.Source != boost.Source {
				boosts = append(boosts, b)
			}
		}
		st.boosts[boost.OwnerID] = append(boosts, boost)
		return nil
	})
}

// StartSeason activates a global season
func (s *Store) StartSeason(ctx context.Context, seasonType string, startedAt time.Time, expiresAt *time.Time) error {
	return s.update(ctx, func(st *state) error {
		st.seasons[seasonType] = domain.SeasonState{
			Type:      seasonType,
			StartedAt: startedAt,
			ExpiresAt: expiresAt,
			Active:    true,
		}
		return nil
	})
}

// SetPrestigeLevel sets an owner's prestige level
func (s *Store) SetPrestigeLevel(ctx context.Context, ownerID string, level int) error {
	return s.update(ctx, func(st *state) error {
		st.prestige[ownerID] = level
		return nil
	})
}

// SetCapacityBonus sets the slots an owner bought with upgrades
func (s *Store) SetCapacityBonus(ctx context.Context, ownerID string, bonus int) error {
	return s.update(ctx, func(st *state) error {
		st.upgrades[ownerID] = bonus
		return nil
	})
}

// SeasonCount returns the number of stored seasons, expired ones included
func (s *Store) SeasonCount() int {
	var n int
	s.read(func(st *state) { n = len(st.seasons) })
	return n
}
