package domain

import "time"

// Currency identifies one of the two produced currencies
type Currency string

// Currencies
const (
	CurrencyCoins Currency = "coins"
	CurrencyGems  Currency = "gems"
)

// BoostCategory selects which currency a boost applies to
type BoostCategory string

// Boost categories
const (
	BoostCategoryCoins  BoostCategory = "coins"
	BoostCategoryGems   BoostCategory = "gems"
	BoostCategoryIncome BoostCategory = "income" // both currencies
)

// Applies reports whether a boost of this category affects the given currency
func (c BoostCategory) Applies(currency Currency) bool {
	switch c {
	case BoostCategoryIncome:
		return true
	case BoostCategoryCoins:
		return currency == CurrencyCoins
	case BoostCategoryGems:
		return currency == CurrencyGems
	default:
		return false
	}
}

// BuildingKind identifies an upgradeable owner building
type BuildingKind string

// Building kinds that feed the production pipeline
const (
	BuildingMint           BuildingKind = "mint"            // coin income
	BuildingGemMine        BuildingKind = "gem_mine"        // gem income
	BuildingEventAmplifier BuildingKind = "event_amplifier" // amplifies season effects
	BuildingLuckyShrine    BuildingKind = "lucky_shrine"    // critical chance
)

// BuildingLevel is the upgrade level of one building for one owner
type BuildingLevel struct {
	OwnerID string       `json:"owner_id"`
	Kind    BuildingKind `json:"kind"`
	Level   int          `json:"level"`
}

// ActiveBoost is a time-boxed multiplier granted to an owner
type ActiveBoost struct {
	OwnerID    string        `json:"owner_id"`
	Type       string        `json:"type"`
	Source     string        `json:"source"`
	Category   BoostCategory `json:"category"`
	Multiplier float64       `json:"multiplier"`
	ExpiresAt  *time.Time    `json:"expires_at,omitempty"`
}

// IsActive reports whether the boost applies at the given instant.
// A boost with no expiry stays active until superseded.
func (b ActiveBoost) IsActive(at time.Time) bool {
	return b.ExpiresAt == nil || at.Before(*b.ExpiresAt)
}

// SeasonState is a global season or weather effect
type SeasonState struct {
	Type      string     `json:"type"`
	StartedAt time.Time  `json:"started_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Active    bool       `json:"active"`
}

// IsActive reports whether the season applies at the given instant
func (s SeasonState) IsActive(at time.Time) bool {
	if !s.Active {
		return false
	}
	return s.ExpiresAt == nil || at.Before(*s.ExpiresAt)
}

// Multipliers is the pipeline output for one tick
type Multipliers struct {
	Coin     float64  `json:"coin"`
	Gem      float64  `json:"gem"`
	Critical bool     `json:"critical"`
	Degraded []string `json:"degraded,omitempty"` // sources treated as neutral after a read error
}

// TickResult is the reward committed by one tick
type TickResult struct {
	Key         AssignmentKey `json:"key"`
	Quantity    int           `json:"quantity"`
	Coins       int64         `json:"coins"`
	Gems        int64         `json:"gems"`
	Multipliers Multipliers   `json:"multipliers"`
	At          time.Time     `json:"at"`
}
