package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/validation"
)

// RateConfig is the per-tick base production of one producer
type RateConfig struct {
	Coins int64 `yaml:"coins"`
	Gems  int64 `yaml:"gems"`
}

// BuildingConfig describes the income curve of one building kind
type BuildingConfig struct {
	LevelFactor float64 `yaml:"level_factor"`
	MaxLevel    int     `yaml:"max_level"`
}

// SeasonEffect is the global multiplier a season applies while active
type SeasonEffect struct {
	Coins float64 `yaml:"coins"`
	Gems  float64 `yaml:"gems"`
}

// CriticalConfig configures the stochastic critical-hit roll
type CriticalConfig struct {
	ChancePerLevel float64 `yaml:"chance_per_level"`
	ChanceCap      float64 `yaml:"chance_cap"`
	Multiplier     float64 `yaml:"multiplier"`
}

// CapacityConfig configures assignment slots
type CapacityConfig struct {
	Base int `yaml:"base"`

	// PrestigeSlots[i] is the slot bonus unlocked at prestige level i
	PrestigeSlots []int `yaml:"prestige_slots"`
}

// ProductionTables are the read-only, externally managed tables behind
// base rates, building curves, seasons, critical hits, prestige and capacity.
type ProductionTables struct {
	RarityRates      map[domain.Rarity]RateConfig           `yaml:"rarity_rates"`
	TraitMultipliers map[domain.Trait]float64               `yaml:"trait_multipliers"`
	Buildings        map[domain.BuildingKind]BuildingConfig `yaml:"buildings"`
	Seasons          map[string]SeasonEffect                `yaml:"seasons"`
	Critical         CriticalConfig                         `yaml:"critical"`
	Prestige         []float64                              `yaml:"prestige_multipliers"`
	Capacity         CapacityConfig                         `yaml:"capacity"`
}

// DefaultProductionTables returns the built-in tables
func DefaultProductionTables() *ProductionTables {
	return &ProductionTables{
		RarityRates: map[domain.Rarity]RateConfig{
			domain.RarityCommon:    {Coins: 10, Gems: 1},
			domain.RarityUncommon:  {Coins: 25, Gems: 3},
			domain.RarityRare:      {Coins: 100, Gems: 20},
			domain.RarityEpic:      {Coins: 250, Gems: 50},
			domain.RarityLegendary: {Coins: 1000, Gems: 150},
			domain.RarityMythical:  {Coins: 5000, Gems: 600},
		},
		TraitMultipliers: map[domain.Trait]float64{
			domain.TraitNone:    1,
			domain.TraitGolden:  2,
			domain.TraitRainbow: 5,
			domain.TraitShiny:   25,
			domain.TraitVoid:    100,
		},
		Buildings: map[domain.BuildingKind]BuildingConfig{
			domain.BuildingMint:           {LevelFactor: 0.1, MaxLevel: 20},
			domain.BuildingGemMine:        {LevelFactor: 0.2, MaxLevel: 20},
			domain.BuildingEventAmplifier: {LevelFactor: 0.25, MaxLevel: 10},
			domain.BuildingLuckyShrine:    {LevelFactor: 0, MaxLevel: 25},
		},
		Seasons: map[string]SeasonEffect{
			"spring":       {Coins: 1.25, Gems: 1},
			"harvest_moon": {Coins: 1.5, Gems: 1.25},
			"thunderstorm": {Coins: 1, Gems: 1.5},
			"blizzard":     {Coins: 0.9, Gems: 1.2},
		},
		Critical: CriticalConfig{
			ChancePerLevel: 0.01,
			ChanceCap:      0.25,
			Multiplier:     3,
		},
		Prestige: []float64{1, 1.5, 2, 3, 5, 8, 12},
		Capacity: CapacityConfig{
			Base:          3,
			PrestigeSlots: []int{0, 1, 2, 3, 4, 5, 6},
		},
	}
}

// LoadProductionTables reads tables from a YAML file. Sections missing from the
// file keep their built-in defaults; a missing file yields the defaults.
func LoadProductionTables(path string) (*ProductionTables, error) {
	tables := DefaultProductionTables()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return tables, nil
		}
		return nil, fmt.Errorf("failed to read production tables: %w", err)
	}

	if err := validation.NewSchemaValidator().ValidateYAML(data, validation.SchemaProductionTables); err != nil {
		return nil, fmt.Errorf("invalid production tables %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, tables); err != nil {
		return nil, fmt.Errorf("failed to parse production tables: %w", err)
	}

	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return tables, nil
}

// Validate checks the invariants the engine relies on
func (t *ProductionTables) Validate() error {
	for _, rarity := range domain.Rarities {
		rate, ok := t.RarityRates[rarity]
		if !ok {
			return fmt.Errorf("production tables: missing rate for rarity %q", rarity)
		}
		if rate.Coins < 0 || rate.Gems < 0 {
			return fmt.Errorf("production tables: negative rate for rarity %q", rarity)
		}
	}
	for trait, mult := range t.TraitMultipliers {
		if !trait.IsValid() {
			return fmt.Errorf("production tables: unknown trait %q", trait)
		}
		if mult <= 0 {
			return fmt.Errorf("production tables: trait %q multiplier must be positive", trait)
		}
	}
	for kind, b := range t.Buildings {
		if b.MaxLevel < 0 || b.LevelFactor < 0 {
			return fmt.Errorf("production tables: invalid curve for building %q", kind)
		}
	}
	if t.Critical.ChanceCap < 0 || t.Critical.ChanceCap > 1 {
		return fmt.Errorf("production tables: critical chance cap must be within [0,1]")
	}
	if t.Critical.Multiplier < 1 {
		return fmt.Errorf("production tables: critical multiplier must be at least 1")
	}
	if len(t.Prestige) == 0 {
		return fmt.Errorf("production tables: prestige table is empty")
	}
	for i := 1; i < len(t.Prestige); i++ {
		if t.Prestige[i] < t.Prestige[i-1] {
			return fmt.Errorf("production tables: prestige multipliers must never decrease (level %d)", i)
		}
	}
	if t.Capacity.Base < 0 {
		return fmt.Errorf("production tables: base capacity must not be negative")
	}
	return nil
}

// BaseRates returns the per-tick coin and gem rate of a variant,
// with the trait multiplier already applied
func (t *ProductionTables) BaseRates(v domain.Variant) (coins, gems int64) {
	rate := t.RarityRates[v.Rarity]
	mult, ok := t.TraitMultipliers[v.Trait]
	if !ok {
		mult = 1
	}
	return int64(math.Round(float64(rate.Coins) * mult)), int64(math.Round(float64(rate.Gems) * mult))
}

// PrestigeMultiplier looks up the multiplier for a prestige level.
// Levels past the end of the table keep the last value.
func (t *ProductionTables) PrestigeMultiplier(level int) float64 {
	if len(t.Prestige) == 0 {
		return 1
	}
	if level <= 0 {
		return t.Prestige[0]
	}
	if level >= len(t.Prestige) {
		return t.Prestige[len(t.Prestige)-1]
	}
	return t.Prestige[level]
}

// PrestigeSlotBonus looks up the capacity bonus for a prestige level
func (t *ProductionTables) PrestigeSlotBonus(level int) int {
	slots := t.Capacity.PrestigeSlots
	if len(slots) == 0 || level <= 0 {
		return 0
	}
	if level >= len(slots) {
		return slots[len(slots)-1]
	}
	return slots[level]
}
