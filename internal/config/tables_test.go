package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
)

func TestDefaultProductionTablesAreValid(t *testing.T) {
	require.NoError(t, DefaultProductionTables().Validate())
}

func TestBaseRates(t *testing.T) {
	tables := DefaultProductionTables()

	tests := []struct {
		name      string
		variant   domain.Variant
		wantCoins int64
		wantGems  int64
	}{
		{"plain rare", domain.NewVariant("dragon", domain.RarityRare, domain.TraitNone), 100, 20},
		{"golden rare doubles", domain.NewVariant("dragon", domain.RarityRare, domain.TraitGolden), 200, 40},
		{"void common x100", domain.NewVariant("cat", domain.RarityCommon, domain.TraitVoid), 1000, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coins, gems := tables.BaseRates(tt.variant)
			assert.Equal(t, tt.wantCoins, coins)
			assert.Equal(t, tt.wantGems, gems)
		})
	}
}

func TestPrestigeLookupsAreMonotone(t *testing.T) {
	tables := DefaultProductionTables()

	prev := 0.0
	for level := -1; level < 20; level++ {
		m := tables.PrestigeMultiplier(level)
		assert.GreaterOrEqual(t, m, prev, "level %d", level)
		prev = m
	}
	assert.Equal(t, 0, tables.PrestigeSlotBonus(0))
	assert.Equal(t, 6, tables.PrestigeSlotBonus(100))
}

func TestLoadProductionTables(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		tables, err := LoadProductionTables(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultProductionTables().Capacity.Base, tables.Capacity.Base)
	})

	t.Run("file overrides selected sections", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "production.yaml")
		content := `
rarity_rates:
  rare: {coins: 120, gems: 30}
capacity:
  base: 5
  prestige_slots: [0, 2]
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		tables, err := LoadProductionTables(path)
		require.NoError(t, err)

		coins, gems := tables.BaseRates(domain.NewVariant("dragon", domain.RarityRare, domain.TraitNone))
		assert.Equal(t, int64(120), coins)
		assert.Equal(t, int64(30), gems)
		assert.Equal(t, 5, tables.Capacity.Base)
		assert.Equal(t, 2, tables.PrestigeSlotBonus(3))
		// untouched section keeps its default
		assert.Equal(t, 3.0, tables.Critical.Multiplier)
	})

	t.Run("decreasing prestige table is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "production.yaml")
		require.NoError(t, os.WriteFile(path, []byte("prestige_multipliers: [1, 2, 1.5]\n"), 0o600))

		_, err := LoadProductionTables(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "never decrease")
	})

	t.Run("schema violations are rejected before decoding", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "production.yaml")
		require.NoError(t, os.WriteFile(path, []byte("critical:\n  chance_cap: 2\n"), 0o600))

		_, err := LoadProductionTables(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid production tables")
	})
}
