package main

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
)

type SeedCommand struct{}

func (c *SeedCommand) Name() string {
	return "seed"
}

func (c *SeedCommand) Description() string {
	return "Grant a demo owner producers, buildings, a boost and a season (seed <owner>)"
}

type seedGrant struct {
	variant  domain.Variant
	quantity int
}

var demoGrants = []seedGrant{
	{domain.NewVariant("rat", domain.RarityCommon, domain.TraitNone), 12},
	{domain.NewVariant("cat", domain.RarityUncommon, domain.TraitNone), 6},
	{domain.NewVariant("dragon", domain.RarityRare, domain.TraitNone), 3},
	{domain.NewVariant("dragon", domain.RarityRare, domain.TraitGolden), 1},
	{domain.NewVariant("phoenix", domain.RarityLegendary, domain.TraitShiny), 1},
}

func (c *SeedCommand) Run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("owner ID required")
	}
	owner := args[0]

	ctx := context.Background()
	engine, closeEngine, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer closeEngine()
	store := engine.Store

	PrintHeader("Seeding " + owner)
	for _, g := range demoGrants {
		if err := store.GrantProducers(ctx, owner, g.variant, g.quantity); err != nil {
			return err
		}
		PrintInfo("granted %d x %s", g.quantity, g.variant.DisplayName())
	}

	levels := map[domain.BuildingKind]int{
		domain.BuildingMint:           3,
		domain.BuildingGemMine:        2,
		domain.BuildingEventAmplifier: 1,
		domain.BuildingLuckyShrine:    1,
	}
	for kind, level := range levels {
		if err := store.SetBuildingLevel(ctx, owner, kind, level); err != nil {
			return err
		}
	}

	expires := time.Now().Add(24 * time.Hour)
	if err := store.AddBoost(ctx, domain.ActiveBoost{
		OwnerID:    owner,
		Type:       "income_potion",
		Source:     "devtool",
		Category:   domain.BoostCategoryIncome,
		Multiplier: 1.5,
		ExpiresAt:  &expires,
	}); err != nil {
		return err
	}

	if season := firstSeason(engine.Tables.Seasons); season != "" {
		if err := store.StartSeason(ctx, season, time.Now(), &expires); err != nil {
			return err
		}
		PrintInfo("started season %s", season)
	}

	if err := store.SetPrestigeLevel(ctx, owner, 1); err != nil {
		return err
	}
	if err := store.SetCapacityBonus(ctx, owner, 2); err != nil {
		return err
	}

	PrintSuccess("Seeded %s", owner)
	return nil
}

// firstSeason picks a deterministic configured season
func firstSeason[V any](seasons map[string]V) string {
	var first string
	for name := range seasons {
		if first == "" || name < first {
			first = name
		}
	}
	return first
}
