package main

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/bootstrap"
	"github.com/osse101/BrandishIdle_Go/internal/domain"
)

type InspectCommand struct{}

func (c *InspectCommand) Name() string {
	return "inspect"
}

func (c *InspectCommand) Description() string {
	return "Show an owner's ledgers, capacity, multipliers and recent events (inspect <owner>)"
}

func (c *InspectCommand) Run(args []string) error {
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

	available, err := engine.Ledger.ListAvailable(ctx, owner)
	if err != nil {
		return err
	}
	assigned, err := engine.Ledger.ListAssigned(ctx, owner)
	if err != nil {
		return err
	}
	info, err := engine.Ledger.Capacity(ctx, owner)
	if err != nil {
		return err
	}

	PrintHeader("Available")
	for _, e := range available {
		fmt.Printf("  %-36s %5d\n", e.Variant.Key(), e.Quantity)
	}

	PrintHeader("Assigned")
	for _, e := range assigned {
		fmt.Printf("  %-36s %5d  %6d coins %5d gems per tick\n", e.Variant.Key(), e.Quantity, e.CoinRate, e.GemRate)
	}

	PrintHeader("Capacity")
	fmt.Printf("  %d / %d used (base %d, upgrades %d, prestige %d)\n",
		info.Used, info.Total, info.Base, info.UpgradeBonus, info.PrestigeBonus)

	m := engine.Pipeline.Evaluate(ctx, owner, time.Now())
	PrintHeader("Multipliers")
	fmt.Printf("  coins x%.3f  gems x%.3f  critical chance %.1f%%\n",
		m.Coin, m.Gem, 100*engine.Pipeline.CriticalChance(shrineLevel(ctx, engine.Store, owner)))
	if len(m.Degraded) > 0 {
		PrintError("degraded sources: %v", m.Degraded)
	}

	events, err := engine.Journal.OwnerEvents(ctx, owner, inspectEventLimit)
	if err != nil {
		return err
	}
	PrintHeader("Recent events")
	for _, e := range events {
		fmt.Printf("  %s  %-22s %v\n", e.CreatedAt.Format(time.RFC3339), e.EventType, e.Payload)
	}
	return nil
}

const inspectEventLimit = 10

func shrineLevel(ctx context.Context, store bootstrap.Store, owner string) int {
	levels, err := store.GetBuildingLevels(ctx, owner)
	if err != nil {
		return 0
	}
	return levels[domain.BuildingLuckyShrine]
}
