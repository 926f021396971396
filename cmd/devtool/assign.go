package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
)

type AssignCommand struct{}

func (c *AssignCommand) Name() string {
	return "assign"
}

func (c *AssignCommand) Description() string {
	return "Move producers: assign <owner> in|out <variant-key> <qty> | rarity <rarity> | all-out"
}

func (c *AssignCommand) Run(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: assign <owner> in|out <variant-key> <qty> | rarity <rarity> | all-out")
	}
	owner, action := args[0], args[1]

	ctx := context.Background()
	engine, closeEngine, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer closeEngine()
	svc := engine.Ledger

	switch action {
	case "in", "out":
		if len(args) < 4 {
			return fmt.Errorf("variant key and quantity required")
		}
		variant, err := domain.ParseVariantKey(args[2])
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid quantity %q: %w", args[3], err)
		}

		req := domain.TransferRequest{OwnerID: owner, Variant: variant, Quantity: qty}
		var res *domain.TransferResult
		if action == "in" {
			res, err = svc.TransferIn(ctx, req)
		} else {
			res, err = svc.TransferOut(ctx, req)
		}
		if err != nil {
			return err
		}
		PrintSuccess("%s %d x %s, %d now assigned", action, res.Transferred, variant.DisplayName(), res.Remaining)

	case "rarity":
		if len(args) < 3 {
			return fmt.Errorf("rarity required")
		}
		res, err := svc.AssignByRarity(ctx, owner, domain.Rarity(args[2]))
		if err != nil {
			return err
		}
		printBulk(res)

	case "all-out":
		res, err := svc.TransferAll(ctx, owner)
		if err != nil {
			return err
		}
		printBulk(res)

	default:
		return fmt.Errorf("unknown action: %s", action)
	}
	return nil
}

func printBulk(res *domain.BulkTransferResult) {
	for _, v := range res.Variants {
		PrintInfo("%s: %d moved", v.Variant.DisplayName(), v.Transferred)
	}
	PrintSuccess("%d producers moved for %s", res.Transferred, res.OwnerID)
}
