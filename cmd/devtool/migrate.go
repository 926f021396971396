package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/osse101/BrandishIdle_Go/internal/bootstrap"
	"github.com/osse101/BrandishIdle_Go/internal/config"
	"github.com/osse101/BrandishIdle_Go/internal/database"
)

type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

func (c *MigrateCommand) Description() string {
	return "Apply or inspect the embedded schema migrations (up, status)"
}

func (c *MigrateCommand) Run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("subcommand required: up, status")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := context.Background()
	pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, bootstrap.DBMaxConnIdleTime, bootstrap.DBMaxConnLifetime)
	if err != nil {
		return err
	}
	defer pool.Close()

	switch args[0] {
	case "up":
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
		PrintSuccess("Schema is up to date")
		return nil

	case "status":
		migrations, err := database.Migrations()
		if err != nil {
			return err
		}
		db := stdlib.OpenDBFromPool(pool)
		defer db.Close()

		provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations)
		if err != nil {
			return fmt.Errorf("failed to create migration provider: %w", err)
		}
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}

		PrintHeader("Migrations")
		for _, s := range statuses {
			fmt.Printf("  %05d  %-8s  %s\n", s.Source.Version, s.State, s.Source.Path)
		}
		return nil

	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}
