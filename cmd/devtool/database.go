package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/BrandishIdle_Go/internal/bootstrap"
	"github.com/osse101/BrandishIdle_Go/internal/config"
	"github.com/osse101/BrandishIdle_Go/internal/database"
)

// SetupCommand creates the configured database if missing and migrates it
type SetupCommand struct{}

func (c *SetupCommand) Name() string {
	return "db-setup"
}

func (c *SetupCommand) Description() string {
	return "Create the configured database if it does not exist, then migrate it"
}

func (c *SetupCommand) Run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx := context.Background()

	conn, err := pgx.Connect(ctx, cfg.GetServerConnString())
	if err != nil {
		return fmt.Errorf("unable to connect to postgres database: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	if err := conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}
	if exists {
		PrintInfo("Database %s already exists", cfg.DBName)
	} else {
		if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{cfg.DBName}.Sanitize()); err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		PrintSuccess("Database %s created", cfg.DBName)
	}

	return migrateUp(ctx, cfg)
}

// ResetCommand drops and recreates the configured database
type ResetCommand struct{}

func (c *ResetCommand) Name() string {
	return "db-reset"
}

func (c *ResetCommand) Description() string {
	return "Drop and recreate the configured database (requires --yes)"
}

func (c *ResetCommand) Run(args []string) error {
	if len(args) < 1 || args[0] != "--yes" {
		return fmt.Errorf("refusing to drop the database without --yes")
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx := context.Background()

	conn, err := pgx.Connect(ctx, cfg.GetServerConnString())
	if err != nil {
		return fmt.Errorf("unable to connect to postgres database: %w", err)
	}
	defer conn.Close(ctx)

	PrintInfo("Terminating existing connections to %s", cfg.DBName)
	if _, err := conn.Exec(ctx, `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()`, cfg.DBName); err != nil {
		PrintError("Failed to terminate connections: %v", err)
	}

	name := pgx.Identifier{cfg.DBName}.Sanitize()
	if _, err := conn.Exec(ctx, "DROP DATABASE IF EXISTS "+name); err != nil {
		return fmt.Errorf("failed to drop database: %w", err)
	}
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+name); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	PrintSuccess("Database %s recreated", cfg.DBName)

	return migrateUp(ctx, cfg)
}

func migrateUp(ctx context.Context, cfg *config.Config) error {
	pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, bootstrap.DBMaxConnIdleTime, bootstrap.DBMaxConnLifetime)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}
	PrintSuccess("Migrations applied")
	return nil
}
