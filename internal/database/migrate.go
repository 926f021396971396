package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the embedded goose migrations
func Migrations() (fs.FS, error) {
	return fs.Sub(migrationsFS, "migrations")
}

// Migrate applies every pending migration to the database behind pool
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrations, err := Migrations()
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLoadMigrations, err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLoadMigrations, err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
	}

	if len(results) == 0 {
		slog.Default().Info(LogMsgMigrationsUpToDate)
		return nil
	}
	for _, r := range results {
		slog.Default().Info(LogMsgMigrationApplied,
			"version", r.Source.Version,
			"file", r.Source.Path,
			"duration", r.Duration)
	}
	return nil
}
