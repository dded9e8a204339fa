package pgstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrations returns the embedded goose migration files.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// MigrateResult reports what a Migrate call did.
type MigrateResult struct {
	// Applied lists the versions applied by this call, oldest first
	Applied []int64

	// Version is the schema version after the call, whether or not anything was pending
	Version int64
}

// Migrate applies all pending migrations. goose needs a *sql.DB, so a
// short-lived database/sql handle is opened through the pgx stdlib driver.
func Migrate(ctx context.Context, dsn string) (*MigrateResult, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping migration connection: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, Migrations())
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose up: %w", err)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose version: %w", err)
	}

	out := &MigrateResult{Applied: make([]int64, 0, len(results)), Version: version}
	for _, r := range results {
		out.Applied = append(out.Applied, r.Source.Version)
	}
	return out, nil
}
