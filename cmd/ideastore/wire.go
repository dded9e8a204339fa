package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hpungsan/ideastore/internal/blob"
	"github.com/hpungsan/ideastore/internal/config"
	"github.com/hpungsan/ideastore/internal/db"
	"github.com/hpungsan/ideastore/internal/ops"
	"github.com/hpungsan/ideastore/internal/pgstore"
)

// openRepository opens the configured metadata store and applies its migrations.
// The returned func releases it.
func openRepository(ctx context.Context, cfg config.DatabaseConfig) (ops.EntryRepository, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if _, err := pgstore.Migrate(ctx, cfg.URL); err != nil {
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		pool, err := pgstore.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return pgstore.NewRepository(pool), pool.Close, nil

	case config.DriverSQLite:
		database, err := db.Init(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		db.ConfigurePool(database, cfg)
		return db.NewRepository(database), func() { database.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// openBlobStore creates the configured content store.
func openBlobStore(ctx context.Context, cfg config.BlobConfig) (ops.BlobStore, error) {
	switch cfg.Backend {
	case config.BackendDrive:
		return blob.NewDriveStore(ctx, cfg.Drive)
	case config.BackendS3:
		return blob.NewS3Store(ctx, cfg.S3)
	case config.BackendMemory:
		return blob.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}

// buildService wires the repository and blob store into an ops.Service.
func buildService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ops.Service, func(), error) {
	repo, closeRepo, err := openRepository(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	blobs, err := openBlobStore(ctx, cfg.Blob)
	if err != nil {
		closeRepo()
		return nil, nil, err
	}

	logger.Info("stores ready",
		slog.String("database", cfg.Database.Driver),
		slog.String("blob", cfg.Blob.Backend),
	)

	svc := ops.NewService(repo, blobs, ops.Options{
		DefaultTags:     cfg.Entry.Tags(),
		MaxContentBytes: cfg.Entry.MaxContentBytes,
		Logger:          logger,
	})
	return svc, closeRepo, nil
}
