package pgstore

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/hpungsan/ideastore/internal/config"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// setupTestPool starts one PostgreSQL container per test run, applies the
// embedded migrations, and returns a fresh pool with an empty entries table.
// Set IDEASTORE_PG_TESTS=1 to run; Docker is required.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if os.Getenv("IDEASTORE_PG_TESTS") != "1" || testing.Short() {
		t.Skip("set IDEASTORE_PG_TESTS=1 to run PostgreSQL integration tests")
	}

	once.Do(func() {
		sharedDSN, initErr = startContainerAndMigrate()
	})
	if initErr != nil {
		t.Fatalf("failed to set up test database: %v", initErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := NewPool(ctx, config.DatabaseConfig{URL: sharedDSN, MaxConns: 4})
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE entries`); err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

func startContainerAndMigrate() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "ideas",
			"POSTGRES_PASSWORD": "ideas",
			"POSTGRES_DB":       "ideas",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	dsn := fmt.Sprintf("postgres://ideas:ideas@%s:%s/ideas?sslmode=disable", host, port.Port())

	if _, err := Migrate(ctx, dsn); err != nil {
		return "", err
	}
	return dsn, nil
}
