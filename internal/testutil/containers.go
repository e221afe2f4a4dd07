// Package testutil starts throwaway Postgres and RustFS containers for
// integration tests. Containers and pools are released through t.Cleanup.
package testutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	RustFSAccessKey = "rustfsadmin"
	RustFSSecretKey = "rustfsadmin"

	pgUser     = "geomed"
	pgPassword = "geomed"
	pgDatabase = "geomed"
)

// Container is a started container and the host address of its exposed port.
type Container struct {
	testcontainers.Container
	Host string
	Port string
}

func start(ctx context.Context, t *testing.T, req testcontainers.ContainerRequest, port string) *Container {
	t.Helper()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start %s: %v", req.Image, err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(c); err != nil {
			t.Logf("failed to terminate %s: %v", req.Image, err)
		}
	})

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get %s host: %v", req.Image, err)
	}
	mapped, err := c.MappedPort(ctx, port)
	if err != nil {
		t.Fatalf("failed to get %s port: %v", req.Image, err)
	}
	return &Container{Container: c, Host: host, Port: mapped.Port()}
}

// Postgres is a running PostgreSQL container.
type Postgres struct {
	*Container
}

// StartPostgres starts PostgreSQL 17 and waits until it accepts connections.
func StartPostgres(ctx context.Context, t *testing.T) *Postgres {
	t.Helper()
	c := start(ctx, t, testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     pgUser,
			"POSTGRES_PASSWORD": pgPassword,
			"POSTGRES_DB":       pgDatabase,
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		).WithStartupTimeout(60 * time.Second),
	}, "5432")
	return &Postgres{Container: c}
}

// URL returns the connection URL of the container database.
func (p *Postgres) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, p.Host, p.Port, pgDatabase)
}

// NewTestPool applies the migrations in migrationsDir with golang-migrate, the
// same way geomedd serve does, and returns a pool closed at test cleanup.
func NewTestPool(ctx context.Context, t *testing.T, pg *Postgres, migrationsDir string) *pgxpool.Pool {
	t.Helper()
	if err := Migrate(pg.URL(), migrationsDir); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	var pool *pgxpool.Pool
	var err error
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err = pgxpool.New(ctx, pg.URL())
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
		}
		time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// Migrate runs every up migration found in dir.
func Migrate(databaseURL, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+filepath.ToSlash(abs), "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Truncate empties the history table between subtests.
func Truncate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, "TRUNCATE TABLE searches"); err != nil {
		return fmt.Errorf("failed to truncate searches: %w", err)
	}
	return nil
}

// RustFS is a running S3-compatible object store.
type RustFS struct {
	*Container
}

// StartRustFS starts RustFS with the fixed test credentials.
func StartRustFS(ctx context.Context, t *testing.T) *RustFS {
	t.Helper()
	c := start(ctx, t, testcontainers.ContainerRequest{
		Image:        "rustfs/rustfs:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"RUSTFS_ACCESS_KEY": RustFSAccessKey,
			"RUSTFS_SECRET_KEY": RustFSSecretKey,
		},
		WaitingFor: wait.ForListeningPort("9000/tcp").WithStartupTimeout(30 * time.Second),
	}, "9000")
	return &RustFS{Container: c}
}

// Endpoint returns the RustFS endpoint URL
func (r *RustFS) Endpoint() string {
	return fmt.Sprintf("http://%s:%s", r.Host, r.Port)
}
