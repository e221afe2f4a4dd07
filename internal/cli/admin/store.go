package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cloo-solutions/geomed/internal/config"
	"github.com/cloo-solutions/geomed/internal/database"
	"github.com/cloo-solutions/geomed/internal/repository"
	"github.com/cloo-solutions/geomed/internal/service"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const defaultMigrationsSource = "file://migrations"

type storeOptions struct {
	Migrate          bool
	MigrationsSource string
}

// openStore returns the Postgres history store when a database is configured
// and the in-memory store otherwise. The returned func releases the pool.
func openStore(ctx context.Context, cfg *config.Config, opts storeOptions, logger *slog.Logger) (service.SearchRepositoryInterface, func(), error) {
	if !cfg.HasDatabase() {
		logger.Warn("GEOMED_DATABASE_URL not set, using in-memory history store")
		return repository.NewMemorySearchRepository(), func() {}, nil
	}

	if opts.Migrate {
		source := opts.MigrationsSource
		if source == "" {
			source = defaultMigrationsSource
		}
		if err := runMigrations(cfg.DatabaseURL, source, logger); err != nil {
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("connected to database", "max_conns", cfg.DBMaxConns)

	return repository.NewSearchRepository(pool), pool.Close, nil
}

func runMigrations(databaseURL, source string, logger *slog.Logger) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Info("migrations: no migrations applied")
	case err != nil:
		return fmt.Errorf("failed to get migration version: %w", err)
	case dirty:
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	default:
		logger.Info("migrations: database is up to date", "version", version)
	}
	return nil
}
