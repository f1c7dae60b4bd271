package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// RunMigrations brings the schema up to date.
//
// Postgres migrations run over a dedicated connection that is closed
// afterwards, so the main pool is left untouched. SQLite migrations reuse
// conn, because an in-memory database is private to its connection.
func RunMigrations(driver, dsn string, conn *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	var (
		target  database.Driver
		cleanup func()
	)
	switch driver {
	case DriverPostgres:
		migrateDB, err := sql.Open(DriverPostgres, dsn)
		if err != nil {
			return fmt.Errorf("open migration database: %w", err)
		}
		target, err = postgres.WithInstance(migrateDB, &postgres.Config{})
		if err != nil {
			migrateDB.Close()
			return fmt.Errorf("create postgres driver: %w", err)
		}
		cleanup = func() {
			src.Close()
			target.Close()
		}
	case DriverSQLite:
		target, err = sqlite.WithInstance(conn, &sqlite.Config{})
		if err != nil {
			return fmt.Errorf("create sqlite driver: %w", err)
		}
		// Closing the migrate driver would close conn.
		cleanup = func() { src.Close() }
	default:
		return fmt.Errorf("unsupported driver %q", driver)
	}
	defer cleanup()

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
