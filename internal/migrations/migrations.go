// Package migrations carries the datastore schema for each supported driver.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationsFS embed.FS

// Run performs every migration for the connection's driver.
func Run(dbx *sqlx.DB) error {
	driver := dbx.DriverName()

	d, err := iofs.New(migrationsFS, driver)
	if err != nil {
		return fmt.Errorf("error creating migrations source: %s", err)
	}

	var (
		inst database.Driver
		name string
	)
	switch driver {
	case "sqlite":
		inst, err = sqlite.WithInstance(dbx.DB, &sqlite.Config{})
		name = "sqlite3"
	case "postgres":
		inst, err = postgres.WithInstance(dbx.DB, &postgres.Config{})
		name = "postgres"
	default:
		return fmt.Errorf("no migrations for driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("error creating %s instance for migration: %s", driver, err)
	}

	migrator, err := migrate.NewWithInstance("iofs", d, name, inst)
	if err != nil {
		return fmt.Errorf("error creating migrator: %s", err)
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error migrating: %s", err)
	}
	slog.Info("migrated", slog.String("driver", driver))

	return nil
}
