package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratelite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations
var migrations embed.FS

// Migrate brings the schema up to date using the migrations embedded for the
// driver db was opened with. The migrate instance is not closed since closing
// it would close db as well.
func Migrate(db *sqlx.DB) error {
	driverName := db.DriverName()

	src, err := iofs.New(migrations, "migrations/"+driverName)
	if err != nil {
		return fmt.Errorf("loading %s migrations: %w", driverName, err)
	}

	var drv migratedb.Driver
	switch driverName {
	case DriverPostgres:
		drv, err = migratepg.WithInstance(db.DB, &migratepg.Config{})
	case DriverSQLite:
		drv, err = migratelite.WithInstance(db.DB, &migratelite.Config{})
	default:
		return fmt.Errorf("no migrations for driver %q", driverName)
	}
	if err != nil {
		return fmt.Errorf("preparing migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, drv)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
