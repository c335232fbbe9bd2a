package database

import (
	"embed"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

//go:embed migrations
var migrationsFS embed.FS

// NewMigrator builds a golang-migrate instance over an already open
// connection, reading the embedded migrations for the given dialect.
// Closing the returned Migrate also closes db.
func NewMigrator(db *sqlx.DB, dialect Dialect) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations/"+string(dialect))
	if err != nil {
		return nil, errors.Wrap(err, "load embedded migrations")
	}

	var m *migrate.Migrate
	switch dialect {
	case SQLite:
		driver, derr := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
		if derr != nil {
			return nil, errors.Wrap(derr, "sqlite migration driver")
		}
		m, err = migrate.NewWithInstance("iofs", src, string(dialect), driver)
	case MySQL:
		driver, derr := migratemysql.WithInstance(db.DB, &migratemysql.Config{})
		if derr != nil {
			return nil, errors.Wrap(derr, "mysql migration driver")
		}
		m, err = migrate.NewWithInstance("iofs", src, string(dialect), driver)
	default:
		return nil, errors.Errorf("no migrations for dialect %q", dialect)
	}
	if err != nil {
		return nil, errors.Wrap(err, "create migrator")
	}
	return m, nil
}

// MigrateUp applies every pending migration.  An already current schema is
// not an error.  The connection stays open.
func MigrateUp(db *sqlx.DB, dialect Dialect) error {
	m, err := NewMigrator(db, dialect)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}
