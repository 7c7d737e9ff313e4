package sqlitestore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded schema migrations and returns the pre and
// post schema versions. Already up to date is not an error.
func Migrate(db *sql.DB) (pre, post uint, err error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, 0, fmt.Errorf("sqlitestore: load migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return 0, 0, fmt.Errorf("sqlitestore: migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return 0, 0, fmt.Errorf("sqlitestore: migrate setup: %w", err)
	}

	pre, _, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		pre = 0
	} else if err != nil {
		return 0, 0, fmt.Errorf("sqlitestore: read schema version: %w", err)
	}

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return pre, pre, fmt.Errorf("sqlitestore: migrate up: %w", err)
	}

	post, _, err = m.Version()
	if err != nil {
		return pre, pre, fmt.Errorf("sqlitestore: read schema version: %w", err)
	}
	return pre, post, nil
}
