package postgres

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose"
)

const MigrationsDir = "./internal/adapter/postgres/migrations"

// Migrate brings the documents schema up to date.
func Migrate(db *sql.DB, dir string) error {
	if dir == "" {
		dir = MigrationsDir
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
