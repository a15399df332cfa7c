package db

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/db/dialect"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// goose keeps its dialect and FS in package globals.
var migrateMu sync.Mutex

// Migrate applies every pending migration for the given sqlx driver name.
func Migrate(conn *sql.DB, driver string) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	gooseDialect := "sqlite3"
	dir := "migrations/sqlite"
	if dialect.IsPostgres(driver) {
		gooseDialect = "postgres"
		dir = "migrations/postgres"
	}

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(conn, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
