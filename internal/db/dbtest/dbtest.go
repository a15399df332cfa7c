// Package dbtest opens throwaway migrated SQLite pools for repository tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/db"
)

// NewSQLitePool creates a migrated SQLite database in t.TempDir().
// The pool is closed via t.Cleanup.
func NewSQLitePool(t *testing.T) *db.Pool {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	writerConn, err := db.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("dbtest: open sqlite writer: %v", err)
	}
	writer := sqlx.NewDb(writerConn, "sqlite3")
	if err := db.Migrate(writer.DB, writer.DriverName()); err != nil {
		_ = writer.Close()
		t.Fatalf("dbtest: migrate: %v", err)
	}

	readerConn, err := db.OpenSQLiteReader(dbPath)
	if err != nil {
		_ = writer.Close()
		t.Fatalf("dbtest: open sqlite reader: %v", err)
	}
	pool := db.NewPool(writer, sqlx.NewDb(readerConn, "sqlite3"))
	t.Cleanup(func() {
		_ = pool.Close()
	})
	return pool
}
