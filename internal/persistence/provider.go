// Package persistence opens the configured database and applies migrations.
package persistence

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/config"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/db"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/db/dialect"
)

// Provide creates the database pool used by repositories.
func Provide(cfg *config.Config, log *logger.Logger) (*db.Pool, func() error, error) {
	var pool *db.Pool

	switch cfg.Database.Driver {
	case "sqlite":
		writerConn, err := db.OpenSQLite(cfg.Database.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		writer := sqlx.NewDb(writerConn, dialect.SQLite3)
		// Migrate before opening the read-only pool so the file has a schema.
		if err := db.Migrate(writer.DB, writer.DriverName()); err != nil {
			_ = writer.Close()
			return nil, nil, err
		}
		readerConn, err := db.OpenSQLiteReader(cfg.Database.Path)
		if err != nil {
			_ = writer.Close()
			return nil, nil, fmt.Errorf("failed to open sqlite reader: %w", err)
		}
		pool = db.NewPool(writer, sqlx.NewDb(readerConn, dialect.SQLite3))
	case "postgres":
		conn, err := db.OpenPostgres(db.PostgresOptions{
			DSN:      cfg.Database.DSN(),
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, nil, err
		}
		shared := sqlx.NewDb(conn, dialect.PGX)
		if err := db.Migrate(shared.DB, shared.DriverName()); err != nil {
			_ = shared.Close()
			return nil, nil, err
		}
		pool = db.NewPool(shared, shared)
	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	if log != nil {
		log.Info("Database initialized",
			zap.String("db_driver", cfg.Database.Driver),
			zap.String("db_path", cfg.Database.Path))
	}

	cleanup := func() error {
		if !dialect.IsPostgres(pool.Driver()) {
			// Refresh query planner statistics before closing.
			_, _ = pool.Writer().Exec("PRAGMA optimize")
		}
		return pool.Close()
	}
	return pool, cleanup, nil
}
