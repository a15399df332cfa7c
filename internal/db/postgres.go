package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/db/dialect"
)

const (
	defaultPostgresMaxConns = 25
	defaultPostgresMinConns = 5
	postgresConnLifetime    = 30 * time.Minute
	postgresPingTimeout     = 5 * time.Second
)

// PostgresOptions sizes the shared pgx pool. Zero values take the defaults.
type PostgresOptions struct {
	DSN      string
	MaxConns int
	MinConns int
}

// withDefaults fills zero sizes and keeps idle connections within the open limit.
func (o PostgresOptions) withDefaults() PostgresOptions {
	if o.MaxConns <= 0 {
		o.MaxConns = defaultPostgresMaxConns
	}
	if o.MinConns <= 0 {
		o.MinConns = defaultPostgresMinConns
	}
	if o.MinConns > o.MaxConns {
		o.MinConns = o.MaxConns
	}
	return o
}

// OpenPostgres opens the pgx-backed pool used for both reads and writes and
// checks that the server answers.
func OpenPostgres(opts PostgresOptions) (*sql.DB, error) {
	opts = opts.withDefaults()

	conn, err := sql.Open(dialect.PGX, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}
	conn.SetMaxOpenConns(opts.MaxConns)
	conn.SetMaxIdleConns(opts.MinConns)
	conn.SetConnMaxLifetime(postgresConnLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), postgresPingTimeout)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping postgres database: %w", err)
	}
	return conn, nil
}
