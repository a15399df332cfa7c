// Package sqldb implements the task repository on sqlx for SQLite and
// PostgreSQL.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	apperrors "github.com/IsSact22/Gestion-tareas-sub001/internal/common/errors"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/db"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/db/dialect"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/repository"
)

// Repository provides SQL-backed board storage.
type Repository struct {
	db *sqlx.DB // writer
	ro *sqlx.DB // reader (read-only pool)
}

var _ repository.Repository = (*Repository)(nil)

// NewWithPool creates a repository over an already migrated pool.
func NewWithPool(pool *db.Pool) *Repository {
	return &Repository{db: pool.Writer(), ro: pool.Reader()}
}

func (r *Repository) builder() sq.StatementBuilderType {
	return dialect.Builder(r.db.DriverName())
}

// withTx runs fn in a writer transaction. All statements inside fn must use
// tx: the SQLite writer has a single connection.
func (r *Repository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, apperrors.ErrNotFound)
}

// getOne maps sql.ErrNoRows to a not-found error.
func getOne(err error, kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(kind, id)
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", kind, err)
	}
	return nil
}

// affected returns a not-found error when res touched no rows.
func affected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}

// execer is satisfied by *sqlx.DB and *sqlx.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Rebind(query string) string
}

// deleteIn deletes rows of table whose column matches any of ids.
func (r *Repository) deleteIn(ctx context.Context, tx execer, table, column string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := r.builder().Delete(table).Where(sq.Eq{column: ids}).ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return nil
}

// selectIDs collects ids of table rows where column = value.
func selectIDs(ctx context.Context, tx *sqlx.Tx, table, column, value string) ([]string, error) {
	var ids []string
	if err := tx.SelectContext(ctx, &ids, tx.Rebind(`SELECT id FROM `+table+` WHERE `+column+` = ?`), value); err != nil {
		return nil, fmt.Errorf("select %s ids: %w", table, err)
	}
	return ids, nil
}

// selectIDsIn collects ids of table rows whose column is any of values.
func (r *Repository) selectIDsIn(ctx context.Context, tx *sqlx.Tx, table, column string, values []string) ([]string, error) {
	var ids []string
	if len(values) == 0 {
		return ids, nil
	}
	query, args, err := r.builder().Select("id").From(table).Where(sq.Eq{column: values}).ToSql()
	if err != nil {
		return nil, err
	}
	if err := tx.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select %s ids: %w", table, err)
	}
	return ids, nil
}
