// Package dialect provides SQL helpers for SQLite/PostgreSQL portability.
package dialect

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

const (
	SQLite3 = "sqlite3"
	PGX     = "pgx"
)

// IsPostgres returns true if the driver is PostgreSQL (pgx).
func IsPostgres(driver string) bool {
	return driver == PGX
}

// Builder returns a squirrel statement builder using the placeholder style of
// the driver.
func Builder(driver string) sq.StatementBuilderType {
	if IsPostgres(driver) {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// IsUniqueViolation reports whether err came from a UNIQUE constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite3
		strings.Contains(msg, "SQLSTATE 23505") || // pgx
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
