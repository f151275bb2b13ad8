// package repositories provides persistence layer implementations for all model types.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
)

// timeLayout is fixed-width so stored timestamps sort lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Querier is satisfied by both [sql.DB] and [sql.Tx].
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// builder renders SQL with "?" placeholders for SQLite.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// rowScanner is satisfied by [sql.Row] and [sql.Rows].
type rowScanner interface {
	Scan(dest ...any) error
}

// formatTime renders t in UTC using [timeLayout].
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime accepts [timeLayout] and any other RFC 3339 value, such as rows written by older clients.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
