package shared

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

//go:embed sql/schema.sql
var schemaSQL string

// Column describes a column added after the initial schema shipped.
type Column struct {
	Table      string
	Name       string
	Definition string
}

// additiveColumns lists columns that older databases may lack.
// Entries are applied in order, only when introspection shows the column missing.
var additiveColumns = []Column{
	{Table: "listenings", Name: "comment", Definition: "TEXT"},
	{Table: "albums", Name: "external_id", Definition: "INTEGER"},
}

// SchemaManager creates and evolves the local storage layout.
//
// [SchemaManager.EnsureSchema] is idempotent and safe to call at the start of every session.
type SchemaManager struct {
	db      *sql.DB
	logger  *log.Logger
	columns []Column
}

// NewSchemaManager creates a SchemaManager for db. A nil logger discards output.
func NewSchemaManager(db *sql.DB, logger *log.Logger) *SchemaManager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SchemaManager{db: db, logger: logger, columns: additiveColumns}
}

// EnsureSchema creates missing tables and indexes, then adds any missing additive columns.
//
// Every statement is attempted; failures are logged and returned joined as [*SchemaError] values.
func (m *SchemaManager) EnsureSchema(ctx context.Context) error {
	var errs []error

	for _, stmt := range splitStatements(schemaSQL) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			serr := &SchemaError{Object: statementObject(stmt), Err: err}
			m.logger.Error("schema statement failed", "object", serr.Object, "error", err)
			errs = append(errs, serr)
		}
	}

	for _, col := range m.columns {
		if err := m.ensureColumn(ctx, col); err != nil {
			m.logger.Error("schema column failed", "table", col.Table, "column", col.Name, "error", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (m *SchemaManager) ensureColumn(ctx context.Context, col Column) error {
	object := col.Table + "." + col.Name

	existing, err := m.Columns(ctx, col.Table)
	if err != nil {
		return &SchemaError{Object: object, Err: err}
	}
	if len(existing) == 0 {
		return &SchemaError{Object: object, Err: fmt.Errorf("table %s does not exist", col.Table)}
	}

	for _, name := range existing {
		if strings.EqualFold(name, col.Name) {
			return nil
		}
	}

	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", col.Table, col.Name, col.Definition)
	if _, err := m.db.ExecContext(ctx, stmt); err != nil {
		return &SchemaError{Object: object, Err: err}
	}

	m.logger.Info("added column", "table", col.Table, "column", col.Name)
	return nil
}

// Columns returns the column names of table, or an empty slice when the table does not exist.
func (m *SchemaManager) Columns(ctx context.Context, table string) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, fmt.Errorf("failed to read table info: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Tables returns the names of user tables in the database, sorted by name.
func (m *SchemaManager) Tables(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// splitStatements splits a SQL script on semicolons, dropping comments and blank statements.
func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(removeComments(stmt))
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// removeComments removes SQL comments from a statement.
func removeComments(sql string) string {
	lines := strings.Split(sql, "\n")
	var result []string
	for _, line := range lines {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// statementObject extracts the object name from a CREATE statement for error reporting.
func statementObject(stmt string) string {
	fields := strings.Fields(stmt)
	for i, f := range fields {
		if strings.EqualFold(f, "EXISTS") && i+1 < len(fields) {
			return strings.TrimSuffix(fields[i+1], "(")
		}
	}
	if len(fields) > 3 {
		return fields[2]
	}
	return stmt
}
