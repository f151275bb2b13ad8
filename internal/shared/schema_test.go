package shared

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// snapshot captures the observable schema: every object's SQL plus each table's columns.
func snapshot(t *testing.T, db *sql.DB) []string {
	t.Helper()

	rows, err := db.Query("SELECT type || ':' || name || ':' || COALESCE(sql, '') FROM sqlite_master ORDER BY type, name")
	if err != nil {
		t.Fatalf("failed to read sqlite_master: %v", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			t.Fatalf("failed to scan: %v", err)
		}
		out = append(out, s)
	}
	return out
}

func TestSchemaManager(t *testing.T) {
	ctx := context.Background()

	t.Run("creates tables", func(t *testing.T) {
		db := openTestDB(t)
		m := NewSchemaManager(db, nil)

		if err := m.EnsureSchema(ctx); err != nil {
			t.Fatalf("EnsureSchema failed: %v", err)
		}

		tables, err := m.Tables(ctx)
		if err != nil {
			t.Fatalf("Tables failed: %v", err)
		}
		for _, want := range []string{"albums", "listenings", "notes"} {
			if !slices.Contains(tables, want) {
				t.Errorf("expected table %s, got %v", want, tables)
			}
		}

		cols, err := m.Columns(ctx, "listenings")
		if err != nil {
			t.Fatalf("Columns failed: %v", err)
		}
		if !slices.Contains(cols, "comment") {
			t.Errorf("expected comment column, got %v", cols)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		db := openTestDB(t)
		m := NewSchemaManager(db, nil)

		if err := m.EnsureSchema(ctx); err != nil {
			t.Fatalf("first EnsureSchema failed: %v", err)
		}
		once := snapshot(t, db)

		for range 3 {
			if err := m.EnsureSchema(ctx); err != nil {
				t.Fatalf("repeated EnsureSchema failed: %v", err)
			}
		}

		if again := snapshot(t, db); !slices.Equal(once, again) {
			t.Errorf("schema changed after repeated calls:\nonce:  %v\nagain: %v", once, again)
		}
	})

	t.Run("upgrades legacy listenings without data loss", func(t *testing.T) {
		db := openTestDB(t)

		legacy := []string{
			`CREATE TABLE albums (id INTEGER PRIMARY KEY, artist TEXT, title TEXT, year INTEGER, cover_image TEXT, discogs_url TEXT)`,
			`CREATE TABLE listenings (id INTEGER PRIMARY KEY AUTOINCREMENT, album_id INTEGER, listened_at TEXT, FOREIGN KEY (album_id) REFERENCES albums (id))`,
			`INSERT INTO albums (id, artist, title, year, discogs_url) VALUES (1, 'Miles Davis', 'Kind Of Blue', 1959, 'https://www.discogs.com/release/42-Kind-Of-Blue')`,
			`INSERT INTO listenings (album_id, listened_at) VALUES (1, '2024-01-01T00:00:00Z')`,
		}
		for _, stmt := range legacy {
			if _, err := db.Exec(stmt); err != nil {
				t.Fatalf("failed to seed legacy schema: %v", err)
			}
		}

		m := NewSchemaManager(db, nil)
		if err := m.EnsureSchema(ctx); err != nil {
			t.Fatalf("EnsureSchema failed on legacy database: %v", err)
		}

		cols, _ := m.Columns(ctx, "listenings")
		if !slices.Contains(cols, "comment") {
			t.Fatalf("expected comment column after upgrade, got %v", cols)
		}
		albumCols, _ := m.Columns(ctx, "albums")
		if !slices.Contains(albumCols, "external_id") {
			t.Errorf("expected external_id column after upgrade, got %v", albumCols)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM listenings WHERE comment IS NULL").Scan(&count); err != nil {
			t.Fatalf("failed to query upgraded table: %v", err)
		}
		if count != 1 {
			t.Errorf("expected legacy listening preserved, got %d rows", count)
		}

		if err := m.EnsureSchema(ctx); err != nil {
			t.Errorf("second EnsureSchema on upgraded database failed: %v", err)
		}
	})

	t.Run("reports genuine failures as SchemaError", func(t *testing.T) {
		db := openTestDB(t)
		m := NewSchemaManager(db, nil)
		m.columns = []Column{{Table: "missing_table", Name: "extra", Definition: "TEXT"}}

		err := m.EnsureSchema(ctx)
		if err == nil {
			t.Fatal("expected error for column on missing table")
		}

		var serr *SchemaError
		if !errors.As(err, &serr) {
			t.Fatalf("expected SchemaError, got %T", err)
		}
		if serr.Object != "missing_table.extra" {
			t.Errorf("expected object missing_table.extra, got %s", serr.Object)
		}
		if !errors.Is(err, ErrSchema) {
			t.Error("expected error to match ErrSchema")
		}
	})
}

func TestSplitStatements(t *testing.T) {
	script := `
-- leading comment
CREATE TABLE a (id INTEGER); -- trailing
;
CREATE INDEX IF NOT EXISTS idx_a ON a(id);
`
	got := splitStatements(script)
	if len(got) != 2 {
		t.Fatalf("expected 2 statements, got %d: %v", len(got), got)
	}
	if statementObject(got[1]) != "idx_a" {
		t.Errorf("expected object idx_a, got %s", statementObject(got[1]))
	}
	if statementObject(got[0]) != "a" {
		t.Errorf("expected object a, got %s", statementObject(got[0]))
	}
}
