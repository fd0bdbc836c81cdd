package sqlitemigrate

import (
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.TempDir()+"/test.db")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyMigrationsRunsOnce(t *testing.T) {
	db := openDB(t)
	migrations := fstest.MapFS{
		"0001_create.sql": &fstest.MapFile{Data: []byte(`-- +migrate Up
CREATE TABLE topics (id TEXT PRIMARY KEY);
-- +migrate Down
DROP TABLE topics;
`)},
	}

	if err := ApplyMigrations(db, migrations, ""); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := ApplyMigrations(db, migrations, ""); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 recorded migration, got %d", count)
	}
	if _, err := db.Exec("INSERT INTO topics (id) VALUES ('t1')"); err != nil {
		t.Fatalf("migrated table unusable: %v", err)
	}
}

func TestApplyMigrationsOrdersLexically(t *testing.T) {
	db := openDB(t)
	migrations := fstest.MapFS{
		"0002_add_column.sql": &fstest.MapFile{Data: []byte(`-- +migrate Up
ALTER TABLE topics ADD COLUMN name TEXT;
`)},
		"0001_create.sql": &fstest.MapFile{Data: []byte(`-- +migrate Up
CREATE TABLE topics (id TEXT PRIMARY KEY);
`)},
	}

	if err := ApplyMigrations(db, migrations, ""); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := db.Exec("INSERT INTO topics (id, name) VALUES ('t1', 'x')"); err != nil {
		t.Fatalf("expected both migrations applied: %v", err)
	}
}

func TestApplyMigrationsNilDB(t *testing.T) {
	if err := ApplyMigrations(nil, fstest.MapFS{}, ""); err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestUpSection(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"both markers", "-- +migrate Up\nCREATE;\n-- +migrate Down\nDROP;", "\nCREATE;\n"},
		{"up only", "-- +migrate Up\nCREATE;", "\nCREATE;"},
		{"no markers", "CREATE;", "CREATE;"},
	}
	for _, tc := range cases {
		if got := UpSection(tc.content); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}
