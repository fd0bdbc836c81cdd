// Package sqlitemigrate applies embedded SQL migrations to a sqlite database.
package sqlitemigrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const trackingTable = "schema_migrations"

// ApplyMigrations runs every .sql file under dir in lexical order, at most
// once per file. Applied files are recorded in a tracking table so repeated
// startups are cheap no-ops.
func ApplyMigrations(db *sql.DB, migrationFS fs.FS, dir string) error {
	if db == nil {
		return fmt.Errorf("sql db is required")
	}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "."
	}

	entries, err := fs.ReadDir(migrationFS, dir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := db.Exec(fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (name TEXT PRIMARY KEY, applied_at INTEGER NOT NULL)",
		trackingTable,
	)); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		key := file
		if dir != "." {
			key = path.Join(dir, file)
		}

		done, err := isApplied(db, key)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if done {
			continue
		}

		content, err := fs.ReadFile(migrationFS, path.Join(dir, file))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		up := UpSection(string(content))
		if strings.TrimSpace(up) == "" {
			continue
		}

		if err := runMigration(db, key, up); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
	}
	return nil
}

func runMigration(db *sql.DB, key, up string) error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(up); err != nil {
		// Tables created by a pre-tracking version of the schema are fine.
		if !isAlreadyExists(err) {
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := tx.Exec(
		fmt.Sprintf("INSERT OR IGNORE INTO %s (name, applied_at) VALUES (?, ?)", trackingTable),
		key,
		time.Now().UTC().UnixMilli(),
	); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// UpSection returns the SQL in the -- +migrate Up section. Files without
// section markers run whole.
func UpSection(content string) string {
	up := strings.Index(content, "-- +migrate Up")
	if up == -1 {
		return content
	}
	down := strings.Index(content, "-- +migrate Down")
	if down == -1 {
		return content[up+len("-- +migrate Up"):]
	}
	return content[up+len("-- +migrate Up") : down]
}

func isAlreadyExists(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate column name")
}

func isApplied(db *sql.DB, name string) (bool, error) {
	var one int
	err := db.QueryRow("SELECT 1 FROM "+trackingTable+" WHERE name = ?", name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
