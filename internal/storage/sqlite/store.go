// Package sqlite provides SQLite-backed persistence for tracker state.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/lorekeeper/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/lorekeeper/internal/research/domain"
	"github.com/louisbranch/lorekeeper/internal/research/journal"
	"github.com/louisbranch/lorekeeper/internal/storage"
	"github.com/louisbranch/lorekeeper/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for the tracker state blob.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens a tracker SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := store.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) runMigrations() error {
	return sqlitemigrate.ApplyMigrations(s.sqlDB, migrations.FS, "")
}

// LoadState reads the full tracker state.
func (s *Store) LoadState(ctx context.Context) (storage.State, error) {
	if err := ctx.Err(); err != nil {
		return storage.State{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.State{}, fmt.Errorf("storage is not configured")
	}

	state := storage.State{}

	topicRows, err := s.sqlDB.QueryContext(ctx, "SELECT payload FROM topics ORDER BY position ASC")
	if err != nil {
		return storage.State{}, fmt.Errorf("query topics: %w", err)
	}
	defer topicRows.Close()
	for topicRows.Next() {
		var payload []byte
		if err := topicRows.Scan(&payload); err != nil {
			return storage.State{}, fmt.Errorf("scan topic: %w", err)
		}
		var topic domain.Topic
		if err := json.Unmarshal(payload, &topic); err != nil {
			return storage.State{}, fmt.Errorf("unmarshal topic: %w", err)
		}
		state.Topics = append(state.Topics, topic)
	}
	if err := topicRows.Err(); err != nil {
		return storage.State{}, fmt.Errorf("iterate topics: %w", err)
	}

	journalRows, err := s.sqlDB.QueryContext(ctx, "SELECT payload FROM journal ORDER BY timestamp_ms ASC, position ASC")
	if err != nil {
		return storage.State{}, fmt.Errorf("query journal: %w", err)
	}
	defer journalRows.Close()
	for journalRows.Next() {
		var payload []byte
		if err := journalRows.Scan(&payload); err != nil {
			return storage.State{}, fmt.Errorf("scan journal entry: %w", err)
		}
		var entry journal.Entry
		if err := json.Unmarshal(payload, &entry); err != nil {
			return storage.State{}, fmt.Errorf("unmarshal journal entry: %w", err)
		}
		state.Journal = append(state.Journal, entry)
	}
	if err := journalRows.Err(); err != nil {
		return storage.State{}, fmt.Errorf("iterate journal: %w", err)
	}

	return state, nil
}

// SaveState replaces the full tracker state in one transaction.
// The write is last-writer-wins by design.
func (s *Store) SaveState(ctx context.Context, state storage.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}

	if err := replaceState(ctx, tx, state); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}
	return nil
}

func replaceState(ctx context.Context, tx *sql.Tx, state storage.State) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM topics"); err != nil {
		return fmt.Errorf("clear topics: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM journal"); err != nil {
		return fmt.Errorf("clear journal: %w", err)
	}

	for i, topic := range state.Topics {
		payload, err := json.Marshal(topic)
		if err != nil {
			return fmt.Errorf("marshal topic %s: %w", topic.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO topics (id, position, payload) VALUES (?, ?, ?)",
			topic.ID, i, payload,
		); err != nil {
			return fmt.Errorf("insert topic %s: %w", topic.ID, err)
		}
	}

	for i, entry := range state.Journal {
		payload, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal journal entry %s: %w", entry.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO journal (id, topic_id, timestamp_ms, position, payload) VALUES (?, ?, ?, ?, ?)",
			entry.ID, entry.TopicID, toMillis(entry.Timestamp), i, payload,
		); err != nil {
			return fmt.Errorf("insert journal entry %s: %w", entry.ID, err)
		}
	}

	return nil
}
