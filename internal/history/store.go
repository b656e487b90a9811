// Package history persists recognition outcomes in SQLite so recent
// commands can be inspected from the CLI and the control socket.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Utterance statuses.
const (
	StatusDispatched = "dispatched"
	StatusKeyphrase  = "keyphrase"
	StatusFailed     = "failed"
)

// Record is one stored utterance outcome.
type Record struct {
	ID         string    `json:"id"`
	Words      string    `json:"words"`
	Grammar    string    `json:"grammar,omitempty"`
	Rule       string    `json:"rule,omitempty"`
	Status     string    `json:"status"`
	TimedOut   bool      `json:"timed_out,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store handles SQLite database operations for the recognition history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path and applies the
// schema. ":memory:" gives a throwaway in-memory store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent across
	// the pool.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS utterances (
		id TEXT PRIMARY KEY,
		words TEXT NOT NULL,
		grammar TEXT NOT NULL DEFAULT '',
		rule TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		timed_out INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_utterances_status ON utterances(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores one record. A missing ID is assigned a fresh UUID and a
// zero CreatedAt is stamped with the current time.
func (s *Store) Insert(rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO utterances (id, words, grammar, rule, status, timed_out, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Words, rec.Grammar, rec.Rule, rec.Status, rec.TimedOut, rec.DurationMS, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first. Insertion order
// stands in for recency so sub-second timestamp ties cannot reorder
// rows.
func (s *Store) Recent(limit int) ([]*Record, error) {
	rows, err := s.db.Query(
		`SELECT id, words, grammar, rule, status, timed_out, duration_ms, created_at
		 FROM utterances ORDER BY rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Words, &rec.Grammar, &rec.Rule,
			&rec.Status, &rec.TimedOut, &rec.DurationMS, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM utterances`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Prune deletes all but the newest keep records.
func (s *Store) Prune(keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := s.db.Exec(
		`DELETE FROM utterances WHERE rowid NOT IN
		 (SELECT rowid FROM utterances ORDER BY rowid DESC LIMIT ?)`, keep,
	)
	if err != nil {
		return fmt.Errorf("prune records: %w", err)
	}
	return nil
}
