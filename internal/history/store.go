// Package history records every AI-tool run in a local SQLite database.
//
// The store is an audit trail only. Lifecycle operations never read it,
// so a broken or missing database cannot change their outcome.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// FileName is the database file created inside the config directory.
const FileName = "history.db"

const defaultLimit = 20

// Record is one AI-tool invocation.
type Record struct {
	ID        string        `json:"id"`
	Verb      string        `json:"verb"`
	Spec      string        `json:"spec"`
	Adapter   string        `json:"adapter"`
	Command   string        `json:"command"`
	ExitCode  int           `json:"exit_code"`
	Outcome   string        `json:"outcome"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
}

// Filter narrows List results. Zero values mean no restriction.
type Filter struct {
	Spec  string
	Limit int
}

// Store is the SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: create dir: %w", err)
	}

	db, err := openDB("sqlite", filepath.Join(dir, FileName))
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	// WAL plus busy_timeout lets two autobot processes append at once.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id          TEXT    PRIMARY KEY,
			verb        TEXT    NOT NULL,
			spec        TEXT    NOT NULL,
			adapter     TEXT    NOT NULL,
			command     TEXT    NOT NULL,
			exit_code   INTEGER NOT NULL,
			outcome     TEXT    NOT NULL,
			started_at  TEXT    NOT NULL,
			duration_ms INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_runs_spec ON runs(spec, started_at);
		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores rec, assigning an ID when it has none. It returns the ID.
func (s *Store) Append(ctx context.Context, rec Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, verb, spec, adapter, command, exit_code, outcome, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Verb, rec.Spec, rec.Adapter, rec.Command, rec.ExitCode, rec.Outcome,
		rec.StartedAt.UTC().Format(time.RFC3339Nano), rec.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("history: append run: %w", err)
	}
	return rec.ID, nil
}

// List returns runs newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Record, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `
		SELECT id, verb, spec, adapter, command, exit_code, outcome, started_at, duration_ms
		FROM runs
		WHERE 1=1
	`
	args := []any{}
	if f.Spec != "" {
		query += " AND spec = ?"
		args = append(args, f.Spec)
	}
	query += " ORDER BY started_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []Record{}
	for rows.Next() {
		var (
			rec       Record
			startedAt string
			millis    int64
		)
		if err := rows.Scan(&rec.ID, &rec.Verb, &rec.Spec, &rec.Adapter, &rec.Command,
			&rec.ExitCode, &rec.Outcome, &startedAt, &millis); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("history: run %s has bad timestamp %q: %w", rec.ID, startedAt, err)
		}
		rec.Duration = time.Duration(millis) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}
