// Package store handles the SQLite edit journal.
//
// The journal only covers the running session: the application opens it in
// memory, so nothing is carried over to the next run.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/stepgoal/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const memoryPath = ":memory:"

// Store wraps SQLite access for journal entries.
type Store struct {
	db *sql.DB
}

// Entry is one applied edit with the states around it.
type Entry struct {
	ID        int64
	SessionID string
	AppliedAt time.Time
	Field     string
	Value     string
	Pass      string
	Mode      string
	Before    model.State
	After     model.State
}

// NewSessionID returns a fresh journal session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// An in-memory database lives on a single connection.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// OpenMemory opens a journal that disappears with the process.
func OpenMemory() (*Store, error) {
	return Open(memoryPath)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS edits (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			applied_at TEXT NOT NULL,
			field TEXT NOT NULL,
			value TEXT NOT NULL,
			pass TEXT NOT NULL,
			mode TEXT NOT NULL,
			before_state TEXT NOT NULL,
			after_state TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_edits_session ON edits(session_id, id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Append records an applied edit and returns its id.
func (s *Store) Append(ctx context.Context, e Entry) (int64, error) {
	before, err := json.Marshal(e.Before)
	if err != nil {
		return 0, fmt.Errorf("encode before state: %w", err)
	}
	after, err := json.Marshal(e.After)
	if err != nil {
		return 0, fmt.Errorf("encode after state: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO edits (session_id, applied_at, field, value, pass, mode, before_state, after_state)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID,
		e.AppliedAt.Format(time.RFC3339Nano),
		e.Field,
		e.Value,
		e.Pass,
		e.Mode,
		string(before),
		string(after),
	)
	if err != nil {
		return 0, fmt.Errorf("insert edit: %w", err)
	}
	return res.LastInsertId()
}

// List returns the entries of a session, oldest first.
func (s *Store) List(ctx context.Context, sessionID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, applied_at, field, value, pass, mode, before_state, after_state
		 FROM edits WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list edits: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of entries recorded for a session.
func (s *Store) Count(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM edits WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count edits: %w", err)
	}
	return n, nil
}

// PopLast removes and returns the newest entry of a session.
// It returns nil when the session has no entries.
func (s *Store) PopLast(ctx context.Context, sessionID string) (entry *Entry, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	row := tx.QueryRowContext(ctx,
		`SELECT id, session_id, applied_at, field, value, pass, mode, before_state, after_state
		 FROM edits WHERE session_id = ? ORDER BY id DESC LIMIT 1`, sessionID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		if cerr := tx.Rollback(); cerr != nil {
			_ = cerr
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM edits WHERE id = ?`, e.ID); err != nil {
		return nil, fmt.Errorf("delete edit: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &e, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		e                     Entry
		appliedAt             string
		beforeJSON, afterJSON string
	)
	if err := row.Scan(&e.ID, &e.SessionID, &appliedAt, &e.Field, &e.Value, &e.Pass, &e.Mode, &beforeJSON, &afterJSON); err != nil {
		return Entry{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, appliedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse applied_at: %w", err)
	}
	e.AppliedAt = t
	if err := json.Unmarshal([]byte(beforeJSON), &e.Before); err != nil {
		return Entry{}, fmt.Errorf("decode before state: %w", err)
	}
	if err := json.Unmarshal([]byte(afterJSON), &e.After); err != nil {
		return Entry{}, fmt.Errorf("decode after state: %w", err)
	}
	return e, nil
}
