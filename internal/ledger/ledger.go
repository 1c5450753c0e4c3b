// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records saved structure files in a local SQLite database
// and exports the record as YAML or JSON.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/structure-fetch/pkg/types"
)

const defaultLimit = 50

// Store is an open ledger database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger at path, creating its parent directory
// and schema when missing.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("ledger path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS fetches (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			identifier TEXT NOT NULL,
			format TEXT NOT NULL,
			url TEXT NOT NULL,
			path TEXT NOT NULL,
			size INTEGER NOT NULL,
			sha256 TEXT NOT NULL,
			fetched_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetches_identifier ON fetches(identifier)`,
		`CREATE INDEX IF NOT EXISTS idx_fetches_format ON fetches(format)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends rec. A zero FetchedAt is set to the current time.
func (s *Store) Record(ctx context.Context, rec types.FetchRecord) error {
	if rec.FetchedAt.IsZero() {
		rec.FetchedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fetches (identifier, format, url, path, size, sha256, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Identifier, rec.Format, rec.URL, rec.Path, rec.Size, rec.SHA256,
		rec.FetchedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", rec.Identifier, err)
	}
	return nil
}

// ListOptions filters List. Zero values match everything.
type ListOptions struct {
	Identifier string
	Format     string

	// Limit caps the number of rows (default 50). Negative means no limit.
	Limit int
}

// List returns records newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.FetchRecord, error) {
	var (
		where []string
		args  []any
	)
	if opts.Identifier != "" {
		where = append(where, "identifier = ?")
		args = append(args, opts.Identifier)
	}
	if opts.Format != "" {
		where = append(where, "format = ?")
		args = append(args, opts.Format)
	}

	query := `SELECT identifier, format, url, path, size, sha256, fetched_at FROM fetches`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY rowid DESC"

	limit := opts.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var records []types.FetchRecord
	for rows.Next() {
		var (
			rec       types.FetchRecord
			fetchedAt string
		)
		if err := rows.Scan(&rec.Identifier, &rec.Format, &rec.URL, &rec.Path, &rec.Size, &rec.SHA256, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, fetchedAt); err == nil {
			rec.FetchedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
