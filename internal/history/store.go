// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite log of fetch runs so repeated runs can
// report whether the artifact changed.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/twmb/murmur3"

	"github.com/pdiddy/fred-releases/pkg/types"
)

// Record is one fetch run.
type Record struct {
	ID           int64         `json:"id" yaml:"id"`
	FetchedAt    time.Time     `json:"fetched_at" yaml:"fetched_at"`
	StatusCode   int           `json:"status_code" yaml:"status_code"`
	Outcome      types.Outcome `json:"outcome" yaml:"outcome"`
	OutputPath   string        `json:"output_path" yaml:"output_path"`
	Bytes        int           `json:"bytes" yaml:"bytes"`
	ReleaseCount int           `json:"release_count" yaml:"release_count"`
	Fingerprint  string        `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
}

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			fetched_at TEXT NOT NULL,
			status_code INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			output_path TEXT NOT NULL,
			bytes INTEGER NOT NULL DEFAULT 0,
			release_count INTEGER NOT NULL DEFAULT -1,
			fingerprint TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetches_output_path ON fetches(output_path)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Fingerprint returns the murmur3 64-bit digest of data as 16 hex digits.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%016x", murmur3.Sum64(data))
}

// Record inserts r and returns its row ID. A zero FetchedAt is set to now.
func (s *Store) Record(ctx context.Context, r Record) (int64, error) {
	if r.FetchedAt.IsZero() {
		r.FetchedAt = time.Now()
	}
	var fingerprint any
	if r.Fingerprint != "" {
		fingerprint = r.Fingerprint
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO fetches (fetched_at, status_code, outcome, output_path, bytes, release_count, fingerprint)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.FetchedAt.UTC().Format(time.RFC3339Nano), r.StatusCode, string(r.Outcome),
		r.OutputPath, r.Bytes, r.ReleaseCount, fingerprint,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting fetch record: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to n records, newest first. n <= 0 returns all.
func (s *Store) Recent(ctx context.Context, n int) ([]Record, error) {
	query := `SELECT id, fetched_at, status_code, outcome, output_path, bytes, release_count, fingerprint
		FROM fetches ORDER BY id DESC`
	var args []any
	if n > 0 {
		query += ` LIMIT ?`
		args = append(args, n)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying fetches: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r           Record
			fetchedAt   string
			outcome     string
			fingerprint sql.NullString
		)
		if err := rows.Scan(&r.ID, &fetchedAt, &r.StatusCode, &outcome, &r.OutputPath,
			&r.Bytes, &r.ReleaseCount, &fingerprint); err != nil {
			return nil, fmt.Errorf("scanning fetch record: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, fetchedAt); err == nil {
			r.FetchedAt = t
		}
		r.Outcome = types.Outcome(outcome)
		r.Fingerprint = fingerprint.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// LastFingerprint returns the fingerprint of the most recent written
// artifact at outputPath. ok is false when there is none.
func (s *Store) LastFingerprint(ctx context.Context, outputPath string) (fingerprint string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT fingerprint FROM fetches
		 WHERE output_path = ? AND outcome = ? AND fingerprint IS NOT NULL
		 ORDER BY id DESC LIMIT 1`,
		outputPath, string(types.OutcomeWritten),
	).Scan(&fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying last fingerprint: %w", err)
	}
	return fingerprint, true, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM fetches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting fetches: %w", err)
	}
	return n, nil
}

// String formats a record as a single table row.
func (r Record) String() string {
	releases := "-"
	if r.ReleaseCount >= 0 {
		releases = strconv.Itoa(r.ReleaseCount)
	}
	fp := r.Fingerprint
	if fp == "" {
		fp = "-"
	}
	return fmt.Sprintf("%-5d  %-25s  %-3d  %-20s  %-8s  %-7d  %s",
		r.ID, r.FetchedAt.UTC().Format(time.RFC3339), r.StatusCode, r.Outcome, releases, r.Bytes, fp)
}
