// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index records converted documents and the citation keys they
// cite in a local SQLite database, so keys can be listed across a corpus.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/l2org/pkg/types"
)

// DBFile is the database file name inside the index directory.
const DBFile = "l2org.db"

// Store manages the citation index database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the index at dir/l2org.db and creates the
// schema if it does not exist.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("index directory not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, DBFile)+"?_journal_mode=WAL&_foreign_keys=on")
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
		`CREATE TABLE IF NOT EXISTS documents (
			path TEXT PRIMARY KEY,
			output TEXT NOT NULL,
			lines INTEGER NOT NULL,
			citations INTEGER NOT NULL,
			converted_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS citations (
			document TEXT NOT NULL REFERENCES documents(path) ON DELETE CASCADE,
			key TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (document, key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_key ON citations(key)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a conversion report, replacing any earlier record of the
// same input document.
func (s *Store) Record(ctx context.Context, report types.ConversionReport) error {
	if report.Input == "" {
		return errors.New("report has no input path")
	}
	path, err := documentPath(report.Input)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM citations WHERE document = ?`, path); err != nil {
		return fmt.Errorf("deleting old citations: %w", err)
	}

	convertedAt := report.ConvertedAt
	if convertedAt.IsZero() {
		convertedAt = time.Now().UTC()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (path, output, lines, citations, converted_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			output=excluded.output, lines=excluded.lines,
			citations=excluded.citations, converted_at=excluded.converted_at`,
		path, report.Output, report.Lines, report.Citations, convertedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO citations (document, key, position) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, key := range report.CitationKeys {
		if _, err := stmt.ExecContext(ctx, path, key, i); err != nil {
			return fmt.Errorf("inserting key %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// documentPath normalizes a document path so the same file recorded from
// different working directories is one document.
func documentPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", p, err)
	}
	return abs, nil
}
