// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// KeyQuery holds parameters for listing citation keys.
type KeyQuery struct {
	// Document restricts the listing to keys cited by one document.
	Document string

	// Limit caps the number of keys returned. Zero returns all.
	Limit int
}

// KeyCount is a citation key and the number of indexed documents citing it.
type KeyCount struct {
	Key       string `json:"key" yaml:"key"`
	Documents int    `json:"documents" yaml:"documents"`
}

// Document is an indexed conversion.
type Document struct {
	Path        string    `json:"path" yaml:"path"`
	Output      string    `json:"output" yaml:"output"`
	Lines       int       `json:"lines" yaml:"lines"`
	Keys        int       `json:"keys" yaml:"keys"`
	Citations   int       `json:"citations" yaml:"citations"`
	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`
}

// Keys lists citation keys with the number of documents citing each, most
// cited first. With q.Document set, only that document's keys are listed,
// in the order it first cites them; counts still span the whole index.
func (s *Store) Keys(ctx context.Context, q KeyQuery) ([]KeyCount, error) {
	var (
		qb   strings.Builder
		args []any
	)

	if q.Document != "" {
		path, err := documentPath(q.Document)
		if err != nil {
			return nil, err
		}
		qb.WriteString(
			`SELECT d.key, (SELECT count(*) FROM citations c WHERE c.key = d.key)
			FROM citations d
			WHERE d.document = ?
			ORDER BY d.position`)
		args = append(args, path)
	} else {
		qb.WriteString(
			`SELECT key, count(*) AS n
			FROM citations
			GROUP BY key
			ORDER BY n DESC, key`)
	}

	if q.Limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying keys: %w", err)
	}
	defer rows.Close()

	var keys []KeyCount
	for rows.Next() {
		var kc KeyCount
		if err := rows.Scan(&kc.Key, &kc.Documents); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, kc)
	}
	return keys, rows.Err()
}

// Documents lists the indexed documents ordered by path.
func (s *Store) Documents(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.path, d.output, d.lines, d.citations, d.converted_at,
			(SELECT count(*) FROM citations c WHERE c.document = d.path)
		FROM documents d
		ORDER BY d.path`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			doc         Document
			convertedAt string
		)
		if err := rows.Scan(&doc.Path, &doc.Output, &doc.Lines, &doc.Citations, &convertedAt, &doc.Keys); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, convertedAt); err == nil {
			doc.ConvertedAt = t
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
