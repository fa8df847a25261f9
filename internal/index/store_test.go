// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdiddy/l2org/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "index")
	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store, dir
}

func record(t *testing.T, store *Store, input string, keys ...string) {
	t.Helper()
	report := types.ConversionReport{
		Input:        input,
		Output:       input + ".org",
		Lines:        12,
		CitationKeys: keys,
		Citations:    len(keys),
		ConvertedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.Record(context.Background(), report); err != nil {
		t.Fatalf("Record(%s): %v", input, err)
	}
}

// --- schema tests ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store, dir := testStore(t)

	if _, err := os.Stat(filepath.Join(dir, DBFile)); os.IsNotExist(err) {
		t.Errorf("database file not created in %s", dir)
	}
	for _, table := range []string{"documents", "citations"} {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestNewStoreRequiresDir(t *testing.T) {
	if _, err := NewStore(""); err == nil {
		t.Error("expected error for empty directory")
	}
}

// --- record tests ---

func TestRecordRequiresInput(t *testing.T) {
	store, _ := testStore(t)
	if err := store.Record(context.Background(), types.ConversionReport{}); err == nil {
		t.Error("expected error for report without input")
	}
}

func TestRecordReplacesDocument(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	record(t, store, "a.tex", "k1", "k2")
	record(t, store, "a.tex", "k3")

	docs, err := store.Documents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("documents = %d, want 1", len(docs))
	}
	if docs[0].Keys != 1 {
		t.Errorf("keys = %d, want 1", docs[0].Keys)
	}

	keys, err := store.Keys(ctx, KeyQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0].Key != "k3" {
		t.Errorf("keys = %+v, want only k3", keys)
	}
}

// --- query tests ---

func TestKeys(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	record(t, store, "a.tex", "zeta", "shared", "alpha")
	record(t, store, "b.tex", "shared", "beta")

	tests := []struct {
		name  string
		query KeyQuery
		want  []KeyCount
	}{
		{
			name:  "all keys by count then name",
			query: KeyQuery{},
			want: []KeyCount{
				{"shared", 2}, {"alpha", 1}, {"beta", 1}, {"zeta", 1},
			},
		},
		{
			name:  "one document in citation order",
			query: KeyQuery{Document: "a.tex"},
			want: []KeyCount{
				{"zeta", 1}, {"shared", 2}, {"alpha", 1},
			},
		},
		{
			name:  "limit",
			query: KeyQuery{Limit: 2},
			want:  []KeyCount{{"shared", 2}, {"alpha", 1}},
		},
		{
			name:  "unknown document",
			query: KeyQuery{Document: "missing.tex"},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Keys(ctx, tt.query)
			if err != nil {
				t.Fatalf("Keys: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Keys = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Keys[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDocuments(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	record(t, store, "b.tex", "k1")
	record(t, store, "a.tex", "k1", "k2")

	docs, err := store.Documents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("documents = %d, want 2", len(docs))
	}

	wantPath, _ := filepath.Abs("a.tex")
	if docs[0].Path != wantPath {
		t.Errorf("first document = %q, want %q", docs[0].Path, wantPath)
	}
	if docs[0].Keys != 2 || docs[0].Citations != 2 || docs[0].Lines != 12 {
		t.Errorf("document = %+v", docs[0])
	}
	if !docs[0].ConvertedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("converted_at = %v", docs[0].ConvertedAt)
	}
}
