package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestDocumentRepo_UpsertAndGet(t *testing.T) {
	repo := NewDocumentRepo(newTestDB(t))
	ctx := context.Background()

	processed := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	doc := &DocumentRecord{
		ID:          "doc_123",
		Collection:  "doc_123",
		Source:      "paper.pdf",
		ChunkCount:  12,
		PageCount:   4,
		Hash:        "abc",
		ProcessedAt: processed,
	}
	if err := repo.Upsert(ctx, doc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := repo.Get(ctx, "doc_123")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Source != "paper.pdf" || got.ChunkCount != 12 || got.PageCount != 4 || got.Hash != "abc" {
		t.Errorf("Get() = %+v, want fields of %+v", got, doc)
	}
	if !got.ProcessedAt.Equal(processed) {
		t.Errorf("ProcessedAt = %v, want %v", got.ProcessedAt, processed)
	}

	// Re-ingestion replaces the row in place
	doc.ChunkCount = 20
	doc.Source = "paper-v2.pdf"
	if err := repo.Upsert(ctx, doc); err != nil {
		t.Fatalf("Upsert() second call error = %v", err)
	}
	got, err = repo.Get(ctx, "doc_123")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ChunkCount != 20 || got.Source != "paper-v2.pdf" {
		t.Errorf("Get() after re-upsert = %+v", got)
	}
}

func TestDocumentRepo_GetNotFound(t *testing.T) {
	repo := NewDocumentRepo(newTestDB(t))

	_, err := repo.Get(context.Background(), "doc_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestDocumentRepo_ListAndDelete(t *testing.T) {
	repo := NewDocumentRepo(newTestDB(t))
	ctx := context.Background()

	for _, id := range []string{"doc_b", "doc_a", "doc_c"} {
		if err := repo.Upsert(ctx, &DocumentRecord{ID: id, Collection: id, Source: id + ".txt", ProcessedAt: time.Now()}); err != nil {
			t.Fatalf("Upsert(%s) error = %v", id, err)
		}
	}

	docs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("List() returned %d documents, want 3", len(docs))
	}
	if docs[0].ID != "doc_a" || docs[2].ID != "doc_c" {
		t.Errorf("List() order = %s, %s, %s", docs[0].ID, docs[1].ID, docs[2].ID)
	}

	if err := repo.Delete(ctx, "doc_b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	// Deleting twice is not an error
	if err := repo.Delete(ctx, "doc_b"); err != nil {
		t.Fatalf("Delete() second call error = %v", err)
	}

	docs, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("List() after delete returned %d documents, want 2", len(docs))
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339",
			input: "2024-03-01T12:30:00Z",
			want:  time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			name:  "sqlite current timestamp",
			input: "2024-03-01 12:30:00",
			want:  time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			input:   "yesterday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTimestamp() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("parseTimestamp() = %v, want %v", got, tt.want)
			}
		})
	}
}
