package storage

import (
	"context"
	"testing"
)

func TestInteractionRepo_InsertAndList(t *testing.T) {
	repo := NewInteractionRepo(newTestDB(t))
	ctx := context.Background()

	questions := []string{"first?", "second?", "third?"}
	for _, q := range questions {
		rec := &InteractionRecord{
			DocumentID: "doc_1",
			Question:   q,
			Answer:     "answer to " + q,
			ModelUsed:  "openrouter",
			ChunksUsed: 3,
		}
		if err := repo.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if rec.ID == 0 {
			t.Error("Insert() did not set ID")
		}
		if rec.CreatedAt.IsZero() {
			t.Error("Insert() did not set CreatedAt")
		}
	}
	if err := repo.Insert(ctx, &InteractionRecord{DocumentID: "doc_2", Question: "other?", Answer: "a", ModelUsed: "extractive"}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	tests := []struct {
		name      string
		limit     int
		wantFirst string
		wantLen   int
	}{
		{name: "all", limit: 0, wantFirst: "third?", wantLen: 3},
		{name: "limited", limit: 2, wantFirst: "third?", wantLen: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListByDocument(ctx, "doc_1", tt.limit)
			if err != nil {
				t.Fatalf("ListByDocument() error = %v", err)
			}
			if len(got) != tt.wantLen {
				t.Fatalf("ListByDocument() returned %d, want %d", len(got), tt.wantLen)
			}
			if got[0].Question != tt.wantFirst {
				t.Errorf("newest question = %q, want %q", got[0].Question, tt.wantFirst)
			}
			if got[0].ModelUsed != "openrouter" || got[0].ChunksUsed != 3 {
				t.Errorf("unexpected record %+v", got[0])
			}
		})
	}
}

func TestInteractionRepo_DeleteByDocument(t *testing.T) {
	repo := NewInteractionRepo(newTestDB(t))
	ctx := context.Background()

	for _, doc := range []string{"doc_1", "doc_1", "doc_2"} {
		if err := repo.Insert(ctx, &InteractionRecord{DocumentID: doc, Question: "q", Answer: "a", ModelUsed: "m"}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	if err := repo.DeleteByDocument(ctx, "doc_1"); err != nil {
		t.Fatalf("DeleteByDocument() error = %v", err)
	}

	got, err := repo.ListByDocument(ctx, "doc_1", 0)
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListByDocument() after delete returned %d, want 0", len(got))
	}

	other, err := repo.ListByDocument(ctx, "doc_2", 0)
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(other) != 1 {
		t.Errorf("other document interactions = %d, want 1", len(other))
	}
}
