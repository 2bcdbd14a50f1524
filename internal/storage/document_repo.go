package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks paperqa/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// DocumentStore defines the interface for document registry operations.
type DocumentStore interface {
	// Upsert inserts a document or replaces the existing row with the same ID.
	Upsert(ctx context.Context, doc *DocumentRecord) error
	// Get returns a document by ID. Returns ErrNotFound if not found.
	Get(ctx context.Context, id string) (*DocumentRecord, error)
	// List returns all documents ordered by ID.
	List(ctx context.Context) ([]*DocumentRecord, error)
	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, id string) error
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Upsert inserts a document or replaces the existing row with the same ID.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *DocumentRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, collection, source, chunk_count, page_count, hash, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			collection = excluded.collection,
			source = excluded.source,
			chunk_count = excluded.chunk_count,
			page_count = excluded.page_count,
			hash = excluded.hash,
			processed_at = excluded.processed_at`,
		doc.ID, doc.Collection, doc.Source, doc.ChunkCount, doc.PageCount, doc.Hash, formatTimestamp(doc.ProcessedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// Get returns a document by ID. Returns ErrNotFound if not found.
func (r *DocumentRepo) Get(ctx context.Context, id string) (*DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, collection, source, chunk_count, page_count, hash, processed_at FROM documents WHERE id = ?",
		id,
	)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

// List returns all documents ordered by ID.
func (r *DocumentRepo) List(ctx context.Context) ([]*DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, collection, source, chunk_count, page_count, hash, processed_at FROM documents ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []*DocumentRecord
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*DocumentRecord, error) {
	var doc DocumentRecord
	var processedAt string
	if err := row.Scan(&doc.ID, &doc.Collection, &doc.Source, &doc.ChunkCount, &doc.PageCount, &doc.Hash, &processedAt); err != nil {
		return nil, err
	}
	t, err := parseTimestamp(processedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse processed_at timestamp: %w", err)
	}
	doc.ProcessedAt = t
	return &doc, nil
}
