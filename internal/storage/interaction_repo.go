package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_interaction_store.go -package=mocks paperqa/internal/storage InteractionStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// InteractionStore records answered questions per document.
type InteractionStore interface {
	// Insert stores an interaction and sets its ID. CreatedAt defaults to now.
	Insert(ctx context.Context, rec *InteractionRecord) error
	// ListByDocument returns the most recent interactions for a document, newest first.
	ListByDocument(ctx context.Context, documentID string, limit int) ([]*InteractionRecord, error)
	// DeleteByDocument removes all interactions for a document.
	DeleteByDocument(ctx context.Context, documentID string) error
}

// InteractionRepo implements InteractionStore on SQLite.
type InteractionRepo struct {
	db *sql.DB
}

// NewInteractionRepo creates a new InteractionRepo.
func NewInteractionRepo(db *sql.DB) *InteractionRepo {
	return &InteractionRepo{db: db}
}

// Insert stores an interaction and sets its ID. CreatedAt defaults to now.
func (r *InteractionRepo) Insert(ctx context.Context, rec *InteractionRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO interactions (document_id, question, answer, model_used, chunks_used, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.DocumentID, rec.Question, rec.Answer, rec.ModelUsed, rec.ChunksUsed, formatTimestamp(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get interaction ID: %w", err)
	}
	rec.ID = id
	return nil
}

// ListByDocument returns the most recent interactions for a document, newest first.
// A non-positive limit returns all interactions.
func (r *InteractionRepo) ListByDocument(ctx context.Context, documentID string, limit int) ([]*InteractionRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, document_id, question, answer, model_used, chunks_used, created_at
		 FROM interactions WHERE document_id = ? ORDER BY id DESC LIMIT ?`,
		documentID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []*InteractionRecord
	for rows.Next() {
		var rec InteractionRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.DocumentID, &rec.Question, &rec.Answer, &rec.ModelUsed, &rec.ChunksUsed, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		if rec.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
		}
		out = append(out, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return out, nil
}

// DeleteByDocument removes all interactions for a document.
func (r *InteractionRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM interactions WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("failed to delete interactions: %w", err)
	}
	return nil
}
