package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_qa_service.go -package=mocks paperqa/internal/service QAService

import (
	"context"
	"strings"

	"paperqa/internal/contextutil"
	"paperqa/internal/rag"
	"paperqa/internal/storage"
)

// maxTopK bounds the chunk count a caller may ask for.
const maxTopK = 50

// QAService answers questions about ingested documents and keeps their history.
type QAService interface {
	// Ask validates req, answers it and records the interaction.
	Ask(ctx context.Context, req rag.AskRequest) (rag.AskResponse, error)
	// History returns the most recent interactions for a document, newest first.
	History(ctx context.Context, documentID string, limit int) ([]*storage.InteractionRecord, error)
}

// qaService implements QAService.
type qaService struct {
	engine       rag.Engine
	interactions storage.InteractionStore
}

// NewQAService creates a new QAService. interactions may be nil, in which case
// nothing is recorded and History is always empty.
func NewQAService(engine rag.Engine, interactions storage.InteractionStore) QAService {
	return &qaService{
		engine:       engine,
		interactions: interactions,
	}
}

// Ask processes a question.
func (s *qaService) Ask(ctx context.Context, req rag.AskRequest) (rag.AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	req.Question = strings.TrimSpace(req.Question)
	req.DocumentID = strings.TrimSpace(req.DocumentID)

	if req.Question == "" {
		logger.WarnContext(ctx, "empty question in ask request")
		return rag.AskResponse{}, &ValidationError{Field: "question", Message: "cannot be empty"}
	}
	if req.DocumentID == "" {
		return rag.AskResponse{}, &ValidationError{Field: "document_id", Message: "cannot be empty"}
	}
	if req.TopK < 0 || req.TopK > maxTopK {
		return rag.AskResponse{}, &ValidationError{Field: "top_k", Message: "must be between 1 and 50"}
	}

	resp, err := s.engine.Ask(ctx, req)
	if err != nil {
		logger.ErrorContext(ctx, "failed to answer question", "document_id", req.DocumentID, "error", err)
		return rag.AskResponse{}, MapError(err, "failed to answer question")
	}

	s.record(ctx, req, resp)
	return resp, nil
}

// record stores the interaction. Failures are logged and do not fail the answer.
func (s *qaService) record(ctx context.Context, req rag.AskRequest, resp rag.AskResponse) {
	if s.interactions == nil {
		return
	}

	rec := &storage.InteractionRecord{
		DocumentID: req.DocumentID,
		Question:   req.Question,
		Answer:     resp.Answer,
	}
	if resp.ProcessingInfo != nil {
		rec.ModelUsed = resp.ProcessingInfo.ModelUsed
		rec.ChunksUsed = resp.ProcessingInfo.ChunksUsed
	}
	if err := s.interactions.Insert(ctx, rec); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record interaction", "document_id", req.DocumentID, "error", err)
	}
}

// History lists past interactions for documentID.
func (s *qaService) History(ctx context.Context, documentID string, limit int) ([]*storage.InteractionRecord, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, &ValidationError{Field: "document_id", Message: "cannot be empty"}
	}
	if s.interactions == nil {
		return []*storage.InteractionRecord{}, nil
	}

	records, err := s.interactions.ListByDocument(ctx, documentID, limit)
	if err != nil {
		return nil, WrapError(err, "failed to list interactions")
	}
	return records, nil
}
