package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks paperqa/internal/rag Engine

import (
	"context"
	"fmt"
	"strings"

	"paperqa/internal/contextutil"
	"paperqa/internal/metrics"
)

const sourcePreviewLength = 250

// Engine answers questions about ingested documents.
type Engine interface {
	// Ask retrieves the relevant chunks of req.DocumentID and answers req.Question from them.
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	retriever   *Retriever
	synthesizer *Synthesizer
	metrics     *metrics.Metrics
}

// NewEngine creates a new RAG engine.
func NewEngine(retriever *Retriever, synthesizer *Synthesizer, m *metrics.Metrics) Engine {
	return &ragEngine{
		retriever:   retriever,
		synthesizer: synthesizer,
		metrics:     m,
	}
}

// Ask answers a question using RAG.
func (e *ragEngine) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	ctx = contextutil.WithAttrs(ctx, "document_id", req.DocumentID)
	logger := contextutil.LoggerFromContext(ctx)

	question := strings.TrimSpace(req.Question)
	cleaned := CleanQuestion(question)

	logger.InfoContext(ctx, "RAG query started", "question", cleaned, "top_k", req.TopK, "extractive", req.Extractive)

	candidates, err := e.retriever.Retrieve(ctx, cleaned, req.DocumentID, req.TopK)
	if err != nil {
		logger.ErrorContext(ctx, "retrieval failed", "error", err)
		return AskResponse{}, fmt.Errorf("failed to retrieve chunks: %w", err)
	}

	info := &ProcessingInfo{
		ChunksUsed:        len(candidates),
		QuestionProcessed: cleaned != question,
	}

	if len(candidates) == 0 {
		logger.InfoContext(ctx, "no relevant chunks found")
		info.ModelUsed = ModelNone
		return AskResponse{
			Answer:         NoRelevantInfoAnswer,
			Sources:        []Source{},
			Success:        true,
			ProcessingInfo: info,
		}, nil
	}

	answer, err := e.synthesizer.Synthesize(ctx, cleaned, candidates, req.Extractive)
	if err != nil {
		return AskResponse{}, fmt.Errorf("failed to synthesize answer: %w", err)
	}
	info.ModelUsed = answer.Model
	e.metrics.IncQuestion(answer.Model)

	logger.InfoContext(ctx, "RAG query completed", "chunks_used", len(candidates), "model", answer.Model, "answer_length", len(answer.Text))

	return AskResponse{
		Answer:         answer.Text,
		Sources:        BuildSources(candidates),
		Success:        true,
		ProcessingInfo: info,
	}, nil
}

// BuildSources describes each candidate for display alongside an answer.
func BuildSources(candidates []Candidate) []Source {
	sources := make([]Source, 0, len(candidates))
	for _, c := range candidates {
		label := fmt.Sprintf("Page %s, %s Section", pageLabel(c.Chunk.Page), c.Chunk.Section.Title())
		if c.Chunk.HasMath {
			label += " (Contains Mathematical Content)"
		}
		if c.Chunk.HasFigureRef {
			label += " (References Figures/Tables)"
		}
		sources = append(sources, Source{
			Text:           truncate(c.Chunk.Text, sourcePreviewLength),
			Metadata:       label,
			RelevanceScore: c.FinalScore,
			SectionType:    string(c.Chunk.Section),
			ChunkID:        c.Chunk.ID,
			Page:           c.Chunk.Page,
		})
	}
	return sources
}
