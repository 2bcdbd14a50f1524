package rag

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"paperqa/internal/contextutil"
	"paperqa/internal/document"
	"paperqa/internal/indexer"
	"paperqa/internal/metrics"
	"paperqa/internal/vectorstore"
)

const (
	// DefaultTopK is used when a request does not ask for a chunk count.
	DefaultTopK = 5
	// maxCandidates caps how many neighbors are fetched for reranking.
	maxCandidates = 10
)

// Embedder produces one vector per input text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// CollectionResolver maps a document id to its vector collection.
type CollectionResolver interface {
	Collection(ctx context.Context, documentID string) (document.Collection, error)
}

// Retriever finds and reranks the chunks of a document that best match a question.
type Retriever struct {
	resolver    CollectionResolver
	embedder    Embedder
	store       vectorstore.VectorStore
	defaultTopK int
	metrics     *metrics.Metrics
}

// NewRetriever creates a retriever. defaultTopK <= 0 uses DefaultTopK.
func NewRetriever(resolver CollectionResolver, embedder Embedder, store vectorstore.VectorStore, defaultTopK int, m *metrics.Metrics) *Retriever {
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	return &Retriever{
		resolver:    resolver,
		embedder:    embedder,
		store:       store,
		defaultTopK: defaultTopK,
		metrics:     m,
	}
}

// candidateCount is how many neighbors to fetch for topK results.
func candidateCount(topK int) int {
	return min(2*topK, maxCandidates)
}

// Retrieve returns up to topK candidates for question, best first. An empty
// result means the document has no matching content; an unknown document
// fails with document.ErrDocumentNotFound.
func (r *Retriever) Retrieve(ctx context.Context, question, documentID string, topK int) ([]Candidate, error) {
	logger := contextutil.LoggerFromContext(ctx)
	start := time.Now()
	defer func() { r.metrics.ObserveRetrieval(time.Since(start)) }()

	if topK <= 0 {
		topK = r.defaultTopK
	}

	col, err := r.resolver.Collection(ctx, documentID)
	if err != nil {
		return nil, err
	}

	embeddings, err := r.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for question")
	}

	n := candidateCount(topK)
	results, err := r.store.Query(ctx, col.Name, embeddings[0], n)
	if err != nil {
		// The collection can vanish between lookup and query during re-ingestion.
		if errors.Is(err, vectorstore.ErrCollectionNotFound) {
			return nil, fmt.Errorf("%w: %s", document.ErrDocumentNotFound, documentID)
		}
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	candidates := make([]Candidate, 0, len(results))
	for _, res := range results {
		chunk := indexer.ChunkFromMetadata(res.ID, res.Document, res.Metadata)
		distance := float64(res.Distance)
		relevance := 1 - distance
		boost := Boost(question, chunk)
		candidates = append(candidates, Candidate{
			Chunk:      chunk,
			Distance:   distance,
			Relevance:  relevance,
			Boost:      boost,
			FinalScore: relevance * boost,
		})
	}

	// Ties keep the vector store order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FinalScore > candidates[j].FinalScore
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	logger.DebugContext(ctx, "retrieved candidates",
		"document_id", documentID,
		"requested", n,
		"returned", len(results),
		"kept", len(candidates),
	)
	for i, c := range candidates {
		logger.DebugContext(ctx, "candidate",
			"rank", i+1,
			"chunk_id", c.Chunk.ID,
			"distance", c.Distance,
			"boost", c.Boost,
			"final_score", c.FinalScore,
			"section", c.Chunk.Section,
		)
	}

	return candidates, nil
}
