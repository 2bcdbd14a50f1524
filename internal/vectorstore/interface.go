package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks paperqa/internal/vectorstore VectorStore

import (
	"context"
	"errors"
)

// ErrCollectionNotFound is returned when an operation targets a collection that does not exist.
var ErrCollectionNotFound = errors.New("collection not found")

// Record is one stored chunk: its id, embedding, text and flat metadata.
type Record struct {
	ID       string
	Vector   []float32
	Document string
	Metadata map[string]any
}

// QueryResult is a nearest-neighbor match. Distance is cosine distance in [0, 1].
type QueryResult struct {
	ID       string
	Document string
	Metadata map[string]any
	Distance float32
}

// VectorStore manages named collections of embedded records.
type VectorStore interface {
	// CreateCollection creates an empty cosine collection for vectors of vectorSize.
	CreateCollection(ctx context.Context, name string, vectorSize int, metadata map[string]string) error

	// DeleteCollection removes a collection and all of its records. Deleting a missing collection is a no-op.
	DeleteCollection(ctx context.Context, name string) error

	// CollectionExists reports whether a collection exists.
	CollectionExists(ctx context.Context, name string) (bool, error)

	// ListCollections returns the names of all collections.
	ListCollections(ctx context.Context) ([]string, error)

	// Add stores records in a collection, replacing records with the same id.
	Add(ctx context.Context, collection string, records []Record) error

	// Query returns up to n records nearest to vector, closest first.
	Query(ctx context.Context, collection string, vector []float32, n int) ([]QueryResult, error)
}

// distanceFromSimilarity converts cosine similarity into a distance clamped to [0, 1].
// Negative similarities (opposing vectors) saturate at distance 1.
func distanceFromSimilarity(similarity float32) float32 {
	d := 1 - similarity
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}
