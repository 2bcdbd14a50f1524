package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-process VectorStore using brute-force cosine similarity.
// Contents are lost when the process exits.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	dimension int
	metadata  map[string]string
	records   []Record
	index     map[string]int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

// CreateCollection creates an empty collection. It fails if the name is taken.
func (s *MemoryStore) CreateCollection(_ context.Context, name string, vectorSize int, metadata map[string]string) error {
	if vectorSize <= 0 {
		return fmt.Errorf("invalid vector size %d", vectorSize)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; ok {
		return fmt.Errorf("collection %q already exists", name)
	}
	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	s.collections[name] = &memoryCollection{
		dimension: vectorSize,
		metadata:  meta,
		index:     make(map[string]int),
	}
	return nil
}

// DeleteCollection removes a collection if present.
func (s *MemoryStore) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
	return nil
}

// CollectionExists reports whether a collection exists.
func (s *MemoryStore) CollectionExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[name]
	return ok, nil
}

// ListCollections returns collection names in lexical order.
func (s *MemoryStore) ListCollections(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CollectionMetadata returns a copy of the metadata a collection was created with.
func (s *MemoryStore) CollectionMetadata(name string) (map[string]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return nil, false
	}
	meta := make(map[string]string, len(c.metadata))
	for k, v := range c.metadata {
		meta[k] = v
	}
	return meta, true
}

// Add stores records, replacing any with the same id.
func (s *MemoryStore) Add(_ context.Context, collection string, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[collection]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}
	for _, r := range records {
		if len(r.Vector) != c.dimension {
			return fmt.Errorf("vector dimension mismatch for %s: expected %d, got %d", r.ID, c.dimension, len(r.Vector))
		}
	}
	for _, r := range records {
		stored := Record{
			ID:       r.ID,
			Vector:   append([]float32(nil), r.Vector...),
			Document: r.Document,
			Metadata: copyMeta(r.Metadata),
		}
		if i, ok := c.index[r.ID]; ok {
			c.records[i] = stored
			continue
		}
		c.index[r.ID] = len(c.records)
		c.records = append(c.records, stored)
	}
	return nil
}

// Query returns the n records with the smallest cosine distance. Ties keep insertion order.
func (s *MemoryStore) Query(_ context.Context, collection string, vector []float32, n int) ([]QueryResult, error) {
	if n <= 0 {
		return nil, fmt.Errorf("n must be greater than 0")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}
	if len(vector) != c.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", c.dimension, len(vector))
	}

	results := make([]QueryResult, 0, len(c.records))
	for _, r := range c.records {
		results = append(results, QueryResult{
			ID:       r.ID,
			Document: r.Document,
			Metadata: copyMeta(r.Metadata),
			Distance: distanceFromSimilarity(cosine(r.Vector, vector)),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if n < len(results) {
		results = results[:n]
	}
	return results, nil
}

func cosine(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

func copyMeta(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
