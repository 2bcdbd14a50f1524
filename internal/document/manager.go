package document

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"paperqa/internal/contextutil"
	"paperqa/internal/indexer"
	"paperqa/internal/metrics"
	"paperqa/internal/storage"
	"paperqa/internal/vectorstore"
)

// CollectionPrefix is prepended to a document id to name its collection.
const CollectionPrefix = "doc_"

var (
	// ErrDocumentNotFound is returned when neither the catalog nor the vector store knows a document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidDocumentID is returned for ids that cannot be used in a collection name.
	ErrInvalidDocumentID = errors.New("invalid document id")
)

var documentIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// CollectionName returns the vector store collection for documentID.
func CollectionName(documentID string) string {
	return CollectionPrefix + documentID
}

// ValidateID checks that documentID is usable as part of a collection name.
func ValidateID(documentID string) error {
	if !documentIDPattern.MatchString(documentID) {
		return fmt.Errorf("%w: %q", ErrInvalidDocumentID, documentID)
	}
	return nil
}

// Embedder produces one vector per input text, preserving order.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// IngestResult describes a completed ingestion.
type IngestResult struct {
	DocumentID string
	Collection string
	Chunks     int
	Pages      int
	Stats      indexer.ChunkStats
}

// Manager owns the document catalog and the lifecycle of per-document collections.
type Manager struct {
	store        vectorstore.VectorStore
	embedder     Embedder
	loader       *indexer.Loader
	chunker      *indexer.Chunker
	catalog      *Catalog
	documents    storage.DocumentStore
	interactions storage.InteractionStore
	metrics      *metrics.Metrics
	now          func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithChunker replaces the default chunker.
func WithChunker(c *indexer.Chunker) Option {
	return func(m *Manager) { m.chunker = c }
}

// WithDocumentStore records ingested documents in a registry.
func WithDocumentStore(s storage.DocumentStore) Option {
	return func(m *Manager) { m.documents = s }
}

// WithInteractionStore lets Delete drop a document's question history.
func WithInteractionStore(s storage.InteractionStore) Option {
	return func(m *Manager) { m.interactions = s }
}

// WithMetrics records ingestion metrics.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// WithCatalog shares an existing catalog.
func WithCatalog(c *Catalog) Option {
	return func(m *Manager) { m.catalog = c }
}

// NewManager creates a document manager over store and embedder.
func NewManager(store vectorstore.VectorStore, embedder Embedder, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		embedder: embedder,
		loader:   indexer.NewLoader(),
		chunker:  indexer.NewChunker(nil),
		catalog:  NewCatalog(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load fills the catalog from the collections already present in the vector store.
// It returns the number of documents found.
func (m *Manager) Load(ctx context.Context) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	names, err := m.store.ListCollections(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list collections: %w", err)
	}

	found := 0
	for _, name := range names {
		id, ok := strings.CutPrefix(name, CollectionPrefix)
		if !ok || id == "" {
			continue
		}
		m.catalog.Put(Collection{Name: name, DocumentID: id})
		found++
	}
	m.metrics.SetCatalogSize(m.catalog.Len())

	logger.InfoContext(ctx, "loaded document catalog", "documents", found, "collections", len(names))
	return found, nil
}

// Ingest chunks, embeds and stores the file at filePath as documentID. An empty
// documentID gets a generated UUID. Any existing collection for the document is
// replaced; while the rebuild runs the document is absent from the catalog, and
// it stays absent if the rebuild fails.
func (m *Manager) Ingest(ctx context.Context, filePath, documentID string) (result *IngestResult, err error) {
	start := time.Now()
	defer func() {
		chunks := 0
		if result != nil {
			chunks = result.Chunks
		}
		m.metrics.ObserveIngest(err, time.Since(start), chunks)
	}()

	if documentID == "" {
		documentID = uuid.New().String()
	}
	if err := ValidateID(documentID); err != nil {
		return nil, err
	}

	ctx = contextutil.WithAttrs(ctx, "document_id", documentID)
	logger := contextutil.LoggerFromContext(ctx)

	if !indexer.IsSupported(filePath) {
		return nil, fmt.Errorf("%w: %s", indexer.ErrUnsupportedFileType, filepath.Ext(filePath))
	}

	hashHex, err := hashFile(filePath)
	if err != nil {
		return nil, err
	}

	pages, err := m.loader.Load(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	source := filepath.Base(filePath)
	chunks, err := m.chunker.Chunk(documentID, source, pages)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk document: %w", err)
	}

	stats := indexer.ComputeChunkStats(chunks)
	logger.DebugContext(ctx, "chunked document", "source", source, "pages", len(pages), "stats", stats)

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := m.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	records := make([]vectorstore.Record, len(chunks))
	for i, c := range chunks {
		records[i] = vectorstore.Record{
			ID:       c.ID,
			Vector:   embeddings[i],
			Document: c.Text,
			Metadata: c.Metadata(),
		}
	}

	name := CollectionName(documentID)
	processedAt := m.now().UTC()

	m.catalog.Remove(documentID)
	m.metrics.SetCatalogSize(m.catalog.Len())

	if err := m.store.DeleteCollection(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to drop existing collection: %w", err)
	}

	collectionMeta := map[string]string{
		"document_id":  documentID,
		"source":       source,
		"processed_at": processedAt.Format(time.RFC3339),
	}
	if err := m.store.CreateCollection(ctx, name, len(embeddings[0]), collectionMeta); err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	if err := m.store.Add(ctx, name, records); err != nil {
		if cleanupErr := m.store.DeleteCollection(ctx, name); cleanupErr != nil {
			logger.WarnContext(ctx, "failed to remove partial collection", "collection", name, "error", cleanupErr)
		}
		return nil, fmt.Errorf("failed to store chunks: %w", err)
	}

	m.catalog.Put(Collection{Name: name, DocumentID: documentID})
	m.metrics.SetCatalogSize(m.catalog.Len())

	if m.documents != nil {
		rec := &storage.DocumentRecord{
			ID:          documentID,
			Collection:  name,
			Source:      source,
			ChunkCount:  len(chunks),
			PageCount:   len(pages),
			Hash:        hashHex,
			ProcessedAt: processedAt,
		}
		if err := m.documents.Upsert(ctx, rec); err != nil {
			// The collection is complete and queryable; only the registry row is missing.
			logger.WarnContext(ctx, "failed to record document", "error", err)
		}
	}

	logger.InfoContext(ctx, "ingested document", "source", source, "chunks", len(chunks), "pages", len(pages))

	return &IngestResult{
		DocumentID: documentID,
		Collection: name,
		Chunks:     len(chunks),
		Pages:      len(pages),
		Stats:      stats,
	}, nil
}

// List returns the ids in the catalog. It does not consult the vector store.
func (m *Manager) List() []string {
	return m.catalog.IDs()
}

// Delete removes the document's collection, catalog entry, registry row and
// question history. It returns false when the document is unknown.
func (m *Manager) Delete(ctx context.Context, documentID string) (bool, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if ValidateID(documentID) != nil {
		return false, nil
	}

	name := CollectionName(documentID)
	_, cached := m.catalog.Get(documentID)

	exists, err := m.store.CollectionExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("failed to check collection: %w", err)
	}
	if !cached && !exists {
		return false, nil
	}

	if exists {
		if err := m.store.DeleteCollection(ctx, name); err != nil {
			return false, fmt.Errorf("failed to delete collection: %w", err)
		}
	}
	m.catalog.Remove(documentID)
	m.metrics.SetCatalogSize(m.catalog.Len())

	if m.documents != nil {
		if err := m.documents.Delete(ctx, documentID); err != nil {
			logger.WarnContext(ctx, "failed to delete document record", "document_id", documentID, "error", err)
		}
	}
	if m.interactions != nil {
		if err := m.interactions.DeleteByDocument(ctx, documentID); err != nil {
			logger.WarnContext(ctx, "failed to delete document history", "document_id", documentID, "error", err)
		}
	}

	logger.InfoContext(ctx, "deleted document", "document_id", documentID)
	return true, nil
}

// Collection resolves the collection for documentID, reattaching it from the
// vector store when the catalog does not have it.
func (m *Manager) Collection(ctx context.Context, documentID string) (Collection, error) {
	if col, ok := m.catalog.Get(documentID); ok {
		return col, nil
	}
	if ValidateID(documentID) != nil {
		return Collection{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
	}

	name := CollectionName(documentID)
	exists, err := m.store.CollectionExists(ctx, name)
	if err != nil {
		return Collection{}, fmt.Errorf("failed to check collection: %w", err)
	}
	if !exists {
		return Collection{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
	}

	col := Collection{Name: name, DocumentID: documentID}
	m.catalog.Put(col)
	m.metrics.SetCatalogSize(m.catalog.Len())

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "reattached collection", "document_id", documentID)
	return col, nil
}

// Get returns the registry record for documentID. Documents that exist in the
// vector store but were never registered get a record with only the id and collection.
func (m *Manager) Get(ctx context.Context, documentID string) (*storage.DocumentRecord, error) {
	if m.documents != nil {
		rec, err := m.documents.Get(ctx, documentID)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("failed to get document record: %w", err)
		}
	}

	col, err := m.Collection(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return &storage.DocumentRecord{ID: col.DocumentID, Collection: col.Name}, nil
}

// Catalog returns the manager's catalog.
func (m *Manager) Catalog() *Catalog {
	return m.catalog
}

// hashFile returns the hex SHA-256 of the file at path without holding it in memory.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file %s: %w", path, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
