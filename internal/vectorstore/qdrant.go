package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"paperqa/internal/contextutil"
)

// Payload keys reserved by QdrantStore.
const (
	payloadRecordID = "record_id"
	payloadDocument = "document"
)

// pointNamespace seeds the UUIDv5 point ids derived from record ids.
var pointNamespace = uuid.MustParse("6f1d2c0e-8f4a-4b7e-9a51-3c2d7e0b5a19")

// QdrantStore implements VectorStore using Qdrant.
type QdrantStore struct {
	client *qdrant.Client
}

// NewQdrantStore creates a new Qdrant vector store client.
// urlStr should be in the format "http://host:port" (e.g., "http://localhost:6333").
// The gRPC port is derived from the HTTP port (HTTP port + 1).
func NewQdrantStore(urlStr string) (*QdrantStore, error) {
	host, port, err := grpcAddress(urlStr)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{
		client: client,
	}, nil
}

// grpcAddress derives the gRPC host and port from a Qdrant HTTP URL.
func grpcAddress(urlStr string) (string, int, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err == nil {
			port = httpPort + 1
		}
	}
	return host, port, nil
}

// PointID maps a record id onto the deterministic UUID Qdrant stores it under.
func PointID(recordID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(recordID)).String()
}

// Close releases the underlying gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// CreateCollection creates a cosine-distance collection with metadata attached.
func (s *QdrantStore) CreateCollection(ctx context.Context, name string, vectorSize int, metadata map[string]string) error {
	logger := contextutil.LoggerFromContext(ctx)

	if vectorSize <= 0 {
		return fmt.Errorf("invalid vector size %d", vectorSize)
	}

	err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(vectorSize),
			Distance: qdrant.Distance_Cosine,
		}),
		Metadata: collectionMetadata(metadata),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	logger.InfoContext(ctx, "collection created", "collection", name, "vector_size", vectorSize, "metadata", metadata)
	return nil
}

func collectionMetadata(metadata map[string]string) map[string]*qdrant.Value {
	if len(metadata) == 0 {
		return nil
	}
	values := make(map[string]*qdrant.Value, len(metadata))
	for k, v := range metadata {
		values[k] = qdrant.NewValueString(v)
	}
	return values
}

// DeleteCollection removes a collection if it exists.
func (s *QdrantStore) DeleteCollection(ctx context.Context, name string) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	if err := s.client.DeleteCollection(ctx, name); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	logger.InfoContext(ctx, "collection deleted", "collection", name)
	return nil
}

// CollectionExists checks if a collection exists.
func (s *QdrantStore) CollectionExists(ctx context.Context, name string) (bool, error) {
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("failed to check collection existence: %w", err)
	}
	return exists, nil
}

// ListCollections returns the names of all collections.
func (s *QdrantStore) ListCollections(ctx context.Context) ([]string, error) {
	names, err := s.client.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return names, nil
}

// Add upserts records as points and waits until they are searchable.
func (s *QdrantStore) Add(ctx context.Context, collection string, records []Record) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(records) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(records))
	for _, r := range records {
		payload, err := toPayload(r)
		if err != nil {
			return err
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(PointID(r.ID)),
			Vectors: qdrant.NewVectors(r.Vector...),
			Payload: payload,
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert points", "collection", collection, "count", len(records), "error", err)
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
		}
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	logger.InfoContext(ctx, "upserted points", "collection", collection, "count", len(records))
	return nil
}

// Query returns the n nearest points. Qdrant reports cosine similarity, which
// is converted to a distance clamped to [0, 1].
func (s *QdrantStore) Query(ctx context.Context, collection string, vector []float32, n int) ([]QueryResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if n <= 0 {
		return nil, fmt.Errorf("n must be greater than 0")
	}

	limit := uint64(n)
	scoredPoints, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to query points", "collection", collection, "n", n, "error", err)
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
		}
		return nil, fmt.Errorf("failed to query points: %w", err)
	}

	results := make([]QueryResult, 0, len(scoredPoints))
	for _, point := range scoredPoints {
		meta := convertPayloadToMap(point.GetPayload())

		id, _ := meta[payloadRecordID].(string)
		if id == "" && point.GetId() != nil {
			id = point.GetId().GetUuid()
		}
		doc, _ := meta[payloadDocument].(string)
		delete(meta, payloadRecordID)
		delete(meta, payloadDocument)

		results = append(results, QueryResult{
			ID:       id,
			Document: doc,
			Metadata: meta,
			Distance: distanceFromSimilarity(point.GetScore()),
		})
	}

	logger.DebugContext(ctx, "query completed", "collection", collection, "n", n, "results", len(results))
	return results, nil
}

// toPayload flattens a record into a Qdrant payload, keeping the original id and text.
func toPayload(r Record) (map[string]*qdrant.Value, error) {
	fields := make(map[string]any, len(r.Metadata)+2)
	for k, v := range r.Metadata {
		fields[k] = v
	}
	fields[payloadRecordID] = r.ID
	fields[payloadDocument] = r.Document

	payload, err := qdrant.TryValueMap(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to convert metadata for %s: %w", r.ID, err)
	}
	return payload, nil
}

// convertPayloadToMap converts Qdrant payload to map[string]any.
func convertPayloadToMap(payload map[string]*qdrant.Value) map[string]any {
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		if v == nil {
			continue
		}
		result[k] = convertValue(v)
	}
	return result
}

// convertValue converts a Qdrant Value to Go any type.
func convertValue(v *qdrant.Value) any {
	switch val := v.Kind.(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_ListValue:
		list := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			list[i] = convertValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return convertPayloadToMap(val.StructValue.Fields)
	default:
		return nil
	}
}
