package storage

import "time"

// DocumentRecord is the registry entry for an ingested document.
type DocumentRecord struct {
	ID          string
	Collection  string // Vector store collection name
	Source      string // Original file name
	ChunkCount  int
	PageCount   int
	Hash        string // SHA256 hex string of the source file
	ProcessedAt time.Time
}

// InteractionRecord is one answered question about a document.
type InteractionRecord struct {
	ID         int64
	DocumentID string
	Question   string
	Answer     string
	ModelUsed  string
	ChunksUsed int
	CreatedAt  time.Time
}
