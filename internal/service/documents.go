package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_manager.go -package=mocks paperqa/internal/service DocumentManager
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_service.go -package=mocks paperqa/internal/service DocumentService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"paperqa/internal/contextutil"
	"paperqa/internal/document"
	"paperqa/internal/indexer"
	"paperqa/internal/storage"
)

// DefaultMaxUploadBytes caps uploads when no limit is configured.
const DefaultMaxUploadBytes = 50 << 20

// DocumentManager is the part of document.Manager the service depends on.
type DocumentManager interface {
	Ingest(ctx context.Context, filePath, documentID string) (*document.IngestResult, error)
	List() []string
	Get(ctx context.Context, documentID string) (*storage.DocumentRecord, error)
	Delete(ctx context.Context, documentID string) (bool, error)
}

// DocumentService manages uploaded documents.
type DocumentService interface {
	// Upload stores r under a temporary name, ingests it and removes the temporary file.
	Upload(ctx context.Context, filename string, r io.Reader, documentID string) (*document.IngestResult, error)
	// List returns the ids of all ready documents.
	List(ctx context.Context) []string
	// Get returns the registry record of a document.
	Get(ctx context.Context, documentID string) (*storage.DocumentRecord, error)
	// Delete removes a document. Unknown ids fail with ErrNotFound.
	Delete(ctx context.Context, documentID string) error
}

// documentService implements DocumentService.
type documentService struct {
	manager   DocumentManager
	uploadDir string
	maxBytes  int64
}

// NewDocumentService creates a new DocumentService. An empty uploadDir uses the
// OS temp directory; maxBytes <= 0 uses DefaultMaxUploadBytes.
func NewDocumentService(manager DocumentManager, uploadDir string, maxBytes int64) DocumentService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &documentService{
		manager:   manager,
		uploadDir: uploadDir,
		maxBytes:  maxBytes,
	}
}

// Upload ingests an uploaded file.
func (s *documentService) Upload(ctx context.Context, filename string, r io.Reader, documentID string) (*document.IngestResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return nil, &ValidationError{Field: "file", Message: "filename is required"}
	}
	if !indexer.IsSupported(filename) {
		return nil, &ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("unsupported file type %q, expected one of %s", filepath.Ext(filename), strings.Join(indexer.SupportedExtensions, ", ")),
		}
	}
	documentID = strings.TrimSpace(documentID)
	if documentID != "" {
		if err := document.ValidateID(documentID); err != nil {
			return nil, &ValidationError{Field: "document_id", Message: err.Error()}
		}
	}

	path, err := s.store(filename, r)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.WarnContext(ctx, "failed to remove upload", "path", path, "error", err)
		}
	}()

	logger.InfoContext(ctx, "processing upload", "filename", filename, "document_id", documentID)
	result, err := s.manager.Ingest(ctx, path, documentID)
	if err != nil {
		return nil, MapError(err, "failed to process document")
	}
	return result, nil
}

// store copies r to a temporary file that keeps the extension of filename.
func (s *documentService) store(filename string, r io.Reader) (string, error) {
	f, err := os.CreateTemp(s.uploadDir, "upload-*"+strings.ToLower(filepath.Ext(filename)))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	n, copyErr := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to store upload: %w", copyErr)
	case closeErr != nil:
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to store upload: %w", closeErr)
	case n > s.maxBytes:
		_ = os.Remove(f.Name())
		return "", &ValidationError{Field: "file", Message: fmt.Sprintf("exceeds the %d byte limit", s.maxBytes)}
	case n == 0:
		_ = os.Remove(f.Name())
		return "", &ValidationError{Field: "file", Message: "is empty"}
	}
	return f.Name(), nil
}

// List returns document ids in order.
func (s *documentService) List(_ context.Context) []string {
	return s.manager.List()
}

// Get returns a document's registry record.
func (s *documentService) Get(ctx context.Context, documentID string) (*storage.DocumentRecord, error) {
	rec, err := s.manager.Get(ctx, documentID)
	if err != nil {
		return nil, MapError(err, "failed to get document")
	}
	return rec, nil
}

// Delete removes a document and everything derived from it.
func (s *documentService) Delete(ctx context.Context, documentID string) error {
	deleted, err := s.manager.Delete(ctx, documentID)
	if err != nil {
		return MapError(err, "failed to delete document")
	}
	if !deleted {
		return fmt.Errorf("%w: document %s", ErrNotFound, documentID)
	}
	return nil
}
