package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"paperqa/internal/contextutil"
	"paperqa/internal/service"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
	// multipartMemory is how much of an upload is buffered in memory before spilling to disk.
	multipartMemory = 8 << 20
)

// DocumentHandler handles HTTP requests for document management.
type DocumentHandler struct {
	documents service.DocumentService
	qa        service.QAService
	maxBytes  int64
}

// NewDocumentHandler creates a new DocumentHandler. maxBytes caps the request body of uploads.
func NewDocumentHandler(documents service.DocumentService, qa service.QAService, maxBytes int64) *DocumentHandler {
	if maxBytes <= 0 {
		maxBytes = service.DefaultMaxUploadBytes
	}
	return &DocumentHandler{
		documents: documents,
		qa:        qa,
		maxBytes:  maxBytes,
	}
}

// UploadResponse is returned after a document has been ingested.
//
// swagger:model UploadResponse
type UploadResponse struct {
	DocumentID      string `json:"document_id"`
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	ChunksProcessed int    `json:"chunks_processed"`
}

// DocumentListResponse lists ready documents.
//
// swagger:model DocumentListResponse
type DocumentListResponse struct {
	Documents []string `json:"documents"`
	Count     int      `json:"count"`
}

// DocumentResponse describes one ingested document.
//
// swagger:model DocumentResponse
type DocumentResponse struct {
	DocumentID  string `json:"document_id"`
	Collection  string `json:"collection"`
	Source      string `json:"source,omitempty"`
	ChunkCount  int    `json:"chunk_count"`
	PageCount   int    `json:"page_count"`
	Hash        string `json:"hash,omitempty"`
	ProcessedAt string `json:"processed_at,omitempty"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// InteractionResponse is one past question and its answer.
//
// swagger:model InteractionResponse
type InteractionResponse struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	ModelUsed  string `json:"model_used"`
	ChunksUsed int    `json:"chunks_used"`
	CreatedAt  string `json:"created_at"`
}

// HistoryResponse lists past interactions for a document, newest first.
//
// swagger:model HistoryResponse
type HistoryResponse struct {
	DocumentID   string                `json:"document_id"`
	Interactions []InteractionResponse `json:"interactions"`
}

// Upload ingests a multipart upload with a "file" part and an optional "document_id" field.
//
// swagger:route POST /api/v1/documents uploadDocument
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes", h.maxBytes))
			return
		}
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	documentID := r.FormValue("document_id")
	result, err := h.documents.Upload(ctx, header.Filename, file, documentID)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process document")
		return
	}

	writeJSON(ctx, w, http.StatusOK, UploadResponse{
		DocumentID:      result.DocumentID,
		Success:         true,
		Message:         fmt.Sprintf("Document processed into %d chunks", result.Chunks),
		ChunksProcessed: result.Chunks,
	})
}

// List returns the ids of all ready documents.
//
// swagger:route GET /api/v1/documents listDocuments
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	ids := h.documents.List(r.Context())
	if ids == nil {
		ids = []string{}
	}
	writeJSON(r.Context(), w, http.StatusOK, DocumentListResponse{Documents: ids, Count: len(ids)})
}

// Get returns one document.
//
// swagger:route GET /api/v1/documents/{id} getDocument
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	rec, err := h.documents.Get(ctx, id)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to get document")
		return
	}

	resp := DocumentResponse{
		DocumentID: rec.ID,
		Collection: rec.Collection,
		Source:     rec.Source,
		ChunkCount: rec.ChunkCount,
		PageCount:  rec.PageCount,
		Hash:       rec.Hash,
	}
	if !rec.ProcessedAt.IsZero() {
		resp.ProcessedAt = rec.ProcessedAt.UTC().Format(time.RFC3339)
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Delete removes a document.
//
// swagger:route DELETE /api/v1/documents/{id} deleteDocument
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.documents.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Document %s not found", id))
			return
		}
		handleServiceError(w, ctx, err, "Failed to delete document")
		return
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "document deleted", "document_id", id)
	writeJSON(ctx, w, http.StatusOK, MessageResponse{Message: fmt.Sprintf("Document %s deleted successfully", id)})
}

// History lists past questions about a document. ?limit bounds the count.
//
// swagger:route GET /api/v1/documents/{id}/history documentHistory
func (h *DocumentHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := h.qa.History(ctx, id, limit)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list history")
		return
	}

	resp := HistoryResponse{DocumentID: id, Interactions: make([]InteractionResponse, 0, len(records))}
	for _, rec := range records {
		resp.Interactions = append(resp.Interactions, InteractionResponse{
			ID:         rec.ID,
			Question:   rec.Question,
			Answer:     rec.Answer,
			ModelUsed:  rec.ModelUsed,
			ChunksUsed: rec.ChunksUsed,
			CreatedAt:  rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}
