package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"paperqa/internal/document"
	"paperqa/internal/service"
	"paperqa/internal/service/mocks"
	"paperqa/internal/storage"
)

// documentRouter mounts the document routes the way the API router does.
func documentRouter(h *DocumentHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/documents", h.Upload)
	r.Get("/documents", h.List)
	r.Get("/documents/{id}", h.Get)
	r.Delete("/documents/{id}", h.Delete)
	r.Get("/documents/{id}/history", h.History)
	return r
}

func multipartBody(t *testing.T, filename, content, documentID string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		_, _ = part.Write([]byte(content))
	}
	if documentID != "" {
		_ = mw.WriteField("document_id", documentID)
	}
	_ = mw.Close()
	return body, mw.FormDataContentType()
}

func TestDocumentHandler_Upload(t *testing.T) {
	ctrl := gomock.NewController(t)
	docs := mocks.NewMockDocumentService(ctrl)
	docs.EXPECT().Upload(gomock.Any(), "paper.pdf", gomock.Any(), "p1").DoAndReturn(
		func(_ context.Context, _ string, r io.Reader, id string) (*document.IngestResult, error) {
			data, _ := io.ReadAll(r)
			if string(data) != "%PDF-1.4" {
				t.Errorf("uploaded content = %q", data)
			}
			return &document.IngestResult{DocumentID: id, Chunks: 12}, nil
		})

	router := documentRouter(NewDocumentHandler(docs, mocks.NewMockQAService(ctrl), 1024))
	body, contentType := multipartBody(t, "paper.pdf", "%PDF-1.4", "p1")
	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, body = %s", w.Code, w.Body.String())
	}
	var resp UploadResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.DocumentID != "p1" || resp.ChunksProcessed != 12 || !resp.Success {
		t.Errorf("response = %+v", resp)
	}
}

func TestDocumentHandler_UploadErrors(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		serviceErr error
		wantStatus int
	}{
		{name: "missing file", wantStatus: http.StatusBadRequest},
		{
			name:       "unsupported type",
			filename:   "paper.docx",
			serviceErr: &service.ValidationError{Field: "file", Message: "unsupported file type"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "ingestion failure",
			filename:   "paper.txt",
			serviceErr: fmt.Errorf("failed to process document: embedder down"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			docs := mocks.NewMockDocumentService(ctrl)
			if tt.serviceErr != nil {
				docs.EXPECT().Upload(gomock.Any(), tt.filename, gomock.Any(), "").Return(nil, tt.serviceErr)
			}

			router := documentRouter(NewDocumentHandler(docs, mocks.NewMockQAService(ctrl), 1024))
			body, contentType := multipartBody(t, tt.filename, "content", "")
			req := httptest.NewRequest(http.MethodPost, "/documents", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %v, want %v, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestDocumentHandler_ListGetDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	docs := mocks.NewMockDocumentService(ctrl)
	processed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	docs.EXPECT().List(gomock.Any()).Return([]string{"a", "b"})
	docs.EXPECT().Get(gomock.Any(), "a").Return(&storage.DocumentRecord{ID: "a", Collection: "doc_a", ChunkCount: 7, ProcessedAt: processed}, nil)
	docs.EXPECT().Get(gomock.Any(), "zzz").Return(nil, fmt.Errorf("failed to get document: %w", service.ErrNotFound))
	docs.EXPECT().Delete(gomock.Any(), "a").Return(nil)
	docs.EXPECT().Delete(gomock.Any(), "zzz").Return(fmt.Errorf("%w: document zzz", service.ErrNotFound))

	router := documentRouter(NewDocumentHandler(docs, mocks.NewMockQAService(ctrl), 0))

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{http.MethodGet, "/documents", http.StatusOK, `{"documents":["a","b"],"count":2}`},
		{http.MethodGet, "/documents/a", http.StatusOK, `{"document_id":"a","collection":"doc_a","chunk_count":7,"page_count":0,"processed_at":"2026-03-01T12:00:00Z"}`},
		{http.MethodGet, "/documents/zzz", http.StatusNotFound, ""},
		{http.MethodDelete, "/documents/a", http.StatusOK, `{"message":"Document a deleted successfully"}`},
		{http.MethodDelete, "/documents/zzz", http.StatusNotFound, `{"error":"Document zzz not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && !jsonEqual(t, w.Body.Bytes(), tt.wantBody) {
				t.Errorf("body = %s, want %s", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestDocumentHandler_History(t *testing.T) {
	ctrl := gomock.NewController(t)
	qa := mocks.NewMockQAService(ctrl)
	created := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)

	qa.EXPECT().History(gomock.Any(), "d1", defaultHistoryLimit).Return([]*storage.InteractionRecord{
		{ID: 9, DocumentID: "d1", Question: "q", Answer: "a", ModelUsed: "extractive", ChunksUsed: 3, CreatedAt: created},
	}, nil)
	qa.EXPECT().History(gomock.Any(), "d1", maxHistoryLimit).Return(nil, nil)

	router := documentRouter(NewDocumentHandler(mocks.NewMockDocumentService(ctrl), qa, 0))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/d1/history", nil))
	want := `{"document_id":"d1","interactions":[{"id":9,"question":"q","answer":"a","model_used":"extractive","chunks_used":3,"created_at":"2026-03-02T08:30:00Z"}]}`
	if w.Code != http.StatusOK || !jsonEqual(t, w.Body.Bytes(), want) {
		t.Errorf("history = %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/d1/history?limit=5000", nil))
	if w.Code != http.StatusOK || !jsonEqual(t, w.Body.Bytes(), `{"document_id":"d1","interactions":[]}`) {
		t.Errorf("capped history = %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/d1/history?limit=abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid limit status = %d", w.Code)
	}
}

func jsonEqual(t *testing.T, got []byte, want string) bool {
	t.Helper()
	var a, b any
	if err := json.Unmarshal(got, &a); err != nil {
		t.Fatalf("invalid JSON %s: %v", got, err)
	}
	if err := json.Unmarshal([]byte(want), &b); err != nil {
		t.Fatalf("invalid expected JSON %s: %v", want, err)
	}
	ga, _ := json.Marshal(a)
	gb, _ := json.Marshal(b)
	return bytes.Equal(ga, gb)
}
