package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeLister struct {
	err error
}

func (f fakeLister) ListCollections(ctx context.Context) ([]string, error) {
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("health check should run with a deadline")
	}
	return []string{"doc_a"}, f.err
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		store      fakeLister
		wantStatus int
		wantState  string
	}{
		{name: "healthy", store: fakeLister{}, wantStatus: http.StatusOK, wantState: "healthy"},
		{name: "vector store down", store: fakeLister{err: errors.New("connection refused")}, wantStatus: http.StatusServiceUnavailable, wantState: "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.store, func() int { return 3 })
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %v, want %v", w.Code, tt.wantStatus)
			}
			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if resp.Status != tt.wantState || resp.Documents != 3 {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}
