package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"paperqa/internal/contextutil"
)

// captureLogs routes the default logger into a buffer of JSON lines for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		lines = append(lines, entry)
	}
	return lines
}

func TestLoggerMiddleware_AttachesRequestLogger(t *testing.T) {
	buf := captureLogs(t)

	handler := LoggerMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contextutil.LoggerFromContext(r.Context()).InfoContext(r.Context(), "asking question")
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d", w.Code, http.StatusAccepted)
	}
	requestID := w.Header().Get(RequestIDHeader)
	if requestID == "" {
		t.Fatal("request id header not set")
	}

	lines := logLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1", len(lines))
	}
	entry := lines[0]
	if entry["request_id"] != requestID {
		t.Errorf("request_id = %v, want %s", entry["request_id"], requestID)
	}
	if entry["method"] != http.MethodPost || entry["path"] != "/api/v1/ask" {
		t.Errorf("method/path = %v %v", entry["method"], entry["path"])
	}
}

func TestLoggerMiddleware_KeepsClientRequestID(t *testing.T) {
	handler := LoggerMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		statusCode int
		wantLevel  string
	}{
		{
			name:       "question answered",
			method:     http.MethodPost,
			path:       "/api/v1/ask",
			statusCode: http.StatusOK,
			wantLevel:  "INFO",
		},
		{
			name:       "healthy probe skipped",
			method:     http.MethodGet,
			path:       "/api/health",
			statusCode: http.StatusOK,
		},
		{
			name:       "root probe skipped",
			method:     http.MethodGet,
			path:       "/",
			statusCode: http.StatusOK,
		},
		{
			name:       "unhealthy probe logged",
			method:     http.MethodGet,
			path:       "/api/health",
			statusCode: http.StatusServiceUnavailable,
			wantLevel:  "ERROR",
		},
		{
			name:       "missing document logged",
			method:     http.MethodDelete,
			path:       "/api/v1/documents/paper-1",
			statusCode: http.StatusNotFound,
			wantLevel:  "INFO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.statusCode {
				t.Errorf("status = %d, want %d", w.Code, tt.statusCode)
			}

			lines := logLines(t, buf)
			if tt.wantLevel == "" {
				if len(lines) != 0 {
					t.Errorf("expected no log lines, got %v", lines)
				}
				return
			}
			if len(lines) != 1 {
				t.Fatalf("got %d log lines, want 1", len(lines))
			}
			if lines[0]["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", lines[0]["level"], tt.wantLevel)
			}
			if lines[0]["status"] != float64(tt.statusCode) {
				t.Errorf("status attr = %v, want %d", lines[0]["status"], tt.statusCode)
			}
		})
	}
}

func TestResponseWriter_DefaultsToOK(t *testing.T) {
	w := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	_, _ = rw.Write([]byte("{}"))
	if rw.statusCode != http.StatusOK {
		t.Errorf("statusCode = %d, want %d", rw.statusCode, http.StatusOK)
	}

	rw.WriteHeader(http.StatusRequestEntityTooLarge)
	if rw.statusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("statusCode = %d, want %d", rw.statusCode, http.StatusRequestEntityTooLarge)
	}
	if rw.Unwrap() != w {
		t.Error("Unwrap() should return the underlying writer")
	}
}

func TestCORS(t *testing.T) {
	reached := false
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name        string
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantReached bool
	}{
		{
			name:       "preflight upload",
			method:     http.MethodOptions,
			origin:     "http://localhost:3000",
			wantStatus: http.StatusNoContent,
			wantOrigin: "http://localhost:3000",
		},
		{
			name:        "delete with origin",
			method:      http.MethodDelete,
			origin:      "http://localhost:3000",
			wantStatus:  http.StatusOK,
			wantOrigin:  "http://localhost:3000",
			wantReached: true,
		},
		{
			name:        "ask without origin",
			method:      http.MethodPost,
			wantStatus:  http.StatusOK,
			wantOrigin:  "*",
			wantReached: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(tt.method, "/api/v1/documents", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if reached != tt.wantReached {
				t.Errorf("handler reached = %v, want %v", reached, tt.wantReached)
			}
		})
	}
}

func TestCORS_Headers(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	headers := map[string]string{
		"Access-Control-Allow-Methods":  "GET, POST, DELETE, OPTIONS",
		"Access-Control-Allow-Headers":  "Content-Type, Authorization, X-Request-ID",
		"Access-Control-Expose-Headers": "X-Request-ID",
		"Access-Control-Max-Age":        "3600",
	}
	for header, want := range headers {
		if got := w.Header().Get(header); got != want {
			t.Errorf("header %s = %q, want %q", header, got, want)
		}
	}
}
