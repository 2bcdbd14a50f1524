package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testDim = 384

// vectors returns n embeddings of size dim whose first component is the index.
func vectors(n, dim int) []EmbeddingData {
	data := make([]EmbeddingData, n)
	for i := range data {
		vec := make([]float64, dim)
		vec[0] = float64(i)
		data[i] = EmbeddingData{Index: i, Embedding: vec}
	}
	return data
}

func writeEmbeddings(w http.ResponseWriter, data []EmbeddingData) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(EmbeddingsResponse{Data: data})
}

func TestNewEmbeddingsClient_TrimsBaseURL(t *testing.T) {
	client := NewEmbeddingsClient("http://localhost:8080/", "key", "all-MiniLM-L6-v2", testDim)
	if client.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q, want trailing slash removed", client.BaseURL)
	}
	if client.ExpectedSize != testDim {
		t.Errorf("ExpectedSize = %d, want %d", client.ExpectedSize, testDim)
	}
}

func TestEmbeddingsClient_EmbedTexts_SendsChunkBatch(t *testing.T) {
	chunks := []string{
		"We propose a retrieval method for question answering.",
		"The results in Table 1 show a clear improvement.",
		"In conclusion, reranking helps.",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer embed-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req EmbeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
			return
		}
		if req.Model != "all-MiniLM-L6-v2" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Input) != len(chunks) {
			t.Errorf("got %d inputs in one request, want %d", len(req.Input), len(chunks))
		}
		writeEmbeddings(w, vectors(len(req.Input), testDim))
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "embed-key", "all-MiniLM-L6-v2", testDim)
	got, err := client.EmbedTexts(context.Background(), chunks)
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}
	if len(got) != len(chunks) {
		t.Fatalf("got %d vectors, want %d", len(got), len(chunks))
	}
	for i, vec := range got {
		if len(vec) != testDim {
			t.Errorf("vector %d has size %d", i, len(vec))
		}
		if vec[0] != float32(i) {
			t.Errorf("vector %d out of order: first component %v", i, vec[0])
		}
	}
}

func TestEmbeddingsClient_EmbedTexts_Errors(t *testing.T) {
	tests := []struct {
		name    string
		texts   []string
		handler http.HandlerFunc
	}{
		{
			name:  "no texts",
			texts: nil,
			handler: func(w http.ResponseWriter, r *http.Request) {
				t.Error("server should not be called")
			},
		},
		{
			name:  "fewer vectors than texts",
			texts: []string{"a", "b"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeEmbeddings(w, vectors(1, testDim))
			},
		},
		{
			name:  "dimension mismatch",
			texts: []string{"a"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeEmbeddings(w, vectors(1, 768))
			},
		},
		{
			name:  "empty vector",
			texts: []string{"a", "b"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				data := vectors(2, testDim)
				data[1].Embedding = nil
				writeEmbeddings(w, data)
			},
		},
		{
			name:  "server error",
			texts: []string{"a"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model not loaded", http.StatusServiceUnavailable)
			},
		},
		{
			name:  "malformed body",
			texts: []string{"a"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewEmbeddingsClient(server.URL, "", "test-model", testDim)
			if _, err := client.EmbedTexts(context.Background(), tt.texts); err == nil {
				t.Error("EmbedTexts() expected error, got nil")
			}
		})
	}
}

func TestEmbeddingsClient_EmbedTexts_OrdersByIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEmbeddings(w, []EmbeddingData{
			{Index: 1, Embedding: []float64{2.5, 0}},
			{Index: 0, Embedding: []float64{1.5, 0}},
		})
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "", "test-model", 2)
	got, err := client.EmbedTexts(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}
	if got[0][0] != 1.5 || got[1][0] != 2.5 {
		t.Errorf("EmbedTexts() = %v, want vectors in input order", got)
	}
}
