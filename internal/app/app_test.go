package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperqa/internal/config"
	"paperqa/internal/llm"
	"paperqa/internal/rag"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// embeddingServer answers every input with the same unit vector of the given size.
func embeddingServer(t *testing.T, size int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req llm.EmbeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := llm.EmbeddingsResponse{}
		for i := range req.Input {
			vec := make([]float64, size)
			vec[0] = 1
			resp.Data = append(resp.Data, llm.EmbeddingData{Index: i, Embedding: vec})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, embeddingsURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		LogLevel:              slog.LevelInfo,
		LogFormat:             "text",
		DBPath:                filepath.Join(dir, "paperqa.db"),
		UploadDir:             dir,
		MaxUploadBytes:        1 << 20,
		VectorStore:           config.VectorStoreMemory,
		EmbeddingBaseURL:      embeddingsURL,
		EmbeddingModelName:    "test-embed",
		EmbeddingDimension:    3,
		ChunkSize:             80,
		ChunkOverlap:          0,
		TopK:                  5,
		GenerationTimeout:     time.Second,
		GenerationMaxTokens:   100,
		GenerationTemperature: 0.3,
	}
}

func TestNew_AnswersFromIngestedDocument(t *testing.T) {
	srv := embeddingServer(t, 3)
	cfg := testConfig(t, srv.URL)
	ctx := context.Background()

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.Zero(t, a.Chain.Len())
	require.NoError(t, a.CheckEmbeddings(ctx))

	path := filepath.Join(t.TempDir(), "paper.txt")
	content := "We propose a retrieval method for question answering.\n\n" +
		"The results in Table 1 show a clear improvement over the baseline."
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	result, err := a.Manager.Ingest(ctx, path, "paper-1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Chunks)

	resp, err := a.QA.Ask(ctx, rag.AskRequest{Question: "What are the results?", DocumentID: "paper-1"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.ProcessingInfo)
	assert.Equal(t, rag.ModelExtractive, resp.ProcessingInfo.ModelUsed)
	assert.Contains(t, resp.Answer, "Table 1")

	history, err := a.QA.History(ctx, "paper-1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "What are the results?", history[0].Question)

	_, err = a.Models.Load(ctx)
	assert.Error(t, err, "no local model configured")
	assert.NoError(t, a.ReleaseModel(ctx))
}

func TestNew_StartsWithEmptyCatalog(t *testing.T) {
	srv := embeddingServer(t, 3)
	cfg := testConfig(t, srv.URL)
	ctx := context.Background()

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	assert.Empty(t, a.Manager.List())
}

func TestCheckEmbeddings_SizeMismatch(t *testing.T) {
	srv := embeddingServer(t, 4)
	cfg := testConfig(t, srv.URL)
	ctx := context.Background()

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.Error(t, a.CheckEmbeddings(ctx))
}

func TestBuildChain(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.Config
		want      []string
		wantLocal bool
	}{
		{
			name: "no providers",
			want: []string{},
		},
		{
			name: "all providers in fallback order",
			cfg: config.Config{
				OpenRouterAPIKey: "key",
				OpenRouterModel:  "model",
				HFEnabled:        true,
				HFAPIKey:         "hf-key",
				HFModel:          "hf-model",
				LocalLLMBaseURL:  "http://localhost:8081",
				LocalLLMModel:    "local-model",
			},
			want:      []string{ProviderOpenRouter, "hf", "local"},
			wantLocal: true,
		},
		{
			name: "local only",
			cfg: config.Config{
				LocalLLMBaseURL: "http://localhost:8081",
				LocalLLMModel:   "local-model",
			},
			want:      []string{"local"},
			wantLocal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.GenerationTimeout = time.Second
			chain, local := buildChain(&tt.cfg, nil)
			assert.Equal(t, tt.want, chain.Providers())
			assert.Equal(t, tt.wantLocal, local != nil)
		})
	}
}

func TestNewVectorStore_Unknown(t *testing.T) {
	_, err := newVectorStore(&config.Config{VectorStore: "chroma"})
	assert.Error(t, err)
}
