package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"paperqa/internal/config"
	"paperqa/internal/contextutil"
	"paperqa/internal/document"
	"paperqa/internal/indexer"
	"paperqa/internal/llm"
	"paperqa/internal/metrics"
	"paperqa/internal/rag"
	"paperqa/internal/service"
	"paperqa/internal/storage"
	"paperqa/internal/vectorstore"
)

// ProviderOpenRouter names the hosted chat completions provider in logs and metrics.
const ProviderOpenRouter = "openrouter"

// App holds the components shared by the API server, the worker and the CLI.
type App struct {
	Config      *config.Config
	DB          *sql.DB
	VectorStore vectorstore.VectorStore
	Embedder    *llm.EmbeddingsClient
	Metrics     *metrics.Metrics
	Manager     *document.Manager
	Chain       *llm.Chain
	LocalModel  *llm.LocalModel
	Engine      rag.Engine

	QA        service.QAService
	Documents service.DocumentService
	Models    service.ModelService

	closers []io.Closer
}

// NewLogger builds the process logger from the configured level and format.
func NewLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

// New opens storage, connects the vector store and assembles the question
// answering stack. The catalog is filled from the existing collections.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := contextutil.LoggerFromContext(ctx)
	a := &App{Config: cfg, Metrics: metrics.New()}

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, db)

	if err := storage.Migrate(db); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.InfoContext(ctx, "database initialized", "path", cfg.DBPath)

	store, err := newVectorStore(cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.VectorStore = store
	if c, ok := store.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}
	logger.InfoContext(ctx, "vector store ready", "backend", cfg.VectorStore)

	a.Embedder = llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingDimension)

	documents := storage.NewDocumentRepo(db)
	interactions := storage.NewInteractionRepo(db)

	chunker := indexer.NewChunker(indexer.NewSplitter(
		indexer.WithChunkSize(cfg.ChunkSize),
		indexer.WithOverlap(cfg.ChunkOverlap),
	))
	a.Manager = document.NewManager(store, a.Embedder,
		document.WithChunker(chunker),
		document.WithDocumentStore(documents),
		document.WithInteractionStore(interactions),
		document.WithMetrics(a.Metrics),
	)
	n, err := a.Manager.Load(ctx)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to load document catalog: %w", err)
	}
	logger.InfoContext(ctx, "document catalog loaded", "documents", n)

	a.Chain, a.LocalModel = buildChain(cfg, a.Metrics)
	logger.InfoContext(ctx, "generation chain configured", "providers", a.Chain.Providers())

	retriever := rag.NewRetriever(a.Manager, a.Embedder, store, cfg.TopK, a.Metrics)
	synthesizer := rag.NewSynthesizer(a.Chain, llm.GenerateParams{
		MaxTokens:   cfg.GenerationMaxTokens,
		Temperature: cfg.GenerationTemperature,
	})
	a.Engine = rag.NewEngine(retriever, synthesizer, a.Metrics)

	a.QA = service.NewQAService(a.Engine, interactions)
	a.Documents = service.NewDocumentService(a.Manager, cfg.UploadDir, cfg.MaxUploadBytes)
	// A nil *llm.LocalModel must not reach the service as a non-nil interface.
	if a.LocalModel != nil {
		a.Models = service.NewModelService(a.LocalModel)
	} else {
		a.Models = service.NewModelService(nil)
	}

	return a, nil
}

// CheckEmbeddings embeds a probe text and verifies the vector size matches the configuration.
func (a *App) CheckEmbeddings(ctx context.Context) error {
	vectors, err := a.Embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		return fmt.Errorf("failed to validate embedding client: %w", err)
	}
	if len(vectors) == 0 || len(vectors[0]) != a.Config.EmbeddingDimension {
		got := 0
		if len(vectors) > 0 {
			got = len(vectors[0])
		}
		return fmt.Errorf("embedding vector size mismatch: expected %d, got %d", a.Config.EmbeddingDimension, got)
	}
	return nil
}

// ReleaseModel unloads the local model if this process loaded it.
func (a *App) ReleaseModel(ctx context.Context) error {
	if a.LocalModel == nil {
		return nil
	}
	return a.LocalModel.Release(ctx)
}

// Close releases the vector store connection and the database. The local
// model is left alone; see ReleaseModel.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func newVectorStore(cfg *config.Config) (vectorstore.VectorStore, error) {
	switch cfg.VectorStore {
	case config.VectorStoreMemory:
		return vectorstore.NewMemoryStore(), nil
	case config.VectorStoreQdrant:
		store, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown vector store %q", cfg.VectorStore)
	}
}

// buildChain orders the generation providers: hosted chat completions first,
// then HuggingFace inference, then the local model. Providers without
// credentials or a model name are left out.
func buildChain(cfg *config.Config, m *metrics.Metrics) (*llm.Chain, *llm.LocalModel) {
	var (
		providers []llm.Generator
		local     *llm.LocalModel
	)
	if cfg.OpenRouterAPIKey != "" {
		providers = append(providers, llm.NewClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel,
			llm.WithName(ProviderOpenRouter),
			llm.WithRateLimit(cfg.GenerationRateLimit),
		))
	}
	if cfg.HFEnabled {
		providers = append(providers, llm.NewHFClient(cfg.HFBaseURL, cfg.HFAPIKey, cfg.HFModel, cfg.GenerationRateLimit))
	}
	if cfg.LocalLLMModel != "" {
		local = llm.NewLocalModel(cfg.LocalLLMBaseURL, cfg.LocalLLMModel)
		providers = append(providers, local)
	}

	chain := llm.NewChain(cfg.GenerationTimeout, providers...)
	chain.OnFailure(m.IncGenerationError)
	return chain, local
}
