package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"paperqa/internal/app"
	"paperqa/internal/config"
	"paperqa/internal/http"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API answers questions about uploaded academic papers using retrieval-augmented generation.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: PaperQA API
//   description: |
//     Document question answering API. Upload a PDF or text paper, then ask questions about it.
//     Answers cite the passages they were drawn from.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
//   - multipart/form-data
// produces:
//   - application/json

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	if err := run(cfg); err != nil {
		log.Fatalf("API server failed: %v", err)
	}
	slog.Info("API server stopped")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("Failed to close resources", "error", err)
		}
	}()

	// Validate embedding client vector size (fail-fast)
	if err := a.CheckEmbeddings(ctx); err != nil {
		return err
	}
	slog.Info("Embedding client validated", "vector_size", cfg.EmbeddingDimension)

	router := http.NewRouter(&http.Deps{
		QAService:       a.QA,
		DocumentService: a.Documents,
		ModelService:    a.Models,
		VectorStore:     a.VectorStore,
		DocumentCount:   a.Manager.Catalog().Len,
		MetricsHandler:  a.Metrics.Handler(),
		MaxUploadBytes:  cfg.MaxUploadBytes,
	})

	srv := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Starting API server", "addr", srv.Addr, "providers", a.Chain.Providers())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return a.ReleaseModel(shutdownCtx)
	})

	return g.Wait()
}
