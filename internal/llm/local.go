package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"paperqa/internal/contextutil"
)

// LocalModel is a generation provider backed by a model served from a local
// llama.cpp router. The model is loaded on the first Generate call, or
// explicitly with Load, and unloaded by Release or Close.
type LocalModel struct {
	model  string
	loader *ModelLoader
	chat   *Client

	mu     sync.Mutex
	loaded bool
}

// NewLocalModel creates a handle for model on the llama.cpp server at baseURL.
func NewLocalModel(baseURL, model string) *LocalModel {
	return &LocalModel{
		model:  model,
		loader: NewModelLoader(baseURL),
		chat:   NewClient(baseURL, "", model, WithName("local")),
	}
}

// Name implements Generator.
func (l *LocalModel) Name() string {
	return "local"
}

// Model returns the configured model name.
func (l *LocalModel) Model() string {
	return l.model
}

// Loaded reports whether the model is currently acquired.
func (l *LocalModel) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Load acquires the model. Calling Load on a loaded model is a no-op.
func (l *LocalModel) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked(ctx)
}

func (l *LocalModel) loadLocked(ctx context.Context) error {
	if l.loaded {
		return nil
	}
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "loading local model", "model", l.model)

	if err := l.loader.LoadModel(ctx, l.model, nil); err != nil {
		return fmt.Errorf("failed to load local model %s: %w", l.model, err)
	}
	l.loaded = true
	return nil
}

// Generate implements Generator, loading the model first if needed.
func (l *LocalModel) Generate(ctx context.Context, prompt string, params GenerateParams) (string, error) {
	l.mu.Lock()
	err := l.loadLocked(ctx)
	l.mu.Unlock()
	if err != nil {
		return "", err
	}
	return l.chat.Generate(ctx, prompt, params)
}

// Release unloads the model if it is loaded.
func (l *LocalModel) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loaded {
		return nil
	}

	// The handle is released even if the server refuses; a later Load re-checks the cache.
	l.loaded = false
	if err := l.loader.UnloadModel(ctx, l.model); err != nil {
		return fmt.Errorf("failed to unload local model %s: %w", l.model, err)
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "unloaded local model", "model", l.model)
	return nil
}

// Close releases the model with a bounded timeout.
func (l *LocalModel) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return l.Release(ctx)
}
