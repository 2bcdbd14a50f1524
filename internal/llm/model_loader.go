package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ModelLoader loads and unloads models in a llama.cpp router server via the
// /models endpoints.
type ModelLoader struct {
	baseURL      string
	client       *http.Client
	pollInterval time.Duration
	maxAttempts  int
}

// NewModelLoader creates a new model loader.
func NewModelLoader(baseURL string) *ModelLoader {
	return &ModelLoader{
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       newHTTPClient(),
		pollInterval: time.Second,
		maxAttempts:  30,
	}
}

// LoadModelRequest represents the request payload for loading a model.
type LoadModelRequest struct {
	Model     string   `json:"model"`
	ExtraArgs []string `json:"extra_args,omitempty"`
}

// LoadModelResponse represents the response from the load and unload endpoints.
type LoadModelResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ModelStatus represents the status of a model from the /models endpoint.
type ModelStatus struct {
	ID      string `json:"id"`
	InCache bool   `json:"in_cache"`
	Status  struct {
		Value    string `json:"value"`
		ExitCode *int   `json:"exit_code,omitempty"`
		Failed   *bool  `json:"failed,omitempty"`
	} `json:"status"`
}

// ModelsResponse represents the response from the /models endpoint.
type ModelsResponse struct {
	Data []ModelStatus `json:"data"`
}

func (ml *ModelLoader) status(ctx context.Context, modelName string) (*ModelStatus, error) {
	modelsURL := fmt.Sprintf("%s/models", ml.baseURL)
	statusReq, err := http.NewRequestWithContext(ctx, "GET", modelsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %w", err)
	}

	statusResp, err := ml.client.Do(statusReq)
	if err != nil {
		return nil, fmt.Errorf("failed to check model status: %w", err)
	}
	defer func() {
		_ = statusResp.Body.Close()
	}()

	if statusResp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(statusResp.Body)
		return nil, fmt.Errorf("bad status %d: %s", statusResp.StatusCode, string(raw))
	}

	var modelsResp ModelsResponse
	if err := json.NewDecoder(statusResp.Body).Decode(&modelsResp); err != nil {
		return nil, fmt.Errorf("failed to decode models response: %w", err)
	}

	for i := range modelsResp.Data {
		if modelsResp.Data[i].ID == modelName {
			return &modelsResp.Data[i], nil
		}
	}
	return nil, nil
}

// IsModelLoaded checks if a model is already loaded (in cache) in the llama.cpp server.
func (ml *ModelLoader) IsModelLoaded(ctx context.Context, modelName string) (bool, error) {
	st, err := ml.status(ctx, modelName)
	if err != nil {
		return false, err
	}
	return st != nil && st.InCache, nil
}

// LoadModel loads a model into the llama.cpp server with optional extra arguments.
// It returns immediately when the model is already in cache, otherwise it
// waits until the server reports the model loaded or failed.
func (ml *ModelLoader) LoadModel(ctx context.Context, modelName string, extraArgs []string) error {
	// A failed status check is treated as "not loaded"; the load request decides.
	if loaded, err := ml.IsModelLoaded(ctx, modelName); err == nil && loaded {
		return nil
	}

	var loadResp LoadModelResponse
	url := fmt.Sprintf("%s/models/load", ml.baseURL)
	if err := postJSON(ctx, ml.client, url, "", LoadModelRequest{Model: modelName, ExtraArgs: extraArgs}, &loadResp); err != nil {
		return err
	}
	if !loadResp.Success {
		return fmt.Errorf("model load failed: %s", loadResp.Error)
	}

	// /models/load returns before the model process is up; poll until it is in cache.
	ticker := time.NewTicker(ml.pollInterval)
	defer ticker.Stop()

	for i := 0; i < ml.maxAttempts; i++ {
		st, err := ml.status(ctx, modelName)
		if err == nil && st != nil {
			if st.InCache {
				return nil
			}
			if st.Status.Failed != nil && *st.Status.Failed {
				exitCode := 0
				if st.Status.ExitCode != nil {
					exitCode = *st.Status.ExitCode
				}
				return fmt.Errorf("model load failed with exit code %d", exitCode)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return fmt.Errorf("model did not load within timeout period")
}

// UnloadModel asks the server to stop serving modelName.
func (ml *ModelLoader) UnloadModel(ctx context.Context, modelName string) error {
	var resp LoadModelResponse
	url := fmt.Sprintf("%s/models/unload", ml.baseURL)
	if err := postJSON(ctx, ml.client, url, "", LoadModelRequest{Model: modelName}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("model unload failed: %s", resp.Error)
	}
	return nil
}
