package handlers

import (
	"fmt"
	"net/http"

	"paperqa/internal/service"
)

// ModelHandler handles HTTP requests that load or unload the local model.
type ModelHandler struct {
	models service.ModelService
}

// NewModelHandler creates a new ModelHandler.
func NewModelHandler(models service.ModelService) *ModelHandler {
	return &ModelHandler{models: models}
}

// ModelResponse reports the local model state.
//
// swagger:model ModelResponse
type ModelResponse struct {
	Message string `json:"message"`
	Model   string `json:"model"`
	Loaded  bool   `json:"loaded"`
}

// Load acquires the local model.
//
// swagger:route POST /api/v1/model/load loadModel
func (h *ModelHandler) Load(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status, err := h.models.Load(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load model")
		return
	}
	writeJSON(ctx, w, http.StatusOK, ModelResponse{
		Message: fmt.Sprintf("Model %s loaded successfully", status.Model),
		Model:   status.Model,
		Loaded:  status.Loaded,
	})
}

// Unload releases the local model.
//
// swagger:route POST /api/v1/model/unload unloadModel
func (h *ModelHandler) Unload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status, err := h.models.Unload(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to unload model")
		return
	}
	writeJSON(ctx, w, http.StatusOK, ModelResponse{
		Message: fmt.Sprintf("Model %s unloaded", status.Model),
		Model:   status.Model,
		Loaded:  status.Loaded,
	})
}
