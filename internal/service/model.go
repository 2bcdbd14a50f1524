package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_local_model.go -package=mocks paperqa/internal/service LocalModel
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_model_service.go -package=mocks paperqa/internal/service ModelService

import (
	"context"
	"fmt"

	"paperqa/internal/contextutil"
)

// LocalModel is a generation model that can be explicitly acquired and released.
type LocalModel interface {
	Model() string
	Loaded() bool
	Load(ctx context.Context) error
	Release(ctx context.Context) error
}

// ModelStatus describes the local model after a load or unload.
type ModelStatus struct {
	Model  string
	Loaded bool
}

// ModelService controls the local generation model.
type ModelService interface {
	Load(ctx context.Context) (ModelStatus, error)
	Unload(ctx context.Context) (ModelStatus, error)
}

type modelService struct {
	model LocalModel
}

// NewModelService creates a ModelService. model may be nil when no local model is configured.
func NewModelService(model LocalModel) ModelService {
	return &modelService{model: model}
}

// Load acquires the local model.
func (s *modelService) Load(ctx context.Context) (ModelStatus, error) {
	if s.model == nil {
		return ModelStatus{}, fmt.Errorf("%w: no local model configured", ErrInvalidInput)
	}
	if err := s.model.Load(ctx); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to load local model", "model", s.model.Model(), "error", err)
		return ModelStatus{}, fmt.Errorf("%w: %w", ErrExternalService, err)
	}
	return ModelStatus{Model: s.model.Model(), Loaded: s.model.Loaded()}, nil
}

// Unload releases the local model.
func (s *modelService) Unload(ctx context.Context) (ModelStatus, error) {
	if s.model == nil {
		return ModelStatus{}, fmt.Errorf("%w: no local model configured", ErrInvalidInput)
	}
	if err := s.model.Release(ctx); err != nil {
		return ModelStatus{}, fmt.Errorf("%w: %w", ErrExternalService, err)
	}
	return ModelStatus{Model: s.model.Model(), Loaded: s.model.Loaded()}, nil
}
