package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_generator.go -package=mocks paperqa/internal/llm Generator

import (
	"context"
	"errors"
	"fmt"
)

// ErrGenerationFailed is returned when no provider produced an answer.
var ErrGenerationFailed = errors.New("generation failed")

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateParams holds parameters for a generation request.
type GenerateParams struct {
	// MaxTokens specifies the maximum number of tokens to generate.
	// If 0, the provider default is used.
	MaxTokens int

	// Temperature controls the randomness of the output.
	Temperature float32
}

// Generator turns a prompt into text.
type Generator interface {
	// Name identifies the provider in logs and answer metadata.
	Name() string
	// Generate returns the completion for prompt.
	Generate(ctx context.Context, prompt string, params GenerateParams) (string, error)
}

// GenerationError reports the provider whose failure ended a generation attempt.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("%v: %v", ErrGenerationFailed, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", ErrGenerationFailed, e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() []error {
	return []error{ErrGenerationFailed, e.Err}
}
