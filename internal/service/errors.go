package service

import (
	"errors"
	"fmt"

	"paperqa/internal/document"
	"paperqa/internal/indexer"
	"paperqa/internal/llm"
	"paperqa/internal/storage"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is makes every ValidationError match ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// MapError wraps err with msg and, when err is a known domain failure, with the
// matching service error so callers can branch on ErrInvalidInput, ErrNotFound
// or ErrExternalService. The original error stays in the chain.
func MapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	var kind error
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotFound), errors.Is(err, ErrExternalService):
		return WrapError(err, msg)
	case errors.Is(err, document.ErrInvalidDocumentID),
		errors.Is(err, indexer.ErrUnsupportedFileType),
		errors.Is(err, indexer.ErrEmptyContent):
		kind = ErrInvalidInput
	case errors.Is(err, document.ErrDocumentNotFound), errors.Is(err, storage.ErrNotFound):
		kind = ErrNotFound
	case errors.Is(err, llm.ErrGenerationFailed):
		kind = ErrExternalService
	default:
		return WrapError(err, msg)
	}
	return fmt.Errorf("%s: %w: %w", msg, kind, err)
}
