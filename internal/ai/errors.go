package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited marks quota exhaustion or throttling. The client backs
	// off and retries the same model once.
	ErrRateLimited = errors.New("rate limited")
	// ErrProvider is any other provider failure. The client moves on to the
	// next model without waiting.
	ErrProvider = errors.New("provider error")
	// ErrEmptyResponse is a successful call that produced no text.
	ErrEmptyResponse = errors.New("empty response")
	// ErrAllProvidersExhausted is returned when no model produced text.
	// Callers substitute a static message.
	ErrAllProvidersExhausted = errors.New("all providers exhausted")
	// ErrMalformedOutput is returned when generated text does not have the
	// expected structure.
	ErrMalformedOutput = errors.New("malformed generated output")
)

// GenerationError records one failed attempt against one model.
type GenerationError struct {
	Kind    error
	Model   string
	Attempt int
	Err     error
}

func (e *GenerationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s (model=%s attempt=%d): %v", e.Kind, e.Model, e.Attempt, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *GenerationError) Unwrap() []error { return []error{e.Kind, e.Err} }

func classify(err error) error {
	if errors.Is(err, ErrRateLimited) {
		return ErrRateLimited
	}
	return ErrProvider
}
