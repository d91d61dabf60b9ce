package providers

import (
	"context"
	"time"
)

// Embedding is the result of an embedding call: a fixed-length vector plus
// the identifier of the model that produced it
type Embedding struct {
	// Values is the embedding vector
	Values []float64 `json:"values"`

	// Model is the identifier of the embedding model
	Model string `json:"model"`
}

// Embedder turns free text into an embedding vector.
// Input text may be arbitrarily long; the embedder does not chunk or
// truncate. Keeping searchable text bounded is the caller's responsibility.
type Embedder interface {
	// EmbedText generates an embedding for the given text
	EmbedText(ctx context.Context, text string) (*Embedding, error)
}

// Generator produces free text from a prompt
type Generator interface {
	// GenerateText performs a text generation request
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateVision performs a text generation request with an inline
	// image (base64 data plus its MIME type)
	GenerateVision(ctx context.Context, prompt, imageData, mimeType string) (string, error)
}

// Provider is the combined upstream AI surface the services depend on
type Provider interface {
	// Name returns the provider name (e.g., "gemini")
	Name() string

	Embedder
	Generator

	// IsAvailable checks if the provider is currently reachable
	IsAvailable(ctx context.Context) bool
}

// ProviderConfig holds common configuration for providers
type ProviderConfig struct {
	// APIKey for authentication
	APIKey string

	// BaseURL for the API (optional override)
	BaseURL string

	// GenerationModel is the model used for text generation
	GenerationModel string

	// EmbeddingModel is the model used for embeddings
	EmbeddingModel string

	// Timeout for requests
	Timeout time.Duration

	// MaxRetries for failed requests
	MaxRetries int

	// RetryDelay between retries
	RetryDelay time.Duration

	// Additional headers
	Headers map[string]string
}

// DefaultProviderConfig returns a sensible default configuration
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		Timeout:    60 * time.Second,
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
		Headers:    make(map[string]string),
	}
}

// ProviderError represents an error from a provider
type ProviderError struct {
	// Provider that generated the error
	Provider string

	// Code is the error code
	Code string

	// Message is the error message
	Message string

	// StatusCode is the HTTP status code (if applicable)
	StatusCode int

	// Retryable indicates if the request can be retried
	Retryable bool

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, statusCode int, retryable bool, cause error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  retryable,
		Cause:      cause,
	}
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if provErr, ok := err.(*ProviderError); ok {
		return provErr.Retryable
	}
	return false
}
