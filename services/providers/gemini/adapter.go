package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/memoria-app/memoria/services/providers"
)

const (
	defaultBaseURL         = "https://generativelanguage.googleapis.com/v1beta"
	defaultGenerationModel = "gemini-2.5-flash"
	defaultEmbeddingModel  = "text-embedding-004"
)

// GeminiAdapter implements the Provider interface for the Google Generative
// Language API
type GeminiAdapter struct {
	config     providers.ProviderConfig
	httpClient *http.Client
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(config providers.ProviderConfig) *GeminiAdapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.GenerationModel == "" {
		config.GenerationModel = defaultGenerationModel
	}
	if config.EmbeddingModel == "" {
		config.EmbeddingModel = defaultEmbeddingModel
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = time.Second
	}

	return &GeminiAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Name returns the provider name
func (a *GeminiAdapter) Name() string {
	return "gemini"
}

// EmbedText generates an embedding vector for the given text
func (a *GeminiAdapter) EmbedText(ctx context.Context, text string) (*providers.Embedding, error) {
	reqBody := embedContentRequest{
		Model: "models/" + a.config.EmbeddingModel,
		Content: geminiContent{
			Parts: []geminiPart{{Text: text}},
		},
	}

	url := fmt.Sprintf("%s/models/%s:embedContent", a.config.BaseURL, a.config.EmbeddingModel)

	respBody, err := a.doRequest(ctx, url, reqBody)
	if err != nil {
		return nil, err
	}

	var embedResp embedContentResponse
	if err := json.Unmarshal(respBody, &embedResp); err != nil {
		return nil, providers.NewProviderError(a.Name(), "UNMARSHAL_ERROR", "Failed to unmarshal embedding response", 0, false, err)
	}

	if len(embedResp.Embedding.Values) == 0 {
		return nil, providers.NewProviderError(a.Name(), "EMPTY_EMBEDDING", "Embedding response contained no values", 0, false, nil)
	}

	return &providers.Embedding{
		Values: embedResp.Embedding.Values,
		Model:  a.config.EmbeddingModel,
	}, nil
}

// GenerateText performs a text generation request
func (a *GeminiAdapter) GenerateText(ctx context.Context, prompt string) (string, error) {
	return a.generate(ctx, []geminiPart{{Text: prompt}})
}

// GenerateVision performs a text generation request with an inline image
func (a *GeminiAdapter) GenerateVision(ctx context.Context, prompt, imageData, mimeType string) (string, error) {
	parts := []geminiPart{
		{Text: prompt},
		{InlineData: &geminiBlob{MimeType: mimeType, Data: imageData}},
	}
	return a.generate(ctx, parts)
}

// IsAvailable checks if the provider is currently reachable
func (a *GeminiAdapter) IsAvailable(ctx context.Context) bool {
	url := fmt.Sprintf("%s/models/%s", a.config.BaseURL, a.config.GenerationModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	a.setHeaders(req)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (a *GeminiAdapter) generate(ctx context.Context, parts []geminiPart) (string, error) {
	reqBody := generateContentRequest{
		Contents: []geminiContent{{Parts: parts}},
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", a.config.BaseURL, a.config.GenerationModel)

	respBody, err := a.doRequest(ctx, url, reqBody)
	if err != nil {
		return "", err
	}

	var genResp generateContentResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", providers.NewProviderError(a.Name(), "UNMARSHAL_ERROR", "Failed to unmarshal generation response", 0, false, err)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", providers.NewProviderError(a.Name(), "EMPTY_RESPONSE", "Generation response contained no candidates", 0, false, nil)
	}

	return genResp.Candidates[0].Content.Parts[0].Text, nil
}

// doRequest marshals the body, executes the call with retries on 5xx, and
// returns the raw response body
func (a *GeminiAdapter) doRequest(ctx context.Context, url string, body interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "MARSHAL_ERROR", "Failed to marshal request", 0, false, err)
	}

	var httpResp *http.Response
	var lastErr error

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, providers.NewProviderError(a.Name(), "CANCELLED", "Request cancelled", 0, false, ctx.Err())
			case <-time.After(a.config.RetryDelay * time.Duration(attempt)):
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
		if err != nil {
			return nil, providers.NewProviderError(a.Name(), "REQUEST_ERROR", "Failed to create request", 0, false, err)
		}
		a.setHeaders(httpReq)

		httpResp, lastErr = a.httpClient.Do(httpReq)
		if lastErr == nil && httpResp.StatusCode < 500 {
			break
		}

		if httpResp != nil {
			httpResp.Body.Close()
			httpResp = nil
		}
	}

	if lastErr != nil {
		return nil, providers.NewProviderError(a.Name(), "HTTP_ERROR", "HTTP request failed", 0, true, lastErr)
	}
	if httpResp == nil {
		return nil, providers.NewProviderError(a.Name(), "HTTP_ERROR", "HTTP request failed after retries", 0, true, nil)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "READ_ERROR", "Failed to read response", httpResp.StatusCode, false, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, a.handleErrorResponse(httpResp.StatusCode, respBody)
	}

	return respBody, nil
}

func (a *GeminiAdapter) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", a.config.APIKey)
	for k, v := range a.config.Headers {
		req.Header.Set(k, v)
	}
}

// handleErrorResponse handles Gemini error responses
func (a *GeminiAdapter) handleErrorResponse(statusCode int, body []byte) error {
	var errResp geminiErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return providers.NewProviderError(a.Name(), "UNKNOWN_ERROR", string(body), statusCode, false, err)
	}

	retryable := statusCode >= 500 || statusCode == 429

	return providers.NewProviderError(
		a.Name(),
		errResp.Error.Status,
		errResp.Error.Message,
		statusCode,
		retryable,
		errors.New(errResp.Error.Message),
	)
}

// Gemini-specific request/response types

type generateContentRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *geminiBlob `json:"inline_data,omitempty"`
}

type geminiBlob struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type generateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type embedContentRequest struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
}

type embedContentResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

type geminiErrorResponse struct {
	Error geminiError `json:"error"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}
