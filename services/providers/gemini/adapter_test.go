package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/memoria-app/memoria/services/providers"
)

func TestNewGeminiAdapter(t *testing.T) {
	config := providers.ProviderConfig{
		APIKey: "test-key",
	}

	adapter := NewGeminiAdapter(config)

	if adapter == nil {
		t.Fatal("NewGeminiAdapter() returned nil")
	}

	if adapter.Name() != "gemini" {
		t.Errorf("Name() = %s, want gemini", adapter.Name())
	}

	if adapter.config.BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %s, want %s", adapter.config.BaseURL, defaultBaseURL)
	}

	if adapter.config.GenerationModel != defaultGenerationModel {
		t.Errorf("GenerationModel = %s, want %s", adapter.config.GenerationModel, defaultGenerationModel)
	}

	if adapter.config.EmbeddingModel != defaultEmbeddingModel {
		t.Errorf("EmbeddingModel = %s, want %s", adapter.config.EmbeddingModel, defaultEmbeddingModel)
	}
}

func TestGeminiAdapter_EmbedText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}

		if r.URL.Path != "/models/text-embedding-004:embedContent" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}

		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Error("API key header missing or invalid")
		}

		body, _ := io.ReadAll(r.Body)
		var req embedContentRequest
		json.Unmarshal(body, &req)

		if len(req.Content.Parts) == 0 || req.Content.Parts[0].Text != "hello world" {
			t.Errorf("Unexpected request content: %+v", req.Content)
		}

		resp := map[string]interface{}{
			"embedding": map[string]interface{}{
				"values": []float64{0.1, 0.2, 0.3},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	adapter := NewGeminiAdapter(providers.ProviderConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})

	embedding, err := adapter.EmbedText(context.Background(), "hello world")

	if err != nil {
		t.Fatalf("EmbedText() error = %v", err)
	}

	if len(embedding.Values) != 3 {
		t.Errorf("len(Values) = %d, want 3", len(embedding.Values))
	}

	if embedding.Model != defaultEmbeddingModel {
		t.Errorf("Model = %s, want %s", embedding.Model, defaultEmbeddingModel)
	}
}

func TestGeminiAdapter_EmbedText_EmptyValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"embedding": {"values": []}}`))
	}))
	defer server.Close()

	adapter := NewGeminiAdapter(providers.ProviderConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})

	_, err := adapter.EmbedText(context.Background(), "hello")

	if err == nil {
		t.Fatal("Expected error for empty embedding values")
	}

	provErr, ok := err.(*providers.ProviderError)
	if !ok {
		t.Fatalf("Expected ProviderError, got %T", err)
	}

	if provErr.Code != "EMPTY_EMBEDDING" {
		t.Errorf("Code = %s, want EMPTY_EMBEDDING", provErr.Code)
	}
}

func TestGeminiAdapter_GenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.5-flash:generateContent" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}

		body, _ := io.ReadAll(r.Body)
		var req generateContentRequest
		json.Unmarshal(body, &req)

		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "say hi" {
			t.Errorf("Unexpected request contents: %+v", req.Contents)
		}

		resp := generateContentResponse{
			Candidates: []geminiCandidate{
				{
					Content: geminiContent{
						Parts: []geminiPart{{Text: "hi there"}},
						Role:  "model",
					},
					FinishReason: "STOP",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	adapter := NewGeminiAdapter(providers.ProviderConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})

	text, err := adapter.GenerateText(context.Background(), "say hi")

	if err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}

	if text != "hi there" {
		t.Errorf("GenerateText() = %q, want %q", text, "hi there")
	}
}

func TestGeminiAdapter_GenerateVision(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req generateContentRequest
		json.Unmarshal(body, &req)

		if len(req.Contents) != 1 {
			t.Fatalf("len(Contents) = %d, want 1", len(req.Contents))
		}

		parts := req.Contents[0].Parts
		if len(parts) != 2 {
			t.Fatalf("len(Parts) = %d, want 2", len(parts))
		}

		if parts[0].Text != "describe this image" {
			t.Errorf("Text part = %q", parts[0].Text)
		}

		if parts[1].InlineData == nil {
			t.Fatal("InlineData part missing")
		}

		if parts[1].InlineData.MimeType != "image/jpeg" {
			t.Errorf("MimeType = %s, want image/jpeg", parts[1].InlineData.MimeType)
		}

		if parts[1].InlineData.Data != "aGVsbG8=" {
			t.Errorf("Data = %s, want aGVsbG8=", parts[1].InlineData.Data)
		}

		resp := generateContentResponse{
			Candidates: []geminiCandidate{
				{Content: geminiContent{Parts: []geminiPart{{Text: "a photo of a cat"}}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	adapter := NewGeminiAdapter(providers.ProviderConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})

	text, err := adapter.GenerateVision(context.Background(), "describe this image", "aGVsbG8=", "image/jpeg")

	if err != nil {
		t.Fatalf("GenerateVision() error = %v", err)
	}

	if text != "a photo of a cat" {
		t.Errorf("GenerateVision() = %q", text)
	}
}

func TestGeminiAdapter_GenerateText_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)

		errResp := geminiErrorResponse{
			Error: geminiError{
				Code:    400,
				Message: "API key not valid",
				Status:  "INVALID_ARGUMENT",
			},
		}
		json.NewEncoder(w).Encode(errResp)
	}))
	defer server.Close()

	adapter := NewGeminiAdapter(providers.ProviderConfig{
		APIKey:  "bad-key",
		BaseURL: server.URL,
	})

	_, err := adapter.GenerateText(context.Background(), "test")

	if err == nil {
		t.Fatal("Expected error but got none")
	}

	provErr, ok := err.(*providers.ProviderError)
	if !ok {
		t.Fatalf("Expected ProviderError, got %T", err)
	}

	if provErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want %d", provErr.StatusCode, http.StatusBadRequest)
	}

	if provErr.Retryable {
		t.Error("400 error should not be retryable")
	}
}

func TestGeminiAdapter_GenerateText_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	adapter := NewGeminiAdapter(providers.ProviderConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})

	_, err := adapter.GenerateText(context.Background(), "test")

	if err == nil {
		t.Fatal("Expected error for empty candidates")
	}

	provErr, ok := err.(*providers.ProviderError)
	if !ok {
		t.Fatalf("Expected ProviderError, got %T", err)
	}

	if provErr.Code != "EMPTY_RESPONSE" {
		t.Errorf("Code = %s, want EMPTY_RESPONSE", provErr.Code)
	}
}

func TestGeminiAdapter_GenerateText_Retry(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++

		// Fail first 2 attempts, succeed on 3rd
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		resp := generateContentResponse{
			Candidates: []geminiCandidate{
				{Content: geminiContent{Parts: []geminiPart{{Text: "success after retry"}}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	adapter := NewGeminiAdapter(providers.ProviderConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		MaxRetries: 3,
		RetryDelay: 10 * time.Millisecond,
	})

	text, err := adapter.GenerateText(context.Background(), "test")

	if err != nil {
		t.Fatalf("Expected success after retry, got error: %v", err)
	}

	if text != "success after retry" {
		t.Errorf("GenerateText() = %q", text)
	}

	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestGeminiAdapter_IsAvailable(t *testing.T) {
	t.Run("available", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"name": "models/gemini-2.5-flash"}`))
		}))
		defer server.Close()

		adapter := NewGeminiAdapter(providers.ProviderConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
		})

		if !adapter.IsAvailable(context.Background()) {
			t.Error("Expected provider to be available")
		}
	})

	t.Run("unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		adapter := NewGeminiAdapter(providers.ProviderConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
		})

		if adapter.IsAvailable(context.Background()) {
			t.Error("Expected provider to be unavailable")
		}
	})
}
