package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/memoria-app/memoria/models"
	"github.com/memoria-app/memoria/services"
	"github.com/memoria-app/memoria/services/rag"
	"github.com/memoria-app/memoria/services/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAnswerService is a mock implementation of AnswerService
type MockAnswerService struct {
	mock.Mock
}

func (m *MockAnswerService) AnswerQuestion(ctx context.Context, question string, opts rag.AskOptions) (*rag.Answer, error) {
	args := m.Called(ctx, question, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rag.Answer), args.Error(1)
}

func (m *MockAnswerService) SummarizeTopic(ctx context.Context, topic string, opts rag.AskOptions) (*rag.Answer, error) {
	args := m.Called(ctx, topic, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rag.Answer), args.Error(1)
}

func TestHandleAsk(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful answer", func(t *testing.T) {
		mockService := new(MockAnswerService)
		handler := NewRAGHandler(mockService, logger)

		answer := &rag.Answer{
			Answer: "Goroutines are lightweight threads managed by the Go runtime.",
			Sources: []rag.Source{
				{ID: uuid.New(), Title: "Go Concurrency Notes", ContentType: models.ContentTypeDocument, Similarity: 0.88},
			},
			Confidence: rag.ConfidenceHigh,
		}
		mockService.On("AnswerQuestion", mock.Anything, "What are goroutines?", mock.MatchedBy(func(opts rag.AskOptions) bool {
			return opts.ContentType != nil && *opts.ContentType == models.ContentTypeDocument &&
				opts.DateFilter == retrieval.DateFilterMonth && opts.Limit == 3
		})).Return(answer, nil)

		body, _ := json.Marshal(AskRequest{
			Question:    "What are goroutines?",
			ContentType: "document",
			DateFilter:  "month",
			Limit:       3,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/content/ask", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleAsk(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "Goroutines are lightweight threads managed by the Go runtime.", data["answer"])
		assert.Equal(t, "high", data["confidence"])
		sources := data["sources"].([]interface{})
		assert.Len(t, sources, 1)

		mockService.AssertExpectations(t)
	})

	t.Run("missing question", func(t *testing.T) {
		mockService := new(MockAnswerService)
		handler := NewRAGHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/content/ask", bytes.NewReader([]byte(`{}`)))
		w := httptest.NewRecorder()

		handler.HandleAsk(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "AnswerQuestion")
	})

	t.Run("limit over cap rejected", func(t *testing.T) {
		mockService := new(MockAnswerService)
		handler := NewRAGHandler(mockService, logger)

		body, _ := json.Marshal(AskRequest{Question: "What?", Limit: 50})
		req := httptest.NewRequest(http.MethodPost, "/api/content/ask", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleAsk(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("generation failure", func(t *testing.T) {
		mockService := new(MockAnswerService)
		handler := NewRAGHandler(mockService, logger)

		mockService.On("AnswerQuestion", mock.Anything, "What?", mock.Anything).
			Return(nil, services.WrapGenerationUnavailable(assert.AnError))

		body, _ := json.Marshal(AskRequest{Question: "What?"})
		req := httptest.NewRequest(http.MethodPost, "/api/content/ask", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleAsk(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestHandleSummarize(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful summary", func(t *testing.T) {
		mockService := new(MockAnswerService)
		handler := NewRAGHandler(mockService, logger)

		answer := &rag.Answer{
			Answer:     "You saved several notes about Go concurrency.",
			Sources:    []rag.Source{},
			Confidence: rag.ConfidenceMedium,
		}
		mockService.On("SummarizeTopic", mock.Anything, "go concurrency", mock.Anything).
			Return(answer, nil)

		body, _ := json.Marshal(SummarizeRequest{Topic: "go concurrency"})
		req := httptest.NewRequest(http.MethodPost, "/api/content/summarize", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleSummarize(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "medium", data["confidence"])

		mockService.AssertExpectations(t)
	})

	t.Run("missing topic", func(t *testing.T) {
		mockService := new(MockAnswerService)
		handler := NewRAGHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/content/summarize", bytes.NewReader([]byte(`{}`)))
		w := httptest.NewRecorder()

		handler.HandleSummarize(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "SummarizeTopic")
	})
}
