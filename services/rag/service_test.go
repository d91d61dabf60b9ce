package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/memoria-app/memoria/models"
	"github.com/memoria-app/memoria/services"
	"github.com/memoria-app/memoria/services/retrieval"
)

// MockRetriever is a mock implementation of Retriever
type MockRetriever struct {
	mock.Mock
}

func (m *MockRetriever) Search(ctx context.Context, query string, opts retrieval.SearchOptions) ([]retrieval.SearchResult, error) {
	args := m.Called(ctx, query, opts)
	if results := args.Get(0); results != nil {
		return results.([]retrieval.SearchResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockGenerator is a mock implementation of providers.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) GenerateVision(ctx context.Context, prompt, imageData, mimeType string) (string, error) {
	args := m.Called(ctx, prompt, imageData, mimeType)
	return args.String(0), args.Error(1)
}

func resultFor(t *testing.T, payload models.Payload, title string, score float64) retrieval.SearchResult {
	t.Helper()
	item := models.NewContentItem(payload, title, "desc for "+title, []string{"saved"})
	return retrieval.SearchResult{Item: item, Score: score}
}

func TestAnswerQuestion(t *testing.T) {
	retriever := new(MockRetriever)
	generator := new(MockGenerator)
	service := NewRAGService(retriever, generator, zap.NewNop())

	results := []retrieval.SearchResult{
		resultFor(t, &models.DocumentPayload{Content: "goroutines are cheap"}, "Go Notes", 0.85),
		resultFor(t, &models.BookmarkPayload{URL: "https://go.dev/blog"}, "Go Blog", 0.6),
	}

	retriever.On("Search", mock.Anything, "what did I save about go?", mock.Anything).
		Return(results, nil)
	generator.On("GenerateText", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Source 1: Go Notes") &&
			strings.Contains(prompt, "what did I save about go?")
	})).Return("According to Source 1, goroutines are cheap.", nil)

	answer, err := service.AnswerQuestion(context.Background(), "what did I save about go?", AskOptions{})

	require.NoError(t, err)
	assert.Equal(t, "According to Source 1, goroutines are cheap.", answer.Answer)
	assert.Equal(t, ConfidenceHigh, answer.Confidence)
	require.Len(t, answer.Sources, 2)
	assert.Equal(t, "Go Notes", answer.Sources[0].Title)
	assert.Equal(t, 0.85, answer.Sources[0].Similarity)
	assert.Equal(t, "https://go.dev/blog", answer.Sources[1].URL)
	generator.AssertExpectations(t)
}

func TestAnswerQuestion_BlankQuestion(t *testing.T) {
	service := NewRAGService(new(MockRetriever), new(MockGenerator), zap.NewNop())

	_, err := service.AnswerQuestion(context.Background(), "   ", AskOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrInvalidQuery)
}

func TestAnswerQuestion_NoResults(t *testing.T) {
	retriever := new(MockRetriever)
	generator := new(MockGenerator)
	service := NewRAGService(retriever, generator, zap.NewNop())

	retriever.On("Search", mock.Anything, "anything saved?", mock.Anything).
		Return([]retrieval.SearchResult{}, nil)

	answer, err := service.AnswerQuestion(context.Background(), "anything saved?", AskOptions{})

	require.NoError(t, err)
	assert.Equal(t, noResultsAnswer, answer.Answer)
	assert.Empty(t, answer.Sources)
	assert.Equal(t, ConfidenceLow, answer.Confidence)
	// the model is never consulted without sources
	generator.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything)
}

func TestAnswerQuestion_DefaultSourceLimit(t *testing.T) {
	retriever := new(MockRetriever)
	generator := new(MockGenerator)
	service := NewRAGService(retriever, generator, zap.NewNop())

	retriever.On("Search", mock.Anything, "q", mock.MatchedBy(func(opts retrieval.SearchOptions) bool {
		return opts.Limit == DefaultAnswerSources
	})).Return([]retrieval.SearchResult{}, nil)

	_, err := service.AnswerQuestion(context.Background(), "q", AskOptions{})

	require.NoError(t, err)
	retriever.AssertExpectations(t)
}

func TestAnswerQuestion_GenerationFailure(t *testing.T) {
	retriever := new(MockRetriever)
	generator := new(MockGenerator)
	service := NewRAGService(retriever, generator, zap.NewNop())

	retriever.On("Search", mock.Anything, "q", mock.Anything).
		Return([]retrieval.SearchResult{
			resultFor(t, &models.DocumentPayload{Content: "c"}, "Doc", 0.9),
		}, nil)
	generator.On("GenerateText", mock.Anything, mock.Anything).
		Return("", errors.New("upstream down"))

	_, err := service.AnswerQuestion(context.Background(), "q", AskOptions{})

	require.Error(t, err)
	assert.True(t, services.IsExternalError(err))
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Confidence
	}{
		{0.71, ConfidenceHigh},
		{0.95, ConfidenceHigh},
		{0.7, ConfidenceMedium},
		{0.55, ConfidenceMedium},
		{0.5, ConfidenceLow},
		{0.3, ConfidenceLow},
		{0, ConfidenceLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, confidenceFor(tt.score), "score %v", tt.score)
	}
}

func TestSummarizeTopic(t *testing.T) {
	retriever := new(MockRetriever)
	generator := new(MockGenerator)
	service := NewRAGService(retriever, generator, zap.NewNop())

	retriever.On("Search", mock.Anything, "Summarize everything I've saved about: cooking", mock.Anything).
		Return([]retrieval.SearchResult{
			resultFor(t, &models.PhotoPayload{ExtractedText: "2 cups flour"}, "Recipe card", 0.8),
		}, nil)
	generator.On("GenerateText", mock.Anything, mock.Anything).
		Return("You saved a recipe card.", nil)

	answer, err := service.SummarizeTopic(context.Background(), "cooking", AskOptions{})

	require.NoError(t, err)
	assert.Equal(t, "You saved a recipe card.", answer.Answer)
	retriever.AssertExpectations(t)
}

func TestSummarizeTopic_BlankTopic(t *testing.T) {
	service := NewRAGService(new(MockRetriever), new(MockGenerator), zap.NewNop())

	_, err := service.SummarizeTopic(context.Background(), "", AskOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrInvalidQuery)
}
