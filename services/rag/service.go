package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/memoria-app/memoria/models"
	"github.com/memoria-app/memoria/services"
	"github.com/memoria-app/memoria/services/providers"
	"github.com/memoria-app/memoria/services/retrieval"
	"go.uber.org/zap"
)

// DefaultAnswerSources caps how many retrieved items ground an answer
const DefaultAnswerSources = 5

// noResultsAnswer is returned verbatim when retrieval finds nothing. No
// generation call is made in that case.
const noResultsAnswer = "I couldn't find any relevant content in your saved items to answer this question. Try saving some content related to this topic first!"

// Confidence grades how well the best source matched the question
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// AskOptions narrows which saved content grounds the answer
type AskOptions struct {
	ContentType *models.ContentType
	DateFilter  retrieval.DateFilter
	Limit       int
}

// Source identifies a content item that grounded an answer
type Source struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	ContentType models.ContentType `json:"contentType"`
	Similarity  float64            `json:"similarity"`
	Timestamp   time.Time          `json:"timestamp"`
	URL         string             `json:"url,omitempty"`
}

// Answer is a generated response grounded in saved content
type Answer struct {
	Answer     string     `json:"answer"`
	Sources    []Source   `json:"sources"`
	Confidence Confidence `json:"confidence"`
}

// Retriever is the slice of the retrieval service the answering path needs
type Retriever interface {
	Search(ctx context.Context, query string, opts retrieval.SearchOptions) ([]retrieval.SearchResult, error)
}

// RAGService answers questions by retrieving relevant saved content and
// prompting the generation model with it
type RAGService struct {
	retriever Retriever
	generator providers.Generator
	logger    *zap.Logger
}

// NewRAGService creates a new RAG service
func NewRAGService(retriever Retriever, generator providers.Generator, logger *zap.Logger) *RAGService {
	return &RAGService{
		retriever: retriever,
		generator: generator,
		logger:    logger,
	}
}

// AnswerQuestion runs the full retrieval and generation pipeline for one
// question
func (s *RAGService) AnswerQuestion(ctx context.Context, question string, opts AskOptions) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, services.ErrInvalidQuery
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultAnswerSources
	}

	s.logger.Debug("answering question", zap.String("question", question))

	results, err := s.retriever.Search(ctx, question, retrieval.SearchOptions{
		ContentType: opts.ContentType,
		DateFilter:  opts.DateFilter,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return &Answer{
			Answer:     noResultsAnswer,
			Sources:    []Source{},
			Confidence: ConfidenceLow,
		}, nil
	}

	contextText := BuildContext(results)
	prompt := BuildPrompt(question, contextText)

	s.logger.Debug("generating answer",
		zap.Int("sources", len(results)),
		zap.Float64("top_similarity", results[0].Score))

	answerText, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		s.logger.Error("answer generation failed", zap.Error(err))
		return nil, services.WrapGenerationUnavailable(err)
	}

	sources := make([]Source, len(results))
	for i, result := range results {
		sources[i] = Source{
			ID:          result.Item.ID,
			Title:       result.Item.Title,
			ContentType: result.Item.ContentType,
			Similarity:  result.Score,
			Timestamp:   result.Item.Timestamp,
			URL:         result.Item.SourceURL(),
		}
	}

	return &Answer{
		Answer:     answerText,
		Sources:    sources,
		Confidence: confidenceFor(results[0].Score),
	}, nil
}

// SummarizeTopic reuses the question answering pipeline with a summarization
// framing
func (s *RAGService) SummarizeTopic(ctx context.Context, topic string, opts AskOptions) (*Answer, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, services.ErrInvalidQuery
	}

	question := fmt.Sprintf("Summarize everything I've saved about: %s", topic)
	return s.AnswerQuestion(ctx, question, opts)
}

// confidenceFor grades the best similarity score. The thresholds are coarse
// but have held up in practice for cosine scores from the embedding model.
func confidenceFor(topScore float64) Confidence {
	switch {
	case topScore > 0.7:
		return ConfidenceHigh
	case topScore > 0.5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
