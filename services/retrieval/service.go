package retrieval

import (
	"context"
	"strings"
	"time"

	"github.com/memoria-app/memoria/internal/vector"
	"github.com/memoria-app/memoria/models"
	"github.com/memoria-app/memoria/repositories"
	"github.com/memoria-app/memoria/services"
	"github.com/memoria-app/memoria/services/providers"
	"go.uber.org/zap"
)

// DefaultSearchLimit caps result count when the caller does not set one
const DefaultSearchLimit = 10

// DateFilter restricts results to a recency window
type DateFilter string

const (
	DateFilterToday DateFilter = "today"
	DateFilterWeek  DateFilter = "week"
	DateFilterMonth DateFilter = "month"
	DateFilterYear  DateFilter = "year"
)

// SearchOptions narrows a semantic search
type SearchOptions struct {
	ContentType *models.ContentType
	DateFilter  DateFilter
	Limit       int
}

// SearchResult pairs a content item with its similarity to the query
type SearchResult struct {
	Item  *models.ContentItem `json:"item"`
	Score float64             `json:"score"`
}

// QueryEmbedder is the slice of the embedding service the retrieval path
// needs: turning a query string into a vector
type QueryEmbedder interface {
	EmbedText(ctx context.Context, text string) (*providers.Embedding, error)
}

// RetrievalService ranks stored content against natural language queries by
// cosine similarity of embedding vectors
type RetrievalService struct {
	embedder QueryEmbedder
	repo     repositories.ContentRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewRetrievalService creates a new retrieval service
func NewRetrievalService(embedder QueryEmbedder, repo repositories.ContentRepository, logger *zap.Logger) *RetrievalService {
	return &RetrievalService{
		embedder: embedder,
		repo:     repo,
		logger:   logger,
		now:      time.Now,
	}
}

// Search embeds the query, fetches candidate items and ranks them by cosine
// similarity, best first. An empty store yields an empty result, not an error.
func (s *RetrievalService) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.ErrInvalidQuery
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	queryEmbedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}

	filter := repositories.ContentFilter{
		ContentType:      opts.ContentType,
		RequireEmbedding: true,
	}
	if since := s.sinceFor(opts.DateFilter); since != nil {
		filter.Since = since
	}

	items, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, services.WrapInternal("failed to load search candidates", err)
	}

	if len(items) == 0 {
		return []SearchResult{}, nil
	}

	candidates := make([]vector.Candidate, len(items))
	for i, item := range items {
		candidates[i] = vector.Candidate{Index: i, Vector: item.Embedding}
	}

	matches := vector.Rank(queryEmbedding.Values, candidates, limit)

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{Item: items[m.Index], Score: m.Score}
	}

	s.logger.Debug("semantic search ranked",
		zap.String("query", query),
		zap.Int("candidates", len(items)),
		zap.Int("results", len(results)))

	return results, nil
}

// sinceFor maps a date filter to the lower bound on creation time. Day and
// week windows are fixed durations; month and year follow the calendar.
func (s *RetrievalService) sinceFor(filter DateFilter) *time.Time {
	now := s.now()

	var since time.Time
	switch filter {
	case DateFilterToday:
		since = now.AddDate(0, 0, -1)
	case DateFilterWeek:
		since = now.AddDate(0, 0, -7)
	case DateFilterMonth:
		since = now.AddDate(0, -1, 0)
	case DateFilterYear:
		since = now.AddDate(-1, 0, 0)
	default:
		return nil
	}

	return &since
}
