package embedding

import (
	"context"

	"github.com/memoria-app/memoria/models"
	"github.com/memoria-app/memoria/repositories"
	"github.com/memoria-app/memoria/services"
	"github.com/memoria-app/memoria/services/providers"
	"go.uber.org/zap"
)

// defaultBackfillBatch bounds how many items one backfill sweep loads
const defaultBackfillBatch = 100

// EmbeddingService generates and maintains embedding vectors for content items
type EmbeddingService struct {
	embedder providers.Embedder
	repo     repositories.ContentRepository
	logger   *zap.Logger
}

// NewEmbeddingService creates a new embedding service
func NewEmbeddingService(embedder providers.Embedder, repo repositories.ContentRepository, logger *zap.Logger) *EmbeddingService {
	return &EmbeddingService{
		embedder: embedder,
		repo:     repo,
		logger:   logger,
	}
}

// EmbedText generates an embedding for arbitrary text, mapping provider
// failures to a domain error
func (s *EmbeddingService) EmbedText(ctx context.Context, text string) (*providers.Embedding, error) {
	if text == "" {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "text to embed must not be empty", nil)
	}

	embedding, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		s.logger.Error("embedding generation failed", zap.Error(err))
		return nil, services.WrapEmbeddingUnavailable(err)
	}

	return embedding, nil
}

// EnsureEmbedding guarantees the item carries an embedding that matches its
// current searchable text. Items whose content hash is unchanged are left
// alone, so repeated calls are idempotent.
func (s *EmbeddingService) EnsureEmbedding(ctx context.Context, item *models.ContentItem) (bool, error) {
	text := item.SearchableText()
	hash := models.HashText(text)

	if item.HasEmbedding() && item.ContentHash == hash {
		return false, nil
	}

	embedding, err := s.EmbedText(ctx, text)
	if err != nil {
		return false, err
	}

	item.SetEmbedding(embedding.Values, embedding.Model)

	if err := s.repo.SetEmbedding(ctx, item.ID, embedding.Values, embedding.Model, item.ContentHash); err != nil {
		return false, services.WrapInternal("failed to persist embedding", err)
	}

	s.logger.Debug("embedding stored",
		zap.String("content_id", item.ID.String()),
		zap.String("model", embedding.Model),
		zap.Int("dimensions", len(embedding.Values)))

	return true, nil
}

// BackfillResult reports the outcome of one reconciliation sweep
type BackfillResult struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// Backfill sweeps items missing embeddings and generates them. Individual
// failures are logged and counted but do not abort the sweep.
func (s *EmbeddingService) Backfill(ctx context.Context) (*BackfillResult, error) {
	items, err := s.repo.FindMissingEmbeddings(ctx, defaultBackfillBatch)
	if err != nil {
		return nil, services.WrapInternal("failed to load items missing embeddings", err)
	}

	return s.sweep(ctx, items)
}

// ReconcileAll sweeps every stored item, regenerating embeddings whose
// content hash no longer matches the searchable text. Unchanged items cost
// nothing beyond the fetch.
func (s *EmbeddingService) ReconcileAll(ctx context.Context) (*BackfillResult, error) {
	items, err := s.repo.Find(ctx, repositories.ContentFilter{})
	if err != nil {
		return nil, services.WrapInternal("failed to load content items", err)
	}

	return s.sweep(ctx, items)
}

func (s *EmbeddingService) sweep(ctx context.Context, items []*models.ContentItem) (*BackfillResult, error) {
	result := &BackfillResult{Scanned: len(items)}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return result, services.WrapInternal("backfill interrupted", err)
		}

		updated, err := s.EnsureEmbedding(ctx, item)
		if err != nil {
			result.Failed++
			s.logger.Warn("backfill skipped item",
				zap.String("content_id", item.ID.String()),
				zap.Error(err))
			continue
		}
		if updated {
			result.Updated++
		}
	}

	s.logger.Info("embedding backfill complete",
		zap.Int("scanned", result.Scanned),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.Failed))

	return result, nil
}
