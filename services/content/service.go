package content

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/memoria-app/memoria/models"
	"github.com/memoria-app/memoria/repositories"
	"github.com/memoria-app/memoria/services"
	"github.com/memoria-app/memoria/services/analysis"
	"github.com/memoria-app/memoria/services/embedding"
	"github.com/memoria-app/memoria/services/providers"
	"go.uber.org/zap"
)

// todoTitleMax bounds how much of the raw todo text becomes the title
const todoTitleMax = 60

// Analyzer is the slice of the analysis service the capture flows need
type Analyzer interface {
	AnalyzeImage(ctx context.Context, imageData, mimeType string) (*analysis.ImageAnalysis, error)
	AnalyzeText(ctx context.Context, text string, contentType models.ContentType) (*analysis.TextAnalysis, error)
	AnalyzeProduct(ctx context.Context, pageContent, productURL string) (*analysis.ProductAnalysis, error)
	AnalyzeWebpage(ctx context.Context, pageTitle, metaDescription, url string) (*analysis.PageAnalysis, error)
	AnalyzeYouTubeVideo(ctx context.Context, videoTitle, videoDescription, channelName string) (*analysis.PageAnalysis, error)
}

// Embedder is the slice of the embedding service the capture flows need
type Embedder interface {
	EmbedText(ctx context.Context, text string) (*providers.Embedding, error)
	Backfill(ctx context.Context) (*embedding.BackfillResult, error)
}

// ContentService owns the capture, retrieval bookkeeping and lifecycle of
// saved content items
type ContentService struct {
	repo     repositories.ContentRepository
	analyzer Analyzer
	embedder Embedder
	logger   *zap.Logger
}

// NewContentService creates a new content service
func NewContentService(repo repositories.ContentRepository, analyzer Analyzer, embedder Embedder, logger *zap.Logger) *ContentService {
	return &ContentService{
		repo:     repo,
		analyzer: analyzer,
		embedder: embedder,
		logger:   logger,
	}
}

// Save inputs, one per capture surface

type SavePhotoInput struct {
	ImageData string `json:"imageData" validate:"required"`
	ImageType string `json:"imageType"`
}

type SaveDocumentInput struct {
	Content          string `json:"content" validate:"required"`
	SourceURL        string `json:"sourceUrl"`
	SelectionContext string `json:"selectionContext"`
}

type SaveTodoInput struct {
	Content string `json:"content" validate:"required"`
}

type SaveProductInput struct {
	PageContent string `json:"pageContent" validate:"required"`
	ProductURL  string `json:"productUrl" validate:"required,url"`
	ImageURL    string `json:"imageUrl"`
}

type SaveBookmarkInput struct {
	URL             string                 `json:"url" validate:"required,url"`
	ScrollPosition  *models.ScrollPosition `json:"scrollPosition"`
	PageTitle       string                 `json:"pageTitle"`
	Favicon         string                 `json:"favicon"`
	MetaDescription string                 `json:"metaDescription"`
}

type SaveYouTubeInput struct {
	VideoID          string `json:"videoId" validate:"required"`
	VideoURL         string `json:"videoUrl" validate:"required,url"`
	VideoTitle       string `json:"videoTitle"`
	VideoDescription string `json:"videoDescription"`
	ChannelName      string `json:"channelName"`
	ThumbnailURL     string `json:"thumbnailUrl"`
	Duration         string `json:"duration"`
}

// SavePhoto analyzes, embeds and persists a captured image
func (s *ContentService) SavePhoto(ctx context.Context, input SavePhotoInput) (*models.ContentItem, error) {
	if input.ImageData == "" {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "imageData is required", nil)
	}

	result, err := s.analyzer.AnalyzeImage(ctx, input.ImageData, input.ImageType)
	if err != nil {
		return nil, err
	}

	payload := &models.PhotoPayload{
		ImageData:     input.ImageData,
		Category:      models.PhotoCategory(result.Category),
		ExtractedText: result.ExtractedText,
	}

	item := models.NewContentItem(payload, result.Title, result.Description, nil)
	return s.persist(ctx, item)
}

// SaveDocument analyzes, embeds and persists selected text
func (s *ContentService) SaveDocument(ctx context.Context, input SaveDocumentInput) (*models.ContentItem, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "content is required", nil)
	}

	result, err := s.analyzer.AnalyzeText(ctx, input.Content, models.ContentTypeDocument)
	if err != nil {
		return nil, err
	}

	payload := &models.DocumentPayload{
		Content:          input.Content,
		SourceURL:        input.SourceURL,
		SelectionContext: input.SelectionContext,
		WordCount:        len(strings.Fields(input.Content)),
	}

	item := models.NewContentItem(payload, result.Title, result.Description, result.Tags)
	return s.persist(ctx, item)
}

// SaveTodo persists a todo without consulting the model: the raw text is
// title enough, and the capture path stays fast and cheap
func (s *ContentService) SaveTodo(ctx context.Context, input SaveTodoInput) (*models.ContentItem, error) {
	text := strings.TrimSpace(input.Content)
	if text == "" {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "content is required", nil)
	}

	title := text
	if len(title) > todoTitleMax {
		title = title[:todoTitleMax] + "..."
	}

	payload := &models.TodoPayload{
		Content:   text,
		Completed: false,
		Priority:  models.TodoPriorityMedium,
	}

	item := models.NewContentItem(payload, title, "Todo: "+text, []string{"todo"})
	return s.persist(ctx, item)
}

// SaveProduct analyzes, embeds and persists a product page capture
func (s *ContentService) SaveProduct(ctx context.Context, input SaveProductInput) (*models.ContentItem, error) {
	if strings.TrimSpace(input.PageContent) == "" {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "pageContent is required", nil)
	}

	result, err := s.analyzer.AnalyzeProduct(ctx, input.PageContent, input.ProductURL)
	if err != nil {
		return nil, err
	}

	payload := &models.ProductPayload{
		ProductName: result.ProductName,
		ProductURL:  input.ProductURL,
		ImageURL:    input.ImageURL,
		Vendor:      result.Vendor,
	}
	if result.Price > 0 {
		currency := result.Currency
		if currency == "" {
			currency = "USD"
		}
		payload.Price = &models.Price{Amount: result.Price, Currency: currency}
	}

	item := models.NewContentItem(payload, result.Title, result.Description, result.Tags)
	return s.persist(ctx, item)
}

// SaveBookmark analyzes, embeds and persists a bookmarked page
func (s *ContentService) SaveBookmark(ctx context.Context, input SaveBookmarkInput) (*models.ContentItem, error) {
	if input.URL == "" {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "url is required", nil)
	}

	result, err := s.analyzer.AnalyzeWebpage(ctx, input.PageTitle, input.MetaDescription, input.URL)
	if err != nil {
		return nil, err
	}

	payload := &models.BookmarkPayload{
		URL:             input.URL,
		ScrollPosition:  input.ScrollPosition,
		PageTitle:       input.PageTitle,
		Favicon:         input.Favicon,
		MetaDescription: input.MetaDescription,
	}

	item := models.NewContentItem(payload, result.Title, result.Description, result.Tags)
	return s.persist(ctx, item)
}

// SaveYouTube analyzes, embeds and persists a YouTube video capture
func (s *ContentService) SaveYouTube(ctx context.Context, input SaveYouTubeInput) (*models.ContentItem, error) {
	if input.VideoID == "" {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "videoId is required", nil)
	}

	result, err := s.analyzer.AnalyzeYouTubeVideo(ctx, input.VideoTitle, input.VideoDescription, input.ChannelName)
	if err != nil {
		return nil, err
	}

	payload := &models.YouTubePayload{
		VideoID:      input.VideoID,
		VideoURL:     input.VideoURL,
		ChannelName:  input.ChannelName,
		ThumbnailURL: input.ThumbnailURL,
		Duration:     input.Duration,
	}

	item := models.NewContentItem(payload, result.Title, result.Description, result.Tags)
	return s.persist(ctx, item)
}

// persist embeds the item's searchable text and stores it. Embedding failure
// aborts the save: an item without a vector is invisible to semantic search,
// and the caller should retry rather than silently degrade.
func (s *ContentService) persist(ctx context.Context, item *models.ContentItem) (*models.ContentItem, error) {
	emb, err := s.embedder.EmbedText(ctx, item.SearchableText())
	if err != nil {
		return nil, err
	}
	item.SetEmbedding(emb.Values, emb.Model)

	if err := item.Validate(); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeValidation, err.Error(), err)
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, services.WrapInternal("failed to store content item", err)
	}

	s.logger.Info("content saved",
		zap.String("content_id", item.ID.String()),
		zap.String("content_type", string(item.ContentType)))

	return item, nil
}

// Get retrieves one item and records the access. The bookkeeping is
// best-effort: a failed counter update is logged, never surfaced.
func (s *ContentService) Get(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrContentNotFound
		}
		return nil, services.WrapInternal("failed to load content item", err)
	}

	if err := s.repo.TouchAccess(ctx, id); err != nil {
		s.logger.Warn("access bookkeeping failed",
			zap.String("content_id", id.String()),
			zap.Error(err))
	}

	return item, nil
}

// ListResult is a page of items plus pagination totals
type ListResult struct {
	Items []*models.ContentItem `json:"items"`
	Total int                   `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
	Pages int                   `json:"pages"`
}

// List retrieves a page of items with keyword filtering
func (s *ContentService) List(ctx context.Context, opts repositories.ListOptions) (*ListResult, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.ContentType != nil && !opts.ContentType.IsValid() {
		return nil, services.ErrInvalidContentType
	}

	items, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, services.WrapInternal("failed to list content items", err)
	}

	pages := total / opts.Limit
	if total%opts.Limit > 0 {
		pages++
	}

	return &ListResult{
		Items: items,
		Total: total,
		Page:  opts.Page,
		Limit: opts.Limit,
		Pages: pages,
	}, nil
}

// Update applies a partial update to mutable fields. The stored embedding is
// left as-is: staleness is reconciled by the backfill sweep, not here.
func (s *ContentService) Update(ctx context.Context, id uuid.UUID, update models.ContentUpdate) (*models.ContentItem, error) {
	if update.IsEmpty() {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "update contains no fields", nil)
	}

	item, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrContentNotFound
		}
		return nil, services.WrapInternal("failed to update content item", err)
	}

	return item, nil
}

// Delete removes a content item
func (s *ContentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return services.ErrContentNotFound
		}
		return services.WrapInternal("failed to delete content item", err)
	}

	s.logger.Info("content deleted", zap.String("content_id", id.String()))
	return nil
}

// ReconcileEmbeddings sweeps items whose embeddings are missing or stale
func (s *ContentService) ReconcileEmbeddings(ctx context.Context) (*embedding.BackfillResult, error) {
	return s.embedder.Backfill(ctx)
}
