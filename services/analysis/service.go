package analysis

import (
	"context"
	"fmt"

	"github.com/memoria-app/memoria/models"
	"github.com/memoria-app/memoria/services"
	"github.com/memoria-app/memoria/services/providers"
	"go.uber.org/zap"
)

// ImageAnalysis is the model's read of an uploaded image
type ImageAnalysis struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	ExtractedText string `json:"extractedText"`
}

// TextAnalysis is the model's read of free text (documents, todos)
type TextAnalysis struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ProductAnalysis is the model's read of a product page
type ProductAnalysis struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ProductName string   `json:"productName"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Vendor      string   `json:"vendor"`
	Tags        []string `json:"tags"`
}

// PageAnalysis is the model's read of a webpage or video for saving
type PageAnalysis struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// AnalysisService enriches raw captures with model-generated titles,
// descriptions and tags before they are persisted
type AnalysisService struct {
	generator providers.Generator
	logger    *zap.Logger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(generator providers.Generator, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		generator: generator,
		logger:    logger,
	}
}

// AnalyzeImage describes an image and extracts any visible text. imageData is
// base64-encoded.
func (s *AnalysisService) AnalyzeImage(ctx context.Context, imageData, mimeType string) (*ImageAnalysis, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	prompt := `Analyze this image and provide:
1. A concise title (max 60 characters)
2. A detailed description (2-3 sentences)
3. A category: choose ONE from: book, recipe, document, screenshot, other

Also, if there's any text visible in the image, extract it.

Respond in JSON format:
{
  "title": "...",
  "description": "...",
  "category": "...",
  "extractedText": "..."
}`

	text, err := s.generator.GenerateVision(ctx, prompt, imageData, mimeType)
	if err != nil {
		s.logger.Error("image analysis failed", zap.Error(err))
		return nil, services.WrapGenerationUnavailable(err)
	}

	var result ImageAnalysis
	if err := extractJSON(text, &result); err != nil {
		return nil, services.WrapGenerationUnavailable(fmt.Errorf("unparsable image analysis: %w", err))
	}

	if !models.PhotoCategory(result.Category).IsValid() {
		result.Category = string(models.PhotoCategoryOther)
	}

	return &result, nil
}

// AnalyzeText titles and summarizes free text. The prompt varies by content
// type: todos additionally get a priority suggestion.
func (s *AnalysisService) AnalyzeText(ctx context.Context, text string, contentType models.ContentType) (*TextAnalysis, error) {
	var prompt string

	switch contentType {
	case models.ContentTypeDocument:
		prompt = fmt.Sprintf(`Analyze this selected text and provide:
1. A concise title that captures the main topic (max 60 characters)
2. A brief description summarizing the key points (2-3 sentences)
3. Suggested tags (3-5 relevant keywords)

Text: %q

Respond in JSON format:
{
  "title": "...",
  "description": "...",
  "tags": ["tag1", "tag2", "tag3"]
}`, text)

	case models.ContentTypeTodo:
		prompt = fmt.Sprintf(`Analyze this todo item and provide:
1. A clear, actionable title (max 60 characters)
2. A description with more context if needed (1-2 sentences)
3. Suggested priority (low, medium, high)
4. Suggested tags

Todo text: %q

Respond in JSON format:
{
  "title": "...",
  "description": "...",
  "priority": "medium",
  "tags": ["tag1", "tag2"]
}`, text)

	default:
		prompt = fmt.Sprintf(`Analyze this text and create a title and description for it.

Text: %q

Respond in JSON format:
{
  "title": "...",
  "description": "..."
}`, text)
	}

	raw, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		s.logger.Error("text analysis failed", zap.Error(err))
		return nil, services.WrapGenerationUnavailable(err)
	}

	var result TextAnalysis
	if err := extractJSON(raw, &result); err != nil {
		return nil, services.WrapGenerationUnavailable(fmt.Errorf("unparsable text analysis: %w", err))
	}

	return &result, nil
}

// AnalyzeProduct extracts structured product information from raw page content
func (s *AnalysisService) AnalyzeProduct(ctx context.Context, pageContent, productURL string) (*ProductAnalysis, error) {
	prompt := fmt.Sprintf(`Extract product information from this webpage content:

%s

URL: %s

Provide:
1. Product name/title
2. Description (2-3 sentences highlighting key features)
3. Price (if available)
4. Currency (if available)
5. Vendor/brand name
6. Suggested tags

Respond in JSON format:
{
  "title": "...",
  "description": "...",
  "productName": "...",
  "price": 0.00,
  "currency": "USD",
  "vendor": "...",
  "tags": ["tag1", "tag2"]
}`, pageContent, productURL)

	raw, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		s.logger.Error("product analysis failed", zap.Error(err))
		return nil, services.WrapGenerationUnavailable(err)
	}

	var result ProductAnalysis
	if err := extractJSON(raw, &result); err != nil {
		return nil, services.WrapGenerationUnavailable(fmt.Errorf("unparsable product analysis: %w", err))
	}

	return &result, nil
}

// AnalyzeWebpage titles and summarizes a page for bookmarking
func (s *AnalysisService) AnalyzeWebpage(ctx context.Context, pageTitle, metaDescription, url string) (*PageAnalysis, error) {
	if metaDescription == "" {
		metaDescription = "N/A"
	}

	prompt := fmt.Sprintf(`Analyze this webpage and create a title and description for bookmarking:

Page Title: %s
Meta Description: %s
URL: %s

Provide:
1. A concise title (max 60 characters)
2. A useful description (2-3 sentences)
3. Suggested tags

Respond in JSON format:
{
  "title": "...",
  "description": "...",
  "tags": ["tag1", "tag2"]
}`, pageTitle, metaDescription, url)

	raw, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		s.logger.Error("webpage analysis failed", zap.Error(err))
		return nil, services.WrapGenerationUnavailable(err)
	}

	var result PageAnalysis
	if err := extractJSON(raw, &result); err != nil {
		return nil, services.WrapGenerationUnavailable(fmt.Errorf("unparsable webpage analysis: %w", err))
	}

	return &result, nil
}

// AnalyzeYouTubeVideo rewrites video metadata into a searchable title and
// description
func (s *AnalysisService) AnalyzeYouTubeVideo(ctx context.Context, videoTitle, videoDescription, channelName string) (*PageAnalysis, error) {
	prompt := fmt.Sprintf(`Analyze this YouTube video and create a better title and description for saving:

Title: %s
Description: %s
Channel: %s

Provide:
1. A concise, searchable title (max 60 characters)
2. A brief, informative description (2-3 sentences)
3. Suggested tags for categorization

Respond in JSON format:
{
  "title": "...",
  "description": "...",
  "tags": ["tag1", "tag2", "tag3"]
}`, videoTitle, videoDescription, channelName)

	raw, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		s.logger.Error("video analysis failed", zap.Error(err))
		return nil, services.WrapGenerationUnavailable(err)
	}

	var result PageAnalysis
	if err := extractJSON(raw, &result); err != nil {
		return nil, services.WrapGenerationUnavailable(fmt.Errorf("unparsable video analysis: %w", err))
	}

	return &result, nil
}
