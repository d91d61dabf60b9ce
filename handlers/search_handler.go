package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/memoria-app/memoria/models"
	"github.com/memoria-app/memoria/services/retrieval"
	"github.com/memoria-app/memoria/utils"
	"go.uber.org/zap"
)

// SearchRequest is the semantic search request body
type SearchRequest struct {
	Query       string `json:"query" validate:"required"`
	ContentType string `json:"contentType,omitempty" validate:"omitempty,oneof=photo document todo product bookmark youtube"`
	DateFilter  string `json:"dateFilter,omitempty" validate:"omitempty,oneof=today week month year"`
	Limit       int    `json:"limit,omitempty" validate:"omitempty,gt=0,lte=100"`
}

// SearchResponse is the semantic search response body
type SearchResponse struct {
	Results []retrieval.SearchResult `json:"results"`
	Count   int                      `json:"count"`
}

// SearchService defines the interface for semantic search
type SearchService interface {
	Search(ctx context.Context, query string, opts retrieval.SearchOptions) ([]retrieval.SearchResult, error)
}

// SearchHandler handles semantic search HTTP requests
type SearchHandler struct {
	service SearchService
	logger  *zap.Logger
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(service SearchService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger,
	}
}

// HandleSearch handles POST /api/content/search
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body", zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		h.logger.Warn("request validation failed", zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	opts := retrieval.SearchOptions{
		DateFilter: retrieval.DateFilter(req.DateFilter),
		Limit:      req.Limit,
	}
	if req.ContentType != "" {
		ct := models.ContentType(req.ContentType)
		opts.ContentType = &ct
	}

	results, err := h.service.Search(r.Context(), req.Query, opts)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, SearchResponse{Results: results, Count: len(results)}); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}
