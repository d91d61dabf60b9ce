package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/memoria-app/memoria/models"
	"github.com/memoria-app/memoria/services/rag"
	"github.com/memoria-app/memoria/services/retrieval"
	"github.com/memoria-app/memoria/utils"
	"go.uber.org/zap"
)

// AskRequest is the question answering request body
type AskRequest struct {
	Question    string `json:"question" validate:"required"`
	ContentType string `json:"contentType,omitempty" validate:"omitempty,oneof=photo document todo product bookmark youtube"`
	DateFilter  string `json:"dateFilter,omitempty" validate:"omitempty,oneof=today week month year"`
	Limit       int    `json:"limit,omitempty" validate:"omitempty,gt=0,lte=20"`
}

// SummarizeRequest is the topic summarization request body
type SummarizeRequest struct {
	Topic       string `json:"topic" validate:"required"`
	ContentType string `json:"contentType,omitempty" validate:"omitempty,oneof=photo document todo product bookmark youtube"`
	DateFilter  string `json:"dateFilter,omitempty" validate:"omitempty,oneof=today week month year"`
	Limit       int    `json:"limit,omitempty" validate:"omitempty,gt=0,lte=20"`
}

// AnswerService defines the interface for grounded question answering
type AnswerService interface {
	AnswerQuestion(ctx context.Context, question string, opts rag.AskOptions) (*rag.Answer, error)
	SummarizeTopic(ctx context.Context, topic string, opts rag.AskOptions) (*rag.Answer, error)
}

// RAGHandler handles question answering HTTP requests
type RAGHandler struct {
	service AnswerService
	logger  *zap.Logger
}

// NewRAGHandler creates a new RAGHandler
func NewRAGHandler(service AnswerService, logger *zap.Logger) *RAGHandler {
	return &RAGHandler{
		service: service,
		logger:  logger,
	}
}

// HandleAsk handles POST /api/content/ask
func (h *RAGHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
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

	answer, err := h.service.AnswerQuestion(r.Context(), req.Question, askOptions(req.ContentType, req.DateFilter, req.Limit))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, answer); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

// HandleSummarize handles POST /api/content/summarize
func (h *RAGHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	var req SummarizeRequest
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

	answer, err := h.service.SummarizeTopic(r.Context(), req.Topic, askOptions(req.ContentType, req.DateFilter, req.Limit))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, answer); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

func askOptions(contentType, dateFilter string, limit int) rag.AskOptions {
	opts := rag.AskOptions{
		DateFilter: retrieval.DateFilter(dateFilter),
		Limit:      limit,
	}
	if contentType != "" {
		ct := models.ContentType(contentType)
		opts.ContentType = &ct
	}
	return opts
}
