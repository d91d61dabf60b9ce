package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/memoria-app/memoria/models"
	"github.com/memoria-app/memoria/repositories"
	"github.com/memoria-app/memoria/services/content"
	"github.com/memoria-app/memoria/utils"
	"go.uber.org/zap"
)

// ContentService defines the interface for content operations
type ContentService interface {
	SavePhoto(ctx context.Context, input content.SavePhotoInput) (*models.ContentItem, error)
	SaveDocument(ctx context.Context, input content.SaveDocumentInput) (*models.ContentItem, error)
	SaveTodo(ctx context.Context, input content.SaveTodoInput) (*models.ContentItem, error)
	SaveProduct(ctx context.Context, input content.SaveProductInput) (*models.ContentItem, error)
	SaveBookmark(ctx context.Context, input content.SaveBookmarkInput) (*models.ContentItem, error)
	SaveYouTube(ctx context.Context, input content.SaveYouTubeInput) (*models.ContentItem, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ContentItem, error)
	List(ctx context.Context, opts repositories.ListOptions) (*content.ListResult, error)
	Update(ctx context.Context, id uuid.UUID, update models.ContentUpdate) (*models.ContentItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContentHandler handles content capture and lifecycle HTTP requests
type ContentHandler struct {
	service ContentService
	logger  *zap.Logger
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(service ContentService, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		service: service,
		logger:  logger,
	}
}

// HandleSavePhoto handles POST /api/content/photo
func (h *ContentHandler) HandleSavePhoto(w http.ResponseWriter, r *http.Request) {
	var input content.SavePhotoInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	item, err := h.service.SavePhoto(r.Context(), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeCreated(w, item)
}

// HandleSaveDocument handles POST /api/content/document
func (h *ContentHandler) HandleSaveDocument(w http.ResponseWriter, r *http.Request) {
	var input content.SaveDocumentInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	item, err := h.service.SaveDocument(r.Context(), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeCreated(w, item)
}

// HandleSaveTodo handles POST /api/content/todo
func (h *ContentHandler) HandleSaveTodo(w http.ResponseWriter, r *http.Request) {
	var input content.SaveTodoInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	item, err := h.service.SaveTodo(r.Context(), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeCreated(w, item)
}

// HandleSaveProduct handles POST /api/content/product
func (h *ContentHandler) HandleSaveProduct(w http.ResponseWriter, r *http.Request) {
	var input content.SaveProductInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	item, err := h.service.SaveProduct(r.Context(), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeCreated(w, item)
}

// HandleSaveBookmark handles POST /api/content/bookmark
func (h *ContentHandler) HandleSaveBookmark(w http.ResponseWriter, r *http.Request) {
	var input content.SaveBookmarkInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	item, err := h.service.SaveBookmark(r.Context(), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeCreated(w, item)
}

// HandleSaveYouTube handles POST /api/content/youtube
func (h *ContentHandler) HandleSaveYouTube(w http.ResponseWriter, r *http.Request) {
	var input content.SaveYouTubeInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	item, err := h.service.SaveYouTube(r.Context(), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeCreated(w, item)
}

// HandleList handles GET /api/content
func (h *ContentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	opts := repositories.ListOptions{
		Search:    r.URL.Query().Get("search"),
		SortBy:    r.URL.Query().Get("sortBy"),
		SortOrder: repositories.SortOrder(r.URL.Query().Get("sortOrder")),
	}

	if ct := r.URL.Query().Get("contentType"); ct != "" {
		contentType := models.ContentType(ct)
		if !contentType.IsValid() {
			_ = utils.WriteBadRequest(w, "invalid content type", map[string]interface{}{
				"contentType": ct,
			})
			return
		}
		opts.ContentType = &contentType
	}

	if page := r.URL.Query().Get("page"); page != "" {
		if n, err := strconv.Atoi(page); err == nil {
			opts.Page = n
		}
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			opts.Limit = n
		}
	}
	if fav := r.URL.Query().Get("favorites"); fav != "" {
		opts.FavoritesOnly, _ = strconv.ParseBool(fav)
	}

	result, err := h.service.List(r.Context(), opts)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, result); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

// HandleGet handles GET /api/content/{id}
func (h *ContentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, item); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

// HandleUpdate handles PUT /api/content/{id}
func (h *ContentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var update models.ContentUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.logger.Warn("failed to parse request body", zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	item, err := h.service.Update(r.Context(), id, update)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, item); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

// HandleDelete handles DELETE /api/content/{id}
func (h *ContentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}

func (h *ContentHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, input interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(input); err != nil {
		h.logger.Warn("failed to parse request body", zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return false
	}

	if err := utils.ValidateStruct(input); err != nil {
		h.logger.Warn("request validation failed", zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return false
	}

	return true
}

func (h *ContentHandler) writeCreated(w http.ResponseWriter, item *models.ContentItem) {
	if err := utils.WriteCreated(w, item); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

func (h *ContentHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		_ = utils.WriteBadRequest(w, "invalid content ID", map[string]interface{}{
			"id": raw,
		})
		return uuid.Nil, false
	}
	return id, true
}
