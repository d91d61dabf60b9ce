package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/memoria-app/memoria/models"
)

// ErrNotFound is returned when no content item matches the given ID
var ErrNotFound = errors.New("content item not found")

// ContentFilter narrows a bulk fetch of content items. Zero values mean
// "no constraint".
type ContentFilter struct {
	// ContentType restricts to a single content type when non-nil
	ContentType *models.ContentType

	// Since is a lower bound on the creation timestamp. There is no upper
	// bound: the newest items are always included.
	Since *time.Time

	// RequireEmbedding restricts to items that carry an embedding vector.
	// The semantic search and question answering paths always set this.
	RequireEmbedding bool
}

// SortOrder for listings
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListOptions controls keyword listing and pagination
type ListOptions struct {
	ContentType *models.ContentType
	// Search is a keyword filter over title, description and tags
	Search        string
	FavoritesOnly bool
	SortBy        string // "timestamp" or "title"; defaults to "timestamp"
	SortOrder     SortOrder
	Page          int // 1-based
	Limit         int
}

// ContentRepository handles content item persistence
type ContentRepository interface {
	// Create persists a new content item
	Create(ctx context.Context, item *models.ContentItem) error

	// GetByID retrieves a content item by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.ContentItem, error)

	// Find retrieves all items matching the filter, newest first.
	// The fetch is eager: ranking happens entirely in the caller.
	Find(ctx context.Context, filter ContentFilter) ([]*models.ContentItem, error)

	// List retrieves a page of items with keyword filtering, plus the
	// total count of matches
	List(ctx context.Context, opts ListOptions) ([]*models.ContentItem, int, error)

	// Update applies a partial update. It never touches the embedding
	// columns: embedding staleness is reconciled separately.
	Update(ctx context.Context, id uuid.UUID, update models.ContentUpdate) (*models.ContentItem, error)

	// SetEmbedding stores the embedding vector, its model tag and the
	// content hash it was computed from
	SetEmbedding(ctx context.Context, id uuid.UUID, vector []float64, model, contentHash string) error

	// FindMissingEmbeddings retrieves items without an embedding, oldest
	// first, capped at limit
	FindMissingEmbeddings(ctx context.Context, limit int) ([]*models.ContentItem, error)

	// TouchAccess increments the access count and stamps last access.
	// Last-write-wins under concurrency; the counters are advisory.
	TouchAccess(ctx context.Context, id uuid.UUID) error

	// Delete removes a content item
	Delete(ctx context.Context, id uuid.UUID) error
}
