package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/memoria-app/memoria/models"
	"github.com/memoria-app/memoria/repositories"
	"go.uber.org/zap"
)

const contentColumns = `id, content_type, title, description, tags, payload,
		embedding, embedding_model, content_hash, is_favorite,
		access_count, last_accessed, created_at, updated_at`

// ContentRepository implements repositories.ContentRepository over PostgreSQL
type ContentRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *DB, logger *zap.Logger) repositories.ContentRepository {
	return &ContentRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new content item
func (r *ContentRepository) Create(ctx context.Context, item *models.ContentItem) error {
	payload, err := models.EncodePayload(item.Payload)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO content_items (id, content_type, title, description, tags, payload,
			embedding, embedding_model, content_hash, is_favorite,
			access_count, last_accessed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = r.db.ExecContext(ctx, query,
		item.ID,
		item.ContentType,
		item.Title,
		item.Description,
		pq.Array(item.Tags),
		[]byte(payload),
		nullableVector(item.Embedding),
		nullableString(item.EmbeddingModel),
		nullableString(item.ContentHash),
		item.IsFavorite,
		item.AccessCount,
		item.LastAccessed,
		item.Timestamp,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create content item: %w", err)
	}

	r.logger.Debug("content item created",
		zap.String("id", item.ID.String()),
		zap.String("content_type", string(item.ContentType)))
	return nil
}

// GetByID retrieves a content item by ID
func (r *ContentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	query := `SELECT ` + contentColumns + ` FROM content_items WHERE id = $1`

	item, err := scanContentItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", repositories.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get content item: %w", err)
	}
	return item, nil
}

// Find retrieves all items matching the filter, newest first
func (r *ContentRepository) Find(ctx context.Context, filter repositories.ContentFilter) ([]*models.ContentItem, error) {
	var conditions []string
	var args []interface{}

	if filter.ContentType != nil {
		args = append(args, *filter.ContentType)
		conditions = append(conditions, fmt.Sprintf("content_type = $%d", len(args)))
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.RequireEmbedding {
		conditions = append(conditions, "embedding IS NOT NULL")
	}

	query := `SELECT ` + contentColumns + ` FROM content_items`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	return r.queryContentItems(ctx, query, args...)
}

// List retrieves a page of items with keyword filtering
func (r *ContentRepository) List(ctx context.Context, opts repositories.ListOptions) ([]*models.ContentItem, int, error) {
	var conditions []string
	var args []interface{}

	if opts.ContentType != nil {
		args = append(args, *opts.ContentType)
		conditions = append(conditions, fmt.Sprintf("content_type = $%d", len(args)))
	}
	if opts.FavoritesOnly {
		conditions = append(conditions, "is_favorite = true")
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(tags) tag WHERE tag ILIKE $%d))",
			n, n, n))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM content_items" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count content items: %w", err)
	}

	sortColumn := "created_at"
	if opts.SortBy == "title" {
		sortColumn = "title"
	}
	direction := "DESC"
	if opts.SortOrder == repositories.SortAsc {
		direction = "ASC"
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}

	args = append(args, limit)
	limitPos := len(args)
	args = append(args, (page-1)*limit)
	offsetPos := len(args)

	query := fmt.Sprintf(`SELECT %s FROM content_items%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		contentColumns, where, sortColumn, direction, limitPos, offsetPos)

	items, err := r.queryContentItems(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update applies a partial update and returns the updated item.
// Embedding columns are never touched here.
func (r *ContentRepository) Update(ctx context.Context, id uuid.UUID, update models.ContentUpdate) (*models.ContentItem, error) {
	var setClauses []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.Tags != nil {
		add("tags", pq.Array(*update.Tags))
	}
	if update.IsFavorite != nil {
		add("is_favorite", *update.IsFavorite)
	}
	if update.Payload != nil {
		payload, err := models.EncodePayload(update.Payload)
		if err != nil {
			return nil, err
		}
		add("payload", []byte(payload))
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE content_items SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), len(args), contentColumns)

	item, err := scanContentItem(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", repositories.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to update content item: %w", err)
	}

	r.logger.Debug("content item updated", zap.String("id", id.String()))
	return item, nil
}

// SetEmbedding stores the embedding vector, its model tag and content hash
func (r *ContentRepository) SetEmbedding(ctx context.Context, id uuid.UUID, vector []float64, model, contentHash string) error {
	query := `
		UPDATE content_items
		SET embedding = $2, embedding_model = $3, content_hash = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		id, pq.Array(vector), model, contentHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set embedding: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", repositories.ErrNotFound, id)
	}

	r.logger.Debug("embedding stored",
		zap.String("id", id.String()),
		zap.String("model", model),
		zap.Int("dimensions", len(vector)))
	return nil
}

// FindMissingEmbeddings retrieves items without an embedding, oldest first
func (r *ContentRepository) FindMissingEmbeddings(ctx context.Context, limit int) ([]*models.ContentItem, error) {
	query := `SELECT ` + contentColumns + `
		FROM content_items
		WHERE embedding IS NULL
		ORDER BY created_at ASC
		LIMIT $1`

	return r.queryContentItems(ctx, query, limit)
}

// TouchAccess increments the access counter and stamps last access.
// Concurrent touches on the same item are last-write-wins.
func (r *ContentRepository) TouchAccess(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE content_items
		SET access_count = access_count + 1, last_accessed = $2
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record access: %w", err)
	}
	return nil
}

// Delete removes a content item
func (r *ContentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM content_items WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete content item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", repositories.ErrNotFound, id)
	}

	r.logger.Debug("content item deleted", zap.String("id", id.String()))
	return nil
}

// queryContentItems is a helper to query multiple content items
func (r *ContentRepository) queryContentItems(ctx context.Context, query string, args ...interface{}) ([]*models.ContentItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query content items: %w", err)
	}
	defer rows.Close()

	var items []*models.ContentItem
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content item rows: %w", err)
	}

	return items, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContentItem(row rowScanner) (*models.ContentItem, error) {
	var (
		item           models.ContentItem
		tags           pq.StringArray
		payload        []byte
		embedding      pq.Float64Array
		embeddingModel sql.NullString
		contentHash    sql.NullString
		lastAccessed   sql.NullTime
	)

	err := row.Scan(
		&item.ID,
		&item.ContentType,
		&item.Title,
		&item.Description,
		&tags,
		&payload,
		&embedding,
		&embeddingModel,
		&contentHash,
		&item.IsFavorite,
		&item.AccessCount,
		&lastAccessed,
		&item.Timestamp,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Tags = []string(tags)
	item.Embedding = []float64(embedding)
	if embeddingModel.Valid {
		item.EmbeddingModel = embeddingModel.String
	}
	if contentHash.Valid {
		item.ContentHash = contentHash.String
	}
	if lastAccessed.Valid {
		t := lastAccessed.Time
		item.LastAccessed = &t
	}

	decoded, err := models.DecodePayload(item.ContentType, json.RawMessage(payload))
	if err != nil {
		return nil, err
	}
	item.Payload = decoded

	return &item, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullableVector(v []float64) interface{} {
	if len(v) == 0 {
		return nil
	}
	return pq.Array(v)
}
