package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContentType identifies the kind of captured content
type ContentType string

const (
	ContentTypePhoto    ContentType = "photo"
	ContentTypeDocument ContentType = "document"
	ContentTypeTodo     ContentType = "todo"
	ContentTypeProduct  ContentType = "product"
	ContentTypeBookmark ContentType = "bookmark"
	ContentTypeYouTube  ContentType = "youtube"
)

// ContentTypes lists all valid content types
var ContentTypes = []ContentType{
	ContentTypePhoto,
	ContentTypeDocument,
	ContentTypeTodo,
	ContentTypeProduct,
	ContentTypeBookmark,
	ContentTypeYouTube,
}

// IsValid reports whether the content type is one of the known kinds
func (t ContentType) IsValid() bool {
	for _, ct := range ContentTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// ContentItem is the unit of capture and retrieval. The type-specific payload
// is a tagged union: exactly one variant, whose Type() must match ContentType.
type ContentItem struct {
	ID          uuid.UUID   `json:"id"`
	ContentType ContentType `json:"contentType"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Tags        []string    `json:"tags"`
	Timestamp   time.Time   `json:"timestamp"` // creation time, immutable
	Payload     Payload     `json:"-"`

	// Embedding and EmbeddingModel are both set or both empty.
	Embedding      []float64 `json:"embedding,omitempty"`
	EmbeddingModel string    `json:"embeddingModel,omitempty"`
	// ContentHash is the hash of the searchable text the embedding was
	// generated from. Unchanged text is never re-embedded.
	ContentHash string `json:"-"`

	IsFavorite   bool       `json:"isFavorite"`
	AccessCount  int        `json:"accessCount"`
	LastAccessed *time.Time `json:"lastAccessed,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// NewContentItem creates a content item with a fresh ID and timestamps
func NewContentItem(payload Payload, title, description string, tags []string) *ContentItem {
	now := time.Now().UTC()
	if tags == nil {
		tags = []string{}
	}
	return &ContentItem{
		ID:          uuid.New(),
		ContentType: payload.Type(),
		Title:       title,
		Description: description,
		Tags:        tags,
		Timestamp:   now,
		Payload:     payload,
		UpdatedAt:   now,
	}
}

// Validate checks the structural invariants of the item
func (c *ContentItem) Validate() error {
	if !c.ContentType.IsValid() {
		return fmt.Errorf("invalid content type: %q", c.ContentType)
	}
	if c.Title == "" {
		return fmt.Errorf("title is required")
	}
	if c.Description == "" {
		return fmt.Errorf("description is required")
	}
	if c.Payload == nil {
		return fmt.Errorf("payload is required")
	}
	if c.Payload.Type() != c.ContentType {
		return fmt.Errorf("payload type %q does not match content type %q",
			c.Payload.Type(), c.ContentType)
	}
	if (len(c.Embedding) == 0) != (c.EmbeddingModel == "") {
		return fmt.Errorf("embedding and embedding model must be set together")
	}
	return nil
}

// HasEmbedding reports whether the item carries an embedding vector
func (c *ContentItem) HasEmbedding() bool {
	return len(c.Embedding) > 0 && c.EmbeddingModel != ""
}

// SetEmbedding attaches an embedding vector and its model tag, recording the
// hash of the text it was computed from
func (c *ContentItem) SetEmbedding(vector []float64, model string) {
	c.Embedding = vector
	c.EmbeddingModel = model
	c.ContentHash = HashText(c.SearchableText())
}

// SearchableText composes the free text fed to embedding generation:
// title, description, the payload's searchable fragment, then tags.
func (c *ContentItem) SearchableText() string {
	var b strings.Builder
	b.WriteString(c.Title)
	b.WriteString(" ")
	b.WriteString(c.Description)
	if c.Payload != nil {
		if extra := c.Payload.searchableText(); extra != "" {
			b.WriteString(" ")
			b.WriteString(extra)
		}
	}
	if len(c.Tags) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(c.Tags, " "))
	}
	return b.String()
}

// SourceURL returns the canonical URL for the item, when its payload has one
func (c *ContentItem) SourceURL() string {
	if c.Payload == nil {
		return ""
	}
	return c.Payload.sourceURL()
}

// HashText returns the hex sha-256 of the given text
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// contentItemWire is the JSON envelope: the payload is nested under a key
// named by its content type, matching the public API shape.
type contentItemWire struct {
	ID          uuid.UUID   `json:"id"`
	ContentType ContentType `json:"contentType"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Tags        []string    `json:"tags"`
	Timestamp   time.Time   `json:"timestamp"`

	Photo    *PhotoPayload    `json:"photo,omitempty"`
	Document *DocumentPayload `json:"document,omitempty"`
	Todo     *TodoPayload     `json:"todo,omitempty"`
	Product  *ProductPayload  `json:"product,omitempty"`
	Bookmark *BookmarkPayload `json:"bookmark,omitempty"`
	YouTube  *YouTubePayload  `json:"youtube,omitempty"`

	Embedding      []float64  `json:"embedding,omitempty"`
	EmbeddingModel string     `json:"embeddingModel,omitempty"`
	IsFavorite     bool       `json:"isFavorite"`
	AccessCount    int        `json:"accessCount"`
	LastAccessed   *time.Time `json:"lastAccessed,omitempty"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// MarshalJSON implements json.Marshaler
func (c ContentItem) MarshalJSON() ([]byte, error) {
	w := contentItemWire{
		ID:             c.ID,
		ContentType:    c.ContentType,
		Title:          c.Title,
		Description:    c.Description,
		Tags:           c.Tags,
		Timestamp:      c.Timestamp,
		Embedding:      c.Embedding,
		EmbeddingModel: c.EmbeddingModel,
		IsFavorite:     c.IsFavorite,
		AccessCount:    c.AccessCount,
		LastAccessed:   c.LastAccessed,
		UpdatedAt:      c.UpdatedAt,
	}
	switch p := c.Payload.(type) {
	case *PhotoPayload:
		w.Photo = p
	case *DocumentPayload:
		w.Document = p
	case *TodoPayload:
		w.Todo = p
	case *ProductPayload:
		w.Product = p
	case *BookmarkPayload:
		w.Bookmark = p
	case *YouTubePayload:
		w.YouTube = p
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler
func (c *ContentItem) UnmarshalJSON(data []byte) error {
	var w contentItemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.ID = w.ID
	c.ContentType = w.ContentType
	c.Title = w.Title
	c.Description = w.Description
	c.Tags = w.Tags
	c.Timestamp = w.Timestamp
	c.Embedding = w.Embedding
	c.EmbeddingModel = w.EmbeddingModel
	c.IsFavorite = w.IsFavorite
	c.AccessCount = w.AccessCount
	c.LastAccessed = w.LastAccessed
	c.UpdatedAt = w.UpdatedAt

	switch w.ContentType {
	case ContentTypePhoto:
		c.Payload = w.Photo
	case ContentTypeDocument:
		c.Payload = w.Document
	case ContentTypeTodo:
		c.Payload = w.Todo
	case ContentTypeProduct:
		c.Payload = w.Product
	case ContentTypeBookmark:
		c.Payload = w.Bookmark
	case ContentTypeYouTube:
		c.Payload = w.YouTube
	default:
		return fmt.Errorf("unknown content type: %q", w.ContentType)
	}
	if c.Payload == (Payload)(nil) || isNilPayload(c.Payload) {
		return fmt.Errorf("missing %q payload", w.ContentType)
	}
	return nil
}

func isNilPayload(p Payload) bool {
	switch v := p.(type) {
	case *PhotoPayload:
		return v == nil
	case *DocumentPayload:
		return v == nil
	case *TodoPayload:
		return v == nil
	case *ProductPayload:
		return v == nil
	case *BookmarkPayload:
		return v == nil
	case *YouTubePayload:
		return v == nil
	}
	return p == nil
}

// ContentUpdate describes a partial update. Nil fields are left unchanged.
// Embedding fields are deliberately absent: edits never regenerate the
// embedding inline (staleness is reconciled by the backfill sweep).
type ContentUpdate struct {
	Title       *string
	Description *string
	Tags        *[]string
	IsFavorite  *bool
	Payload     Payload // type-specific correction; must match the stored type
}

// IsEmpty reports whether the update changes nothing
func (u ContentUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Tags == nil &&
		u.IsFavorite == nil && u.Payload == nil
}
