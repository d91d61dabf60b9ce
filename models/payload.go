package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Payload is the type-specific part of a content item. Each content type has
// exactly one variant; the union is tagged by Type().
type Payload interface {
	Type() ContentType

	// searchableText returns the fragment of the payload worth embedding.
	searchableText() string
	// sourceURL returns the canonical URL for the payload, or "".
	sourceURL() string
}

// PhotoCategory classifies a captured photo
type PhotoCategory string

const (
	PhotoCategoryBook       PhotoCategory = "book"
	PhotoCategoryRecipe     PhotoCategory = "recipe"
	PhotoCategoryDocument   PhotoCategory = "document"
	PhotoCategoryScreenshot PhotoCategory = "screenshot"
	PhotoCategoryOther      PhotoCategory = "other"
)

// IsValid checks if the photo category is one of the known values
func (c PhotoCategory) IsValid() bool {
	switch c {
	case PhotoCategoryBook, PhotoCategoryRecipe, PhotoCategoryDocument, PhotoCategoryScreenshot, PhotoCategoryOther:
		return true
	}
	return false
}

// TodoPriority is the urgency of a todo item
type TodoPriority string

const (
	TodoPriorityLow    TodoPriority = "low"
	TodoPriorityMedium TodoPriority = "medium"
	TodoPriorityHigh   TodoPriority = "high"
)

// IsValid checks if the priority is one of the known values
func (p TodoPriority) IsValid() bool {
	switch p {
	case TodoPriorityLow, TodoPriorityMedium, TodoPriorityHigh:
		return true
	}
	return false
}

// PhotoPayload holds photo capture data, including OCR text when present
type PhotoPayload struct {
	ImageURL      string        `json:"imageUrl,omitempty"`
	ImageData     string        `json:"imageData,omitempty"` // base64
	Category      PhotoCategory `json:"category"`
	Width         int           `json:"width,omitempty"`
	Height        int           `json:"height,omitempty"`
	ExtractedText string        `json:"extractedText,omitempty"`
}

func (*PhotoPayload) Type() ContentType { return ContentTypePhoto }

func (p *PhotoPayload) searchableText() string { return p.ExtractedText }
func (p *PhotoPayload) sourceURL() string      { return "" }

// DocumentPayload holds selected text captured from a page
type DocumentPayload struct {
	Content          string `json:"content"`
	SourceURL        string `json:"sourceUrl,omitempty"`
	SelectionContext string `json:"selectionContext,omitempty"`
	WordCount        int    `json:"wordCount"`
}

func (*DocumentPayload) Type() ContentType { return ContentTypeDocument }

func (p *DocumentPayload) searchableText() string { return p.Content }
func (p *DocumentPayload) sourceURL() string      { return p.SourceURL }

// TodoPayload holds a todo item
type TodoPayload struct {
	Content   string       `json:"content"`
	Completed bool         `json:"completed"`
	Priority  TodoPriority `json:"priority"`
	DueDate   *time.Time   `json:"dueDate,omitempty"`
}

func (*TodoPayload) Type() ContentType { return ContentTypeTodo }

func (p *TodoPayload) searchableText() string { return p.Content }
func (p *TodoPayload) sourceURL() string      { return "" }

// Price is a monetary amount with its currency
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// ProductPayload holds extracted product information
type ProductPayload struct {
	ProductName  string `json:"productName"`
	Price        *Price `json:"price,omitempty"`
	ProductURL   string `json:"productUrl,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
	Vendor       string `json:"vendor,omitempty"`
	Availability string `json:"availability,omitempty"`
}

func (*ProductPayload) Type() ContentType { return ContentTypeProduct }

func (p *ProductPayload) searchableText() string {
	parts := []string{}
	if p.ProductName != "" {
		parts = append(parts, p.ProductName)
	}
	if p.Vendor != "" {
		parts = append(parts, p.Vendor)
	}
	return strings.Join(parts, " ")
}
func (p *ProductPayload) sourceURL() string { return p.ProductURL }

// ScrollPosition records where the user was on the page when bookmarking
type ScrollPosition struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Percentage float64 `json:"percentage"`
}

// BookmarkPayload holds a saved page reference with reading position
type BookmarkPayload struct {
	URL             string          `json:"url"`
	ScrollPosition  *ScrollPosition `json:"scrollPosition,omitempty"`
	PageTitle       string          `json:"pageTitle,omitempty"`
	Favicon         string          `json:"favicon,omitempty"`
	MetaDescription string          `json:"metaDescription,omitempty"`
}

func (*BookmarkPayload) Type() ContentType { return ContentTypeBookmark }

func (p *BookmarkPayload) searchableText() string {
	parts := []string{}
	if p.PageTitle != "" {
		parts = append(parts, p.PageTitle)
	}
	if p.MetaDescription != "" {
		parts = append(parts, p.MetaDescription)
	}
	if p.URL != "" {
		parts = append(parts, p.URL)
	}
	return strings.Join(parts, " ")
}
func (p *BookmarkPayload) sourceURL() string { return p.URL }

// YouTubePayload holds a saved video reference
type YouTubePayload struct {
	VideoID      string `json:"videoId"`
	VideoURL     string `json:"videoUrl"`
	ChannelName  string `json:"channelName,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Duration     string `json:"duration,omitempty"`
}

func (*YouTubePayload) Type() ContentType { return ContentTypeYouTube }

func (p *YouTubePayload) searchableText() string { return p.ChannelName }
func (p *YouTubePayload) sourceURL() string      { return p.VideoURL }

// DecodePayload decodes a raw JSON payload into the variant for the given
// content type
func DecodePayload(ct ContentType, raw json.RawMessage) (Payload, error) {
	var p Payload
	switch ct {
	case ContentTypePhoto:
		p = &PhotoPayload{}
	case ContentTypeDocument:
		p = &DocumentPayload{}
	case ContentTypeTodo:
		p = &TodoPayload{}
	case ContentTypeProduct:
		p = &ProductPayload{}
	case ContentTypeBookmark:
		p = &BookmarkPayload{}
	case ContentTypeYouTube:
		p = &YouTubePayload{}
	default:
		return nil, fmt.Errorf("unknown content type: %q", ct)
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", ct, err)
	}
	return p, nil
}

// EncodePayload encodes a payload variant to JSON for storage
func EncodePayload(p Payload) (json.RawMessage, error) {
	if p == nil {
		return nil, fmt.Errorf("payload is nil")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", p.Type(), err)
	}
	return data, nil
}
