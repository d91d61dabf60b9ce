package rag

import (
	"fmt"
	"strings"

	"github.com/memoria-app/memoria/models"
	"github.com/memoria-app/memoria/services/retrieval"
)

// maxDocumentContextChars caps how much of a document body goes into a single
// context block, so one long article cannot crowd out the other sources
const maxDocumentContextChars = 1000

// BuildContext renders retrieved items into the grounding text the generation
// prompt embeds. Each item becomes a numbered source block with its
// description, type-specific fields, tags and save date.
func BuildContext(results []retrieval.SearchResult) string {
	var b strings.Builder

	for i, result := range results {
		item := result.Item

		fmt.Fprintf(&b, "\n--- Source %d: %s (%s) ---\n", i+1, item.Title, item.ContentType)
		fmt.Fprintf(&b, "Description: %s\n", item.Description)

		switch payload := item.Payload.(type) {
		case *models.DocumentPayload:
			if payload.Content != "" {
				fmt.Fprintf(&b, "Content: %s\n", truncate(payload.Content, maxDocumentContextChars))
			}

		case *models.PhotoPayload:
			if payload.ExtractedText != "" {
				fmt.Fprintf(&b, "Extracted Text: %s\n", payload.ExtractedText)
			}

		case *models.ProductPayload:
			fmt.Fprintf(&b, "Product: %s\n", payload.ProductName)
			if payload.Price != nil {
				fmt.Fprintf(&b, "Price: %g %s\n", payload.Price.Amount, payload.Price.Currency)
			}
			if payload.Vendor != "" {
				fmt.Fprintf(&b, "Vendor: %s\n", payload.Vendor)
			}

		case *models.YouTubePayload:
			fmt.Fprintf(&b, "Channel: %s\n", payload.ChannelName)
			fmt.Fprintf(&b, "Duration: %s\n", payload.Duration)

		case *models.BookmarkPayload:
			fmt.Fprintf(&b, "URL: %s\n", payload.URL)
			if payload.MetaDescription != "" {
				fmt.Fprintf(&b, "Meta: %s\n", payload.MetaDescription)
			}

		case *models.TodoPayload:
			fmt.Fprintf(&b, "Todo: %s\n", payload.Content)
			fmt.Fprintf(&b, "Priority: %s\n", payload.Priority)
		}

		if len(item.Tags) > 0 {
			fmt.Fprintf(&b, "Tags: %s\n", strings.Join(item.Tags, ", "))
		}

		fmt.Fprintf(&b, "Saved on: %s\n", item.Timestamp.Format("2006-01-02"))
	}

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
