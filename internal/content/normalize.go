// Package content implements the pure content pipeline: plain-text
// extraction from the two content representations and computation of the
// derived fields (slug, excerpt, read time) from the extracted text.
package content

import (
	"strings"

	"github.com/blog-cms-api/internal/models"
)

// ExtractText produces a single plain-text string from both content
// representations for read-time estimation. Legacy text blocks come first in
// their stored order, then editor paragraph/header blocks. The two
// contributions are additive: when both representations are populated the
// overlap is tolerated, not deduplicated.
func ExtractText(blocks []models.ContentBlock, doc *models.EditorDocument) string {
	var parts []string

	for _, b := range blocks {
		if b.Type == models.BlockText && b.Content != "" {
			parts = append(parts, b.Content)
		}
	}

	if doc != nil {
		for _, b := range doc.Blocks {
			switch b.Type {
			case models.EditorParagraph, models.EditorHeader:
				if b.Data.Text != "" {
					parts = append(parts, b.Data.Text)
				}
			}
		}
	}

	return strings.Join(parts, " ")
}

// ExcerptCandidate selects the text that seeds the stored excerpt. First
// match wins: legacy text block, then editor paragraph/header, then quote,
// then the first item of a list block. Empty string when nothing matches.
// Extraction is a fallback chain, not a merge.
func ExcerptCandidate(blocks []models.ContentBlock, doc *models.EditorDocument) string {
	for _, b := range blocks {
		if b.Type == models.BlockText {
			return b.Content
		}
	}

	if doc == nil {
		return ""
	}

	for _, b := range doc.Blocks {
		switch b.Type {
		case models.EditorParagraph, models.EditorHeader:
			if b.Data.Text != "" {
				return b.Data.Text
			}
		}
	}

	for _, b := range doc.Blocks {
		if b.Type == models.EditorQuote && b.Data.Text != "" {
			return b.Data.Text
		}
	}

	for _, b := range doc.Blocks {
		if b.Type == models.EditorList && len(b.Data.Items) > 0 {
			return b.Data.Items[0]
		}
	}

	return ""
}
