package content_test

import (
	"testing"

	"github.com/blog-cms-api/internal/content"
	"github.com/blog-cms-api/internal/models"
)

func textBlock(s string, order int) models.ContentBlock {
	return models.ContentBlock{Type: models.BlockText, Content: s, Order: order}
}

func editorBlock(blockType, text string) models.EditorBlock {
	return models.EditorBlock{Type: blockType, Data: models.EditorBlockData{Text: text}}
}

func TestExtractText_LegacyOnly(t *testing.T) {
	blocks := []models.ContentBlock{
		textBlock("first paragraph", 0),
		{Type: models.BlockImage, Content: "http://example.com/a.png", Order: 1},
		textBlock("second paragraph", 2),
		{Type: models.BlockCode, Content: "fmt.Println()", Order: 3},
	}

	got := content.ExtractText(blocks, nil)
	want := "first paragraph second paragraph"
	if got != want {
		t.Errorf("ExtractText = %q, want %q", got, want)
	}
}

func TestExtractText_EditorOnly(t *testing.T) {
	doc := &models.EditorDocument{Blocks: []models.EditorBlock{
		editorBlock(models.EditorHeader, "Title"),
		editorBlock(models.EditorParagraph, "body text"),
		editorBlock(models.EditorQuote, "quoted"),
		{Type: models.EditorList, Data: models.EditorBlockData{Items: []string{"a", "b"}}},
	}}

	got := content.ExtractText(nil, doc)
	want := "Title body text"
	if got != want {
		t.Errorf("ExtractText = %q, want %q", got, want)
	}
}

func TestExtractText_BothRepresentationsAreAdditive(t *testing.T) {
	blocks := []models.ContentBlock{textBlock("legacy words", 0)}
	doc := &models.EditorDocument{Blocks: []models.EditorBlock{
		editorBlock(models.EditorParagraph, "legacy words"),
	}}

	// duplication is tolerated, not deduplicated
	got := content.ExtractText(blocks, doc)
	want := "legacy words legacy words"
	if got != want {
		t.Errorf("ExtractText = %q, want %q", got, want)
	}
}

func TestExtractText_Empty(t *testing.T) {
	if got := content.ExtractText(nil, nil); got != "" {
		t.Errorf("ExtractText(nil, nil) = %q, want empty", got)
	}
}

func TestExcerptCandidate_PriorityChain(t *testing.T) {
	listDoc := func(items ...string) *models.EditorDocument {
		return &models.EditorDocument{Blocks: []models.EditorBlock{
			{Type: models.EditorList, Data: models.EditorBlockData{Items: items}},
		}}
	}

	tests := []struct {
		name   string
		blocks []models.ContentBlock
		doc    *models.EditorDocument
		want   string
	}{
		{
			name:   "legacy text wins over everything",
			blocks: []models.ContentBlock{textBlock("legacy", 0)},
			doc: &models.EditorDocument{Blocks: []models.EditorBlock{
				editorBlock(models.EditorParagraph, "editor"),
			}},
			want: "legacy",
		},
		{
			name: "first legacy text block, not the later ones",
			blocks: []models.ContentBlock{
				{Type: models.BlockImage, Content: "img", Order: 0},
				textBlock("first text", 1),
				textBlock("second text", 2),
			},
			want: "first text",
		},
		{
			name: "paragraph beats quote",
			doc: &models.EditorDocument{Blocks: []models.EditorBlock{
				editorBlock(models.EditorQuote, "quote text"),
				editorBlock(models.EditorParagraph, "para text"),
			}},
			want: "para text",
		},
		{
			name: "header counts as paragraph-tier",
			doc: &models.EditorDocument{Blocks: []models.EditorBlock{
				editorBlock(models.EditorHeader, "header text"),
			}},
			want: "header text",
		},
		{
			name: "empty paragraph is skipped",
			doc: &models.EditorDocument{Blocks: []models.EditorBlock{
				editorBlock(models.EditorParagraph, ""),
				editorBlock(models.EditorQuote, "the quote"),
			}},
			want: "the quote",
		},
		{
			name: "list item is the last resort",
			doc:  listDoc("item one", "item two"),
			want: "item one",
		},
		{
			name: "empty list does not match",
			doc:  listDoc(),
			want: "",
		},
		{
			name: "nothing matches",
			blocks: []models.ContentBlock{
				{Type: models.BlockVideo, Content: "v", Order: 0},
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := content.ExcerptCandidate(tt.blocks, tt.doc)
			if got != tt.want {
				t.Errorf("ExcerptCandidate = %q, want %q", got, tt.want)
			}
		})
	}
}
