package validation_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/blog-cms-api/internal/apperr"
	"github.com/blog-cms-api/internal/models"
	"github.com/blog-cms-api/internal/validation"
)

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name    string
		article models.Article
		wantErr string // empty means valid; otherwise the failing field
	}{
		{
			name:    "minimal valid draft",
			article: models.Article{Title: "A Title", Status: models.StatusDraft},
		},
		{
			name:    "draft needs no category",
			article: models.Article{Title: "Untitled Thoughts", Status: models.StatusDraft},
		},
		{
			name:    "missing title",
			article: models.Article{Status: models.StatusDraft},
			wantErr: "title",
		},
		{
			name:    "whitespace title",
			article: models.Article{Title: "   ", Status: models.StatusDraft},
			wantErr: "title",
		},
		{
			name:    "title too long",
			article: models.Article{Title: strings.Repeat("t", 201), Status: models.StatusDraft},
			wantErr: "title",
		},
		{
			name:    "unknown status",
			article: models.Article{Title: "T", Status: "pending"},
			wantErr: "status",
		},
		{
			name:    "archived not creatable",
			article: models.Article{Title: "T", Status: models.StatusArchived},
			wantErr: "status",
		},
		{
			name:    "unknown category",
			article: models.Article{Title: "T", Status: models.StatusDraft, Category: "gossip"},
			wantErr: "category",
		},
		{
			name:    "valid category",
			article: models.Article{Title: "T", Status: models.StatusDraft, Category: "technology"},
		},
		{
			name: "seo title too long",
			article: models.Article{
				Title: "T", Status: models.StatusDraft,
				SEOTitle: strings.Repeat("s", 71),
			},
			wantErr: "seo_title",
		},
		{
			name: "seo description too long",
			article: models.Article{
				Title: "T", Status: models.StatusDraft,
				SEODescription: strings.Repeat("s", 161),
			},
			wantErr: "seo_description",
		},
		{
			name: "unknown block type",
			article: models.Article{
				Title: "T", Status: models.StatusDraft,
				Content: []models.ContentBlock{{Type: "table", Content: "x"}},
			},
			wantErr: "content",
		},
		{
			name: "too many tags",
			article: models.Article{
				Title: "T", Status: models.StatusDraft,
				Tags: make([]string, 11),
			},
			wantErr: "tags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.ValidateCreate(&tt.article)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			var vErr *apperr.ValidationError
			if !apperr.IsValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			vErr = err.(*apperr.ValidationError)
			if vErr.Field != tt.wantErr {
				t.Errorf("failing field = %q, want %q", vErr.Field, tt.wantErr)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	empty := ""
	longTitle := strings.Repeat("t", 201)
	goodTitle := "New Title"
	badCategory := "gossip"

	if err := validation.ValidateUpdate(&models.ArticleUpdate{Title: &goodTitle}); err != nil {
		t.Errorf("valid update rejected: %v", err)
	}
	if err := validation.ValidateUpdate(&models.ArticleUpdate{Title: &empty}); !apperr.IsValidation(err) {
		t.Errorf("empty title accepted")
	}
	if err := validation.ValidateUpdate(&models.ArticleUpdate{Title: &longTitle}); !apperr.IsValidation(err) {
		t.Errorf("overlong title accepted")
	}
	if err := validation.ValidateUpdate(&models.ArticleUpdate{Category: &badCategory}); !apperr.IsValidation(err) {
		t.Errorf("unknown category accepted")
	}

	// nil fields mean "unchanged" and are not validated
	if err := validation.ValidateUpdate(&models.ArticleUpdate{}); err != nil {
		t.Errorf("empty update rejected: %v", err)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := validation.NormalizeTags([]string{" Go ", "go", "WEB", "", "web", "databases"})
	want := []string{"go", "web", "databases"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTags = %v, want %v", got, want)
	}

	if got := validation.NormalizeTags(nil); got != nil {
		t.Errorf("NormalizeTags(nil) = %v, want nil", got)
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"hello-world", "a", "article-123", "x1-y2"}
	invalid := []string{"", "-leading", "trailing-", "double--hyphen", "UPPER", "with space"}

	for _, s := range valid {
		if !validation.IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if validation.IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true, want false", s)
		}
	}
}
