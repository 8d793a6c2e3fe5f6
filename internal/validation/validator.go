package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/blog-cms-api/internal/apperr"
	"github.com/blog-cms-api/internal/models"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Field bounds
const (
	MaxTitleLength          = 200
	MaxSEOTitleLength       = 70
	MaxSEODescriptionLength = 160
	MaxTagLength            = 50
	MaxTags                 = 10
)

// ValidateCreate validates the fields of a new article. It returns the
// first failure as an apperr.ValidationError; category is only required when
// the article is created directly as published (checked by the lifecycle
// logic, not here).
func ValidateCreate(a *models.Article) error {
	if strings.TrimSpace(a.Title) == "" {
		return apperr.NewValidation("title", "title is required")
	}
	if len(a.Title) > MaxTitleLength {
		return apperr.NewValidation("title", fmt.Sprintf("title must be at most %d characters", MaxTitleLength))
	}
	// archived is reachable only through the lifecycle transition, never at
	// creation
	if a.Status != "" && a.Status != models.StatusDraft && a.Status != models.StatusPublished {
		return apperr.NewValidation("status", "status must be draft or published")
	}
	if a.Category != "" && !models.ValidCategories[a.Category] {
		return apperr.NewValidation("category", "unknown category: "+a.Category)
	}
	if err := validateSEO(a.SEOTitle, a.SEODescription); err != nil {
		return err
	}
	if err := validateBlocks(a.Content); err != nil {
		return err
	}
	return validateTags(a.Tags)
}

// ValidateUpdate validates the populated fields of a partial update
func ValidateUpdate(u *models.ArticleUpdate) error {
	if u.Title != nil {
		if strings.TrimSpace(*u.Title) == "" {
			return apperr.NewValidation("title", "title cannot be empty")
		}
		if len(*u.Title) > MaxTitleLength {
			return apperr.NewValidation("title", fmt.Sprintf("title must be at most %d characters", MaxTitleLength))
		}
	}
	if u.Category != nil && *u.Category != "" && !models.ValidCategories[*u.Category] {
		return apperr.NewValidation("category", "unknown category: "+*u.Category)
	}
	var seoTitle, seoDesc string
	if u.SEOTitle != nil {
		seoTitle = *u.SEOTitle
	}
	if u.SEODescription != nil {
		seoDesc = *u.SEODescription
	}
	if err := validateSEO(seoTitle, seoDesc); err != nil {
		return err
	}
	if u.Content != nil {
		if err := validateBlocks(u.Content); err != nil {
			return err
		}
	}
	if u.Tags != nil {
		return validateTags(u.Tags)
	}
	return nil
}

func validateSEO(title, description string) error {
	if len(title) > MaxSEOTitleLength {
		return apperr.NewValidation("seo_title", fmt.Sprintf("seo title must be at most %d characters", MaxSEOTitleLength))
	}
	if len(description) > MaxSEODescriptionLength {
		return apperr.NewValidation("seo_description", fmt.Sprintf("seo description must be at most %d characters", MaxSEODescriptionLength))
	}
	return nil
}

func validateBlocks(blocks []models.ContentBlock) error {
	for i, b := range blocks {
		if !models.ValidBlockTypes[b.Type] {
			return apperr.NewValidation("content", fmt.Sprintf("block %d: unknown type %q", i, b.Type))
		}
	}
	return nil
}

func validateTags(tags []string) error {
	if len(tags) > MaxTags {
		return apperr.NewValidation("tags", fmt.Sprintf("at most %d tags allowed", MaxTags))
	}
	for _, t := range tags {
		if len(t) > MaxTagLength {
			return apperr.NewValidation("tags", fmt.Sprintf("tag %q exceeds %d characters", t, MaxTagLength))
		}
	}
	return nil
}

// NormalizeTags lowercases, trims and deduplicates tags, dropping empties.
// Order of first occurrence is preserved.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// IsValidSlug reports whether s is a well-formed slug
func IsValidSlug(s string) bool {
	return slugRegex.MatchString(s)
}
