package models

import (
	"time"
)

// Article statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// ValidStatuses defines allowed article statuses
var ValidStatuses = map[string]bool{
	StatusDraft:     true,
	StatusPublished: true,
	StatusArchived:  true,
}

// Categories is the fixed category enumeration, owned here as an explicit
// constant list. A category is required only at the moment an article is
// published, never while it is a draft.
var Categories = []string{
	"technology",
	"programming",
	"design",
	"business",
	"lifestyle",
	"tutorial",
	"news",
	"other",
}

// ValidCategories is the membership set for Categories
var ValidCategories = func() map[string]bool {
	m := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

// Article represents an article in the system
type Article struct {
	ID       string `json:"id" db:"id"`
	Slug     string `json:"slug" db:"slug"`
	Title    string `json:"title" db:"title"`
	AuthorID string `json:"author_id" db:"author_id"`

	// Content holds the legacy ordered block list. EditorData holds the
	// richer editor document; it is persisted and echoed back verbatim,
	// only block type/text/items are ever interpreted.
	Content    []ContentBlock  `json:"content" db:"-"`
	EditorData *EditorDocument `json:"editor_data,omitempty" db:"-"`

	// Derived fields, never authored directly. Recomputed in the same
	// write as any content change.
	Excerpt  string `json:"excerpt" db:"excerpt"`
	ReadTime int    `json:"read_time" db:"read_time"`

	Status      string     `json:"status" db:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty" db:"published_at"`

	Views   int      `json:"views" db:"views"`
	Likes   int      `json:"likes" db:"likes"`
	LikedBy []string `json:"liked_by" db:"-"`

	Category        string   `json:"category" db:"category"`
	Tags            []string `json:"tags" db:"-"`
	SEOTitle        string   `json:"seo_title" db:"seo_title"`
	SEODescription  string   `json:"seo_description" db:"seo_description"`
	Featured        bool     `json:"featured" db:"featured"`
	CommentsAllowed bool     `json:"comments_allowed" db:"comments_allowed"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsLikedBy reports whether the given user id is in the LikedBy set
func (a *Article) IsLikedBy(userID string) bool {
	for _, id := range a.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Summary returns the list-view projection of the article. Both content
// representations are dropped; only single-article fetches carry content.
func (a *Article) Summary() *ArticleSummary {
	return &ArticleSummary{
		ID:          a.ID,
		Slug:        a.Slug,
		Title:       a.Title,
		AuthorID:    a.AuthorID,
		Excerpt:     a.Excerpt,
		ReadTime:    a.ReadTime,
		Status:      a.Status,
		PublishedAt: a.PublishedAt,
		Views:       a.Views,
		Likes:       a.Likes,
		Category:    a.Category,
		Tags:        a.Tags,
		Featured:    a.Featured,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// ArticleSummary is the content-free projection used by list responses
type ArticleSummary struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	AuthorID    string     `json:"author_id"`
	Excerpt     string     `json:"excerpt"`
	ReadTime    int        `json:"read_time"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Views       int        `json:"views"`
	Likes       int        `json:"likes"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Featured    bool       `json:"featured"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ArticleUpdate carries the partial fields of an update. Nil pointers mean
// "leave unchanged"; the content slices follow the same convention.
type ArticleUpdate struct {
	Title           *string         `json:"title,omitempty"`
	Content         []ContentBlock  `json:"content,omitempty"`
	EditorData      *EditorDocument `json:"editor_data,omitempty"`
	Category        *string         `json:"category,omitempty"`
	Tags            []string        `json:"tags,omitempty"`
	SEOTitle        *string         `json:"seo_title,omitempty"`
	SEODescription  *string         `json:"seo_description,omitempty"`
	Featured        *bool           `json:"featured,omitempty"`
	CommentsAllowed *bool           `json:"comments_allowed,omitempty"`
}

// HasContentChange reports whether the update touches either content
// representation and therefore requires derived-field recomputation
func (u *ArticleUpdate) HasContentChange() bool {
	return u.Content != nil || u.EditorData != nil
}
