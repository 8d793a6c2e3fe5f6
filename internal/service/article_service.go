package service

import (
	"context"
	"time"

	"github.com/blog-cms-api/internal/apperr"
	"github.com/blog-cms-api/internal/content"
	"github.com/blog-cms-api/internal/models"
	"github.com/blog-cms-api/internal/repository"
	"github.com/blog-cms-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// articleService is the concrete implementation of ArticleService. It owns
// the draft/published/archived state machine and keeps the derived fields
// (slug, excerpt, read time) in step with every content write.
type articleService struct {
	articles repository.ArticleRepository
	log      zerolog.Logger
	now      func() time.Time
}

// newArticleService creates a new ArticleService
func newArticleService(articles repository.ArticleRepository, log zerolog.Logger) *articleService {
	return &articleService{
		articles: articles,
		log:      log.With().Str("service", "article").Logger(),
		now:      time.Now,
	}
}

// Create creates a new article owned by authorID. Status defaults to draft;
// creating directly as published requires a category, like any other
// transition into published.
func (s *articleService) Create(ctx context.Context, authorID string, input *models.Article) (*models.Article, error) {
	if input.Status == "" {
		input.Status = models.StatusDraft
	}
	if err := validation.ValidateCreate(input); err != nil {
		return nil, err
	}

	slug := content.Slugify(input.Title)
	if slug == "" {
		return nil, apperr.NewValidation("title", "title yields an empty slug")
	}

	derived := content.Derive(input.Content, input.EditorData)
	now := s.now()

	article := &models.Article{
		ID:              uuid.New().String(),
		Slug:            slug,
		Title:           input.Title,
		AuthorID:        authorID,
		Content:         input.Content,
		EditorData:      input.EditorData,
		Excerpt:         derived.Excerpt,
		ReadTime:        derived.ReadTime,
		Status:          input.Status,
		Category:        input.Category,
		Tags:            validation.NormalizeTags(input.Tags),
		SEOTitle:        input.SEOTitle,
		SEODescription:  input.SEODescription,
		Featured:        input.Featured,
		CommentsAllowed: input.CommentsAllowed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if article.Status == models.StatusPublished {
		if article.Category == "" {
			return nil, apperr.NewState("cannot publish without a category")
		}
		article.PublishedAt = &now
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("article_id", article.ID).
		Str("slug", article.Slug).
		Str("status", article.Status).
		Msg("Article created")

	return article, nil
}

// Get retrieves an article for its owner. An article belonging to someone
// else is reported as not found, never as forbidden.
func (s *articleService) Get(ctx context.Context, userID, id string) (*models.Article, error) {
	return s.getOwned(ctx, userID, id)
}

// GetBySlug retrieves an article for its owner by slug, any status. Unlike
// the public read this never counts a view, so authors can preview their own
// articles without skewing engagement.
func (s *articleService) GetBySlug(ctx context.Context, userID, slug string) (*models.Article, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if article == nil || article.AuthorID != userID {
		return nil, apperr.NewNotFound("article", slug)
	}
	return article, nil
}

// GetPublic retrieves a published article by slug and counts the view. The
// increment happens in the same persistence statement as the read.
func (s *articleService) GetPublic(ctx context.Context, slug string) (*models.Article, error) {
	article, err := s.articles.FetchPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, apperr.NewNotFound("article", slug)
	}
	return article, nil
}

// Update applies a partial update. A title change recomputes the slug; any
// content change recomputes excerpt and read time, written atomically with
// the content itself.
func (s *articleService) Update(ctx context.Context, userID, id string, update *models.ArticleUpdate) (*models.Article, error) {
	if err := validation.ValidateUpdate(update); err != nil {
		return nil, err
	}

	article, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil && *update.Title != article.Title {
		article.Title = *update.Title
		slug := content.Slugify(article.Title)
		if slug == "" {
			return nil, apperr.NewValidation("title", "title yields an empty slug")
		}
		article.Slug = slug
	}
	if update.Content != nil {
		article.Content = update.Content
	}
	if update.EditorData != nil {
		article.EditorData = update.EditorData
	}
	if update.Category != nil {
		article.Category = *update.Category
	}
	if update.Tags != nil {
		article.Tags = validation.NormalizeTags(update.Tags)
	}
	if update.SEOTitle != nil {
		article.SEOTitle = *update.SEOTitle
	}
	if update.SEODescription != nil {
		article.SEODescription = *update.SEODescription
	}
	if update.Featured != nil {
		article.Featured = *update.Featured
	}
	if update.CommentsAllowed != nil {
		article.CommentsAllowed = *update.CommentsAllowed
	}

	if update.HasContentChange() {
		derived := content.Derive(article.Content, article.EditorData)
		article.Excerpt = derived.Excerpt
		article.ReadTime = derived.ReadTime
	}

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}

	s.log.Info().Str("article_id", article.ID).Msg("Article updated")
	return article, nil
}

// Delete removes an article owned by userID. Deletion is unconditional and
// immediate; there is no soft delete.
func (s *articleService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	deleted, err := s.articles.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NewNotFound("article", id)
	}
	s.log.Info().Str("article_id", id).Msg("Article deleted")
	return nil
}

// Publish transitions an article into published. A category is required at
// this moment and only at this moment. PublishedAt is set on the first
// transition and preserved by idempotent re-publishes.
func (s *articleService) Publish(ctx context.Context, userID, id string) (*models.Article, error) {
	return s.transition(ctx, userID, id, models.StatusPublished)
}

// Unpublish transitions a published article back to draft and clears
// PublishedAt
func (s *articleService) Unpublish(ctx context.Context, userID, id string) (*models.Article, error) {
	return s.transition(ctx, userID, id, models.StatusDraft)
}

// Archive transitions an article into the terminal archived state
func (s *articleService) Archive(ctx context.Context, userID, id string) (*models.Article, error) {
	return s.transition(ctx, userID, id, models.StatusArchived)
}

func (s *articleService) transition(ctx context.Context, userID, id, target string) (*models.Article, error) {
	article, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if article.Status == models.StatusArchived {
		return nil, apperr.NewState("archived articles cannot change status")
	}

	switch target {
	case models.StatusPublished:
		if article.Category == "" {
			return nil, apperr.NewState("cannot publish without a category")
		}
		article.Status = models.StatusPublished
		if article.PublishedAt == nil {
			now := s.now()
			article.PublishedAt = &now
		}
	case models.StatusDraft:
		article.Status = models.StatusDraft
		article.PublishedAt = nil
	case models.StatusArchived:
		article.Status = models.StatusArchived
	}

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("article_id", article.ID).
		Str("status", article.Status).
		Msg("Article status changed")

	return article, nil
}

// RederiveArticle pushes one article through the normal derived-field
// computation and persists it only when the stored pair drifted. Used by the
// maintenance rederive job; idempotent.
func (s *articleService) RederiveArticle(ctx context.Context, article *models.Article) (bool, error) {
	derived := content.Derive(article.Content, article.EditorData)
	if derived.Excerpt == article.Excerpt && derived.ReadTime == article.ReadTime {
		return false, nil
	}
	article.Excerpt = derived.Excerpt
	article.ReadTime = derived.ReadTime
	if err := s.articles.Update(ctx, article); err != nil {
		return false, err
	}
	return true, nil
}

func (s *articleService) getOwned(ctx context.Context, userID, id string) (*models.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil || article.AuthorID != userID {
		return nil, apperr.NewNotFound("article", id)
	}
	return article, nil
}
