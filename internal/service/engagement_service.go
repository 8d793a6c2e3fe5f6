package service

import (
	"context"

	"github.com/blog-cms-api/internal/apperr"
	"github.com/blog-cms-api/internal/models"
	"github.com/blog-cms-api/internal/repository"
	"github.com/rs/zerolog"
)

// engagementService is the concrete implementation of EngagementService.
// Every counter mutation is one atomic statement at the repository, so
// concurrent toggles from different users cannot lose updates. Concurrent
// toggles by the same user race last-write-wins; that is a documented
// limitation, not a bug.
type engagementService struct {
	articles repository.ArticleRepository
	users    repository.UserRepository
	log      zerolog.Logger
}

// newEngagementService creates a new EngagementService
func newEngagementService(articles repository.ArticleRepository, users repository.UserRepository, log zerolog.Logger) *engagementService {
	return &engagementService{
		articles: articles,
		users:    users,
		log:      log.With().Str("service", "engagement").Logger(),
	}
}

// ToggleLike flips the user's like on a published article. Returns the
// resulting membership and counter.
func (s *engagementService) ToggleLike(ctx context.Context, userID, articleID string) (bool, int, error) {
	liked, likes, err := s.articles.ToggleLike(ctx, articleID, userID)
	if err != nil {
		return false, 0, err
	}
	s.log.Debug().
		Str("article_id", articleID).
		Str("user_id", userID).
		Bool("liked", liked).
		Msg("Like toggled")
	return liked, likes, nil
}

// AnonymousLike unconditionally increments the likes counter with no
// membership tracking. A deliberately weaker operation than the
// authenticated toggle: it can push likes above len(liked_by).
func (s *engagementService) AnonymousLike(ctx context.Context, slug string) (int, error) {
	return s.articles.AddAnonymousLike(ctx, slug)
}

// Save adds a published article to the user's saved set. Saving an
// already-saved article reports already_saved without mutating.
func (s *engagementService) Save(ctx context.Context, userID, articleID string) (*models.SaveResult, error) {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil || article.Status != models.StatusPublished {
		return nil, apperr.NewNotFound("article", articleID)
	}

	alreadySaved, err := s.users.SaveArticle(ctx, userID, articleID)
	if err != nil {
		return nil, err
	}
	return &models.SaveResult{Saved: true, AlreadySaved: alreadySaved}, nil
}

// Unsave removes an article from the user's saved set. Unsaving an article
// that was never saved reports was_saved=false without error.
func (s *engagementService) Unsave(ctx context.Context, userID, articleID string) (*models.UnsaveResult, error) {
	wasSaved, err := s.users.UnsaveArticle(ctx, userID, articleID)
	if err != nil {
		return nil, err
	}
	return &models.UnsaveResult{Saved: false, WasSaved: wasSaved}, nil
}

// Status reports per-article liked/saved membership for the requesting
// user. Ids that do not resolve to a published article are omitted.
func (s *engagementService) Status(ctx context.Context, userID string, articleIDs []string) ([]models.EngagementStatus, error) {
	liked, err := s.articles.LikedByUser(ctx, articleIDs, userID)
	if err != nil {
		return nil, err
	}
	saved, err := s.users.SavedSet(ctx, userID, articleIDs)
	if err != nil {
		return nil, err
	}

	statuses := make([]models.EngagementStatus, 0, len(liked))
	for _, id := range articleIDs {
		isLiked, ok := liked[id]
		if !ok {
			continue
		}
		statuses = append(statuses, models.EngagementStatus{
			ArticleID: id,
			Liked:     isLiked,
			Saved:     saved[id],
		})
	}
	return statuses, nil
}

// ListSaved returns the user's saved articles as summaries, most recently
// saved first
func (s *engagementService) ListSaved(ctx context.Context, userID string) ([]*models.ArticleSummary, error) {
	return s.users.ListSaved(ctx, userID)
}
