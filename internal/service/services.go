package service

import (
	"context"

	"github.com/blog-cms-api/internal/config"
	"github.com/blog-cms-api/internal/models"
	"github.com/blog-cms-api/internal/repository"
	"github.com/rs/zerolog"
)

// ArticleService defines the interface for article CRUD and lifecycle
// operations
type ArticleService interface {
	Create(ctx context.Context, authorID string, input *models.Article) (*models.Article, error)
	Get(ctx context.Context, userID, id string) (*models.Article, error)
	GetBySlug(ctx context.Context, userID, slug string) (*models.Article, error)
	GetPublic(ctx context.Context, slug string) (*models.Article, error)
	Update(ctx context.Context, userID, id string, update *models.ArticleUpdate) (*models.Article, error)
	Delete(ctx context.Context, userID, id string) error
	Publish(ctx context.Context, userID, id string) (*models.Article, error)
	Unpublish(ctx context.Context, userID, id string) (*models.Article, error)
	Archive(ctx context.Context, userID, id string) (*models.Article, error)
}

// EngagementService defines the interface for like/save operations
type EngagementService interface {
	ToggleLike(ctx context.Context, userID, articleID string) (liked bool, likes int, err error)
	AnonymousLike(ctx context.Context, slug string) (int, error)
	Save(ctx context.Context, userID, articleID string) (*models.SaveResult, error)
	Unsave(ctx context.Context, userID, articleID string) (*models.UnsaveResult, error)
	Status(ctx context.Context, userID string, articleIDs []string) ([]models.EngagementStatus, error)
	ListSaved(ctx context.Context, userID string) ([]*models.ArticleSummary, error)
}

// ListingService defines the interface for filtered, paginated article
// listings
type ListingService interface {
	ListOwner(ctx context.Context, userID string, params models.ListParams) (*models.ListResult, error)
	ListPublic(ctx context.Context, params models.ListParams) (*models.ListResult, error)
	Popular(ctx context.Context, window string, page, pageSize int) (*models.ListResult, error)
	ArticleCount(ctx context.Context) (int, error)
}

// MaintenanceService defines the interface for background maintenance jobs
type MaintenanceService interface {
	StartProcessor(ctx context.Context)
	StopProcessor()
	CreateRederiveJob(ctx context.Context, idempotencyKey string) (*models.Job, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
}

// Services holds all service interfaces
type Services struct {
	Article     ArticleService
	Engagement  EngagementService
	Listing     ListingService
	Maintenance MaintenanceService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	articleSvc := newArticleService(repos.Article, log)
	return &Services{
		Article:     articleSvc,
		Engagement:  newEngagementService(repos.Article, repos.User, log),
		Listing:     newListingService(repos.Article, cfg, log),
		Maintenance: newMaintenanceService(repos.Job, articleSvc, log),
	}
}
