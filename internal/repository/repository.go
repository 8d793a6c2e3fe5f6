package repository

import (
	"context"
	"time"

	"github.com/blog-cms-api/internal/database"
	"github.com/blog-cms-api/internal/models"
)

// ArticleFilter describes the composable listing filters. Zero values mean
// "no filter". Status filtering is only meaningful for owner listings; public
// listings always pin status to published.
type ArticleFilter struct {
	Status         string
	Category       string
	Tag            string
	AuthorID       string
	Search         string // case-insensitive substring over title, tags, excerpt
	PublishedAfter *time.Time
}

// ArticleRepository defines the interface for article data operations.
//
// Update persists authored and derived fields only; the engagement counters
// (views, likes, liked_by) are mutated exclusively through the dedicated
// single-statement operations below so concurrent callers cannot lose
// updates through a read-modify-write of the whole row.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter ArticleFilter, orderBy string, offset, limit int) ([]*models.ArticleSummary, int, error)

	// FetchPublishedBySlug returns a published article and increments its
	// view counter in the same statement.
	FetchPublishedBySlug(ctx context.Context, slug string) (*models.Article, error)

	// ToggleLike flips the caller's membership in liked_by and adjusts the
	// likes counter accordingly, as one atomic statement against a
	// published article. Returns the resulting membership and count.
	ToggleLike(ctx context.Context, articleID, userID string) (liked bool, likes int, err error)

	// AddAnonymousLike unconditionally increments likes on a published
	// article, with no membership tracking.
	AddAnonymousLike(ctx context.Context, slug string) (int, error)

	// LikedByUser reports liked_by membership for the given published
	// article ids; ids that do not resolve are omitted from the result.
	LikedByUser(ctx context.Context, articleIDs []string, userID string) (map[string]bool, error)

	// StreamAll streams every article for maintenance passes
	StreamAll(ctx context.Context, callback func(*models.Article) error) error

	Count(ctx context.Context) (int, error)
}

// UserRepository defines the interface for user data operations, including
// the saved-articles relation
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)

	// SaveArticle is idempotent: saving an already-saved article reports
	// alreadySaved without mutating anything.
	SaveArticle(ctx context.Context, userID, articleID string) (alreadySaved bool, err error)

	// UnsaveArticle reports whether the article had been saved; unsaving a
	// not-saved article is not an error.
	UnsaveArticle(ctx context.Context, userID, articleID string) (wasSaved bool, err error)

	SavedSet(ctx context.Context, userID string, articleIDs []string) (map[string]bool, error)
	ListSaved(ctx context.Context, userID string) ([]*models.ArticleSummary, error)
}

// JobRepository defines the interface for maintenance job data operations
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	Update(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.Job, error)
	GetPendingJobs(ctx context.Context) ([]*models.Job, error)
	MarkJobAsProcessing(ctx context.Context, jobID string) (bool, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article ArticleRepository
	User    UserRepository
	Job     JobRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article: NewArticleRepo(db),
		User:    NewUserRepo(db),
		Job:     NewJobRepo(db),
	}
}
