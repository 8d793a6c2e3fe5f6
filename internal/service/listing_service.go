package service

import (
	"context"
	"strings"
	"time"

	"github.com/blog-cms-api/internal/apperr"
	"github.com/blog-cms-api/internal/config"
	"github.com/blog-cms-api/internal/models"
	"github.com/blog-cms-api/internal/repository"
	"github.com/rs/zerolog"
)

// sortColumns whitelists the sortable fields and maps them to columns. Only
// whitelisted names ever reach the repository's ORDER BY.
var sortColumns = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"published_at": "published_at",
	"title":        "title",
	"views":        "views",
	"likes":        "likes",
}

// Popular listing windows
const (
	WindowWeek  = "7d"
	WindowMonth = "30d"
)

// listingService is the concrete implementation of ListingService
type listingService struct {
	articles repository.ArticleRepository
	cfg      *config.Config
	log      zerolog.Logger
	now      func() time.Time
}

// newListingService creates a new ListingService
func newListingService(articles repository.ArticleRepository, cfg *config.Config, log zerolog.Logger) *listingService {
	return &listingService{
		articles: articles,
		cfg:      cfg,
		log:      log.With().Str("service", "listing").Logger(),
		now:      time.Now,
	}
}

// ListOwner lists the owner's articles regardless of status, optionally
// filtered by one. Default sort is newest created first.
func (s *listingService) ListOwner(ctx context.Context, userID string, params models.ListParams) (*models.ListResult, error) {
	if params.Status != "" && !models.ValidStatuses[params.Status] {
		return nil, apperr.NewValidation("status", "unknown status: "+params.Status)
	}
	filter := repository.ArticleFilter{
		Status:   params.Status,
		Category: params.Category,
		Tag:      params.Tag,
		AuthorID: userID,
		Search:   params.Search,
	}
	return s.list(ctx, filter, params, "-created_at")
}

// ListPublic lists published articles only. Status from the caller is
// ignored; default sort is newest published first.
func (s *listingService) ListPublic(ctx context.Context, params models.ListParams) (*models.ListResult, error) {
	filter := repository.ArticleFilter{
		Status:   models.StatusPublished,
		Category: params.Category,
		Tag:      params.Tag,
		AuthorID: params.AuthorID,
		Search:   params.Search,
	}
	return s.list(ctx, filter, params, "-published_at")
}

// Popular lists published articles by views then likes, descending,
// optionally restricted to a trailing window measured against published_at
func (s *listingService) Popular(ctx context.Context, window string, page, pageSize int) (*models.ListResult, error) {
	filter := repository.ArticleFilter{Status: models.StatusPublished}

	switch window {
	case "":
		// all time
	case WindowWeek:
		cutoff := s.now().AddDate(0, 0, -7)
		filter.PublishedAfter = &cutoff
	case WindowMonth:
		cutoff := s.now().AddDate(0, 0, -30)
		filter.PublishedAfter = &cutoff
	default:
		return nil, apperr.NewValidation("window", "window must be 7d or 30d")
	}

	page, pageSize = s.clamp(page, pageSize)
	items, total, err := s.articles.List(ctx, filter, "views DESC, likes DESC", (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return buildResult(items, total, page, pageSize), nil
}

// ArticleCount reports the total number of articles across all statuses,
// for the metrics endpoint
func (s *listingService) ArticleCount(ctx context.Context) (int, error) {
	return s.articles.Count(ctx)
}

func (s *listingService) list(ctx context.Context, filter repository.ArticleFilter, params models.ListParams, defaultSort string) (*models.ListResult, error) {
	orderBy, err := resolveSort(params.Sort, defaultSort)
	if err != nil {
		return nil, err
	}

	page, pageSize := s.clamp(params.Page, params.PageSize)
	items, total, err := s.articles.List(ctx, filter, orderBy, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return buildResult(items, total, page, pageSize), nil
}

// clamp normalizes pagination inputs: page is 1-indexed, page size is
// bounded by configuration
func (s *listingService) clamp(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.cfg.List.DefaultPageSize
	}
	if pageSize > s.cfg.List.MaxPageSize {
		pageSize = s.cfg.List.MaxPageSize
	}
	return page, pageSize
}

// resolveSort validates a sort expression ("field" or "-field") against the
// whitelist and renders the ORDER BY fragment
func resolveSort(sort, fallback string) (string, error) {
	if sort == "" {
		sort = fallback
	}
	field := sort
	direction := "ASC"
	if strings.HasPrefix(sort, "-") {
		field = sort[1:]
		direction = "DESC"
	}
	column, ok := sortColumns[field]
	if !ok {
		return "", apperr.NewValidation("sort", "cannot sort by "+field)
	}
	return column + " " + direction, nil
}

// buildResult assembles the paginated response. An out-of-range page simply
// yields an empty item list.
func buildResult(items []*models.ArticleSummary, total, page, pageSize int) *models.ListResult {
	if items == nil {
		items = []*models.ArticleSummary{}
	}
	totalPages := (total + pageSize - 1) / pageSize
	return &models.ListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
