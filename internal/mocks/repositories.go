package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blog-cms-api/internal/apperr"
	"github.com/blog-cms-api/internal/models"
	"github.com/blog-cms-api/internal/repository"
)

// MockArticleRepository is an in-memory implementation of
// ArticleRepository. All operations hold the mutex, which matches the
// single-statement atomicity the real repository gets from Postgres.
type MockArticleRepository struct {
	mu       sync.Mutex
	Articles map[string]*models.Article

	CreateErr error
	UpdateErr error
}

// NewMockArticleRepository creates a new mock article repository
func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles: make(map[string]*models.Article),
	}
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	for _, a := range m.Articles {
		if a.Slug == article.Slug {
			return apperr.NewConflict("slug", article.Slug)
		}
	}
	clone := *article
	m.Articles[article.ID] = &clone
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Articles[id]
	if !ok {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.Articles {
		if a.Slug == slug {
			clone := *a
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	existing, ok := m.Articles[article.ID]
	if !ok {
		return apperr.NewNotFound("article", article.ID)
	}
	for _, a := range m.Articles {
		if a.ID != article.ID && a.Slug == article.Slug {
			return apperr.NewConflict("slug", article.Slug)
		}
	}
	// Engagement counters are never written by Update
	clone := *article
	clone.Views = existing.Views
	clone.Likes = existing.Likes
	clone.LikedBy = existing.LikedBy
	clone.UpdatedAt = time.Now()
	m.Articles[article.ID] = &clone
	return nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Articles[id]; !ok {
		return false, nil
	}
	delete(m.Articles, id)
	return true, nil
}

func (m *MockArticleRepository) FetchPublishedBySlug(ctx context.Context, slug string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.Articles {
		if a.Slug == slug && a.Status == models.StatusPublished {
			a.Views++
			clone := *a
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *MockArticleRepository) ToggleLike(ctx context.Context, articleID, userID string) (bool, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Articles[articleID]
	if !ok || a.Status != models.StatusPublished {
		return false, 0, apperr.NewNotFound("article", articleID)
	}

	idx := -1
	for i, id := range a.LikedBy {
		if id == userID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		a.LikedBy = append(a.LikedBy[:idx], a.LikedBy[idx+1:]...)
		if a.Likes > 0 {
			a.Likes--
		}
		return false, a.Likes, nil
	}
	a.LikedBy = append(a.LikedBy, userID)
	a.Likes++
	return true, a.Likes, nil
}

func (m *MockArticleRepository) AddAnonymousLike(ctx context.Context, slug string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.Articles {
		if a.Slug == slug && a.Status == models.StatusPublished {
			a.Likes++
			return a.Likes, nil
		}
	}
	return 0, apperr.NewNotFound("article", slug)
}

func (m *MockArticleRepository) LikedByUser(ctx context.Context, articleIDs []string, userID string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[string]bool)
	for _, id := range articleIDs {
		a, ok := m.Articles[id]
		if !ok || a.Status != models.StatusPublished {
			continue
		}
		liked := false
		for _, uid := range a.LikedBy {
			if uid == userID {
				liked = true
				break
			}
		}
		result[id] = liked
	}
	return result, nil
}

func (m *MockArticleRepository) List(ctx context.Context, filter repository.ArticleFilter, orderBy string, offset, limit int) ([]*models.ArticleSummary, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*models.Article
	for _, a := range m.Articles {
		if matchesFilter(a, filter) {
			matched = append(matched, a)
		}
	}

	sortArticles(matched, orderBy)

	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	var items []*models.ArticleSummary
	for _, a := range matched[offset:end] {
		items = append(items, a.Summary())
	}
	return items, total, nil
}

func (m *MockArticleRepository) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	m.mu.Lock()
	var all []*models.Article
	for _, a := range m.Articles {
		clone := *a
		all = append(all, &clone)
	}
	m.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	for _, a := range all {
		if err := callback(a); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockArticleRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Articles), nil
}

func matchesFilter(a *models.Article, filter repository.ArticleFilter) bool {
	if filter.Status != "" && a.Status != filter.Status {
		return false
	}
	if filter.Category != "" && a.Category != filter.Category {
		return false
	}
	if filter.AuthorID != "" && a.AuthorID != filter.AuthorID {
		return false
	}
	if filter.Tag != "" {
		found := false
		for _, t := range a.Tags {
			if t == strings.ToLower(filter.Tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		found := strings.Contains(strings.ToLower(a.Title), needle) ||
			strings.Contains(strings.ToLower(a.Excerpt), needle)
		for _, t := range a.Tags {
			if strings.Contains(t, needle) {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if filter.PublishedAfter != nil {
		if a.PublishedAt == nil || a.PublishedAt.Before(*filter.PublishedAfter) {
			return false
		}
	}
	return true
}

// sortArticles applies an ORDER BY fragment of the form
// "col DIR[, col DIR]" the way the SQL repository would
func sortArticles(articles []*models.Article, orderBy string) {
	type key struct {
		column string
		desc   bool
	}
	var keys []key
	for _, part := range strings.Split(orderBy, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		k := key{column: fields[0]}
		if len(fields) > 1 && strings.EqualFold(fields[1], "DESC") {
			k.desc = true
		}
		keys = append(keys, k)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		for _, k := range keys {
			cmp := compareArticles(articles[i], articles[j], k.column)
			if cmp == 0 {
				continue
			}
			if k.desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareArticles(a, b *models.Article, column string) int {
	switch column {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "views":
		return a.Views - b.Views
	case "likes":
		return a.Likes - b.Likes
	case "created_at":
		return compareTimes(&a.CreatedAt, &b.CreatedAt)
	case "updated_at":
		return compareTimes(&a.UpdatedAt, &b.UpdatedAt)
	case "published_at":
		return compareTimes(a.PublishedAt, b.PublishedAt)
	}
	return 0
}

func compareTimes(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	}
	return 0
}

// MockUserRepository is an in-memory implementation of UserRepository
type MockUserRepository struct {
	mu    sync.Mutex
	Users map[string]*models.User
	// saved[userID] is the save-ordered list of article ids
	saved map[string][]savedEntry

	articles *MockArticleRepository
}

type savedEntry struct {
	articleID string
	savedAt   time.Time
}

// NewMockUserRepository creates a new mock user repository. The article
// repository is consulted by ListSaved for summaries.
func NewMockUserRepository(articles *MockArticleRepository) *MockUserRepository {
	return &MockUserRepository{
		Users:    make(map[string]*models.User),
		saved:    make(map[string][]savedEntry),
		articles: articles,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *user
	m.Users[user.ID] = &clone
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (m *MockUserRepository) SaveArticle(ctx context.Context, userID, articleID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.saved[userID] {
		if e.articleID == articleID {
			return true, nil
		}
	}
	m.saved[userID] = append(m.saved[userID], savedEntry{articleID: articleID, savedAt: time.Now()})
	return false, nil
}

func (m *MockUserRepository) UnsaveArticle(ctx context.Context, userID, articleID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.saved[userID]
	for i, e := range entries {
		if e.articleID == articleID {
			m.saved[userID] = append(entries[:i], entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) SavedSet(ctx context.Context, userID string, articleIDs []string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[string]bool)
	for _, id := range articleIDs {
		for _, e := range m.saved[userID] {
			if e.articleID == id {
				result[id] = true
				break
			}
		}
	}
	return result, nil
}

func (m *MockUserRepository) ListSaved(ctx context.Context, userID string) ([]*models.ArticleSummary, error) {
	m.mu.Lock()
	entries := append([]savedEntry(nil), m.saved[userID]...)
	m.mu.Unlock()

	// most recently saved first
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].savedAt.After(entries[j].savedAt) })

	var items []*models.ArticleSummary
	for _, e := range entries {
		if m.articles == nil {
			continue
		}
		a, _ := m.articles.GetByID(ctx, e.articleID)
		if a != nil {
			items = append(items, a.Summary())
		}
	}
	return items, nil
}

// MockJobRepository is an in-memory implementation of JobRepository
type MockJobRepository struct {
	mu   sync.Mutex
	Jobs map[string]*models.Job
}

// NewMockJobRepository creates a new mock job repository
func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{Jobs: make(map[string]*models.Job)}
}

func (m *MockJobRepository) Create(ctx context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *job
	m.Jobs[job.ID] = &clone
	return nil
}

func (m *MockJobRepository) Update(ctx context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *job
	m.Jobs[job.ID] = &clone
	return nil
}

func (m *MockJobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.Jobs[id]
	if !ok {
		return nil, nil
	}
	clone := *j
	return &clone, nil
}

func (m *MockJobRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key == "" {
		return nil, nil
	}
	for _, j := range m.Jobs {
		if j.IdempotencyKey == key {
			clone := *j
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *MockJobRepository) GetPendingJobs(ctx context.Context) ([]*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var jobs []*models.Job
	for _, j := range m.Jobs {
		if j.Status == models.JobStatusPending {
			clone := *j
			jobs = append(jobs, &clone)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.Before(jobs[j].CreatedAt) })
	return jobs, nil
}

func (m *MockJobRepository) MarkJobAsProcessing(ctx context.Context, jobID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.Jobs[jobID]
	if !ok || j.Status != models.JobStatusPending {
		return false, nil
	}
	j.Status = models.JobStatusProcessing
	now := time.Now()
	j.StartedAt = &now
	return true, nil
}
