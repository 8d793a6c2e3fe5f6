package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blog-cms-api/internal/apperr"
	"github.com/blog-cms-api/internal/database"
	"github.com/blog-cms-api/internal/models"
	"github.com/lib/pq"
)

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

const articleColumns = `id, slug, title, author_id, content, editor_data, excerpt, read_time,
	status, published_at, views, likes, liked_by, category, tags,
	seo_title, seo_description, featured, comments_allowed, created_at, updated_at`

const summaryColumns = `id, slug, title, author_id, excerpt, read_time, status, published_at,
	views, likes, category, tags, featured, created_at, updated_at`

// Create inserts a new article. Slug uniqueness is enforced by the database;
// a collision surfaces as a ConflictError.
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	contentJSON, _ := json.Marshal(article.Content)
	if article.Content == nil {
		contentJSON = []byte("[]")
	}
	tagsJSON, _ := json.Marshal(article.Tags)
	if article.Tags == nil {
		tagsJSON = []byte("[]")
	}
	likedByJSON, _ := json.Marshal(article.LikedBy)
	if article.LikedBy == nil {
		likedByJSON = []byte("[]")
	}
	editorJSON, err := marshalEditorData(article.EditorData)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO articles (id, slug, title, author_id, content, editor_data, excerpt, read_time,
			status, published_at, views, likes, liked_by, category, tags,
			seo_title, seo_description, featured, comments_allowed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`
	_, err = r.db.ExecContext(ctx, query,
		article.ID, article.Slug, article.Title, article.AuthorID,
		contentJSON, editorJSON, article.Excerpt, article.ReadTime,
		article.Status, article.PublishedAt, article.Views, article.Likes, likedByJSON,
		nullString(article.Category), tagsJSON,
		article.SEOTitle, article.SEODescription, article.Featured, article.CommentsAllowed,
		article.CreatedAt, time.Now(),
	)
	if isUniqueViolation(err) {
		return apperr.NewConflict("slug", article.Slug)
	}
	return apperr.Unavailable("create article", err)
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM articles WHERE id = $1`, articleColumns)
	return r.queryOne(ctx, "get article", query, id)
}

// GetBySlug retrieves an article by slug
func (r *articleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM articles WHERE slug = $1`, articleColumns)
	return r.queryOne(ctx, "get article by slug", query, slug)
}

// Update persists the authored and derived fields of an article in one
// statement. Derived fields always travel with the content they were
// computed from. Engagement counters are deliberately not written here.
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	contentJSON, _ := json.Marshal(article.Content)
	if article.Content == nil {
		contentJSON = []byte("[]")
	}
	tagsJSON, _ := json.Marshal(article.Tags)
	if article.Tags == nil {
		tagsJSON = []byte("[]")
	}
	editorJSON, err := marshalEditorData(article.EditorData)
	if err != nil {
		return err
	}

	query := `
		UPDATE articles SET
			slug = $1, title = $2, content = $3, editor_data = $4, excerpt = $5, read_time = $6,
			status = $7, published_at = $8, category = $9, tags = $10,
			seo_title = $11, seo_description = $12, featured = $13, comments_allowed = $14,
			updated_at = $15
		WHERE id = $16
	`
	result, err := r.db.ExecContext(ctx, query,
		article.Slug, article.Title, contentJSON, editorJSON, article.Excerpt, article.ReadTime,
		article.Status, article.PublishedAt, nullString(article.Category), tagsJSON,
		article.SEOTitle, article.SEODescription, article.Featured, article.CommentsAllowed,
		time.Now(), article.ID,
	)
	if isUniqueViolation(err) {
		return apperr.NewConflict("slug", article.Slug)
	}
	if err != nil {
		return apperr.Unavailable("update article", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return apperr.NewNotFound("article", article.ID)
	}
	return nil
}

// Delete removes an article. Deletion is unconditional and immediate.
func (r *articleRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return false, apperr.Unavailable("delete article", err)
	}
	affected, _ := result.RowsAffected()
	return affected > 0, nil
}

// FetchPublishedBySlug returns a published article after incrementing its
// view counter. The increment and the read are a single statement, so
// concurrent public fetches cannot lose counts.
func (r *articleRepo) FetchPublishedBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := fmt.Sprintf(`
		UPDATE articles SET views = views + 1
		WHERE slug = $1 AND status = 'published'
		RETURNING %s`, articleColumns)
	return r.queryOne(ctx, "fetch published article", query, slug)
}

// ToggleLike flips userID's membership in liked_by and moves the likes
// counter with it, in one atomic statement. All SET expressions see the old
// row, RETURNING sees the new one, so the returned membership is the state
// after the toggle. The counter is floored at zero.
func (r *articleRepo) ToggleLike(ctx context.Context, articleID, userID string) (bool, int, error) {
	query := `
		UPDATE articles SET
			liked_by = CASE WHEN liked_by ? $2
				THEN liked_by - $2
				ELSE liked_by || to_jsonb($2::text) END,
			likes = CASE WHEN liked_by ? $2
				THEN GREATEST(likes - 1, 0)
				ELSE likes + 1 END
		WHERE id = $1 AND status = 'published'
		RETURNING liked_by ? $2, likes
	`
	var liked bool
	var likes int
	err := r.db.QueryRowContext(ctx, query, articleID, userID).Scan(&liked, &likes)
	if err == sql.ErrNoRows {
		return false, 0, apperr.NewNotFound("article", articleID)
	}
	if err != nil {
		return false, 0, apperr.Unavailable("toggle like", err)
	}
	return liked, likes, nil
}

// AddAnonymousLike increments likes on a published article with no
// membership tracking. This is a weaker operation than the authenticated
// toggle and can leave likes above len(liked_by).
func (r *articleRepo) AddAnonymousLike(ctx context.Context, slug string) (int, error) {
	query := `
		UPDATE articles SET likes = likes + 1
		WHERE slug = $1 AND status = 'published'
		RETURNING likes
	`
	var likes int
	err := r.db.QueryRowContext(ctx, query, slug).Scan(&likes)
	if err == sql.ErrNoRows {
		return 0, apperr.NewNotFound("article", slug)
	}
	if err != nil {
		return 0, apperr.Unavailable("anonymous like", err)
	}
	return likes, nil
}

// LikedByUser reports liked_by membership for published articles among the
// given ids. Ids that do not resolve to a published article are omitted.
func (r *articleRepo) LikedByUser(ctx context.Context, articleIDs []string, userID string) (map[string]bool, error) {
	if len(articleIDs) == 0 {
		return map[string]bool{}, nil
	}
	query := `
		SELECT id, liked_by ? $2 FROM articles
		WHERE id = ANY($1) AND status = 'published'
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(articleIDs), userID)
	if err != nil {
		return nil, apperr.Unavailable("query likes", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var id string
		var liked bool
		if err := rows.Scan(&id, &liked); err != nil {
			return nil, apperr.Unavailable("query likes", err)
		}
		result[id] = liked
	}
	return result, apperr.Unavailable("query likes", rows.Err())
}

// List returns content-free summaries matching the filter, plus the total
// match count before pagination. orderBy must come from the service's sort
// whitelist; it is interpolated, never user input.
func (r *articleRepo) List(ctx context.Context, filter ArticleFilter, orderBy string, offset, limit int) ([]*models.ArticleSummary, int, error) {
	where, args := buildWhere(filter)

	countQuery := "SELECT COUNT(*) FROM articles" + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Unavailable("count articles", err)
	}

	query := fmt.Sprintf("SELECT %s FROM articles%s ORDER BY %s LIMIT $%d OFFSET $%d",
		summaryColumns, where, orderBy, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.Unavailable("list articles", err)
	}
	defer rows.Close()

	var items []*models.ArticleSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, 0, apperr.Unavailable("list articles", err)
		}
		items = append(items, s)
	}
	return items, total, apperr.Unavailable("list articles", rows.Err())
}

// StreamAll streams every article for maintenance passes
func (r *articleRepo) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	query := fmt.Sprintf(`SELECT %s FROM articles ORDER BY created_at`, articleColumns)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return apperr.Unavailable("stream articles", err)
	}
	defer rows.Close()

	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return apperr.Unavailable("stream articles", err)
		}
		// callback errors pass through unwrapped; they are not storage failures
		if err := callback(article); err != nil {
			return err
		}
	}
	return apperr.Unavailable("stream articles", rows.Err())
}

// Count returns the total number of articles
func (r *articleRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	return count, apperr.Unavailable("count articles", err)
}

// buildWhere assembles the WHERE clause for the composable listing filters
func buildWhere(filter ArticleFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.AuthorID != "" {
		add("author_id = $%d", filter.AuthorID)
	}
	if filter.Tag != "" {
		add("tags ? $%d", strings.ToLower(filter.Tag))
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		args = append(args, pattern)
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			`(LOWER(title) LIKE $%d OR LOWER(excerpt) LIKE $%d OR EXISTS (
				SELECT 1 FROM jsonb_array_elements_text(tags) tag WHERE tag LIKE $%d))`, n, n, n))
	}
	if filter.PublishedAfter != nil {
		add("published_at >= $%d", *filter.PublishedAfter)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *articleRepo) queryOne(ctx context.Context, op, query string, arg interface{}) (*models.Article, error) {
	article, err := scanArticle(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	return article, nil
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	var contentJSON, likedByJSON, tagsJSON []byte
	var editorJSON sql.NullString
	var category sql.NullString
	var publishedAt sql.NullTime

	err := row.Scan(
		&a.ID, &a.Slug, &a.Title, &a.AuthorID,
		&contentJSON, &editorJSON, &a.Excerpt, &a.ReadTime,
		&a.Status, &publishedAt, &a.Views, &a.Likes, &likedByJSON,
		&category, &tagsJSON,
		&a.SEOTitle, &a.SEODescription, &a.Featured, &a.CommentsAllowed,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	json.Unmarshal(contentJSON, &a.Content)
	json.Unmarshal(likedByJSON, &a.LikedBy)
	json.Unmarshal(tagsJSON, &a.Tags)
	if editorJSON.Valid {
		var doc models.EditorDocument
		if err := json.Unmarshal([]byte(editorJSON.String), &doc); err == nil {
			a.EditorData = &doc
		}
	}
	a.Category = category.String
	if publishedAt.Valid {
		a.PublishedAt = &publishedAt.Time
	}
	return &a, nil
}

func scanSummary(row rowScanner) (*models.ArticleSummary, error) {
	var s models.ArticleSummary
	var tagsJSON []byte
	var category sql.NullString
	var publishedAt sql.NullTime

	err := row.Scan(
		&s.ID, &s.Slug, &s.Title, &s.AuthorID, &s.Excerpt, &s.ReadTime,
		&s.Status, &publishedAt, &s.Views, &s.Likes, &category, &tagsJSON,
		&s.Featured, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	json.Unmarshal(tagsJSON, &s.Tags)
	s.Category = category.String
	if publishedAt.Valid {
		s.PublishedAt = &publishedAt.Time
	}
	return &s, nil
}

func marshalEditorData(doc *models.EditorDocument) (interface{}, error) {
	if doc == nil {
		return nil, nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal editor data: %w", err)
	}
	return b, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
