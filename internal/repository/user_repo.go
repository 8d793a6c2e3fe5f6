package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/blog-cms-api/internal/apperr"
	"github.com/blog-cms-api/internal/database"
	"github.com/blog-cms-api/internal/models"
	"github.com/lib/pq"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

// Create inserts a new user
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.Role, user.Active,
		user.CreatedAt, time.Now(),
	)
	return apperr.Unavailable("create user", err)
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, name, role, active, created_at, updated_at
		FROM users WHERE id = $1
	`
	var user models.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.Name, &user.Role, &user.Active,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Unavailable("get user", err)
	}
	return &user, nil
}

// SaveArticle adds an article to the user's saved set. The primary key on
// (user_id, article_id) plus ON CONFLICT DO NOTHING makes the operation
// idempotent: zero rows affected means it was already saved.
func (r *userRepo) SaveArticle(ctx context.Context, userID, articleID string) (bool, error) {
	query := `
		INSERT INTO saved_articles (user_id, article_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, article_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, userID, articleID, time.Now())
	if err != nil {
		return false, apperr.Unavailable("save article", err)
	}
	affected, _ := result.RowsAffected()
	return affected == 0, nil
}

// UnsaveArticle removes an article from the user's saved set. Zero rows
// affected means it was never saved; that is reported, not treated as an
// error.
func (r *userRepo) UnsaveArticle(ctx context.Context, userID, articleID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM saved_articles WHERE user_id = $1 AND article_id = $2`,
		userID, articleID,
	)
	if err != nil {
		return false, apperr.Unavailable("unsave article", err)
	}
	affected, _ := result.RowsAffected()
	return affected > 0, nil
}

// SavedSet reports saved membership for the given article ids
func (r *userRepo) SavedSet(ctx context.Context, userID string, articleIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(articleIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT article_id FROM saved_articles
		WHERE user_id = $1 AND article_id = ANY($2)
	`
	rows, err := r.db.QueryContext(ctx, query, userID, pq.Array(articleIDs))
	if err != nil {
		return nil, apperr.Unavailable("query saved set", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Unavailable("query saved set", err)
		}
		result[id] = true
	}
	return result, apperr.Unavailable("query saved set", rows.Err())
}

// ListSaved returns summaries of the user's saved articles in save order
func (r *userRepo) ListSaved(ctx context.Context, userID string) ([]*models.ArticleSummary, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM articles a
		JOIN saved_articles s ON s.article_id = a.id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC
	`, prefixedSummaryColumns)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperr.Unavailable("list saved articles", err)
	}
	defer rows.Close()

	var items []*models.ArticleSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, apperr.Unavailable("list saved articles", err)
		}
		items = append(items, s)
	}
	return items, apperr.Unavailable("list saved articles", rows.Err())
}

const prefixedSummaryColumns = `a.id, a.slug, a.title, a.author_id, a.excerpt, a.read_time,
	a.status, a.published_at, a.views, a.likes, a.category, a.tags,
	a.featured, a.created_at, a.updated_at`
