package api

import (
	"context"
	"net/http"

	"github.com/blog-cms-api/internal/models"
	"github.com/blog-cms-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ArticleHandler handles the owner-facing article endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// createArticleRequest is the payload for POST /v1/articles
type createArticleRequest struct {
	Title           string                 `json:"title"`
	Content         []models.ContentBlock  `json:"content"`
	EditorData      *models.EditorDocument `json:"editor_data"`
	Status          string                 `json:"status"`
	Category        string                 `json:"category"`
	Tags            []string               `json:"tags"`
	SEOTitle        string                 `json:"seo_title"`
	SEODescription  string                 `json:"seo_description"`
	Featured        bool                   `json:"featured"`
	CommentsAllowed *bool                  `json:"comments_allowed"`
}

// Create handles POST /v1/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	commentsAllowed := true
	if req.CommentsAllowed != nil {
		commentsAllowed = *req.CommentsAllowed
	}

	article, err := h.services.Article.Create(c.Request.Context(), currentUser(c), &models.Article{
		Title:           req.Title,
		Content:         req.Content,
		EditorData:      req.EditorData,
		Status:          req.Status,
		Category:        req.Category,
		Tags:            req.Tags,
		SEOTitle:        req.SEOTitle,
		SEODescription:  req.SEODescription,
		Featured:        req.Featured,
		CommentsAllowed: commentsAllowed,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, article)
}

// Get handles GET /v1/articles/:id (owner view, any status)
func (h *ArticleHandler) Get(c *gin.Context) {
	article, err := h.services.Article.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// GetBySlug handles GET /v1/articles/by-slug/:slug (owner view by slug,
// without counting a view)
func (h *ArticleHandler) GetBySlug(c *gin.Context) {
	article, err := h.services.Article.GetBySlug(c.Request.Context(), currentUser(c), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Update handles PUT /v1/articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	var update models.ArticleUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	article, err := h.services.Article.Update(c.Request.Context(), currentUser(c), c.Param("id"), &update)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /v1/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.services.Article.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List handles GET /v1/articles (owner listing, all statuses)
func (h *ArticleHandler) List(c *gin.Context) {
	var params models.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	result, err := h.services.Listing.ListOwner(c.Request.Context(), currentUser(c), params)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Publish handles POST /v1/articles/:id/publish
func (h *ArticleHandler) Publish(c *gin.Context) {
	h.lifecycle(c, h.services.Article.Publish)
}

// Unpublish handles POST /v1/articles/:id/unpublish
func (h *ArticleHandler) Unpublish(c *gin.Context) {
	h.lifecycle(c, h.services.Article.Unpublish)
}

// Archive handles POST /v1/articles/:id/archive
func (h *ArticleHandler) Archive(c *gin.Context) {
	h.lifecycle(c, h.services.Article.Archive)
}

func (h *ArticleHandler) lifecycle(c *gin.Context, op func(ctx context.Context, userID, id string) (*models.Article, error)) {
	article, err := op(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}
