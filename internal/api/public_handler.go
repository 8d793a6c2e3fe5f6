package api

import (
	"fmt"
	"net/http"

	"github.com/blog-cms-api/internal/cache"
	"github.com/blog-cms-api/internal/models"
	"github.com/blog-cms-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PublicHandler handles the unauthenticated reading surface
type PublicHandler struct {
	services *service.Services
	cache    *cache.Cache
	log      zerolog.Logger
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(services *service.Services, responseCache *cache.Cache, log zerolog.Logger) *PublicHandler {
	return &PublicHandler{
		services: services,
		cache:    responseCache,
		log:      log.With().Str("handler", "public").Logger(),
	}
}

// List handles GET /v1/public/articles. Only published articles are
// visible; any status filter from the caller is ignored.
func (h *PublicHandler) List(c *gin.Context) {
	var params models.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	result, err := h.services.Listing.ListPublic(c.Request.Context(), params)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Popular handles GET /v1/public/articles/popular. Responses are cached
// briefly; staleness on the order of the TTL is acceptable for a
// popularity ranking.
func (h *PublicHandler) Popular(c *gin.Context) {
	var params models.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	window := c.Query("window")

	key := fmt.Sprintf("popular:%s:%d:%d", window, params.Page, params.PageSize)
	var cached models.ListResult
	if h.cache.GetJSON(c.Request.Context(), key, &cached) {
		c.JSON(http.StatusOK, &cached)
		return
	}

	result, err := h.services.Listing.Popular(c.Request.Context(), window, params.Page, params.PageSize)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.cache.SetJSON(c.Request.Context(), key, result)
	c.JSON(http.StatusOK, result)
}

// Get handles GET /v1/public/articles/:slug. A successful fetch counts one
// view; the increment is part of the same persistence statement as the
// read, so concurrent fetches never lose counts.
func (h *PublicHandler) Get(c *gin.Context) {
	article, err := h.services.Article.GetPublic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// AnonymousLike handles POST /v1/public/articles/:slug/like. Unconditional
// increment with no membership tracking, unlike the authenticated toggle.
func (h *PublicHandler) AnonymousLike(c *gin.Context) {
	likes, err := h.services.Engagement.AnonymousLike(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}
