package api

import (
	"net/http"
	"strings"

	"github.com/blog-cms-api/internal/models"
	"github.com/blog-cms-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// EngagementHandler handles the authenticated like/save endpoints
type EngagementHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewEngagementHandler creates a new EngagementHandler
func NewEngagementHandler(services *service.Services, log zerolog.Logger) *EngagementHandler {
	return &EngagementHandler{
		services: services,
		log:      log.With().Str("handler", "engagement").Logger(),
	}
}

// ToggleLike handles POST /v1/articles/:id/like
func (h *EngagementHandler) ToggleLike(c *gin.Context) {
	liked, likes, err := h.services.Engagement.ToggleLike(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": likes})
}

// Save handles POST /v1/articles/:id/save
func (h *EngagementHandler) Save(c *gin.Context) {
	result, err := h.services.Engagement.Save(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Unsave handles DELETE /v1/articles/:id/save
func (h *EngagementHandler) Unsave(c *gin.Context) {
	result, err := h.services.Engagement.Unsave(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Status handles GET /v1/articles/status?ids=a,b,c — batch liked/saved
// membership for the requesting user. Ids that do not resolve to a
// published article are omitted from the response.
func (h *EngagementHandler) Status(c *gin.Context) {
	idsParam := c.Query("ids")
	if idsParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids parameter is required"})
		return
	}

	var ids []string
	for _, id := range strings.Split(idsParam, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	statuses, err := h.services.Engagement.Status(c.Request.Context(), currentUser(c), ids)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statuses": statuses})
}

// ListSaved handles GET /v1/saved
func (h *EngagementHandler) ListSaved(c *gin.Context) {
	items, err := h.services.Engagement.ListSaved(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if items == nil {
		items = []*models.ArticleSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
