package api

import (
	"net/http"

	"github.com/blog-cms-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AdminHandler handles maintenance endpoints
type AdminHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// Rederive handles POST /v1/admin/rederive. It queues an explicit bulk
// recomputation of every article's derived fields through the normal
// update path. An Idempotency-Key header makes repeat submissions return
// the same job.
func (h *AdminHandler) Rederive(c *gin.Context) {
	job, err := h.services.Maintenance.CreateRederiveJob(c.Request.Context(), c.GetHeader("Idempotency-Key"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusAccepted, job)
}

// GetJob handles GET /v1/admin/jobs/:job_id
func (h *AdminHandler) GetJob(c *gin.Context) {
	job, err := h.services.Maintenance.GetJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}
