package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/blog-cms-api/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// allowedImageExts limits uploads to common web image formats
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// UploadHandler handles image uploads. Storage here is local disk standing
// in for the blob-storage collaborator; articles only ever store the
// returned URL, never bytes.
type UploadHandler struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(cfg *config.Config, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		cfg: cfg,
		log: log.With().Str("handler", "upload").Logger(),
	}
}

// Upload handles POST /v1/uploads
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required"})
		return
	}
	defer file.Close()

	if header.Size > h.cfg.Upload.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("file too large, max size is %d MB", h.cfg.Upload.MaxUploadSize/(1024*1024)),
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type: " + ext})
		return
	}

	uploadDir := h.cfg.Upload.UploadDir
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		h.log.Error().Err(err).Msg("Failed to create upload directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}

	filename := uuid.New().String() + ext
	filePath := filepath.Join(uploadDir, filename)

	out, err := os.Create(filePath)
	if err != nil {
		h.log.Error().Err(err).Str("path", filePath).Msg("Failed to create file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		h.log.Error().Err(err).Str("path", filePath).Msg("Failed to write file")
		os.Remove(filePath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}

	url := h.cfg.Upload.BaseURL + "/" + filename

	h.log.Info().
		Str("filename", filename).
		Int64("size", header.Size).
		Msg("Image uploaded")

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
