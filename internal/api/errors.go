package api

import (
	"errors"
	"net/http"

	"github.com/blog-cms-api/internal/apperr"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError maps a domain error onto an HTTP status. Anything outside
// the taxonomy is assumed to be a persistence failure and reported as
// service-unavailable; the core never retries.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var validationErr *apperr.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
		return
	}

	var notFoundErr *apperr.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
		return
	}

	var conflictErr *apperr.ConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error()})
		return
	}

	var stateErr *apperr.StateError
	if errors.As(err, &stateErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": stateErr.Error()})
		return
	}

	// apperr.ErrUnavailable and anything else outside the taxonomy land here
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
}
