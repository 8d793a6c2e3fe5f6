package api

import (
	"net/http"
	"time"

	"github.com/blog-cms-api/internal/cache"
	"github.com/blog-cms-api/internal/config"
	"github.com/blog-cms-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, responseCache *cache.Cache, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	articleHandler := NewArticleHandler(services, log)
	publicHandler := NewPublicHandler(services, responseCache, log)
	engagementHandler := NewEngagementHandler(services, log)
	uploadHandler := NewUploadHandler(cfg, log)
	adminHandler := NewAdminHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	// Uploaded images are served from local disk; the stored article field
	// is only ever the URL.
	router.Static(cfg.Upload.BaseURL, cfg.Upload.UploadDir)

	// API v1
	v1 := router.Group("/v1")
	{
		// Public, unauthenticated surface
		public := v1.Group("/public")
		{
			public.GET("/articles", publicHandler.List)
			public.GET("/articles/popular", publicHandler.Popular)
			public.GET("/articles/:slug", publicHandler.Get)
			public.POST("/articles/:slug/like", publicHandler.AnonymousLike)
		}

		// Authenticated surface. Identity resolution is an external
		// collaborator; requireUser only consumes the resolved user id.
		authed := v1.Group("", requireUser())
		{
			articles := authed.Group("/articles")
			{
				articles.POST("", articleHandler.Create)
				articles.GET("", articleHandler.List)
				articles.GET("/status", engagementHandler.Status)
				articles.GET("/by-slug/:slug", articleHandler.GetBySlug)
				articles.GET("/:id", articleHandler.Get)
				articles.PUT("/:id", articleHandler.Update)
				articles.DELETE("/:id", articleHandler.Delete)

				articles.POST("/:id/publish", articleHandler.Publish)
				articles.POST("/:id/unpublish", articleHandler.Unpublish)
				articles.POST("/:id/archive", articleHandler.Archive)

				articles.POST("/:id/like", engagementHandler.ToggleLike)
				articles.POST("/:id/save", engagementHandler.Save)
				articles.DELETE("/:id/save", engagementHandler.Unsave)
			}

			authed.GET("/saved", engagementHandler.ListSaved)
			authed.POST("/uploads", uploadHandler.Upload)

			admin := authed.Group("/admin")
			{
				admin.POST("/rederive", adminHandler.Rederive)
				admin.GET("/jobs/:job_id", adminHandler.GetJob)
			}
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "blog-cms-api",
	})
}

// metricsHandler reports database-level counts
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		articles, _ := services.Listing.ArticleCount(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"articles": articles,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// userIDKey is the context key under which the resolved user id is stored
const userIDKey = "user_id"

// requireUser consumes the identity resolved by the external auth
// collaborator. This core never authenticates; it only reads the id the
// collaborator placed on the request.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-ID, Idempotency-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
