package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/auth"
	"github.com/mrlokans/mediashelf/internal/metrics"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("http")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware(log, cfg.Recorder))
	router.Use(auth.SecurityHeadersMiddleware())

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	// Health endpoints
	circuits, _ := cfg.Providers.(CircuitReporter)
	health := NewHealthController(cfg.Database, circuits, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", Ping)

	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(cfg.Gatherer)))
	}

	api := router.Group("/api")

	// Enrichment endpoints
	enrich := NewEnrichController(cfg.Enricher, cfg.Batch, cfg.Providers, cfg.TaskQueue, log)
	api.GET("/content/enrich/:provider/search", enrich.Search)
	api.POST("/content/enrich/:provider/batch", enrich.Batch)
	api.POST("/content/enrich/:provider/:externalId", enrich.Enrich)

	// Library
	lib := NewLibraryController(cfg.Library, log)
	api.GET("/content/library", lib.GetLibrary)

	// Catalog endpoints
	content := NewContentController(cfg.Content, cfg.Catalog, log)
	api.GET("/content", content.List)
	api.GET("/content/search", content.Search)
	api.POST("/content", content.Create)
	api.GET("/content/:id", content.Get)
	api.PUT("/content/:id", content.Update)
	api.DELETE("/content/:id", content.Delete)

	// Interactions
	interactions := NewInteractionsController(cfg.Ratings, log)
	api.POST("/content/:id/rate", interactions.Rate)
	api.POST("/content/:id/favorite", interactions.ToggleFavorite)

	// Task management endpoints
	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue, log)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
