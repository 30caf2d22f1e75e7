package main

import (
	"autodialer-platform/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h *httpapi.Handlers) {
	api := r.Group("/api")
	{
		// dialing
		api.POST("/upload_numbers", h.UploadNumbers)
		api.POST("/ai_call", h.AICall)
		api.POST("/bulk_call", h.BulkCall)
		api.POST("/refresh_status", h.RefreshStatus)
		api.POST("/simulate_call_complete/:id", h.SimulateCallComplete)

		// provider callbacks (public by necessity).
		// NOTE: production deployments should add Twilio signature validation.
		api.GET("/voice", h.Voice)
		api.POST("/voice", h.Voice)
		api.POST("/call_status", h.CallStatus)

		// reporting
		api.GET("/call_stats", h.CallStats)
		api.GET("/export_calls", h.ExportCalls)
		api.POST("/clear_all", h.ClearAll)

		// content
		api.POST("/generate_article", h.GenerateArticle)
		api.POST("/generate_articles_bulk", h.GenerateArticlesBulk)
		api.GET("/blog", h.BlogList)
		api.DELETE("/blog/:id", h.BlogDelete)

		api.GET("/health", h.Health)
	}

	// Public article view by slug.
	r.GET("/blog/:slug", h.BlogView)
}
