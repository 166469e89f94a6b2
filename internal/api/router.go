// Package api serves the review pipeline over HTTP for dashboards that post
// record sets directly instead of going through the tool server.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/accent-map-mcp/internal/config"
	"github.com/ironsheep/accent-map-mcp/internal/middleware"
	"github.com/ironsheep/accent-map-mcp/internal/render"
	"github.com/ironsheep/accent-map-mcp/pkg/response"
)

// SetupRouter builds the HTTP engine.
func SetupRouter(cfg config.Config, cache *render.ImageCache) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery(), middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Accent map review API is running",
		})
	})

	h := NewReviewHandler(cfg, cache)
	api := r.Group("/api/v1")
	{
		api.GET("/modes", h.Modes)
		api.POST("/heatmap", h.Heatmap)
		api.POST("/heatmap.png", h.HeatmapPNG)
		api.POST("/lasso", h.Lasso)
	}

	r.NoRoute(response.NotFound)

	return r
}
