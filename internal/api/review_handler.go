package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/accent-map-mcp/internal/aggregate"
	"github.com/ironsheep/accent-map-mcp/internal/config"
	"github.com/ironsheep/accent-map-mcp/internal/geometry"
	"github.com/ironsheep/accent-map-mcp/internal/normalize"
	"github.com/ironsheep/accent-map-mcp/internal/record"
	"github.com/ironsheep/accent-map-mcp/internal/render"
	"github.com/ironsheep/accent-map-mcp/internal/review"
	"github.com/ironsheep/accent-map-mcp/pkg/response"
)

// ReviewHandler handles HTTP requests for heatmaps and lasso queries
type ReviewHandler struct {
	cfg   config.Config
	cache *render.ImageCache
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(cfg config.Config, cache *render.ImageCache) *ReviewHandler {
	return &ReviewHandler{cfg: cfg, cache: cache}
}

// ReviewBody is the request body shared by the review endpoints.
type ReviewBody struct {
	review.Request
	Records []record.Record `json:"records" binding:"required"`
}

// HeatmapImageBody adds output settings to ReviewBody.
type HeatmapImageBody struct {
	ReviewBody
	Width     int      `json:"width"`
	Opacity   float64  `json:"opacity"`
	Blur      *float64 `json:"blur"`
	GridColor *string  `json:"gridColor"`
}

// LassoBody adds a lasso polygon to ReviewBody.
type LassoBody struct {
	ReviewBody
	Lasso []geometry.Point `json:"lasso" binding:"required"`
}

// analyze runs a request body through the review pipeline. On failure the
// error response has been written and ok is false.
func (h *ReviewHandler) analyze(c *gin.Context, body ReviewBody) (*review.Analysis, aggregate.Mode, bool) {
	q, mode, err := body.Resolve(h.cfg.ViewWidth, h.cfg.Grid)
	if err != nil {
		response.BadRequest(c, err)
		return nil, nil, false
	}
	a, err := review.Analyze(body.Records, q)
	if err != nil {
		if errors.Is(err, normalize.ErrInvalidSize) {
			response.BadRequest(c, err)
		} else {
			response.InternalError(c, err)
		}
		return nil, nil, false
	}
	return a, mode, true
}

// Modes handles GET /api/v1/modes
func (h *ReviewHandler) Modes(c *gin.Context) {
	modes := aggregate.Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	response.Success(c, gin.H{"modes": names})
}

// Heatmap handles POST /api/v1/heatmap
func (h *ReviewHandler) Heatmap(c *gin.Context) {
	var body ReviewBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, fmt.Errorf("invalid request body: %w", err))
		return
	}
	a, mode, ok := h.analyze(c, body)
	if !ok {
		return
	}

	tiles := a.Heatmap(mode)
	response.Success(c, gin.H{
		"mode":    mode.String(),
		"view":    a.View,
		"records": a.Records,
		"shapes":  a.Population.Len(),
		"skipped": a.Population.Skipped,
		"summary": aggregate.Summarize(tiles),
		"tiles":   tiles,
	})
}

// HeatmapPNG handles POST /api/v1/heatmap.png
func (h *ReviewHandler) HeatmapPNG(c *gin.Context) {
	var body HeatmapImageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, fmt.Errorf("invalid request body: %w", err))
		return
	}
	a, mode, ok := h.analyze(c, body.ReviewBody)
	if !ok {
		return
	}

	opts := render.HeatmapOptions{
		View:      render.View{Width: body.Width},
		Opacity:   body.Opacity,
		Blur:      h.cfg.Render.Blur,
		GridColor: h.cfg.Render.GridColor,
	}
	if opts.Width == 0 {
		opts.Width = h.cfg.Render.Width
	}
	if opts.Opacity == 0 {
		opts.Opacity = h.cfg.Render.Opacity
	}
	if body.Blur != nil {
		opts.Blur = *body.Blur
	}
	if body.GridColor != nil {
		opts.GridColor = *body.GridColor
	}
	if h.cfg.Render.Background != "" {
		bg, err := h.cache.Load(h.cfg.Render.Background)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		opts.Background = bg
	}

	img, err := a.RenderHeatmap(mode, opts)
	if err != nil {
		response.BadRequest(c, err)
		return
	}
	c.Data(http.StatusOK, img.MimeType, img.PNG)
}

// Lasso handles POST /api/v1/lasso
func (h *ReviewHandler) Lasso(c *gin.Context) {
	var body LassoBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, fmt.Errorf("invalid request body: %w", err))
		return
	}
	a, _, ok := h.analyze(c, body.ReviewBody)
	if !ok {
		return
	}

	members := a.Lasso(geometry.Polygon(body.Lasso))
	response.Success(c, gin.H{
		"selected": len(members),
		"members":  members,
	})
}
