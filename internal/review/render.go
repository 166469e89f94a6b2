package review

import (
	"github.com/ironsheep/accent-map-mcp/internal/aggregate"
	"github.com/ironsheep/accent-map-mcp/internal/geometry"
	"github.com/ironsheep/accent-map-mcp/internal/render"
)

// RenderHeatmap paints the heatmap of mode over the review viewport.
func (a *Analysis) RenderHeatmap(mode aggregate.Mode, opts render.HeatmapOptions) (*render.ImageResult, error) {
	return render.Heatmap(a.Heatmap(mode), a.View, opts)
}

// RenderOverview draws every area of the population. When lasso has an area,
// the shapes it selects are highlighted.
func (a *Analysis) RenderOverview(lasso geometry.Polygon, opts render.OverviewOptions) (*render.ImageResult, error) {
	if len(lasso) > 0 {
		for _, m := range a.Lasso(lasso) {
			opts.Highlight = append(opts.Highlight, m.ID)
		}
	}
	return render.Overview(a.Population.Shapes, a.View, opts)
}
