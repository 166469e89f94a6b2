package server

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/ironsheep/accent-map-mcp/internal/aggregate"
	"github.com/ironsheep/accent-map-mcp/internal/geometry"
	"github.com/ironsheep/accent-map-mcp/internal/record"
	"github.com/ironsheep/accent-map-mcp/internal/render"
	"github.com/ironsheep/accent-map-mcp/internal/review"
)

// === Review Handlers ===

type recordsLoadArgs struct {
	Path string `json:"path,omitempty" jsonschema:"description=Absolute path to a JSON array of respondent records. Defaults to the configured records file"`
}

type recordsLoadResult struct {
	Source  string `json:"source"`
	Records int    `json:"records"`
}

func (s *Server) handleRecordsLoad(args json.RawMessage) (interface{}, error) {
	var a recordsLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		a.Path = s.cfg.Records
	}
	if a.Path == "" {
		return nil, fmt.Errorf("no records path given and none configured")
	}

	n, err := s.dataset.LoadFile(a.Path)
	if err != nil {
		return nil, err
	}
	return recordsLoadResult{Source: a.Path, Records: n}, nil
}

// analyze resolves a review request against the configuration and runs it
// over the loaded records.
func (s *Server) analyze(req review.Request) (*review.Analysis, aggregate.Mode, error) {
	q, mode, err := req.Resolve(s.cfg.ViewWidth, s.cfg.Grid)
	if err != nil {
		return nil, nil, err
	}
	a, err := s.dataset.Analyze(q)
	if err != nil {
		return nil, nil, err
	}
	return a, mode, nil
}

type reviewHeatmapResult struct {
	Mode    string            `json:"mode"`
	View    geometry.Size     `json:"view"`
	Records int               `json:"records"`
	Shapes  int               `json:"shapes"`
	Skipped []record.Skipped  `json:"skipped,omitempty"`
	Columns int               `json:"columns"`
	Rows    int               `json:"rows"`
	Summary aggregate.Summary `json:"summary"`
	Tiles   []aggregate.Tile  `json:"tiles"`
}

type reviewArgs struct {
	review.Request
}

func (s *Server) handleReviewHeatmap(args json.RawMessage) (interface{}, error) {
	var a reviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	an, mode, err := s.analyze(a.Request)
	if err != nil {
		return nil, err
	}

	tiles := an.Heatmap(mode)
	cols, rows := 0, 0
	if n := len(an.Cells); n > 0 {
		last := an.Cells[n-1]
		cols, rows = last.Col+1, last.Row+1
	}
	return reviewHeatmapResult{
		Mode:    mode.String(),
		View:    an.View,
		Records: an.Records,
		Shapes:  an.Population.Len(),
		Skipped: an.Population.Skipped,
		Columns: cols,
		Rows:    rows,
		Summary: aggregate.Summarize(tiles),
		Tiles:   tiles,
	}, nil
}

type reviewCellArgs struct {
	review.Request
	X float64 `json:"x" jsonschema:"required,description=X in review view pixels"`
	Y float64 `json:"y" jsonschema:"required,description=Y in review view pixels"`
}

func (s *Server) handleReviewCell(args json.RawMessage) (interface{}, error) {
	var a reviewCellArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	an, mode, err := s.analyze(a.Request)
	if err != nil {
		return nil, err
	}
	return an.Cell(mode, geometry.Pt(a.X, a.Y))
}

type reviewLassoArgs struct {
	review.Request
	Lasso []geometry.Point `json:"lasso" jsonschema:"required,description=Lasso vertices in review view pixels"`
}

type reviewLassoResult struct {
	Selected int             `json:"selected"`
	Members  []review.Member `json:"members"`
}

func (s *Server) handleReviewLasso(args json.RawMessage) (interface{}, error) {
	var a reviewLassoArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	an, _, err := s.analyze(a.Request)
	if err != nil {
		return nil, err
	}
	members := an.Lasso(geometry.Polygon(a.Lasso))
	return reviewLassoResult{Selected: len(members), Members: members}, nil
}

type reviewRenderArgs struct {
	review.Request
	Kind       string           `json:"kind,omitempty" jsonschema:"enum=heatmap,enum=overview,description=What to draw. Defaults to heatmap"`
	Width      int              `json:"width,omitempty" jsonschema:"description=Output width in pixels for the whole canvas"`
	Region     *geometry.Rect   `json:"region,omitempty" jsonschema:"description=Crop to this rectangle in review view pixels"`
	Zoom       float64          `json:"zoom,omitempty" jsonschema:"description=Scale factor applied after cropping"`
	Opacity    float64          `json:"opacity,omitempty" jsonschema:"description=Heatmap opacity over the background (0-1)"`
	Blur       *float64         `json:"blur,omitempty" jsonschema:"description=Gaussian smoothing radius in pixels"`
	GridColor  *string          `json:"gridColor,omitempty" jsonschema:"description=Cell boundary colour as #RRGGBB or #RRGGBBAA. Empty draws none"`
	Labels     bool             `json:"labels,omitempty" jsonschema:"description=Overview: draw area names"`
	Background *string          `json:"background,omitempty" jsonschema:"description=Reference image drawn beneath. Empty draws none"`
	Reload     bool             `json:"reload,omitempty" jsonschema:"description=Re-read the reference image from disk instead of using the cached copy"`
	Lasso      []geometry.Point `json:"lasso,omitempty" jsonschema:"description=Overview: highlight the areas this lasso selects"`
}

func (s *Server) handleReviewRender(args json.RawMessage) (interface{}, error) {
	var a reviewRenderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	an, mode, err := s.analyze(a.Request)
	if err != nil {
		return nil, err
	}

	view := render.View{Width: a.Width, Region: a.Region, Zoom: a.Zoom}
	if view.Width == 0 {
		view.Width = s.cfg.Render.Width
	}
	bg, err := s.background(a.Background, a.Reload)
	if err != nil {
		return nil, err
	}

	switch a.Kind {
	case "", "heatmap":
		opts := render.HeatmapOptions{
			View:       view,
			Opacity:    a.Opacity,
			Blur:       s.cfg.Render.Blur,
			GridColor:  s.cfg.Render.GridColor,
			Background: bg,
		}
		if opts.Opacity == 0 {
			opts.Opacity = s.cfg.Render.Opacity
		}
		if a.Blur != nil {
			opts.Blur = *a.Blur
		}
		if a.GridColor != nil {
			opts.GridColor = *a.GridColor
		}
		return an.RenderHeatmap(mode, opts)
	case "overview":
		return an.RenderOverview(geometry.Polygon(a.Lasso), render.OverviewOptions{
			View:       view,
			Labels:     a.Labels,
			Background: bg,
		})
	default:
		return nil, fmt.Errorf("unknown render kind %q: want heatmap or overview", a.Kind)
	}
}

// background loads the reference image named by override, or the configured
// one when override is nil. reload drops any cached copy first.
func (s *Server) background(override *string, reload bool) (image.Image, error) {
	path := s.cfg.Render.Background
	if override != nil {
		path = *override
	}
	if path == "" {
		return nil, nil
	}
	if reload {
		s.cache.Evict(path)
	}
	return s.cache.Load(path)
}
