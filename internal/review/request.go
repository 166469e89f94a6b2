package review

import (
	"fmt"

	"github.com/ironsheep/accent-map-mcp/internal/aggregate"
	"github.com/ironsheep/accent-map-mcp/internal/grid"
	"github.com/ironsheep/accent-map-mcp/internal/record"
)

// GridSettings overrides parts of the configured grid. Zero fields keep the
// configured value.
type GridSettings struct {
	ChunksX     int    `json:"chunksX,omitempty" jsonschema:"description=Coarse chunks across the canvas"`
	ChunksY     int    `json:"chunksY,omitempty" jsonschema:"description=Coarse chunks down the canvas"`
	ResolutionX int    `json:"resolutionX,omitempty" jsonschema:"description=Fine cells across each chunk"`
	ResolutionY int    `json:"resolutionY,omitempty" jsonschema:"description=Fine cells down each chunk"`
	Predicate   string `json:"predicate,omitempty" jsonschema:"enum=bounds,enum=exact,description=Cell overlap test"`
}

// Request is the wire form of a review query shared by the tool server and
// the HTTP API.
type Request struct {
	Mode      string        `json:"mode,omitempty" jsonschema:"enum=amount,enum=correctness,enum=friendliness,enum=pleasantness,enum=trustworthiness,description=What cell colours encode. Defaults to amount"`
	ViewWidth float64       `json:"viewWidth,omitempty" jsonschema:"description=Review viewport width in pixels. Defaults to the configured view width"`
	Filter    record.Filter `json:"filter,omitempty" jsonschema:"description=Respondent background filter"`
	Grid      *GridSettings `json:"grid,omitempty" jsonschema:"description=Grid overrides"`
}

// Resolve fills in defaults and parses the mode.
func (r Request) Resolve(viewWidth float64, base grid.Config) (Query, aggregate.Mode, error) {
	mode := aggregate.Mode(aggregate.Amount{})
	if r.Mode != "" {
		m, err := aggregate.ParseMode(r.Mode)
		if err != nil {
			return Query{}, nil, err
		}
		mode = m
	}

	q := Query{Filter: r.Filter, ViewWidth: viewWidth, Grid: base}
	if r.ViewWidth != 0 {
		q.ViewWidth = r.ViewWidth
	}
	if g := r.Grid; g != nil {
		if g.ChunksX != 0 {
			q.Grid.ChunksX = g.ChunksX
		}
		if g.ChunksY != 0 {
			q.Grid.ChunksY = g.ChunksY
		}
		if g.ResolutionX != 0 {
			q.Grid.ResolutionX = g.ResolutionX
		}
		if g.ResolutionY != 0 {
			q.Grid.ResolutionY = g.ResolutionY
		}
		if g.Predicate != "" {
			if err := q.Grid.Predicate.UnmarshalText([]byte(g.Predicate)); err != nil {
				return Query{}, nil, err
			}
		}
	}
	if err := q.Grid.Validate(); err != nil {
		return Query{}, nil, fmt.Errorf("grid: %w", err)
	}
	return q, mode, nil
}
