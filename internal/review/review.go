// Package review runs the reviewer's pipeline over a set of respondent
// records: filter by background, rehydrate into the reviewer's viewport, grid
// the canvas and aggregate each cell.
//
// An Analysis is a snapshot. It is rebuilt whenever the records, filter,
// viewport or grid settings change.
package review

import (
	"fmt"

	"github.com/ironsheep/accent-map-mcp/internal/aggregate"
	"github.com/ironsheep/accent-map-mcp/internal/geometry"
	"github.com/ironsheep/accent-map-mcp/internal/grid"
	"github.com/ironsheep/accent-map-mcp/internal/normalize"
	"github.com/ironsheep/accent-map-mcp/internal/record"
	"github.com/ironsheep/accent-map-mcp/internal/render"
	"github.com/ironsheep/accent-map-mcp/internal/shape"
)

// Query selects what to analyse.
type Query struct {
	Filter    record.Filter
	ViewWidth float64
	Grid      grid.Config
}

// Analysis is the gridded population for one query.
type Analysis struct {
	View       geometry.Size
	Records    int
	Population *record.Population
	Cells      []grid.Cell
	aggregator *aggregate.Aggregator
}

// Analyze filters and rehydrates records, then builds the grid over the whole
// viewport.
func Analyze(records []record.Record, q Query) (*Analysis, error) {
	if !normalize.ValidWidth(q.ViewWidth) {
		return nil, fmt.Errorf("%w: view width %g", normalize.ErrInvalidSize, q.ViewWidth)
	}
	view := normalize.ViewSize(q.ViewWidth)

	selected := q.Filter.Apply(records)
	pop, err := record.Rehydrate(selected, view)
	if err != nil {
		return nil, err
	}
	cells, err := grid.Build(view.Rect(), pop.Shapes, q.Grid)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		View:       view,
		Records:    len(selected),
		Population: pop,
		Cells:      cells,
		aggregator: aggregate.New(pop.Shapes),
	}, nil
}

// Heatmap aggregates every cell in the given mode.
func (a *Analysis) Heatmap(mode aggregate.Mode) []aggregate.Tile {
	return a.aggregator.Heatmap(mode, a.Cells)
}

// Member is a shape of the population with where it came from.
type Member struct {
	ID          shape.ID      `json:"id"`
	Origin      record.Origin `json:"origin"`
	Name        string        `json:"name"`
	StrokeColor string        `json:"strokeColor,omitempty"`
}

// CellReport describes one cell in detail.
type CellReport struct {
	Index  int                `json:"index"`
	Row    int                `json:"row"`
	Col    int                `json:"col"`
	Bounds geometry.Rect      `json:"bounds"`
	Count  int                `json:"count"`
	Means  map[string]float64 `json:"means"`
	Mode   string             `json:"mode"`
	Color  render.ColorResult `json:"color"`
	// NoData is set when the mode has nothing to show for this cell.
	NoData  bool     `json:"noData"`
	Members []Member `json:"members"`
}

// Cell reports on the cell containing p (viewport coordinates).
func (a *Analysis) Cell(mode aggregate.Mode, p geometry.Point) (*CellReport, error) {
	cell, ok := grid.At(a.Cells, p)
	if !ok {
		return nil, fmt.Errorf("point %v lies outside the %gx%g canvas", p, a.View.Width, a.View.Height)
	}

	res := a.aggregator.Stats(cell)
	report := &CellReport{
		Index:   cell.Index,
		Row:     cell.Row,
		Col:     cell.Col,
		Bounds:  cell.Bounds,
		Count:   res.Count,
		Means:   make(map[string]float64, len(res.Means)),
		Mode:    mode.String(),
		Color:   render.Describe(a.aggregator.ColorFor(mode, cell)),
		Members: a.members(cell.Members),
	}
	for m, v := range res.Means {
		report.Means[m.String()] = v
	}
	switch m := mode.(type) {
	case aggregate.Amount:
		report.NoData = res.Count == 0
	case aggregate.ByMetric:
		_, has := res.Mean(m.Metric)
		report.NoData = !has
	}
	return report, nil
}

// Lasso returns the shapes overlapping the lasso polygon (viewport coordinates).
func (a *Analysis) Lasso(lasso geometry.Polygon) []Member {
	return a.members(grid.QueryLasso(lasso, a.Population.Shapes))
}

func (a *Analysis) members(ids []shape.ID) []Member {
	out := make([]Member, 0, len(ids))
	for _, id := range ids {
		origin, _ := a.Population.Origin(id)
		s := a.Population.Shapes[id]
		out = append(out, Member{
			ID:          id,
			Origin:      origin,
			Name:        s.Metadata.Name,
			StrokeColor: s.StrokeColor,
		})
	}
	return out
}
