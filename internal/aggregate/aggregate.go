// Package aggregate computes per-cell statistics over a built grid and maps
// them to heatmap colours.
//
// In Amount mode a cell is grey, brighter with more overlapping shapes. In a
// metric mode the hue encodes the mean rating (1 red, 3 green, 5 blue) and the
// brightness encodes how many shapes overlap the cell, relative to
// MaxExpectedDensity. A cell no rated shape overlaps gets NoDataColor, never
// the colour of a zero mean.
package aggregate

import (
	"image/color"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/accent-map-mcp/internal/geometry"
	"github.com/ironsheep/accent-map-mcp/internal/grid"
	"github.com/ironsheep/accent-map-mcp/internal/shape"
)

// MaxExpectedDensity is the number of rated shapes at which a metric cell
// reaches full brightness.
const MaxExpectedDensity = 200

// Hue range of the metric scale in degrees.
const (
	minHue = 0
	maxHue = 240
)

// NoDataColor marks metric cells with no rated shape.
var NoDataColor = color.RGBA{A: 255}

// Result is the statistics of one cell.
type Result struct {
	// Count is the number of overlapping shapes.
	Count int `json:"count"`
	// Rated is, per metric, the number of shapes carrying a valid rating.
	Rated map[shape.Metric]int `json:"-"`
	// Means holds, per metric, the rating sum over Count. A shape without a
	// valid rating adds zero to the sum. A metric no shape rated is absent.
	Means map[shape.Metric]float64 `json:"-"`
}

// Mean returns the mean rating for m and whether any shape rated it.
func (r Result) Mean(m shape.Metric) (float64, bool) {
	v, ok := r.Means[m]
	return v, ok
}

// Compute returns the statistics of a set of shapes.
func Compute(members []shape.Shape) Result {
	res := Result{
		Count: len(members),
		Rated: make(map[shape.Metric]int, 4),
		Means: make(map[shape.Metric]float64, 4),
	}
	for _, m := range shape.Metrics() {
		sum, n := 0, 0
		for _, s := range members {
			if r := s.Metadata.Rating(m); shape.ValidRating(r) {
				sum += r
				n++
			}
		}
		if n > 0 {
			res.Rated[m] = n
			res.Means[m] = float64(sum) / float64(res.Count)
		}
	}
	return res
}

// Hue maps a mean rating onto the 0–240° hue scale, clamped to the rating range.
func Hue(mean float64) float64 {
	h := (mean - shape.MinRating) * (maxHue - minHue) / (shape.MaxRating - shape.MinRating)
	return clamp(h, minHue, maxHue)
}

// ColorOf maps statistics to a colour. It is a pure function of its arguments.
func ColorOf(mode Mode, res Result) color.RGBA {
	switch m := mode.(type) {
	case Amount:
		n := uint8(clamp(float64(res.Count), 0, 255))
		return color.RGBA{R: n, G: n, B: n, A: 255}
	case ByMetric:
		mean, ok := res.Mean(m.Metric)
		if !ok {
			return NoDataColor
		}
		value := clamp(float64(res.Count)/MaxExpectedDensity, 0, 1)
		r, g, b := colorful.Hsv(Hue(mean), 1, value).RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 255}
	}
	panic("aggregate: unknown mode " + mode.String())
}

// Tile is a cell's aggregated output.
type Tile struct {
	Index  int           `json:"index"`
	Row    int           `json:"row"`
	Col    int           `json:"col"`
	Bounds geometry.Rect `json:"bounds"`
	Count  int           `json:"count"`
	// Mean is set only in a metric mode when the cell has data.
	Mean  *float64   `json:"mean,omitempty"`
	Color color.RGBA `json:"-"`
	Hex   string     `json:"color"`
}

// memoKey identifies a colour computation. Members are part of the key so
// that cells from differently configured grids never collide.
type memoKey struct {
	mode    string
	index   int
	bounds  geometry.Rect
	members string
}

// Aggregator evaluates cells against one shape population. Colours are
// memoised per mode and cell. It is safe for concurrent use.
type Aggregator struct {
	shapes map[shape.ID]shape.Shape

	mu   sync.Mutex
	memo map[memoKey]color.RGBA
}

// New indexes shapes by ID. Cells passed to the aggregator must have been
// built from the same population.
func New(shapes []shape.Shape) *Aggregator {
	a := &Aggregator{
		shapes: make(map[shape.ID]shape.Shape, len(shapes)),
		memo:   make(map[memoKey]color.RGBA),
	}
	for _, s := range shapes {
		a.shapes[s.ID] = s
	}
	return a
}

// Members resolves a cell's member IDs. IDs not in the population are skipped.
func (a *Aggregator) Members(cell grid.Cell) []shape.Shape {
	out := make([]shape.Shape, 0, len(cell.Members))
	for _, id := range cell.Members {
		if s, ok := a.shapes[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Stats returns the statistics of a cell.
func (a *Aggregator) Stats(cell grid.Cell) Result {
	return Compute(a.Members(cell))
}

// ColorFor returns the colour of cell in the given mode.
func (a *Aggregator) ColorFor(mode Mode, cell grid.Cell) color.RGBA {
	key := memoKey{mode: mode.String(), index: cell.Index, bounds: cell.Bounds, members: membersKey(cell.Members)}

	a.mu.Lock()
	c, ok := a.memo[key]
	a.mu.Unlock()
	if ok {
		return c
	}

	c = ColorOf(mode, a.Stats(cell))
	a.mu.Lock()
	a.memo[key] = c
	a.mu.Unlock()
	return c
}

// Heatmap aggregates every cell, keeping the cells' order.
func (a *Aggregator) Heatmap(mode Mode, cells []grid.Cell) []Tile {
	tiles := make([]Tile, len(cells))
	for i, cell := range cells {
		res := a.Stats(cell)
		c := a.ColorFor(mode, cell)
		tiles[i] = Tile{
			Index:  cell.Index,
			Row:    cell.Row,
			Col:    cell.Col,
			Bounds: cell.Bounds,
			Count:  res.Count,
			Color:  c,
			Hex:    colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex(),
		}
		if m, ok := mode.(ByMetric); ok {
			if mean, ok := res.Mean(m.Metric); ok {
				tiles[i].Mean = &mean
			}
		}
	}
	return tiles
}

// Summary counts a heatmap's occupied cells and finds its densest cell.
type Summary struct {
	Cells    int `json:"cells"`
	Occupied int `json:"occupied"`
	MaxCount int `json:"maxCount"`
	// Densest lists the indices of the cells with MaxCount members, ascending.
	Densest []int `json:"densest,omitempty"`
}

// Summarize reports occupancy over tiles.
func Summarize(tiles []Tile) Summary {
	s := Summary{Cells: len(tiles)}
	for _, t := range tiles {
		if t.Count == 0 {
			continue
		}
		s.Occupied++
		switch {
		case t.Count > s.MaxCount:
			s.MaxCount = t.Count
			s.Densest = []int{t.Index}
		case t.Count == s.MaxCount:
			s.Densest = append(s.Densest, t.Index)
		}
	}
	sort.Ints(s.Densest)
	return s
}

func membersKey(ids []shape.ID) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(id)))
	}
	return b.String()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
