// Package grid partitions a canvas into cells and finds which shapes overlap
// each cell.
//
// Building runs in two levels. The canvas is first cut into a coarse grid of
// chunks and each chunk keeps only the shapes whose bounding box reaches into
// it. Every chunk is then cut into fine cells, and the precise overlap test for
// a fine cell only looks at its chunk's subset. The result is a flat,
// row-major list of fine cells over the whole canvas.
package grid

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r1"

	"github.com/ironsheep/accent-map-mcp/internal/geometry"
	"github.com/ironsheep/accent-map-mcp/internal/shape"
)

// maxCells bounds ChunksX×ResolutionX × ChunksY×ResolutionY.
const maxCells = 1 << 20

// ErrInvalidConfig is returned for non-positive grid dimensions.
var ErrInvalidConfig = errors.New("invalid grid configuration")

// Config sets the two grid levels.
type Config struct {
	// ChunksX and ChunksY are the number of coarse chunks across and down.
	ChunksX int `json:"chunksX" yaml:"chunks_x"`
	ChunksY int `json:"chunksY" yaml:"chunks_y"`

	// ResolutionX and ResolutionY are the number of fine cells across and
	// down each chunk.
	ResolutionX int `json:"resolutionX" yaml:"resolution_x"`
	ResolutionY int `json:"resolutionY" yaml:"resolution_y"`

	// Predicate is the fine-cell overlap test.
	Predicate geometry.Predicate `json:"predicate" yaml:"predicate"`
}

// DefaultConfig is a 4×5 chunk grid with 6×6 cells per chunk.
func DefaultConfig() Config {
	return Config{ChunksX: 4, ChunksY: 5, ResolutionX: 6, ResolutionY: 6}
}

// Columns returns the number of fine cells across the canvas.
func (c Config) Columns() int { return c.ChunksX * c.ResolutionX }

// Rows returns the number of fine cells down the canvas.
func (c Config) Rows() int { return c.ChunksY * c.ResolutionY }

// Validate checks that every dimension is positive and the total cell count
// is bounded.
func (c Config) Validate() error {
	if c.ChunksX <= 0 || c.ChunksY <= 0 {
		return fmt.Errorf("%w: chunks %dx%d", ErrInvalidConfig, c.ChunksX, c.ChunksY)
	}
	if c.ResolutionX <= 0 || c.ResolutionY <= 0 {
		return fmt.Errorf("%w: resolution %dx%d", ErrInvalidConfig, c.ResolutionX, c.ResolutionY)
	}
	if c.Columns() > maxCells/c.Rows() {
		return fmt.Errorf("%w: %dx%d cells exceeds %d", ErrInvalidConfig, c.Columns(), c.Rows(), maxCells)
	}
	return nil
}

// Cell is one fine cell of a built grid. Members lists the overlapping shapes
// in the order they were given to Build.
type Cell struct {
	Index   int           `json:"index"`
	Row     int           `json:"row"`
	Col     int           `json:"col"`
	Chunk   int           `json:"chunk"`
	Bounds  geometry.Rect `json:"bounds"`
	Members []shape.ID    `json:"members"`
}

// Empty reports whether no shape overlaps the cell.
func (c Cell) Empty() bool { return len(c.Members) == 0 }

// candidate is a shape with its bounding box computed once.
type candidate struct {
	id     shape.ID
	poly   geometry.Polygon
	bounds geometry.Rect
}

// Build tessellates bounds and assigns shapes to cells.
//
// Parameters:
//   - bounds: the canvas region to cover. Must enclose an area.
//   - shapes: the population, in the coordinate space of bounds.
//   - cfg: chunking, resolution and overlap predicate.
//
// Returns Columns()×Rows() cells in row-major order. Cells nothing overlaps
// are included with no members.
func Build(bounds geometry.Rect, shapes []shape.Shape, cfg Config) ([]Cell, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: empty bounds %v", ErrInvalidConfig, bounds)
	}

	all := make([]candidate, 0, len(shapes))
	for _, s := range shapes {
		if len(s.Polygon) < 3 {
			continue
		}
		all = append(all, candidate{id: s.ID, poly: s.Polygon, bounds: s.Polygon.Bounds()})
	}

	xs := r1.Interval{Lo: bounds.Min.X, Hi: bounds.Max.X}
	ys := r1.Interval{Lo: bounds.Min.Y, Hi: bounds.Max.Y}
	cols := cfg.Columns()
	cells := make([]Cell, cols*cfg.Rows())

	for cy := 0; cy < cfg.ChunksY; cy++ {
		chunkY := part(ys, cfg.ChunksY, cy)
		for cx := 0; cx < cfg.ChunksX; cx++ {
			chunkX := part(xs, cfg.ChunksX, cx)
			chunk := rect(chunkX, chunkY)
			chunkIndex := cy*cfg.ChunksX + cx

			local := make([]candidate, 0, len(all))
			for _, c := range all {
				if c.bounds.Overlaps(chunk) {
					local = append(local, c)
				}
			}

			for fy := 0; fy < cfg.ResolutionY; fy++ {
				cellY := part(chunkY, cfg.ResolutionY, fy)
				row := cy*cfg.ResolutionY + fy
				for fx := 0; fx < cfg.ResolutionX; fx++ {
					col := cx*cfg.ResolutionX + fx
					cell := Cell{
						Index:  row*cols + col,
						Row:    row,
						Col:    col,
						Chunk:  chunkIndex,
						Bounds: rect(part(chunkX, cfg.ResolutionX, fx), cellY),
					}
					for _, c := range local {
						if geometry.OverlapsRect(c.poly, c.bounds, cell.Bounds, cfg.Predicate) {
							cell.Members = append(cell.Members, c.id)
						}
					}
					cells[cell.Index] = cell
				}
			}
		}
	}
	return cells, nil
}

// At returns the cell containing p. A point on a shared edge resolves to the
// first matching cell in row-major order.
func At(cells []Cell, p geometry.Point) (Cell, bool) {
	for _, c := range cells {
		if c.Bounds.ContainsPoint(p) {
			return c, true
		}
	}
	return Cell{}, false
}

// part returns the i-th of n equal sub-intervals of iv. Edges are computed
// from the index rather than accumulated, and the last sub-interval ends
// exactly at iv.Hi, so neighbours share identical edge values.
func part(iv r1.Interval, n, i int) r1.Interval {
	return r1.Interval{Lo: edge(iv, n, i), Hi: edge(iv, n, i+1)}
}

func edge(iv r1.Interval, n, i int) float64 {
	if i >= n {
		return iv.Hi
	}
	return iv.Lo + iv.Length()*float64(i)/float64(n)
}

func rect(x, y r1.Interval) geometry.Rect {
	return geometry.Rect{
		Min: geometry.Pt(x.Lo, y.Lo),
		Max: geometry.Pt(x.Hi, y.Hi),
	}
}
