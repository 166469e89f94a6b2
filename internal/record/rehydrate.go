package record

import (
	"fmt"
	"log"

	"github.com/ironsheep/accent-map-mcp/internal/geometry"
	"github.com/ironsheep/accent-map-mcp/internal/normalize"
	"github.com/ironsheep/accent-map-mcp/internal/shape"
)

// Origin locates a rehydrated shape in the record set it came from.
type Origin struct {
	RecordID int `json:"recordId"`
	Index    int `json:"index"`
}

// Skipped describes a canvas entry Rehydrate could not use.
type Skipped struct {
	Origin
	Reason string `json:"reason"`
}

// Population is every shape of a record set in one viewport. Shapes[i] came
// from Origins[i]; shape IDs are the population index.
type Population struct {
	View    geometry.Size `json:"view"`
	Shapes  []shape.Shape `json:"shapes"`
	Origins []Origin      `json:"origins"`
	Skipped []Skipped     `json:"skipped,omitempty"`
}

// Len returns the number of shapes.
func (p *Population) Len() int { return len(p.Shapes) }

// Origin returns where shape id came from.
func (p *Population) Origin(id shape.ID) (Origin, bool) {
	if int(id) < 0 || int(id) >= len(p.Origins) {
		return Origin{}, false
	}
	return p.Origins[id], true
}

// Rehydrate decodes every canvas entry and rescales it from its record's
// canvas size into view.
//
// Entries with an undecodable or degenerate path, and every entry of a record
// with an unusable canvas size, are left out and listed in Skipped. An invalid
// view is an error.
func Rehydrate(records []Record, view geometry.Size) (*Population, error) {
	if !view.Valid() {
		return nil, fmt.Errorf("rehydrate: %w: %gx%g", normalize.ErrInvalidSize, view.Width, view.Height)
	}

	pop := &Population{View: view}
	for _, r := range records {
		factor, err := normalize.ScaleFactor(r.CanvasSize, view)
		for i, entry := range r.Canvas {
			origin := Origin{RecordID: r.ID, Index: i}
			if err != nil {
				pop.skip(origin, err)
				continue
			}

			poly, color, derr := DecodePath(entry.Path)
			if derr != nil {
				pop.skip(origin, derr)
				continue
			}
			if poly.Degenerate() {
				pop.skip(origin, shape.ErrDegenerate)
				continue
			}

			pop.Shapes = append(pop.Shapes, shape.Shape{
				ID:          shape.ID(len(pop.Shapes)),
				Polygon:     poly.Scale(factor),
				StrokeColor: color,
				Metadata:    entry.Form.Clone(),
			})
			pop.Origins = append(pop.Origins, origin)
		}
	}

	if len(pop.Skipped) > 0 {
		log.Printf("[record] rehydrate: skipped %d of %d entries", len(pop.Skipped), len(pop.Skipped)+len(pop.Shapes))
	}
	return pop, nil
}

func (p *Population) skip(o Origin, err error) {
	p.Skipped = append(p.Skipped, Skipped{Origin: o, Reason: err.Error()})
}
