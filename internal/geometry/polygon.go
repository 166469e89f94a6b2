package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// Polygon is an open ring of vertices; the edge from the last vertex back to
// the first is implicit.
type Polygon []Point

// Clone returns a copy that shares no storage with p.
func (p Polygon) Clone() Polygon {
	if p == nil {
		return nil
	}
	out := make(Polygon, len(p))
	copy(out, p)
	return out
}

// Scale returns a new polygon with every vertex multiplied by s.
func (p Polygon) Scale(s float64) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = v.Scale(s)
	}
	return out
}

// Bounds returns the bounding box of the vertices.
func (p Polygon) Bounds() Rect {
	return BoundsOf(p)
}

// Distinct returns the number of distinct vertices.
func (p Polygon) Distinct() int {
	seen := make(map[Point]struct{}, len(p))
	for _, v := range p {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// Degenerate reports whether p cannot enclose any area: fewer than three
// distinct vertices, or every vertex on one line.
func (p Polygon) Degenerate() bool {
	return p.Distinct() < 3 || p.Area() == 0
}

// Dedupe drops consecutive repeated vertices, including a trailing vertex equal
// to the first one.
func (p Polygon) Dedupe() Polygon {
	out := make(Polygon, 0, len(p))
	for _, v := range p {
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

// Close returns the explicit closed form with the first vertex appended.
func (p Polygon) Close() Polygon {
	if len(p) == 0 {
		return nil
	}
	out := make(Polygon, len(p), len(p)+1)
	copy(out, p)
	if out[len(out)-1] != out[0] {
		out = append(out, out[0])
	}
	return out
}

// Edges returns every side of the polygon, including the closing edge.
func (p Polygon) Edges() []Segment {
	if len(p) < 2 {
		return nil
	}
	edges := make([]Segment, len(p))
	for i := range p {
		edges[i] = Segment{A: p[i], B: p[(i+1)%len(p)]}
	}
	return edges
}

// Contains reports whether pt lies inside the polygon using ray casting.
// Points exactly on an edge may fall either way.
func (p Polygon) Contains(pt Point) bool {
	if len(p) < 3 {
		return false
	}

	inside := false
	j := len(p) - 1
	for i := 0; i < len(p); i++ {
		if (p[i].Y > pt.Y) != (p[j].Y > pt.Y) &&
			pt.X < (p[j].X-p[i].X)*(pt.Y-p[i].Y)/(p[j].Y-p[i].Y)+p[i].X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Area returns the enclosed area in square canvas units.
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	return math.Abs(planar.Area(p.ring()))
}

func (p Polygon) ring() orb.Ring {
	closed := p.Close()
	ring := make(orb.Ring, len(closed))
	for i, v := range closed {
		ring[i] = orb.Point{v.X, v.Y}
	}
	return ring
}

// Simplify reduces a freehand stroke with the Douglas-Peucker algorithm.
//
// The input is treated as a closed ring; the result is open and deduplicated.
// tolerance is the maximum distance, in the stroke's own units, that a removed
// vertex may lie from the simplified outline. A non-positive tolerance only
// deduplicates.
//
// If simplification would collapse an enclosing stroke below three distinct
// vertices (a long thin sliver), the deduplicated input is returned instead so
// that a real drawing is never turned into a degenerate one.
func Simplify(p Polygon, tolerance float64) Polygon {
	base := p.Dedupe()
	if tolerance <= 0 || len(base) < 4 {
		return base
	}

	ls := orb.LineString(base.ring())
	simplified, ok := simplify.DouglasPeucker(tolerance).Simplify(ls.Clone()).(orb.LineString)
	if !ok {
		return base
	}

	out := make(Polygon, len(simplified))
	for i, v := range simplified {
		out[i] = Point{X: v[0], Y: v[1]}
	}
	out = out.Dedupe()
	if out.Degenerate() {
		return base
	}
	return out
}
