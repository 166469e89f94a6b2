package geometry

import (
	"fmt"
	"strings"
)

// Predicate selects the polygon/rectangle overlap test.
type Predicate int

const (
	// PredicateBounds accepts a cell lying inside the polygon's bounding box
	// without further checks.
	PredicateBounds Predicate = iota
	// PredicateExact requires real geometric overlap.
	PredicateExact
)

func (p Predicate) String() string {
	switch p {
	case PredicateBounds:
		return "bounds"
	case PredicateExact:
		return "exact"
	}
	return fmt.Sprintf("predicate(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Predicate) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Predicate) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "bounds":
		*p = PredicateBounds
	case "exact":
		*p = PredicateExact
	default:
		return fmt.Errorf("unknown overlap predicate %q", text)
	}
	return nil
}

// OverlapsRect reports whether polygon poly overlaps rectangle cell.
//
// bounds must be poly's bounding box; callers testing one polygon against many
// cells compute it once. The checks run cheapest first:
//
//  1. reject when the bounding boxes' interiors do not intersect
//  2. accept when the polygon's box lies inside the cell, or (PredicateBounds
//     only) the cell lies inside the polygon's box
//  3. accept when any polygon edge crosses any cell edge
//  4. accept when any cell corner lies inside the polygon
func OverlapsRect(poly Polygon, bounds Rect, cell Rect, pred Predicate) bool {
	if len(poly) < 3 || !bounds.Overlaps(cell) {
		return false
	}
	if cell.Contains(bounds) {
		return true
	}
	if pred == PredicateBounds && bounds.Contains(cell) {
		return true
	}

	cellEdges := cell.Edges()
	for _, e := range poly.Edges() {
		for _, ce := range cellEdges {
			if e.Intersects(ce) {
				return true
			}
		}
	}

	for _, c := range cell.Corners() {
		if poly.Contains(c) {
			return true
		}
	}
	return false
}

// PolygonsOverlap reports whether two polygons share any area or boundary.
// It is exact for simple polygons: either their boundaries cross, or one lies
// entirely inside the other, in which case any of its vertices is inside.
func PolygonsOverlap(a, b Polygon) bool {
	if len(a) < 3 || len(b) < 3 {
		return false
	}
	if !a.Bounds().Overlaps(b.Bounds()) {
		return false
	}

	bEdges := b.Edges()
	for _, ea := range a.Edges() {
		for _, eb := range bEdges {
			if ea.Intersects(eb) {
				return true
			}
		}
	}

	return b.Contains(a[0]) || a.Contains(b[0])
}
