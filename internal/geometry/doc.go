// Package geometry provides the planar primitives shared by the capture, grid
// and aggregation layers.
//
// The canvas is an abstract plane with its origin at the top-left corner,
// X increasing rightward and Y increasing downward. Nothing in this package
// knows about geographic coordinates.
//
// # Polygons
//
// A Polygon is stored open: the closing edge from the last vertex back to the
// first is implicit and the first vertex is never repeated at the end. Close
// produces the explicit closed form used while simplifying a freehand stroke.
//
// # Overlap Predicates
//
// Two predicates decide whether a polygon overlaps a rectangular cell:
//
//   - PredicateBounds: the permissive test used by the heatmap. A cell whose
//     rectangle lies inside the polygon's bounding box is accepted without
//     looking at the polygon itself, which over-selects in the notches of
//     concave polygons.
//   - PredicateExact: drops that shortcut and only accepts on a real boundary
//     crossing, a cell corner inside the polygon, or the polygon lying inside
//     the cell.
//
// Rectangle maths is delegated to github.com/golang/geo/r2 and line
// simplification to github.com/paulmach/orb.
package geometry
