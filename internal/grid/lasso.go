package grid

import (
	"github.com/ironsheep/accent-map-mcp/internal/geometry"
	"github.com/ironsheep/accent-map-mcp/internal/shape"
)

// QueryLasso returns the IDs of every shape that overlaps the lasso polygon,
// in input order. The test is exact: a concave shape whose bounding box
// covers the lasso but whose area does not is not selected, which keeps the
// result monotonic as the lasso grows.
//
// A degenerate lasso selects nothing.
func QueryLasso(lasso geometry.Polygon, shapes []shape.Shape) []shape.ID {
	lasso = lasso.Dedupe()
	if lasso.Degenerate() {
		return nil
	}

	var ids []shape.ID
	for _, s := range shapes {
		if geometry.PolygonsOverlap(lasso, s.Polygon) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
