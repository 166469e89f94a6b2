// Package normalize converts polygons between the canonical coordinate space
// of the viewport they were recorded on and the viewport currently rendering
// them.
//
// The canvas always keeps a fixed aspect ratio (height = AspectRatio × width),
// so a single width-derived factor, applied from the plane's origin, maps one
// viewport onto another without distortion. There are no independent x/y
// factors: stored heights are not trusted.
//
// Every function here is pure: inputs are never mutated and results depend
// only on the arguments.
package normalize

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/accent-map-mcp/internal/geometry"
)

// AspectRatio is the canvas height as a multiple of its width.
const AspectRatio = 1.25

// ErrInvalidSize is returned when a viewport width is not a finite positive
// number.
var ErrInvalidSize = errors.New("invalid viewport size")

// ViewSize returns the canvas size for a given width.
func ViewSize(width float64) geometry.Size {
	return geometry.Size{Width: width, Height: width * AspectRatio}
}

// ScaleFactor returns view.Width / recorded.Width.
func ScaleFactor(recorded, view geometry.Size) (float64, error) {
	if !ValidWidth(recorded.Width) {
		return 0, fmt.Errorf("%w: recorded width %g", ErrInvalidSize, recorded.Width)
	}
	if !ValidWidth(view.Width) {
		return 0, fmt.Errorf("%w: view width %g", ErrInvalidSize, view.Width)
	}
	return view.Width / recorded.Width, nil
}

// ValidWidth reports whether w is usable as a viewport width: finite and
// strictly positive.
func ValidWidth(w float64) bool {
	return w > 0 && !math.IsInf(w, 0)
}

// ToView rescales a polygon recorded at size recorded so that it occupies the
// same relative position and shape at size view.
//
// Parameters:
//   - polygon: vertices in the recorded (canonical) space. Not modified.
//   - recorded: viewport size at recording time. Only Width is used.
//   - view: current viewport size. Only Width is used.
//
// Returns a new polygon, or ErrInvalidSize if either width is not positive.
func ToView(polygon geometry.Polygon, recorded, view geometry.Size) (geometry.Polygon, error) {
	s, err := ScaleFactor(recorded, view)
	if err != nil {
		return nil, err
	}
	return polygon.Scale(s), nil
}

// ToCanonical is the inverse of ToView: it maps a polygon drawn at size view
// back into the canonical space of size canonical.
func ToCanonical(polygon geometry.Polygon, view, canonical geometry.Size) (geometry.Polygon, error) {
	return ToView(polygon, view, canonical)
}

// PointToView rescales a single point, as ToView does for polygons.
func PointToView(p geometry.Point, recorded, view geometry.Size) (geometry.Point, error) {
	s, err := ScaleFactor(recorded, view)
	if err != nil {
		return geometry.Point{}, err
	}
	return p.Scale(s), nil
}
