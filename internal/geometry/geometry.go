package geometry

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// Point is a position on the canvas plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Scale multiplies both coordinates by s, scaling from the plane's origin.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// ApproxEqual reports whether p and q differ by at most eps on each axis.
func (p Point) ApproxEqual(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

func (p Point) r2() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

func fromR2(p r2.Point) Point {
	return Point{X: p.X, Y: p.Y}
}

// Size is the extent of a viewport or canvas.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Valid reports whether both dimensions are strictly positive and finite.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0 && !math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0)
}

// Rect returns the rectangle spanning (0,0) to (Width,Height).
func (s Size) Rect() Rect {
	return Rect{Max: Point{X: s.Width, Y: s.Height}}
}

// Rect is an axis-aligned rectangle. Min is the top-left corner and Max the
// bottom-right corner; both edges are part of the rectangle.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// R builds a rectangle from two opposite corners in any order.
func R(x0, y0, x1, y1 float64) Rect {
	return fromR2Rect(r2.RectFromPoints(r2.Point{X: x0, Y: y0}, r2.Point{X: x1, Y: y1}))
}

func (r Rect) r2() r2.Rect {
	return r2.RectFromPoints(r.Min.r2(), r.Max.r2())
}

func fromR2Rect(r r2.Rect) Rect {
	return Rect{Min: fromR2(r.Lo()), Max: fromR2(r.Hi())}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Area returns Width × Height.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point { return fromR2(r.r2().Center()) }

// Empty reports whether the rectangle encloses no area.
func (r Rect) Empty() bool {
	return !(r.Max.X > r.Min.X && r.Max.Y > r.Min.Y)
}

// Contains reports whether o lies entirely within r, edges included.
func (r Rect) Contains(o Rect) bool {
	return r.r2().Contains(o.r2())
}

// ContainsPoint reports whether p lies within r, edges included.
func (r Rect) ContainsPoint(p Point) bool {
	return r.r2().ContainsPoint(p.r2())
}

// Overlaps reports whether the interiors of r and o intersect. Rectangles that
// only share an edge do not overlap, so adjacent grid cells never both claim a
// shape that merely touches their common border.
func (r Rect) Overlaps(o Rect) bool {
	return r.r2().InteriorIntersects(o.r2())
}

// Corners returns the four corners in the order top-left, top-right,
// bottom-right, bottom-left.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	}
}

// Edges returns the four sides as segments following Corners.
func (r Rect) Edges() [4]Segment {
	c := r.Corners()
	return [4]Segment{{c[0], c[1]}, {c[1], c[2]}, {c[2], c[3]}, {c[3], c[0]}}
}

// BoundsOf returns the smallest rectangle containing every point. The zero
// Rect is returned for an empty slice.
func BoundsOf(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	b := r2.EmptyRect()
	for _, p := range points {
		b = b.AddPoint(p.r2())
	}
	return fromR2Rect(b)
}

// Segment is a straight line between two points.
type Segment struct {
	A Point
	B Point
}

// orientation returns the sign of the cross product (b-a)×(c-a): positive for
// a counter-clockwise turn, negative for clockwise, zero when collinear.
func orientation(a, b, c Point) int {
	v := b.r2().Sub(a.r2()).Cross(c.r2().Sub(a.r2()))
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// onSegment reports whether collinear point p lies within the bounding box of s.
func onSegment(s Segment, p Point) bool {
	return math.Min(s.A.X, s.B.X) <= p.X && p.X <= math.Max(s.A.X, s.B.X) &&
		math.Min(s.A.Y, s.B.Y) <= p.Y && p.Y <= math.Max(s.A.Y, s.B.Y)
}

// Intersects reports whether two segments share at least one point, including
// touching endpoints and collinear overlap.
func (s Segment) Intersects(o Segment) bool {
	o1 := orientation(s.A, s.B, o.A)
	o2 := orientation(s.A, s.B, o.B)
	o3 := orientation(o.A, o.B, s.A)
	o4 := orientation(o.A, o.B, s.B)

	if o1 != o2 && o3 != o4 {
		return true
	}

	switch {
	case o1 == 0 && onSegment(s, o.A):
		return true
	case o2 == 0 && onSegment(s, o.B):
		return true
	case o3 == 0 && onSegment(o, s.A):
		return true
	case o4 == 0 && onSegment(o, s.B):
		return true
	}
	return false
}
