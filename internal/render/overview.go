package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ironsheep/accent-map-mcp/internal/geometry"
	"github.com/ironsheep/accent-map-mcp/internal/shape"
)

// Drawing attributes of the capture canvas.
const (
	fillAlpha      = 0.5
	strokeWidth    = 2.0
	highlightWidth = 4.0
)

var (
	defaultStroke  = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	highlightColor = color.NRGBA{A: 0xFF}
	labelFG        = color.NRGBA{A: 0xFF}
	labelBG        = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xB4}
)

// OverviewOptions configures Overview.
type OverviewOptions struct {
	View

	// Labels draws each shape's name at the centre of its bounding box.
	Labels bool `json:"labels,omitempty"`

	// Highlight outlines these shapes in black, above the others.
	Highlight []shape.ID `json:"highlight,omitempty"`

	// Background is drawn beneath the shapes, scaled to the output size.
	// Without one the canvas is white.
	Background image.Image `json:"-"`
}

// Overview draws shapes as they appear on the capture canvas: filled with
// their stroke colour at half opacity and outlined, later shapes on top.
//
// Parameters:
//   - shapes: polygons in the coordinate space of canvas.
//   - canvas: the canvas size the polygons are expressed in.
//   - opts: output size, crop, labels, highlighting and background.
//
// Shapes without a parsable stroke colour are drawn in grey.
func Overview(shapes []shape.Shape, canvas geometry.Size, opts OverviewOptions) (*ImageResult, error) {
	f, err := newFrame(canvas, opts.View)
	if err != nil {
		return nil, err
	}

	dst := fitBackground(opts.Background, f)
	if dst == nil {
		dst = imaging.New(f.w, f.h, color.White)
	}

	highlighted := make(map[shape.ID]bool, len(opts.Highlight))
	for _, id := range opts.Highlight {
		highlighted[id] = true
	}

	r := vector.NewRasterizer(f.w, f.h)
	for _, s := range shapes {
		if len(s.Polygon) < 3 {
			continue
		}
		stroke, err := ParseHexColor(s.StrokeColor)
		if err != nil {
			stroke = defaultStroke
		}
		poly := s.Polygon.Scale(f.scale)

		fillPolygon(r, dst, poly, withAlpha(stroke, fillAlpha))
		strokePolygon(r, dst, poly, strokeWidth, stroke)
	}
	for _, s := range shapes {
		if highlighted[s.ID] && len(s.Polygon) >= 3 {
			strokePolygon(r, dst, s.Polygon.Scale(f.scale), highlightWidth, highlightColor)
		}
	}

	if opts.Labels {
		for _, s := range shapes {
			if s.Metadata.Name == "" || len(s.Polygon) < 3 {
				continue
			}
			c := s.Polygon.Bounds().Center().Scale(f.scale)
			drawLabel(dst, c, s.Metadata.Name)
		}
	}

	return finish(dst, f, opts.View)
}

func fillPolygon(r *vector.Rasterizer, dst draw.Image, poly geometry.Polygon, c color.Color) {
	b := dst.Bounds()
	r.Reset(b.Dx(), b.Dy())
	r.MoveTo(float32(poly[0].X), float32(poly[0].Y))
	for _, p := range poly[1:] {
		r.LineTo(float32(p.X), float32(p.Y))
	}
	r.ClosePath()
	r.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// strokePolygon draws every edge, including the closing one, as a quad of the
// given width centred on the edge.
func strokePolygon(r *vector.Rasterizer, dst draw.Image, poly geometry.Polygon, width float64, c color.Color) {
	b := dst.Bounds()
	r.Reset(b.Dx(), b.Dy())
	for _, e := range poly.Edges() {
		dx, dy := e.B.X-e.A.X, e.B.Y-e.A.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*width/2, dx/length*width/2
		r.MoveTo(float32(e.A.X+nx), float32(e.A.Y+ny))
		r.LineTo(float32(e.B.X+nx), float32(e.B.Y+ny))
		r.LineTo(float32(e.B.X-nx), float32(e.B.Y-ny))
		r.LineTo(float32(e.A.X-nx), float32(e.A.Y-ny))
		r.ClosePath()
	}
	r.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// drawLabel writes text centred on at over a translucent backdrop.
func drawLabel(dst draw.Image, at geometry.Point, text string) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()
	ascent, descent := metrics.Ascent.Ceil(), metrics.Descent.Ceil()

	x := int(math.Round(at.X)) - width/2
	baseline := int(math.Round(at.Y)) + (ascent-descent)/2

	backdrop := image.Rect(x-2, baseline-ascent-1, x+width+2, baseline+descent+1)
	draw.Draw(dst, backdrop.Intersect(dst.Bounds()), image.NewUniform(labelBG), image.Point{}, draw.Over)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelFG),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(text)
}
