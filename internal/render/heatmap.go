package render

import (
	"image"
	"image/color"
	"image/draw"
	"log"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/accent-map-mcp/internal/aggregate"
	"github.com/ironsheep/accent-map-mcp/internal/geometry"
)

// HeatmapOptions configures Heatmap.
type HeatmapOptions struct {
	View

	// Opacity of the cell colours over the background, 0-1. Zero selects 1,
	// or 0.6 when a background is set.
	Opacity float64 `json:"opacity,omitempty"`

	// Blur is the Gaussian smoothing radius in pixels. Zero disables it.
	Blur float64 `json:"blur,omitempty"`

	// GridColor draws cell boundaries in this colour ("#RRGGBB" or
	// "#RRGGBBAA"). Empty draws none.
	GridColor string `json:"grid_color,omitempty"`

	// Background is drawn beneath the cells, scaled to the output size.
	Background image.Image `json:"-"`
}

// Heatmap paints each tile's colour over its cell.
//
// Parameters:
//   - tiles: aggregated cells; together they should tile the canvas.
//   - canvas: the canvas the cells were built over.
//   - opts: output size, crop, smoothing, grid lines and background.
//
// Returns the encoded image, or an error for an invalid canvas or output size.
// An unparsable GridColor is logged and grid lines are skipped.
func Heatmap(tiles []aggregate.Tile, canvas geometry.Size, opts HeatmapOptions) (*ImageResult, error) {
	f, err := newFrame(canvas, opts.View)
	if err != nil {
		return nil, err
	}

	opacity := opts.Opacity
	if opacity <= 0 {
		opacity = 1
		if opts.Background != nil {
			opacity = 0.6
		}
	}

	var heat image.Image
	layer := imaging.New(f.w, f.h, color.NRGBA{})
	for _, t := range tiles {
		draw.Draw(layer, f.pixels(t.Bounds), image.NewUniform(withAlpha(t.Color, opacity)), image.Point{}, draw.Src)
	}
	heat = layer
	if opts.Blur > 0 {
		heat = blur.Gaussian(layer, opts.Blur)
	}

	var out *image.NRGBA
	if bg := fitBackground(opts.Background, f); bg != nil {
		out = imaging.Overlay(bg, heat, image.Point{}, 1)
	} else {
		out = imaging.Clone(heat)
	}

	if opts.GridColor != "" {
		lineColor, err := ParseHexColor(opts.GridColor)
		if err != nil {
			log.Printf("[render] ignoring grid colour %q: %v", opts.GridColor, err)
		} else {
			drawCellLines(out, tiles, f, lineColor)
		}
	}

	return finish(out, f, opts.View)
}

// drawCellLines draws the left and top edge of every cell not on the canvas
// border.
func drawCellLines(img draw.Image, tiles []aggregate.Tile, f frame, c color.Color) {
	for _, t := range tiles {
		r := f.pixels(t.Bounds)
		if t.Col > 0 {
			for y := r.Min.Y; y < r.Max.Y; y++ {
				img.Set(r.Min.X, y, c)
			}
		}
		if t.Row > 0 {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.Set(x, r.Min.Y, c)
			}
		}
	}
}
