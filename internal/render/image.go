package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/accent-map-mcp/internal/geometry"
)

// DefaultWidth is the output width used when a caller leaves it unset.
const DefaultWidth = 400

// maxWidth bounds the output width.
const maxWidth = 4096

// ErrInvalidCanvas is returned when the canvas has no area.
var ErrInvalidCanvas = errors.New("invalid canvas size")

// ImageResult contains an encoded PNG.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`

	// PNG is the encoded image, for callers that serve raw bytes.
	PNG []byte `json:"-"`
}

// View describes how canvas units map to output pixels and which part of the
// canvas is kept.
type View struct {
	// Width is the output width in pixels for the whole canvas. Zero selects
	// DefaultWidth.
	Width int `json:"width,omitempty"`

	// Region, if set, crops the output to this canvas rectangle.
	Region *geometry.Rect `json:"region,omitempty"`

	// Zoom resizes the cropped output. Zero or one keeps it as is.
	Zoom float64 `json:"zoom,omitempty"`
}

// frame is a resolved View for one canvas.
type frame struct {
	w, h  int
	scale float64
}

func newFrame(canvas geometry.Size, v View) (frame, error) {
	if !canvas.Valid() {
		return frame{}, fmt.Errorf("%w: %gx%g", ErrInvalidCanvas, canvas.Width, canvas.Height)
	}
	w := v.Width
	if w <= 0 {
		w = DefaultWidth
	}
	if w > maxWidth {
		return frame{}, fmt.Errorf("output width %d exceeds %d", w, maxWidth)
	}
	scale := float64(w) / canvas.Width
	h := int(math.Round(canvas.Height * scale))
	if h < 1 {
		h = 1
	}
	return frame{w: w, h: h, scale: scale}, nil
}

// pixels maps a canvas rectangle to the pixel rectangle it covers. Rectangles
// sharing an edge in canvas units share it in pixels too.
func (f frame) pixels(r geometry.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Min.X*f.scale)),
		int(math.Floor(r.Min.Y*f.scale)),
		int(math.Floor(r.Max.X*f.scale)),
		int(math.Floor(r.Max.Y*f.scale)),
	)
}

// finish applies the View's crop and zoom, then encodes the image.
func finish(img image.Image, f frame, v View) (*ImageResult, error) {
	if v.Region != nil {
		rect := f.pixels(*v.Region).Intersect(img.Bounds())
		if rect.Empty() {
			return nil, fmt.Errorf("region %v lies outside the canvas", *v.Region)
		}
		img = imaging.Crop(img, rect)
	}
	if v.Zoom > 0 && v.Zoom != 1 {
		b := img.Bounds()
		w := int(float64(b.Dx()) * v.Zoom)
		h := int(float64(b.Dy()) * v.Zoom)
		if w < 1 || h < 1 || w > maxWidth || h > maxWidth {
			return nil, fmt.Errorf("zoom %g gives %dx%d output", v.Zoom, w, h)
		}
		img = imaging.Resize(img, w, h, imaging.NearestNeighbor)
	}
	return encode(img)
}

func encode(img image.Image) (*ImageResult, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	b := img.Bounds()
	return &ImageResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		PNG:         buf.Bytes(),
	}, nil
}

// fitBackground scales bg to the frame, or returns nil if bg is nil.
func fitBackground(bg image.Image, f frame) *image.NRGBA {
	if bg == nil {
		return nil
	}
	return imaging.Resize(bg, f.w, f.h, imaging.Lanczos)
}
