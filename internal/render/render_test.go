package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ironsheep/accent-map-mcp/internal/aggregate"
	"github.com/ironsheep/accent-map-mcp/internal/geometry"
	"github.com/ironsheep/accent-map-mcp/internal/grid"
	"github.com/ironsheep/accent-map-mcp/internal/shape"
)

var canvas = geometry.Size{Width: 100, Height: 125}

// createInMemoryImage creates a uniformly coloured image.
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func decode(t *testing.T, res *ImageResult) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	if !bytes.Equal(raw, res.PNG) {
		t.Error("ImageBase64 and PNG differ")
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	return img
}

func rgbAt(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

// twoByTwo returns four tiles over canvas: red, green, blue, white.
func twoByTwo(t *testing.T) []aggregate.Tile {
	t.Helper()
	cells, err := grid.Build(canvas.Rect(), nil, grid.Config{ChunksX: 1, ChunksY: 1, ResolutionX: 2, ResolutionY: 2})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	colors := []color.RGBA{
		{R: 255, A: 255}, {G: 255, A: 255}, {B: 255, A: 255}, {R: 255, G: 255, B: 255, A: 255},
	}
	tiles := make([]aggregate.Tile, len(cells))
	for i, c := range cells {
		tiles[i] = aggregate.Tile{Index: c.Index, Row: c.Row, Col: c.Col, Bounds: c.Bounds, Color: colors[i]}
	}
	return tiles
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		hex  string
		hsl  HSLColor
	}{
		{"red", color.RGBA{255, 0, 0, 255}, "#FF0000", HSLColor{0, 100, 50}},
		{"blue", color.RGBA{0, 0, 255, 255}, "#0000FF", HSLColor{240, 100, 50}},
		{"grey", color.RGBA{128, 128, 128, 255}, "#808080", HSLColor{0, 0, 50}},
		{"black", color.RGBA{0, 0, 0, 255}, "#000000", HSLColor{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.c)
			if got.Hex != tt.hex {
				t.Errorf("Hex: got %s, want %s", got.Hex, tt.hex)
			}
			if got.HSL != tt.hsl {
				t.Errorf("HSL: got %+v, want %+v", got.HSL, tt.hsl)
			}
			if got.RGBA.A != 255 {
				t.Errorf("alpha: got %d, want 255", got.RGBA.A)
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#FF0000", color.NRGBA{255, 0, 0, 255}, false},
		{"00ff0080", color.NRGBA{0, 255, 0, 128}, false},
		{"#FFC6BC", color.NRGBA{0xFF, 0xC6, 0xBC, 255}, false},
		{"", color.NRGBA{}, true},
		{"#FFF", color.NRGBA{}, true},
		{"#GGGGGG", color.NRGBA{}, true},
		{"#FF0000ZZ", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHeatmap_PaintsCells(t *testing.T) {
	res, err := Heatmap(twoByTwo(t), canvas, HeatmapOptions{View: View{Width: 100}})
	if err != nil {
		t.Fatalf("Heatmap failed: %v", err)
	}
	if res.Width != 100 || res.Height != 125 {
		t.Errorf("dimensions: got %dx%d, want 100x125", res.Width, res.Height)
	}
	if res.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", res.MimeType)
	}

	img := decode(t, res)
	checks := []struct {
		x, y    int
		r, g, b uint8
	}{
		{10, 10, 255, 0, 0},
		{90, 10, 0, 255, 0},
		{10, 120, 0, 0, 255},
		{90, 120, 255, 255, 255},
	}
	for _, c := range checks {
		r, g, b := rgbAt(img, c.x, c.y)
		if r != c.r || g != c.g || b != c.b {
			t.Errorf("pixel (%d,%d): got (%d,%d,%d), want (%d,%d,%d)", c.x, c.y, r, g, b, c.r, c.g, c.b)
		}
	}
}

func TestHeatmap_GridLines(t *testing.T) {
	res, err := Heatmap(twoByTwo(t), canvas, HeatmapOptions{View: View{Width: 100}, GridColor: "#FFFF00"})
	if err != nil {
		t.Fatalf("Heatmap failed: %v", err)
	}
	img := decode(t, res)

	if r, g, b := rgbAt(img, 50, 20); r != 255 || g != 255 || b != 0 {
		t.Errorf("vertical line at (50,20): got (%d,%d,%d), want yellow", r, g, b)
	}
	if r, g, b := rgbAt(img, 20, 62); r != 255 || g != 255 || b != 0 {
		t.Errorf("horizontal line at (20,62): got (%d,%d,%d), want yellow", r, g, b)
	}
	if r, g, b := rgbAt(img, 0, 20); r != 255 || g != 0 || b != 0 {
		t.Errorf("border at (0,20) should stay red, got (%d,%d,%d)", r, g, b)
	}
}

func TestHeatmap_BadGridColorIsIgnored(t *testing.T) {
	if _, err := Heatmap(twoByTwo(t), canvas, HeatmapOptions{GridColor: "nope"}); err != nil {
		t.Errorf("Heatmap failed: %v", err)
	}
}

func TestHeatmap_Background(t *testing.T) {
	bg := createInMemoryImage(50, 50, color.RGBA{0, 0, 0, 255})
	res, err := Heatmap(twoByTwo(t), canvas, HeatmapOptions{
		View:       View{Width: 100},
		Opacity:    0.5,
		Background: bg,
	})
	if err != nil {
		t.Fatalf("Heatmap failed: %v", err)
	}
	img := decode(t, res)

	r, g, b := rgbAt(img, 10, 10)
	if r < 120 || r > 135 || g != 0 || b != 0 {
		t.Errorf("half-opaque red over black: got (%d,%d,%d), want about (128,0,0)", r, g, b)
	}
}

func TestHeatmap_BlurSoftensEdges(t *testing.T) {
	res, err := Heatmap(twoByTwo(t), canvas, HeatmapOptions{View: View{Width: 100}, Blur: 4})
	if err != nil {
		t.Fatalf("Heatmap failed: %v", err)
	}
	img := decode(t, res)

	r, g, _ := rgbAt(img, 49, 30)
	if r == 255 && g == 0 {
		t.Error("pixel next to the red/green boundary is unchanged by blur")
	}
	if r, g, b := rgbAt(img, 10, 10); r < 250 || g > 5 || b > 5 {
		t.Errorf("cell interior changed by blur: got (%d,%d,%d)", r, g, b)
	}
}

func TestHeatmap_RegionAndZoom(t *testing.T) {
	region := geometry.R(50, 0, 100, 62.5)
	res, err := Heatmap(twoByTwo(t), canvas, HeatmapOptions{View: View{Width: 100, Region: &region, Zoom: 2}})
	if err != nil {
		t.Fatalf("Heatmap failed: %v", err)
	}
	if res.Width != 100 || res.Height != 124 {
		t.Errorf("dimensions: got %dx%d, want 100x124", res.Width, res.Height)
	}
	img := decode(t, res)
	if r, g, b := rgbAt(img, 50, 50); r != 0 || g != 255 || b != 0 {
		t.Errorf("cropped pixel: got (%d,%d,%d), want green", r, g, b)
	}

	outside := geometry.R(500, 500, 600, 600)
	if _, err := Heatmap(twoByTwo(t), canvas, HeatmapOptions{View: View{Region: &outside}}); err == nil {
		t.Error("expected error for region outside the canvas")
	}
}

func TestHeatmap_InvalidCanvas(t *testing.T) {
	_, err := Heatmap(nil, geometry.Size{}, HeatmapOptions{})
	if !errors.Is(err, ErrInvalidCanvas) {
		t.Errorf("got %v, want ErrInvalidCanvas", err)
	}
	if _, err := Heatmap(nil, canvas, HeatmapOptions{View: View{Width: maxWidth + 1}}); err == nil {
		t.Error("expected error for oversized output")
	}
}

func TestOverview(t *testing.T) {
	shapes := []shape.Shape{
		{
			ID:          0,
			Polygon:     geometry.Polygon{geometry.Pt(10, 10), geometry.Pt(90, 10), geometry.Pt(90, 60), geometry.Pt(10, 60)},
			StrokeColor: "#0000FF",
			Metadata:    shape.Metadata{Name: "Brummie"},
		},
		{
			ID:          1,
			Polygon:     geometry.Polygon{geometry.Pt(10, 80), geometry.Pt(40, 80), geometry.Pt(10, 110)},
			StrokeColor: "",
		},
	}

	res, err := Overview(shapes, canvas, OverviewOptions{View: View{Width: 100}, Labels: true, Highlight: []shape.ID{1}})
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	img := decode(t, res)

	// Half-opaque blue over white.
	if r, g, b := rgbAt(img, 20, 20); b != 255 || r < 120 || r > 135 || g < 120 || g > 135 {
		t.Errorf("fill at (20,20): got (%d,%d,%d), want about (128,128,255)", r, g, b)
	}
	if r, g, b := rgbAt(img, 95, 120); r != 255 || g != 255 || b != 255 {
		t.Errorf("empty canvas at (95,120): got (%d,%d,%d), want white", r, g, b)
	}
	if r, g, b := rgbAt(img, 10, 95); r > 10 || g > 10 || b > 10 {
		t.Errorf("highlight edge at (10,95): got (%d,%d,%d), want black", r, g, b)
	}

	// The label backdrop lightens the fill at the bounding-box centre.
	unlabelled, _ := Overview(shapes, canvas, OverviewOptions{View: View{Width: 100}})
	if bytes.Equal(unlabelled.PNG, res.PNG) {
		t.Error("labels and highlight made no difference")
	}
}

func TestImageCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, createInMemoryImage(8, 10, color.White)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cache := NewImageCache()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				t.Errorf("Load failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
	img, _ := cache.Load(path)
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 10 {
		t.Errorf("bounds: got %v", img.Bounds())
	}

	cache.Evict(path)
	if cache.Len() != 0 {
		t.Errorf("Len after Evict: got %d, want 0", cache.Len())
	}

	if _, err := cache.Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}
