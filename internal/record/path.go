package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/accent-map-mcp/internal/geometry"
)

// ErrBadPath is returned for path strings that are not a serialized path.
var ErrBadPath = errors.New("malformed path")

// Rendering attributes written alongside the outline so that drawing clients
// reproduce the capture canvas.
const (
	strokeWidth = 5
	fillAlpha   = 0.5
)

// pathBody mirrors the attribute object of a drawing-library path export:
//
//	["Path",{"applyMatrix":true,"segments":[[x,y],...],"closed":true,...}]
//
// A segment is either a bare point [x,y] or a point with its curve handles
// [[x,y],[hx,hy],[ox,oy]]. Handles are ignored on decode; polygons are
// reconstructed from segment points only.
type pathBody struct {
	ApplyMatrix bool              `json:"applyMatrix"`
	Segments    []json.RawMessage `json:"segments"`
	Closed      bool              `json:"closed"`
	FillColor   []float64         `json:"fillColor,omitempty"`
	StrokeColor []float64         `json:"strokeColor,omitempty"`
	StrokeWidth float64           `json:"strokeWidth,omitempty"`
}

// EncodePath serializes a polygon and its stroke colour ("#RRGGBB").
// An empty or unparsable colour is omitted.
func EncodePath(poly geometry.Polygon, strokeColor string) (string, error) {
	body := pathBody{
		ApplyMatrix: true,
		Segments:    make([]json.RawMessage, 0, len(poly)),
		Closed:      true,
		StrokeWidth: strokeWidth,
	}
	for _, p := range poly {
		seg, err := json.Marshal([2]float64{p.X, p.Y})
		if err != nil {
			return "", err
		}
		body.Segments = append(body.Segments, seg)
	}
	if c, err := colorful.Hex(strokeColor); err == nil {
		body.StrokeColor = []float64{c.R, c.G, c.B}
		body.FillColor = []float64{c.R, c.G, c.B, fillAlpha}
	}

	b, err := json.Marshal([]interface{}{"Path", body})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodePath parses a serialized path into an open polygon and its stroke
// colour as "#RRGGBB" (empty if absent). A repeated closing vertex is dropped.
func DecodePath(s string) (geometry.Polygon, string, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal([]byte(s), &outer); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrBadPath, err)
	}
	if len(outer) != 2 {
		return nil, "", fmt.Errorf("%w: want [type, attributes], got %d elements", ErrBadPath, len(outer))
	}

	var kind string
	if err := json.Unmarshal(outer[0], &kind); err != nil || kind != "Path" {
		return nil, "", fmt.Errorf("%w: unsupported item type %s", ErrBadPath, outer[0])
	}

	var body pathBody
	if err := json.Unmarshal(outer[1], &body); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrBadPath, err)
	}

	poly := make(geometry.Polygon, 0, len(body.Segments))
	for i, raw := range body.Segments {
		p, err := decodeSegment(raw)
		if err != nil {
			return nil, "", fmt.Errorf("%w: segment %d: %v", ErrBadPath, i, err)
		}
		poly = append(poly, p)
	}

	return poly.Dedupe(), decodeColor(body.StrokeColor), nil
}

func decodeSegment(raw json.RawMessage) (geometry.Point, error) {
	var point []float64
	if err := json.Unmarshal(raw, &point); err == nil {
		if len(point) != 2 {
			return geometry.Point{}, fmt.Errorf("point has %d coordinates", len(point))
		}
		return geometry.Pt(point[0], point[1]), nil
	}

	var withHandles [][]float64
	if err := json.Unmarshal(raw, &withHandles); err != nil {
		return geometry.Point{}, err
	}
	if len(withHandles) == 0 || len(withHandles[0]) != 2 {
		return geometry.Point{}, errors.New("segment has no point")
	}
	return geometry.Pt(withHandles[0][0], withHandles[0][1]), nil
}

func decodeColor(c []float64) string {
	if len(c) < 3 {
		return ""
	}
	return strings.ToUpper(colorful.Color{R: c[0], G: c[1], B: c[2]}.Clamped().Hex())
}
