// Package shape defines annotated polygons and the bounded, ordered store a
// single respondent session commits them to.
package shape

import (
	"fmt"
	"strings"

	"github.com/ironsheep/accent-map-mcp/internal/geometry"
)

// ID identifies a shape for the lifetime of the store that issued it.
type ID int

// Metric is one of the four 1–5 rating scales attached to every shape.
type Metric int

const (
	Correctness Metric = iota
	Friendliness
	Pleasantness
	Trustworthiness
)

// Metrics lists every rating scale in display order.
func Metrics() []Metric {
	return []Metric{Correctness, Friendliness, Pleasantness, Trustworthiness}
}

func (m Metric) String() string {
	switch m {
	case Correctness:
		return "correctness"
	case Friendliness:
		return "friendliness"
	case Pleasantness:
		return "pleasantness"
	case Trustworthiness:
		return "trustworthiness"
	}
	return fmt.Sprintf("metric(%d)", int(m))
}

// ParseMetric maps a scale name to its Metric.
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics() {
		if strings.EqualFold(strings.TrimSpace(s), m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q", s)
}

// Rating bounds for every metric.
const (
	MinRating = 1
	MaxRating = 5
)

// Bounds on the number of associations a shape carries.
const (
	MinAssociations = 1
	MaxAssociations = 5
)

// Metadata is the questionnaire attached to a drawn area.
type Metadata struct {
	Name            string   `json:"name"`
	SoundExample    string   `json:"soundExample,omitempty"`
	Associations    []string `json:"associations"`
	Correctness     int      `json:"correctness"`
	Friendliness    int      `json:"friendliness"`
	Pleasantness    int      `json:"pleasantness"`
	Trustworthiness int      `json:"trustworthiness"`
}

// Rating returns the value recorded for m, or 0 if m is unknown.
func (md Metadata) Rating(m Metric) int {
	switch m {
	case Correctness:
		return md.Correctness
	case Friendliness:
		return md.Friendliness
	case Pleasantness:
		return md.Pleasantness
	case Trustworthiness:
		return md.Trustworthiness
	}
	return 0
}

// Clone returns a deep copy.
func (md Metadata) Clone() Metadata {
	out := md
	if md.Associations != nil {
		out.Associations = append([]string(nil), md.Associations...)
	}
	return out
}

// Shape is a committed annotation. Polygon is in the canonical coordinate space
// of the session that recorded it unless a caller states otherwise.
type Shape struct {
	ID          ID               `json:"id"`
	Polygon     geometry.Polygon `json:"polygon"`
	StrokeColor string           `json:"strokeColor"`
	Metadata    Metadata         `json:"metadata"`
}

// Clone returns a deep copy.
func (s Shape) Clone() Shape {
	return Shape{
		ID:          s.ID,
		Polygon:     s.Polygon.Clone(),
		StrokeColor: s.StrokeColor,
		Metadata:    s.Metadata.Clone(),
	}
}
