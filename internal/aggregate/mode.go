package aggregate

import (
	"fmt"
	"strings"

	"github.com/ironsheep/accent-map-mcp/internal/shape"
)

// Mode selects what a heatmap colour encodes. It is a closed set: Amount or
// ByMetric.
type Mode interface {
	fmt.Stringer
	isMode()
}

// Amount colours a cell by how many shapes overlap it.
type Amount struct{}

func (Amount) isMode()        {}
func (Amount) String() string { return "amount" }

// ByMetric colours a cell by the mean of one rating scale over the shapes that
// overlap it, weighted in brightness by how many carried a rating.
type ByMetric struct {
	Metric shape.Metric
}

func (ByMetric) isMode()          {}
func (m ByMetric) String() string { return m.Metric.String() }

// ParseMode accepts "amount" or a metric name.
func ParseMode(s string) (Mode, error) {
	if strings.EqualFold(strings.TrimSpace(s), "amount") {
		return Amount{}, nil
	}
	m, err := shape.ParseMetric(s)
	if err != nil {
		return nil, fmt.Errorf("unknown mode %q: want amount or one of %s", s, metricNames())
	}
	return ByMetric{Metric: m}, nil
}

// Modes lists every mode in display order.
func Modes() []Mode {
	out := []Mode{Amount{}}
	for _, m := range shape.Metrics() {
		out = append(out, ByMetric{Metric: m})
	}
	return out
}

func metricNames() string {
	names := make([]string, 0, 4)
	for _, m := range shape.Metrics() {
		names = append(names, m.String())
	}
	return strings.Join(names, ", ")
}
