package review

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/accent-map-mcp/internal/aggregate"
	"github.com/ironsheep/accent-map-mcp/internal/geometry"
	"github.com/ironsheep/accent-map-mcp/internal/grid"
	"github.com/ironsheep/accent-map-mcp/internal/normalize"
	"github.com/ironsheep/accent-map-mcp/internal/record"
	"github.com/ironsheep/accent-map-mcp/internal/shape"
)

func entry(t *testing.T, name string, friendliness int, poly geometry.Polygon) record.CanvasEntry {
	t.Helper()
	path, err := record.EncodePath(poly, "#FF0000")
	if err != nil {
		t.Fatalf("EncodePath failed: %v", err)
	}
	return record.CanvasEntry{
		Form: shape.Metadata{
			Name:            name,
			Associations:    []string{"warm"},
			Correctness:     3,
			Friendliness:    friendliness,
			Pleasantness:    3,
			Trustworthiness: 3,
		},
		Path: path,
	}
}

func triangle(x, y float64) geometry.Polygon {
	return geometry.Polygon{geometry.Pt(x, y), geometry.Pt(x+8, y), geometry.Pt(x, y+8)}
}

// testRecords holds three respondents on a 400x500 canvas, each with one
// small triangle near the origin, plus one respondent far away.
func testRecords(t *testing.T) []record.Record {
	size := geometry.Size{Width: 400, Height: 500}
	return []record.Record{
		{ID: 1, CanvasSize: size, PersonalInformation: record.PersonalInformation{Age: "18-25", Gender: "female"},
			Canvas: []record.CanvasEntry{entry(t, "north", 1, triangle(2, 2))}},
		{ID: 2, CanvasSize: size, PersonalInformation: record.PersonalInformation{Age: "26-35", Gender: "male"},
			Canvas: []record.CanvasEntry{entry(t, "north", 3, triangle(3, 2))}},
		{ID: 3, CanvasSize: size, PersonalInformation: record.PersonalInformation{Age: "18-25", Gender: "male"},
			Canvas: []record.CanvasEntry{entry(t, "north", 5, triangle(4, 2))}},
		{ID: 4, CanvasSize: size, PersonalInformation: record.PersonalInformation{Age: "36-45", Gender: "female"},
			Canvas: []record.CanvasEntry{entry(t, "south", 2, triangle(380, 480))}},
	}
}

func TestAnalyze_CellReport(t *testing.T) {
	a, err := Analyze(testRecords(t), Query{ViewWidth: 800, Grid: grid.DefaultConfig()})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if a.View != normalize.ViewSize(800) {
		t.Errorf("View: got %v", a.View)
	}
	if a.Population.Len() != 4 || a.Records != 4 {
		t.Fatalf("population: got %d shapes from %d records", a.Population.Len(), a.Records)
	}
	if len(a.Cells) != 24*30 {
		t.Fatalf("cells: got %d, want %d", len(a.Cells), 24*30)
	}

	report, err := a.Cell(aggregate.ByMetric{Metric: shape.Friendliness}, geometry.Pt(10, 10))
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}
	if report.Index != 0 || report.Count != 3 {
		t.Errorf("cell: got index %d count %d, want 0 and 3", report.Index, report.Count)
	}
	if got := report.Means["friendliness"]; got != 3 {
		t.Errorf("friendliness mean: got %v, want 3", got)
	}
	if report.NoData {
		t.Error("occupied cell reported as no data")
	}
	if report.Mode != "friendliness" {
		t.Errorf("Mode: got %q", report.Mode)
	}
	for i, m := range report.Members {
		if m.Origin.RecordID != i+1 || m.Name != "north" {
			t.Errorf("member %d: got %+v", i, m)
		}
	}

	empty, err := a.Cell(aggregate.ByMetric{Metric: shape.Friendliness}, geometry.Pt(400, 400))
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}
	if !empty.NoData || empty.Count != 0 {
		t.Errorf("empty cell: got %+v", empty)
	}
	if empty.Color.Hex != "#000000" {
		t.Errorf("empty cell colour: got %s, want #000000", empty.Color.Hex)
	}

	if _, err := a.Cell(aggregate.Amount{}, geometry.Pt(-1, 10)); err == nil {
		t.Error("expected error for a point off the canvas")
	}
}

func TestAnalyze_Filter(t *testing.T) {
	q := Query{
		ViewWidth: 400,
		Grid:      grid.DefaultConfig(),
		Filter:    record.Filter{Age: []string{"18-25"}},
	}
	a, err := Analyze(testRecords(t), q)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if a.Records != 2 || a.Population.Len() != 2 {
		t.Fatalf("filtered: got %d records and %d shapes, want 2 and 2", a.Records, a.Population.Len())
	}

	tiles := a.Heatmap(aggregate.Amount{})
	if tiles[0].Count != 2 {
		t.Errorf("cell 0 count: got %d, want 2", tiles[0].Count)
	}
	if s := aggregate.Summarize(tiles); s.Occupied != 1 {
		t.Errorf("occupied: got %d, want 1", s.Occupied)
	}
}

func TestAnalyze_Lasso(t *testing.T) {
	a, err := Analyze(testRecords(t), Query{ViewWidth: 400, Grid: grid.DefaultConfig()})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	got := a.Lasso(geometry.Polygon{
		geometry.Pt(350, 450), geometry.Pt(400, 450), geometry.Pt(400, 500), geometry.Pt(350, 500),
	})
	if len(got) != 1 || got[0].Origin.RecordID != 4 || got[0].Name != "south" {
		t.Errorf("south lasso: got %+v", got)
	}

	if got := a.Lasso(geometry.Polygon{geometry.Pt(0, 0), geometry.Pt(1, 1)}); len(got) != 0 {
		t.Errorf("degenerate lasso: got %+v", got)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	if _, err := Analyze(nil, Query{ViewWidth: 0, Grid: grid.DefaultConfig()}); !errors.Is(err, normalize.ErrInvalidSize) {
		t.Errorf("zero width: got %v, want ErrInvalidSize", err)
	}
	if _, err := Analyze(nil, Query{ViewWidth: 400}); !errors.Is(err, grid.ErrInvalidConfig) {
		t.Errorf("zero grid: got %v, want ErrInvalidConfig", err)
	}
}

func TestDataset(t *testing.T) {
	d := NewDataset()
	if _, err := d.Analyze(Query{ViewWidth: 400, Grid: grid.DefaultConfig()}); !errors.Is(err, ErrNoRecords) {
		t.Fatalf("empty dataset: got %v, want ErrNoRecords", err)
	}

	n, err := d.LoadReader(strings.NewReader(`[]`), "inline")
	if err != nil || n != 0 {
		t.Fatalf("LoadReader: got %d, %v", n, err)
	}
	a, err := d.Analyze(Query{ViewWidth: 400, Grid: grid.DefaultConfig()})
	if err != nil {
		t.Fatalf("Analyze over empty record set failed: %v", err)
	}
	if a.Population.Len() != 0 {
		t.Errorf("population: got %d", a.Population.Len())
	}

	path := filepath.Join(t.TempDir(), "records.json")
	if err := os.WriteFile(path, []byte(`not json`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := d.LoadFile(path); err == nil {
		t.Error("expected error for malformed records file")
	}
	if _, src := d.Records(); src != "inline" {
		t.Errorf("failed load replaced the dataset: source %q", src)
	}
}
