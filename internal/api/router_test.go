package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/accent-map-mcp/internal/config"
	"github.com/ironsheep/accent-map-mcp/internal/geometry"
	"github.com/ironsheep/accent-map-mcp/internal/record"
	"github.com/ironsheep/accent-map-mcp/internal/render"
	"github.com/ironsheep/accent-map-mcp/internal/shape"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func testRecords(t *testing.T) []record.Record {
	t.Helper()
	path, err := record.EncodePath(geometry.Polygon{
		geometry.Pt(20, 20), geometry.Pt(100, 20), geometry.Pt(100, 100), geometry.Pt(20, 100),
	}, "#C4D0F5")
	if err != nil {
		t.Fatal(err)
	}
	form := shape.Metadata{
		Name:            "coast",
		Associations:    []string{"soft"},
		Correctness:     1,
		Friendliness:    1,
		Pleasantness:    1,
		Trustworthiness: 1,
	}
	return []record.Record{
		{ID: 7, CanvasSize: geometry.Size{Width: 400, Height: 500}, Canvas: []record.CanvasEntry{{Form: form, Path: path}}},
	}
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return env
}

func newRouter() *gin.Engine {
	return SetupRouter(config.Default(), render.NewImageCache())
}

func TestHealth(t *testing.T) {
	w := do(t, newRouter(), http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["status"] != "ok" {
		t.Errorf("status field: got %q", body["status"])
	}
}

func TestNoRoute(t *testing.T) {
	w := do(t, newRouter(), http.MethodGet, "/api/v1/pie", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", w.Code)
	}
	env := decode(t, w)
	if env.Code != http.StatusNotFound || env.Message != "no route for GET /api/v1/pie" {
		t.Errorf("envelope: got %d %q", env.Code, env.Message)
	}
}

func TestModes(t *testing.T) {
	w := do(t, newRouter(), http.MethodGet, "/api/v1/modes", nil)
	env := decode(t, w)
	var data struct {
		Modes []string `json:"modes"`
	}
	json.Unmarshal(env.Data, &data)
	if len(data.Modes) != 5 || data.Modes[0] != "amount" {
		t.Errorf("modes: got %v", data.Modes)
	}
}

func TestHeatmap(t *testing.T) {
	w := do(t, newRouter(), http.MethodPost, "/api/v1/heatmap", map[string]interface{}{
		"records": testRecords(t),
		"mode":    "pleasantness",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", w.Code, w.Body.String())
	}
	env := decode(t, w)
	if env.Code != 0 || env.Message != "success" {
		t.Errorf("envelope: got %d %q", env.Code, env.Message)
	}

	var data struct {
		Mode    string `json:"mode"`
		Shapes  int    `json:"shapes"`
		Summary struct {
			Cells    int `json:"cells"`
			Occupied int `json:"occupied"`
		} `json:"summary"`
		Tiles []struct {
			Count int      `json:"count"`
			Mean  *float64 `json:"mean"`
			Color string   `json:"color"`
		} `json:"tiles"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Mode != "pleasantness" || data.Shapes != 1 || data.Summary.Cells != 720 {
		t.Errorf("heatmap: got %+v", data.Summary)
	}
	if data.Summary.Occupied == 0 {
		t.Error("no occupied cells")
	}
	for _, tile := range data.Tiles {
		if tile.Count == 0 && (tile.Mean != nil || tile.Color != "#000000") {
			t.Errorf("empty tile: got mean %v colour %s", tile.Mean, tile.Color)
		}
	}
}

func TestHeatmap_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"missing records", map[string]interface{}{"mode": "amount"}},
		{"unknown mode", map[string]interface{}{"records": []record.Record{}, "mode": "loudness"}},
		{"negative view", map[string]interface{}{"records": []record.Record{}, "viewWidth": -10}},
		{"bad predicate", map[string]interface{}{"records": []record.Record{}, "grid": map[string]string{"predicate": "fuzzy"}}},
	}

	r := newRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/v1/heatmap", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400: %s", w.Code, w.Body.String())
			}
			if env := decode(t, w); env.Code != http.StatusBadRequest {
				t.Errorf("envelope code: got %d", env.Code)
			}
		})
	}
}

func TestHeatmapPNG(t *testing.T) {
	w := do(t, newRouter(), http.MethodPost, "/api/v1/heatmap.png", map[string]interface{}{
		"records":   testRecords(t),
		"width":     80,
		"gridColor": "#FFFFFF",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type: got %q", ct)
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 100 {
		t.Errorf("size: got %v, want 80x100", b)
	}
}

func TestLasso(t *testing.T) {
	r := newRouter()
	w := do(t, r, http.MethodPost, "/api/v1/lasso", map[string]interface{}{
		"records":   testRecords(t),
		"viewWidth": 800,
		"lasso":     []geometry.Point{geometry.Pt(150, 150), geometry.Pt(250, 150), geometry.Pt(150, 250)},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", w.Code, w.Body.String())
	}
	var data struct {
		Selected int `json:"selected"`
		Members  []struct {
			Origin record.Origin `json:"origin"`
			Name   string        `json:"name"`
		} `json:"members"`
	}
	json.Unmarshal(decode(t, w).Data, &data)
	if data.Selected != 1 || data.Members[0].Origin.RecordID != 7 || data.Members[0].Name != "coast" {
		t.Errorf("lasso: got %+v", data)
	}

	w = do(t, r, http.MethodPost, "/api/v1/lasso", map[string]interface{}{"records": testRecords(t)})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing lasso: got %d, want 400", w.Code)
	}
}
