package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/accent-map-mcp/internal/geometry"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accent-map.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default is invalid: %v", err)
	}
	if cfg.Grid.ChunksX != 4 || cfg.Grid.ChunksY != 5 || cfg.Grid.ResolutionX != 6 {
		t.Errorf("grid: got %+v", cfg.Grid)
	}
	if cfg.Debug() {
		t.Error("Default enables debug logging")
	}
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
addr: ":9000"
view_width: 800
grid:
  chunks_x: 2
  chunks_y: 3
  resolution_x: 10
  resolution_y: 10
  predicate: exact
capture:
  capacity: 4
  tolerance: 1.5
  palette: ["#112233", "#445566"]
render:
  opacity: 0.7
  grid_color: "#FFFFFF40"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.ViewWidth != 800 {
		t.Errorf("addr/view_width: got %q/%v", cfg.Addr, cfg.ViewWidth)
	}
	if cfg.Grid.ChunksY != 3 || cfg.Grid.Predicate != geometry.PredicateExact {
		t.Errorf("grid: got %+v", cfg.Grid)
	}
	opts := cfg.Capture.Options()
	if opts.Capacity != 4 || opts.Tolerance != 1.5 || len(opts.Palette) != 2 {
		t.Errorf("capture options: got %+v", opts)
	}
	if cfg.Render.Width != 400 {
		t.Errorf("unset render.width should keep default, got %d", cfg.Render.Width)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "addr: \":9000\"\nview_width: 800\n")
	t.Setenv(EnvAddr, "127.0.0.1:7000")
	t.Setenv(EnvViewWidth, "1024")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvRecords, "/data/records.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != "127.0.0.1:7000" || cfg.ViewWidth != 1024 {
		t.Errorf("env overrides: got %q/%v", cfg.Addr, cfg.ViewWidth)
	}
	if !cfg.Debug() {
		t.Error("ACCENT_MAP_LOG_LEVEL=DEBUG did not enable debug")
	}
	if cfg.Records != "/data/records.json" {
		t.Errorf("records: got %q", cfg.Records)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvConfig, writeFile(t, "view_width: 640\n"))
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.ViewWidth != 640 {
		t.Errorf("view_width: got %v, want 640", cfg.ViewWidth)
	}
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ViewWidth != Default().ViewWidth {
		t.Errorf("view_width: got %v", cfg.ViewWidth)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		want    string
	}{
		{"unknown key", "colour: red\n", nil, "colour"},
		{"bad predicate", "grid:\n  predicate: fuzzy\n", nil, "fuzzy"},
		{"zero grid", "grid:\n  chunks_x: 0\n", nil, "chunks"},
		{"negative width", "view_width: -1\n", nil, "view_width"},
		{"bad palette", "capture:\n  palette: [\"red\"]\n", nil, "palette"},
		{"bad opacity", "render:\n  opacity: 2\n", nil, "opacity"},
		{"bad log level", "log_level: loud\n", nil, "log_level"},
		{"bad env width", "", map[string]string{EnvViewWidth: "wide"}, EnvViewWidth},
		{"NaN env width", "", map[string]string{EnvViewWidth: "NaN"}, "view_width"},
		{"infinite env width", "", map[string]string{EnvViewWidth: "+Inf"}, "view_width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeFile(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate_WrapsErrInvalid(t *testing.T) {
	cfg := Default()
	cfg.Render.Blur = -1
	if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("got %v, want ErrInvalid", err)
	}
}
