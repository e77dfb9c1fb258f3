package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	data := []byte(`
scene: three-spheres
seed: 7
width: 320
height: 160
samples: 25
maxDepth: 10
workers: 4
passes: 3
output: out/three.ppm
camera:
  eye: [1, 2, 3]
  target: [0, 0.5, -1]
  vfov: 30
  aperture: 0.1
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	expected := Config{
		Scene:    "three-spheres",
		Seed:     7,
		Width:    320,
		Height:   160,
		Samples:  25,
		MaxDepth: 10,
		Workers:  4,
		Passes:   3,
		Output:   "out/three.ppm",
		Camera: &CameraConfig{
			Eye:      []float64{1, 2, 3},
			Target:   []float64{0, 0.5, -1},
			VFov:     30,
			Aperture: 0.1,
		},
	}
	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}

	overrides, err := cfg.CameraOverrides()
	if err != nil {
		t.Fatalf("CameraOverrides: %v", err)
	}
	expectedOverrides := []geometry.CameraConfig{{
		Center:   core.NewVec3(1, 2, 3),
		LookAt:   core.NewVec3(0, 0.5, -1),
		VFov:     30,
		Aperture: 0.1,
	}}
	if diff := cmp.Diff(expectedOverrides, overrides); diff != "" {
		t.Errorf("CameraOverrides mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_DefaultsFillGaps(t *testing.T) {
	cfg, err := Parse([]byte("samples: 8\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	expected := Default()
	expected.Samples = 8
	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}

	overrides, err := cfg.CameraOverrides()
	if err != nil || overrides != nil {
		t.Errorf("Expected no overrides without a camera block, got %v, %v", overrides, err)
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Empty config should equal Default (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "scenery: ground\n"},
		{"malformed", "width: [1, 2\n"},
		{"wrong type", "width: wide\n"},
		{"zero width", "width: 0\n"},
		{"negative samples", "samples: -1\n"},
		{"negative workers", "workers: -2\n"},
		{"zero passes", "passes: 0\n"},
		{"empty scene", "scene: \"\"\n"},
		{"short eye", "camera:\n  eye: [1, 2]\n"},
		{"negative aperture", "camera:\n  aperture: -1\n"},
		{"vfov too wide", "camera:\n  vfov: 180\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Errorf("Expected error for %q, got nil", tt.data)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "render.yaml")
	if err := os.WriteFile(path, []byte("scene: ground\nwidth: 64\nheight: 32\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scene != "ground" || cfg.Width != 64 || cfg.Height != 32 {
		t.Errorf("Unexpected config: %+v", cfg)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Camera = &CameraConfig{Eye: []float64{13, 2, 3}, Focus: 10}

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(%s): %v", data, err)
	}
	if diff := cmp.Diff(cfg, parsed); diff != "" {
		t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
	}
}
