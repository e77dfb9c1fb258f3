package scene

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"github.com/google/go-cmp/cmp"
)

func spheres(t *testing.T, s *Scene) []*geometry.Sphere {
	t.Helper()
	var result []*geometry.Sphere
	for _, shape := range s.World.Shapes {
		sphere, ok := shape.(*geometry.Sphere)
		if !ok {
			t.Fatalf("Expected only spheres, got %T", shape)
		}
		result = append(result, sphere)
	}
	return result
}

func TestRandomSpheresScene_Deterministic(t *testing.T) {
	a, err := NewRandomSpheresScene(7)
	if err != nil {
		t.Fatalf("NewRandomSpheresScene: %v", err)
	}
	b, err := NewRandomSpheresScene(7)
	if err != nil {
		t.Fatalf("NewRandomSpheresScene: %v", err)
	}
	c, err := NewRandomSpheresScene(8)
	if err != nil {
		t.Fatalf("NewRandomSpheresScene: %v", err)
	}

	if diff := cmp.Diff(spheres(t, a), spheres(t, b)); diff != "" {
		t.Errorf("Same seed produced different scenes (-a +b):\n%s", diff)
	}
	if cmp.Equal(spheres(t, a), spheres(t, c)) {
		t.Error("Different seeds produced identical scenes")
	}
}

func TestRandomSpheresScene_Layout(t *testing.T) {
	s, err := NewRandomSpheresScene(42)
	if err != nil {
		t.Fatalf("NewRandomSpheresScene: %v", err)
	}
	all := spheres(t, s)

	// At most 22x22 small spheres plus ground and three large ones
	if len(all) > 22*22+4 || len(all) < 4 {
		t.Fatalf("Unexpected sphere count %d", len(all))
	}

	small := all[:len(all)-4]
	keepClear := core.NewVec3(4, 0.2, 0)
	for _, sp := range small {
		if sp.Radius != 0.2 || sp.Center.Y != 0.2 {
			t.Errorf("Small sphere has unexpected shape: center %v radius %f", sp.Center, sp.Radius)
		}
		if sp.Center.Subtract(keepClear).Length() <= 0.9 {
			t.Errorf("Small sphere at %v overlaps the large metal sphere", sp.Center)
		}
		switch m := sp.Material.(type) {
		case *material.Lambertian:
			if m.Albedo.X > 1 || m.Albedo.Y > 1 || m.Albedo.Z > 1 {
				t.Errorf("Diffuse albedo out of range: %v", m.Albedo)
			}
		case *material.Metal:
			if m.Albedo.X < 0.5 || m.Fuzz > 0.5 {
				t.Errorf("Metal parameters out of range: albedo %v fuzz %f", m.Albedo, m.Fuzz)
			}
		case *material.Dielectric:
			if m.RefractiveIndex != 1.5 {
				t.Errorf("Glass index = %f, want 1.5", m.RefractiveIndex)
			}
		default:
			t.Errorf("Unexpected material %T", m)
		}
	}

	ground := all[len(all)-4]
	if ground.Radius != 1000 || !ground.Center.Equals(core.NewVec3(0, -1000, 0)) {
		t.Errorf("Unexpected ground sphere: %v r=%f", ground.Center, ground.Radius)
	}
}

func TestScene_CameraOverrides(t *testing.T) {
	override := geometry.CameraConfig{VFov: 30, Aperture: 0.5}
	s, err := NewGroundScene(override)
	if err != nil {
		t.Fatalf("NewGroundScene: %v", err)
	}

	if s.CameraConfig.VFov != 30 || s.CameraConfig.Aperture != 0.5 {
		t.Errorf("Overrides not applied: %+v", s.CameraConfig)
	}
	if !s.CameraConfig.Up.Equals(core.NewVec3(0, 1, 0)) {
		t.Errorf("Unset override fields should keep defaults, got up %v", s.CameraConfig.Up)
	}

	bad := geometry.CameraConfig{Center: core.NewVec3(0, 1, -3)}
	if _, err := NewGroundScene(bad); err == nil {
		t.Error("Expected error for camera placed on its look-at point")
	}
}

func TestScene_SetResolution(t *testing.T) {
	s, err := NewThreeSpheresScene()
	if err != nil {
		t.Fatalf("NewThreeSpheresScene: %v", err)
	}

	if err := s.SetResolution(300, 100); err != nil {
		t.Fatalf("SetResolution: %v", err)
	}
	if s.SamplingConfig.Width != 300 || s.SamplingConfig.Height != 100 {
		t.Errorf("Resolution not applied: %+v", s.SamplingConfig)
	}
	if math.Abs(s.CameraConfig.AspectRatio-3) > 1e-12 {
		t.Errorf("Expected aspect ratio 3, got %f", s.CameraConfig.AspectRatio)
	}

	if err := s.SetResolution(0, 100); err == nil {
		t.Error("Expected error for zero width")
	}
}

func TestScene_AddSphere_Validation(t *testing.T) {
	s, err := NewGroundScene()
	if err != nil {
		t.Fatalf("NewGroundScene: %v", err)
	}
	before := s.GetPrimitiveCount()

	tests := []struct {
		name   string
		radius float64
		mat    material.Material
	}{
		{"negative albedo", 1, material.NewLambertian(core.NewVec3(-1, 0, 0))},
		{"zero index", 1, material.NewDielectric(0)},
		{"zero radius", 0, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.AddSphere(core.NewVec3(0, 1, 0), tt.radius, tt.mat); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}

	if s.GetPrimitiveCount() != before {
		t.Errorf("Rejected spheres must not be added: count %d, want %d", s.GetPrimitiveCount(), before)
	}
}

func TestSamplingConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		config    SamplingConfig
		expectErr bool
	}{
		{"default", DefaultSamplingConfig(), false},
		{"zero width", SamplingConfig{Width: 0, Height: 10, SamplesPerPixel: 1, MaxDepth: 1}, true},
		{"zero samples", SamplingConfig{Width: 10, Height: 10, SamplesPerPixel: 0, MaxDepth: 1}, true},
		{"zero depth", SamplingConfig{Width: 10, Height: 10, SamplesPerPixel: 1, MaxDepth: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.expectErr {
				t.Errorf("Validate() error = %v, expectErr %t", err, tt.expectErr)
			}
		})
	}
}
