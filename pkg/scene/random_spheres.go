package scene

import (
	"math/rand"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"golang.org/x/xerrors"
)

// NewRandomSpheresScene creates the classic field of small random spheres
// around three large ones. The same seed always yields the same layout.
func NewRandomSpheresScene(seed int64, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		AspectRatio:   2.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	s, err := newScene(defaultCameraConfig, cameraOverrides)
	if err != nil {
		return nil, xerrors.Errorf("while creating random spheres scene: %w", err)
	}

	random := rand.New(rand.NewSource(seed))
	keepClear := core.NewVec3(4, 0.2, 0)

	for a := 10; a >= -11; a-- {
		for b := 10; b >= -11; b-- {
			chooseMat := random.Float64()
			center := core.NewVec3(
				float64(a)+0.9*random.Float64(),
				0.2,
				float64(b)+0.9*random.Float64(),
			)

			// Leave room around the large metal sphere
			if center.Subtract(keepClear).Length() <= 0.9 {
				continue
			}

			var mat material.Material
			switch {
			case chooseMat < 0.8:
				albedo := core.NewVec3(
					random.Float64()*random.Float64(),
					random.Float64()*random.Float64(),
					random.Float64()*random.Float64(),
				)
				mat = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				albedo := core.NewVec3(
					0.5*(1+random.Float64()),
					0.5*(1+random.Float64()),
					0.5*(1+random.Float64()),
				)
				mat = material.NewMetal(albedo, 0.5*random.Float64())
			default:
				mat = material.NewDielectric(1.5)
			}

			if err := s.AddSphere(center, 0.2, mat); err != nil {
				return nil, xerrors.Errorf("while creating random spheres scene: %w", err)
			}
		}
	}

	large := []struct {
		center core.Vec3
		radius float64
		mat    material.Material
	}{
		{core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))},
		{core.NewVec3(0, 1, 0), 1, material.NewDielectric(1.5)},
		{core.NewVec3(-4, 1, 0), 1, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))},
		{core.NewVec3(4, 1, 0), 1, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)},
	}
	for _, sp := range large {
		if err := s.AddSphere(sp.center, sp.radius, sp.mat); err != nil {
			return nil, xerrors.Errorf("while creating random spheres scene: %w", err)
		}
	}

	return s, nil
}
