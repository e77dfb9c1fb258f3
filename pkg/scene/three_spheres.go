package scene

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"golang.org/x/xerrors"
)

// NewThreeSpheresScene creates a diffuse sphere flanked by metal and glass
// over a large ground sphere, plus a hollow glass bubble in front.
func NewThreeSpheresScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 0.75, 2),
		LookAt:      core.NewVec3(0, 0.5, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40.0,
		AspectRatio: 2.0,
		Aperture:    0.05,
	}

	s, err := newScene(defaultCameraConfig, cameraOverrides)
	if err != nil {
		return nil, xerrors.Errorf("while creating three spheres scene: %w", err)
	}

	lambertianGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	lambertianBlue := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	glass := material.NewDielectric(1.5)

	// Inner sphere of the bubble is air inside glass
	airInGlass := material.NewDielectric(1.0 / 1.5)

	spheres := []struct {
		center core.Vec3
		radius float64
		mat    material.Material
	}{
		{core.NewVec3(0, -1000, -1), 1000, lambertianGround},
		{core.NewVec3(0, 0.5, -1), 0.5, lambertianBlue},
		{core.NewVec3(1, 0.5, -1), 0.5, metalGold},
		{core.NewVec3(-1, 0.5, -1), 0.5, glass},
		{core.NewVec3(-0.5, 0.25, 0), 0.25, glass},
		{core.NewVec3(-0.5, 0.25, 0), 0.22, airInGlass},
	}
	for _, sp := range spheres {
		if err := s.AddSphere(sp.center, sp.radius, sp.mat); err != nil {
			return nil, xerrors.Errorf("while creating three spheres scene: %w", err)
		}
	}

	return s, nil
}
