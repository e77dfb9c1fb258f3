package scene

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"golang.org/x/xerrors"
)

// NewGroundScene creates a single large grey ground sphere seen from above,
// with the horizon in the top part of the frame.
func NewGroundScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 2, 0),
		LookAt:      core.NewVec3(0, 1, -3),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90.0,
		AspectRatio: 2.0,
		Aperture:    0.0,
	}

	s, err := newScene(defaultCameraConfig, cameraOverrides)
	if err != nil {
		return nil, xerrors.Errorf("while creating ground scene: %w", err)
	}

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	if err := s.AddSphere(core.NewVec3(0, -1000, 0), 1000, ground); err != nil {
		return nil, xerrors.Errorf("while creating ground scene: %w", err)
	}

	return s, nil
}
