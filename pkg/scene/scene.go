package scene

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"golang.org/x/xerrors"
)

// Scene contains all the elements needed for rendering.
// It is read-only once rendering begins.
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	World          *geometry.HitList // Objects in the scene
	SamplingConfig SamplingConfig
	TopColor       core.Vec3 // Sky color straight up
	BottomColor    core.Vec3 // Sky color straight down
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns the sampling used by the built-in scenes
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          200,
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Validate checks the sampling parameters
func (c SamplingConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return xerrors.Errorf("image size %dx%d must be positive", c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return xerrors.Errorf("samples per pixel %d must be positive", c.SamplesPerPixel)
	}
	if c.MaxDepth <= 0 {
		return xerrors.Errorf("max depth %d must be positive", c.MaxDepth)
	}
	return nil
}

// validator is implemented by materials that can check their parameters
type validator interface {
	Validate() error
}

// newScene assembles a scene with the default sky and sampling and builds its camera
func newScene(cameraConfig geometry.CameraConfig, cameraOverrides []geometry.CameraConfig) (*Scene, error) {
	// Apply any overrides using the reusable merge function
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	camera, err := geometry.NewCamera(cameraConfig)
	if err != nil {
		return nil, err
	}

	return &Scene{
		Camera:         camera,
		CameraConfig:   cameraConfig,
		World:          geometry.NewHitList(),
		SamplingConfig: DefaultSamplingConfig(),
		TopColor:       core.NewVec3(0.5, 0.7, 1.0), // Blue sky
		BottomColor:    core.NewVec3(1.0, 1.0, 1.0), // White horizon
	}, nil
}

// SetResolution changes the image size and rebuilds the camera so its
// aspect ratio matches width / height.
func (s *Scene) SetResolution(width, height int) error {
	if width <= 0 || height <= 0 {
		return xerrors.Errorf("image size %dx%d must be positive", width, height)
	}

	cameraConfig := s.CameraConfig
	cameraConfig.AspectRatio = float64(width) / float64(height)
	camera, err := geometry.NewCamera(cameraConfig)
	if err != nil {
		return xerrors.Errorf("while resizing to %dx%d: %w", width, height, err)
	}

	s.Camera = camera
	s.CameraConfig = cameraConfig
	s.SamplingConfig.Width = width
	s.SamplingConfig.Height = height
	return nil
}

// AddSphere validates and adds a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) error {
	if v, ok := mat.(validator); ok {
		if err := v.Validate(); err != nil {
			return xerrors.Errorf("sphere at %v: %w", center, err)
		}
	}
	sphere, err := geometry.NewSphere(center, radius, mat)
	if err != nil {
		return err
	}
	s.World.Add(sphere)
	return nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}
