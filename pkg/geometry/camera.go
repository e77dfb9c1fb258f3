package geometry

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"golang.org/x/xerrors"
)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Center        core.Vec3 // Camera position (look from)
	LookAt        core.Vec3 // Point the camera is looking at
	Up            core.Vec3 // World up direction
	VFov          float64   // Vertical field of view in degrees
	AspectRatio   float64   // Width / height
	Aperture      float64   // Lens diameter; 0 = pinhole
	FocusDistance float64   // Distance to the plane in perfect focus; 0 = distance to LookAt
}

// Validate checks that the configuration describes a non-degenerate camera
func (c CameraConfig) Validate() error {
	viewDir := c.Center.Subtract(c.LookAt)
	if viewDir.NearZero() {
		return xerrors.Errorf("camera center %v and look-at %v coincide", c.Center, c.LookAt)
	}
	if c.Up.Cross(viewDir).NearZero() {
		return xerrors.Errorf("camera up %v is zero or parallel to the view direction", c.Up)
	}
	if !(c.VFov > 0 && c.VFov < 180) {
		return xerrors.Errorf("camera vertical fov %f must be in (0, 180)", c.VFov)
	}
	if !(c.AspectRatio > 0) {
		return xerrors.Errorf("camera aspect ratio %f must be positive", c.AspectRatio)
	}
	if c.Aperture < 0 {
		return xerrors.Errorf("camera aperture %f must not be negative", c.Aperture)
	}
	if c.FocusDistance < 0 {
		return xerrors.Errorf("camera focus distance %f must not be negative", c.FocusDistance)
	}
	return nil
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if !override.Center.Equals(core.Vec3{}) {
		result.Center = override.Center
	}
	if !override.LookAt.Equals(core.Vec3{}) {
		result.LookAt = override.LookAt
	}
	if !override.Up.Equals(core.Vec3{}) {
		result.Up = override.Up
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	return result
}

// Camera generates primary rays through a thin lens
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // Orthonormal camera basis
	lensRadius      float64
	focusDistance   float64
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, xerrors.Errorf("while creating camera: %w", err)
	}

	focusDistance := config.FocusDistance
	if focusDistance == 0 {
		focusDistance = config.Center.Subtract(config.LookAt).Length()
	}

	theta := config.VFov * math.Pi / 180.0
	halfHeight := math.Tan(theta / 2)
	halfWidth := config.AspectRatio * halfHeight

	// Build the orthonormal basis; w points away from the target
	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	origin := config.Center
	lowerLeftCorner := origin.
		Subtract(u.Multiply(halfWidth * focusDistance)).
		Subtract(v.Multiply(halfHeight * focusDistance)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      u.Multiply(2 * halfWidth * focusDistance),
		vertical:        v.Multiply(2 * halfHeight * focusDistance),
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
		focusDistance:   focusDistance,
	}, nil
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	// Jitter the origin across the lens disk for depth of field
	var offset core.Vec3
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
		offset = c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))
	}

	origin := c.origin.Add(offset)
	target := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t))

	return core.NewRay(origin, target.Subtract(origin))
}

// GetCameraForward returns the unit direction the camera looks along
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

// FocusDistance returns the resolved focus distance
func (c *Camera) FocusDistance() float64 {
	return c.focusDistance
}
