package material

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"golang.org/x/xerrors"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Base color/reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Validate reports albedo values that would poison the radiance estimate
func (l *Lambertian) Validate() error {
	if err := validateAlbedo(l.Albedo); err != nil {
		return xerrors.Errorf("lambertian: %w", err)
	}
	return nil
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Offset the normal by a random point in the unit sphere, approximating a cosine lobe
	scatterDirection := hit.Normal.Add(core.RandomInUnitSphere(sampler))

	// The sample can cancel the normal almost exactly
	if scatterDirection.NearZero() {
		scatterDirection = hit.Normal
	}

	return ScatterResult{
		Incoming:    rayIn,
		Scattered:   core.NewRay(hit.Point, scatterDirection),
		Attenuation: l.Albedo,
	}, true
}

func validateAlbedo(albedo core.Vec3) error {
	if !albedo.IsFinite() {
		return xerrors.Errorf("albedo %v is not finite", albedo)
	}
	if albedo.X < 0 || albedo.Y < 0 || albedo.Z < 0 {
		return xerrors.Errorf("albedo %v has a negative channel", albedo)
	}
	return nil
}
