package material

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"golang.org/x/xerrors"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// Validate rejects non-physical refractive indices
func (d *Dielectric) Validate() error {
	if !(d.RefractiveIndex > 0) || math.IsInf(d.RefractiveIndex, 0) {
		return xerrors.Errorf("dielectric: refractive index %f must be positive and finite", d.RefractiveIndex)
	}
	return nil
}

// Scatter implements the Material interface for dielectric scattering.
// It always scatters, choosing reflection or refraction stochastically.
func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Dielectrics always attenuate by 1.0 (no color absorption for clear glass)
	attenuation := core.NewVec3(1.0, 1.0, 1.0)

	direction := rayIn.Direction
	reflected := Reflect(direction, hit.Normal)

	// Determine if we're entering or exiting the material from the outward normal
	var outwardNormal core.Vec3
	var niOverNt, cosine float64
	if cosDir := direction.Dot(hit.Normal); cosDir > 0 {
		// Exiting: glass to air
		outwardNormal = hit.Normal.Negate()
		niOverNt = d.RefractiveIndex
		cosine = cosDir / direction.Length()
	} else {
		// Entering: air to glass
		outwardNormal = hit.Normal
		niOverNt = 1.0 / d.RefractiveIndex
		cosine = -cosDir / direction.Length()
	}

	reflectProbability := 1.0
	refracted, canRefract := Refract(direction, outwardNormal, niOverNt)
	if canRefract {
		reflectProbability = Schlick(cosine, d.RefractiveIndex)
	}

	scatterDirection := refracted
	if sampler.Get1D() < reflectProbability {
		scatterDirection = reflected
	}

	return ScatterResult{
		Incoming:    rayIn,
		Scattered:   core.NewRay(hit.Point, scatterDirection),
		Attenuation: attenuation,
	}, true
}
