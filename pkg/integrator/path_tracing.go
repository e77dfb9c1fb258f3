package integrator

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

const (
	// DefaultMaxDepth is the bounce limit before a path is cut to black
	DefaultMaxDepth = 50
	// DefaultTMin skips self-intersections at the previous hit point
	DefaultTMin = 0.001
)

// PathTracingIntegrator implements unidirectional path tracing with no
// explicit light sampling; all light comes from the sky gradient.
type PathTracingIntegrator struct {
	MaxDepth int
	TMin     float64
}

// NewPathTracingIntegrator creates a new path tracing integrator.
// A non-positive maxDepth falls back to DefaultMaxDepth.
func NewPathTracingIntegrator(maxDepth int) *PathTracingIntegrator {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &PathTracingIntegrator{
		MaxDepth: maxDepth,
		TMin:     DefaultTMin,
	}
}

// RayColor computes the color for a camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Vec3 {
	return pt.RayColorAtDepth(ray, scene, sampler, 0)
}

// RayColorAtDepth computes the color for a ray that has already bounced depth times.
// A hit at depth >= MaxDepth contributes black; a miss always returns the background.
func (pt *PathTracingIntegrator) RayColorAtDepth(ray core.Ray, scene *scene.Scene, sampler core.Sampler, depth int) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)

	for {
		hit, isHit := scene.World.Hit(ray, pt.TMin, math.Inf(1))
		if !isHit {
			return throughput.MultiplyVec(pt.backgroundGradient(ray, scene))
		}

		if depth >= pt.MaxDepth {
			return core.Vec3{}
		}

		scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
		if !didScatter {
			// Material absorbed the ray
			return core.Vec3{}
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
		depth++
	}
}

// backgroundGradient returns a gradient color based on ray direction
func (pt *PathTracingIntegrator) backgroundGradient(r core.Ray, scene *scene.Scene) core.Vec3 {
	// Normalize the ray direction to get consistent results
	unitDirection := r.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return scene.BottomColor.Multiply(1.0 - t).Add(scene.TopColor.Multiply(t))
}
