package renderer

import (
	"image"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// Raytracer is the single-threaded reference renderer. It walks the image
// in scanline order from the bottom row up and draws every random number
// from one sampler, so a seed fully determines the output.
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	sampler    core.Sampler
	width      int
	height     int
	samples    int
}

// NewRaytracer creates a reference raytracer using the scene's sampling config
func NewRaytracer(sc *scene.Scene, integ integrator.Integrator, sampler core.Sampler) *Raytracer {
	return &Raytracer{
		scene:      sc,
		integrator: integ,
		sampler:    sampler,
		width:      sc.SamplingConfig.Width,
		height:     sc.SamplingConfig.Height,
		samples:    sc.SamplingConfig.SamplesPerPixel,
	}
}

// SetSamplesPerPixel overrides the number of samples per pixel
func (rt *Raytracer) SetSamplesPerPixel(samples int) {
	rt.samples = samples
}

// samplePixel estimates the color of pixel column i, row j where j=0 is the bottom row
func (rt *Raytracer) samplePixel(i, j int) core.Vec3 {
	var colorAccum core.Vec3
	for sample := 0; sample < rt.samples; sample++ {
		// Convert pixel coordinates to normalized coordinates with jitter
		s := (float64(i) + rt.sampler.Get1D()) / float64(rt.width)
		t := (float64(j) + rt.sampler.Get1D()) / float64(rt.height)

		ray := rt.scene.Camera.GetRay(s, t, rt.sampler)
		colorAccum.AddInPlace(rt.integrator.RayColor(ray, rt.scene, rt.sampler))
	}
	return colorAccum.Multiply(1.0 / float64(rt.samples))
}

// RenderPass renders the full image with multi-sampling. Row 0 of the
// returned image is the top of the picture.
func (rt *Raytracer) RenderPass() (*image.RGBA, RenderStats) {
	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	stats := newRenderStats(rt.width*rt.height, rt.samples)

	for j := rt.height - 1; j >= 0; j-- {
		for i := 0; i < rt.width; i++ {
			img.SetRGBA(i, rt.height-1-j, ToRGB8(rt.samplePixel(i, j)))
			stats.update(rt.samples)
		}
	}

	stats.finalize()
	stats.Duration = time.Since(start)
	return img, stats
}
