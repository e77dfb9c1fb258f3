package renderer

import (
	"image"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(sc *scene.Scene, integ integrator.Integrator) *TileRenderer {
	return &TileRenderer{
		scene:      sc,
		integrator: integ,
	}
}

// RenderTileBounds tops up every pixel within bounds to targetSamples.
// pixelStats uses image coordinates (row 0 at the top); tiles must not
// overlap when rendered concurrently.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	width := tr.scene.SamplingConfig.Width
	height := tr.scene.SamplingConfig.Height

	stats := newRenderStats(bounds.Dx()*bounds.Dy(), targetSamples)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		// Camera t runs bottom to top
		j := height - 1 - y
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &pixelStats[y][x]
			before := ps.SampleCount

			for ps.SampleCount < targetSamples {
				s := (float64(x) + sampler.Get1D()) / float64(width)
				t := (float64(j) + sampler.Get1D()) / float64(height)
				ray := tr.scene.Camera.GetRay(s, t, sampler)
				ps.AddSample(tr.integrator.RayColor(ray, tr.scene, sampler))
			}

			stats.update(ps.SampleCount - before)
		}
	}

	stats.finalize()
	return stats
}
