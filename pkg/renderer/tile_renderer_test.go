package renderer

import (
	"image"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

func TestTileRenderer_RenderTileBounds(t *testing.T) {
	sc := newGroundTestScene(t, 8, 8, 4)
	tr := NewTileRenderer(sc, newTestIntegrator())
	pixelStats := newPixelStatsGrid(8, 8)
	bounds := image.Rect(2, 4, 6, 8)
	sampler := core.NewSeededSampler(9)

	stats := tr.RenderTileBounds(bounds, pixelStats, sampler, 3)
	if stats.TotalPixels != 16 || stats.TotalSamples != 48 {
		t.Errorf("Unexpected stats for first call: %+v", stats)
	}

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			inside := image.Pt(x, y).In(bounds)
			count := pixelStats[y][x].SampleCount
			if inside && count != 3 {
				t.Errorf("Pixel (%d,%d) inside tile has %d samples, want 3", x, y, count)
			}
			if !inside && count != 0 {
				t.Errorf("Pixel (%d,%d) outside tile was sampled %d times", x, y, count)
			}
		}
	}

	// Raising the target only tops up the difference
	stats = tr.RenderTileBounds(bounds, pixelStats, sampler, 5)
	if stats.TotalSamples != 32 || stats.MinSamples != 2 || stats.MaxSamplesUsed != 2 {
		t.Errorf("Unexpected stats for top-up: %+v", stats)
	}

	// Reaching the target again is a no-op
	stats = tr.RenderTileBounds(bounds, pixelStats, sampler, 5)
	if stats.TotalSamples != 0 {
		t.Errorf("Expected no new samples, got %d", stats.TotalSamples)
	}
}
