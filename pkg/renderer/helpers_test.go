package renderer

import (
	"image"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// testLogger implements core.Logger for testing by discarding all output
type testLogger struct{}

// Ensure testLogger implements core.Logger
var _ core.Logger = (*testLogger)(nil)

func (tl *testLogger) Printf(format string, args ...interface{}) {}

// newGroundTestScene returns the ground scene at a small resolution
func newGroundTestScene(t *testing.T, width, height, samples int) *scene.Scene {
	t.Helper()
	sc, err := scene.NewGroundScene()
	if err != nil {
		t.Fatalf("NewGroundScene: %v", err)
	}
	if err := sc.SetResolution(width, height); err != nil {
		t.Fatalf("SetResolution: %v", err)
	}
	sc.SamplingConfig.SamplesPerPixel = samples
	return sc
}

func newTestIntegrator() integrator.Integrator {
	return integrator.NewPathTracingIntegrator(integrator.DefaultMaxDepth)
}

// meanChannels averages the 8-bit channels over rows [y0, y1)
func meanChannels(img *image.RGBA, y0, y1 int) (r, g, b float64) {
	bounds := img.Bounds()
	n := 0.0
	for y := y0; y < y1; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			r += float64(c.R)
			g += float64(c.G)
			b += float64(c.B)
			n++
		}
	}
	return r / n, g / n, b / n
}
