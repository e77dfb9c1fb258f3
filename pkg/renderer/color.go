package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// ToRGB8 converts a linear color to 8-bit sRGB-ish output: gamma 2 (square
// root) per channel, then int(255.99*c) clamped to [0, 255].
// Negative and NaN channels map to 0.
func ToRGB8(c core.Vec3) color.RGBA {
	return color.RGBA{
		R: quantize(c.X),
		G: quantize(c.Y),
		B: quantize(c.Z),
		A: 255,
	}
}

func quantize(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	scaled := 255.99 * math.Sqrt(v)
	if scaled >= 255 {
		return 255
	}
	return uint8(int(scaled))
}
