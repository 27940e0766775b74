package globe

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

type stop struct {
	celsius float64
	color   colorful.Color
}

var tintStops = []stop{
	{-10, colorful.Color{R: 0.12, G: 0.35, B: 1.0}},
	{5, colorful.Color{R: 0.18, G: 0.72, B: 0.45}},
	{20, colorful.Color{R: 1.0, G: 0.62, B: 0.11}},
	{35, colorful.Color{R: 0.90, G: 0.22, B: 0.27}},
}

var (
	IceColor        = colorful.Color{R: 0.94, G: 0.97, B: 1.0}
	ForestColor     = colorful.Color{R: 0.18, G: 0.55, B: 0.34}
	BareColor       = colorful.Color{R: 0.76, G: 0.64, B: 0.42}
	AtmosphereColor = colorful.Color{R: 0.53, G: 0.81, B: 0.98}
)

// Tint blends cold to hot across -10..35 °C in HCL space.
func Tint(celsius float64) colorful.Color {
	if math.IsNaN(celsius) {
		return tintStops[0].color
	}
	if celsius <= tintStops[0].celsius {
		return tintStops[0].color
	}
	for i := 1; i < len(tintStops); i++ {
		lo, hi := tintStops[i-1], tintStops[i]
		if celsius <= hi.celsius {
			t := (celsius - lo.celsius) / (hi.celsius - lo.celsius)
			return lo.color.BlendHcl(hi.color, t).Clamped()
		}
	}
	return tintStops[len(tintStops)-1].color
}

// IceLatitude is the latitude in degrees poleward of which the surface is
// frozen. 15 °C puts the edge at 66°; the planet freezes over near -18 °C
// and loses its caps above 27 °C.
func IceLatitude(celsius float64) float64 {
	if math.IsNaN(celsius) {
		return 0
	}
	return math.Max(0, math.Min(90, 66+2*(celsius-15)))
}

// ShellRadius is the atmosphere shell radius relative to the planet. It
// grows with radiative forcing.
func ShellRadius(forcing float64) float64 {
	if math.IsNaN(forcing) || math.IsInf(forcing, -1) {
		return 1.02
	}
	return math.Max(1.02, math.Min(1.4, 1.08+0.02*forcing))
}

// cellNoise returns a stable pseudo-random value in [0, 1) for a mesh cell.
func cellNoise(i, j int, salt uint32) float64 {
	h := uint32(i)*73856093 ^ uint32(j)*19349663 ^ salt*83492791
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	return float64(h%10000) / 10000
}
