package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/climsim/internal/chart"
	"github.com/san-kum/climsim/internal/globe"
)

const (
	cellLat = 10
	cellLon = 15
)

var seriesColors = []rl.Color{rl.Red, rl.SkyBlue, rl.Lime, rl.Gold}

func toRL(c colorful.Color, alpha uint8) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.NewColor(r, g, b, alpha)
}

func vec(v globe.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

// DrawGlobe draws an ocean sphere, land, forest and ice patches just above
// it, and a wire atmosphere shell.
func DrawGlobe(v globe.View, forcing float64) {
	origin := rl.NewVector3(0, 0, 0)
	rl.DrawSphereEx(origin, 1, 32, 32, toRL(globe.Tint(v.Temperature), 255))

	rad := math.Pi / 180
	const lift = 1.005
	for lat := -90; lat < 90; lat += cellLat {
		for lon := 0; lon < 360; lon += cellLon {
			s := globe.Classify(v, float64(lat)+cellLat/2.0, float64(lon)+cellLon/2.0)
			if s == globe.Ocean {
				continue
			}
			var col colorful.Color
			switch s {
			case globe.Ice:
				col = globe.IceColor
			case globe.Forest:
				col = globe.ForestColor
			default:
				col = globe.BareColor
			}
			la0, la1 := float64(lat)*rad, float64(lat+cellLat)*rad
			lo0, lo1 := float64(lon)*rad, float64(lon+cellLon)*rad
			p00 := vec(globe.Spherical(la0, lo0, lift))
			p01 := vec(globe.Spherical(la0, lo1, lift))
			p10 := vec(globe.Spherical(la1, lo0, lift))
			p11 := vec(globe.Spherical(la1, lo1, lift))
			c := toRL(col, 255)
			rl.DrawTriangle3D(p00, p01, p11, c)
			rl.DrawTriangle3D(p00, p11, p10, c)
			rl.DrawTriangle3D(p00, p11, p01, c)
			rl.DrawTriangle3D(p00, p10, p11, c)
		}
	}

	shell := float32(globe.ShellRadius(forcing))
	rl.DrawSphereWires(origin, shell, 12, 24, toRL(globe.AtmosphereColor, 70))
}

// DrawChart draws each series as a polyline inside bounds.
func DrawChart(c *chart.Chart, title string, bounds rl.Rectangle) {
	rl.DrawRectangleLinesEx(bounds, 1, ColTextDim)
	rl.DrawText(title, int32(bounds.X), int32(bounds.Y)-20, 14, ColText)

	for i, line := range c.Scaled(float64(bounds.Width), float64(bounds.Height)) {
		if len(line) < 2 {
			continue
		}
		pts := make([]rl.Vector2, len(line))
		for j, p := range line {
			pts[j] = rl.NewVector2(bounds.X+float32(p.X), bounds.Y+float32(p.Y))
		}
		rl.DrawLineStrip(pts, seriesColors[i%len(seriesColors)])
	}

	names := c.Names()
	x := int32(bounds.X)
	for i, name := range names {
		rl.DrawText(name, x, int32(bounds.Y+bounds.Height)+6, 12, seriesColors[i%len(seriesColors)])
		x += int32(rl.MeasureText(name, 12)) + 16
	}
}
