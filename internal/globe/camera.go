package globe

import "math"

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Spherical returns the point at the given latitude and longitude (radians)
// on a sphere of radius r, with +Y toward the north pole.
func Spherical(lat, lon, r float64) Vec3 {
	return Vec3{
		X: r * math.Cos(lat) * math.Sin(lon),
		Y: r * math.Sin(lat),
		Z: r * math.Cos(lat) * math.Cos(lon),
	}
}

// Camera looks down -Z from Distance and rotates the world around it.
type Camera struct {
	Distance   float64
	RotX, RotY float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 6, RotX: 0.4, Zoom: 1}
}

func (c *Camera) RotateY(a float64) { c.RotY = math.Mod(c.RotY+a, 2*math.Pi) }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(4, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.25, c.Zoom/1.2) }

// Rotate applies the spin (around Y) then the tilt (around X).
func (c *Camera) Rotate(p Vec3) Vec3 {
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return p
}

// Project maps a camera-space point to sub-pixel coordinates on a w x h
// surface. Braille dots are twice as tall as wide so x is not stretched.
func (c *Camera) Project(p Vec3, w, h int) (x, y int, ok bool) {
	p = p.Scale(c.Zoom)
	if p.Z >= c.Distance {
		return 0, 0, false
	}
	scale := c.Distance / (c.Distance - p.Z)
	unit := math.Min(float64(w), float64(h)) / 3
	x = int(math.Round(p.X*scale*unit)) + w/2
	y = int(math.Round(-p.Y*scale*unit)) + h/2
	return x, y, x >= 0 && x < w && y >= 0 && y < h
}
