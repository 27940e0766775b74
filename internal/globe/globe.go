package globe

import (
	"math"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/sim"
)

// View is the slice of model state the globe draws.
type View struct {
	Temperature float64
	CO2         float64
	ForestCover float64
}

func ViewOf(s sim.Sample) View {
	return View{
		Temperature: s.Snapshot.Temperature,
		CO2:         s.Params.CO2,
		ForestCover: s.Params.ForestCover,
	}
}

const (
	latStep   = 15
	lonStep   = 20
	landShare = 0.3
)

type Surface int

const (
	Ocean Surface = iota
	Bare
	Forest
	Ice
)

// Globe is safe for concurrent use.
type Globe struct {
	mu     sync.Mutex
	canvas *Canvas
	camera *Camera
	view   View
}

// New creates a globe drawn on a w x h cell canvas.
func New(w, h int) *Globe {
	g := &Globe{
		canvas: NewCanvas(w, h),
		camera: NewCamera(),
		view:   View{Temperature: climate.DefaultTemperature, CO2: climate.ReferenceCO2, ForestCover: 30},
	}
	g.draw()
	return g
}

func (g *Globe) Apply(v View) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.view = v
	g.draw()
}

// Observe implements sim.Sink.
func (g *Globe) Observe(s sim.Sample) { g.Apply(ViewOf(s)) }

func (g *Globe) View() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.view
}

// Spin rotates the globe around its axis by d radians.
func (g *Globe) Spin(d float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.camera.RotateY(d)
	g.draw()
}

func (g *Globe) Zoom(in bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if in {
		g.camera.ZoomIn()
	} else {
		g.camera.ZoomOut()
	}
	g.draw()
}

// Resize replaces the canvas when the terminal size changes.
func (g *Globe) Resize(w, h int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if w == g.canvas.Width && h == g.canvas.Height {
		return
	}
	g.canvas = NewCanvas(w, h)
	g.draw()
}

// Frame returns a copy of the current canvas.
func (g *Globe) Frame() *Canvas {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canvas.Clone()
}

// String returns the colored frame.
func (g *Globe) String() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canvas.Render()
}

// Classify returns what covers the mesh cell at the given latitude and
// longitude (degrees) for view v.
func Classify(v View, lat, lon float64) Surface {
	if math.Abs(lat) >= IceLatitude(v.Temperature) {
		return Ice
	}
	i, j := int(math.Floor(lat/latStep)), int(math.Floor(lon/lonStep))
	if cellNoise(i, j, 1) >= landShare {
		return Ocean
	}
	if cellNoise(i, j, 2) < v.ForestCover/100 {
		return Forest
	}
	return Bare
}

func colorOf(v View, s Surface) colorful.Color {
	switch s {
	case Ice:
		return IceColor
	case Forest:
		return ForestColor
	case Bare:
		return BareColor
	default:
		return Tint(v.Temperature)
	}
}

// draw must be called with mu held.
func (g *Globe) draw() {
	c := g.canvas
	c.Clear()
	w, h := c.PixelWidth(), c.PixelHeight()
	v := g.view

	segment := func(a, b Vec3, col colorful.Color) {
		ra, rb := g.camera.Rotate(a), g.camera.Rotate(b)
		// back hemisphere
		if ra.Z+rb.Z < 0 {
			return
		}
		x0, y0, ok0 := g.camera.Project(ra, w, h)
		x1, y1, ok1 := g.camera.Project(rb, w, h)
		if ok0 || ok1 {
			c.DrawLine(x0, y0, x1, y1, col)
		}
	}

	rad := math.Pi / 180
	for lat := -90 + latStep; lat < 90; lat += latStep {
		for lon := 0; lon < 360; lon += lonStep / 2 {
			mid := float64(lon) + lonStep/4
			col := colorOf(v, Classify(v, float64(lat), mid))
			segment(Spherical(float64(lat)*rad, float64(lon)*rad, 1),
				Spherical(float64(lat)*rad, float64(lon+lonStep/2)*rad, 1), col)
		}
	}
	for lon := 0; lon < 360; lon += lonStep {
		for lat := -90; lat < 90; lat += latStep / 3 {
			mid := float64(lat) + 2.5
			col := colorOf(v, Classify(v, mid, float64(lon)))
			segment(Spherical(float64(lat)*rad, float64(lon)*rad, 1),
				Spherical(float64(lat+latStep/3)*rad, float64(lon)*rad, 1), col)
		}
	}

	// The shell is a silhouette ring in camera space, so it is not rotated.
	r := ShellRadius(climate.Forcing(v.CO2))
	const ringSegments = 72
	prevX, prevY, _ := g.camera.Project(Vec3{X: r}, w, h)
	for k := 1; k <= ringSegments; k++ {
		a := 2 * math.Pi * float64(k) / ringSegments
		x, y, _ := g.camera.Project(Vec3{X: r * math.Cos(a), Y: r * math.Sin(a)}, w, h)
		c.DrawLine(prevX, prevY, x, y, AtmosphereColor)
		prevX, prevY = x, y
	}
}
