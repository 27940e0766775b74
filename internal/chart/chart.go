package chart

import (
	"math"
	"sync"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/climsim/internal/sim"
)

// Series names used by the standard charts.
const (
	Temperature = "temperature"
	Absorbed    = "absorbed"
	Outgoing    = "outgoing"
	Net         = "net"
)

// Chart is a group of series fed from simulation samples. It is safe for
// concurrent use: the loop appends while HTTP handlers or views read.
type Chart struct {
	Title   string
	mu      sync.RWMutex
	series  []*Series
	colors  []asciigraph.AnsiColor
	extract func(sim.Sample) []float64
}

// New builds a chart whose extract function returns one value per named
// series, in order.
func New(title string, capacity int, names []string, colors []asciigraph.AnsiColor, extract func(sim.Sample) []float64) *Chart {
	c := &Chart{Title: title, colors: colors, extract: extract}
	for _, name := range names {
		c.series = append(c.series, NewSeries(name, capacity))
	}
	return c
}

// NewTemperature charts the post-step surface temperature.
func NewTemperature(capacity int) *Chart {
	return New("Temperature (°C)", capacity,
		[]string{Temperature},
		[]asciigraph.AnsiColor{asciigraph.Red},
		func(s sim.Sample) []float64 { return []float64{s.Snapshot.Temperature} },
	)
}

// NewEnergy charts absorbed, outgoing and net flux.
func NewEnergy(capacity int) *Chart {
	return New("Energy (W/m²)", capacity,
		[]string{Absorbed, Outgoing, Net},
		[]asciigraph.AnsiColor{asciigraph.Yellow, asciigraph.Blue, asciigraph.Green},
		func(s sim.Sample) []float64 {
			return []float64{s.Snapshot.Absorbed, s.Snapshot.Outgoing, s.Snapshot.Net}
		},
	)
}

// Observe implements sim.Sink.
func (c *Chart) Observe(s sim.Sample) {
	values := c.extract(s)

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, series := range c.series {
		if i < len(values) {
			series.Append(s.At, values[i])
		}
	}
}

// Clear empties every series.
func (c *Chart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.series {
		s.Clear()
	}
}

// Reset implements sim.Resetter so a loop reset empties the chart.
func (c *Chart) Reset() { c.Clear() }

func (c *Chart) Names() []string {
	names := make([]string, len(c.series))
	for i, s := range c.series {
		names[i] = s.Name
	}
	return names
}

// Len returns the number of points in the fullest series.
func (c *Chart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, s := range c.series {
		n = max(n, s.Len())
	}
	return n
}

// Window returns a copy of every series keyed by name.
func (c *Chart) Window() map[string][]Point {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string][]Point, len(c.series))
	for _, s := range c.series {
		out[s.Name] = s.Points()
	}
	return out
}

// Values returns each series' values in series order.
func (c *Chart) Values() [][]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([][]float64, 0, len(c.series))
	for _, s := range c.series {
		out = append(out, s.Values())
	}
	return out
}

// Render plots the chart. caption replaces the title when non-empty. An
// empty chart renders as "".
func (c *Chart) Render(width, height int, caption string) string {
	data := c.Values()
	if len(data) == 0 || len(data[0]) == 0 {
		return ""
	}
	if caption == "" {
		caption = c.Title
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.Precision(2),
	}
	if len(c.colors) > 0 {
		opts = append(opts, asciigraph.SeriesColors(c.colors...))
	}
	return asciigraph.PlotMany(data, opts...)
}

// XY is a point in a plotting rectangle with the origin at the top left.
type XY struct {
	X, Y float64
}

// Scaled maps every series into a w x h rectangle sharing one vertical
// scale, oldest point at the left edge. Non-finite values are dropped.
func (c *Chart) Scaled(w, h float64) [][]XY {
	data := c.Values()
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, vs := range data {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	out := make([][]XY, len(data))
	if math.IsInf(lo, 1) {
		return out
	}
	span := hi - lo
	if span == 0 {
		span = 1
		lo -= 0.5
	}

	for i, vs := range data {
		step := w
		if len(vs) > 1 {
			step = w / float64(len(vs)-1)
		}
		for j, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			out[i] = append(out[i], XY{X: float64(j) * step, Y: h - (v-lo)/span*h})
		}
	}
	return out
}
