package sim

import "math"

// MeanTemperature averages the post-step temperature.
type MeanTemperature struct {
	sum     float64
	samples int
}

func NewMeanTemperature() *MeanTemperature { return &MeanTemperature{} }

func (m *MeanTemperature) Name() string { return "mean_temperature" }

func (m *MeanTemperature) Observe(s Sample) {
	m.sum += s.Snapshot.Temperature
	m.samples++
}

func (m *MeanTemperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanTemperature) Reset() { m.sum, m.samples = 0, 0 }

// PeakImbalance tracks the largest |net| seen.
type PeakImbalance struct {
	peak float64
}

func NewPeakImbalance() *PeakImbalance { return &PeakImbalance{} }

func (p *PeakImbalance) Name() string { return "peak_imbalance" }

func (p *PeakImbalance) Observe(s Sample) {
	p.peak = math.Max(p.peak, math.Abs(s.Snapshot.Net))
}

func (p *PeakImbalance) Value() float64 { return p.peak }
func (p *PeakImbalance) Reset()         { p.peak = 0 }

// Warming is the temperature change across the run, measured from the
// temperature the run started at.
type Warming struct {
	first, last float64
	seen        bool
}

func NewWarming() *Warming { return &Warming{} }

func (w *Warming) Name() string { return "warming" }

// Start records the pre-run sample as the baseline.
func (w *Warming) Start(s Sample) {
	w.first = s.Snapshot.Temperature
	w.last = w.first
	w.seen = true
}

func (w *Warming) Observe(s Sample) {
	if !w.seen {
		w.first = s.Snapshot.Temperature
		w.seen = true
	}
	w.last = s.Snapshot.Temperature
}

func (w *Warming) Value() float64 {
	if !w.seen {
		return 0
	}
	return w.last - w.first
}

func (w *Warming) Reset() { *w = Warming{} }

// DefaultMetrics is the set recorded by run and scenario commands.
func DefaultMetrics() []Metric {
	return []Metric{NewMeanTemperature(), NewPeakImbalance(), NewWarming()}
}
