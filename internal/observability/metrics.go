package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/climsim/internal/climate"
)

const namespace = "climsim"

// Metrics holds the Prometheus gauges and counters for a running simulation.
type Metrics struct {
	Temperature  prometheus.Gauge
	NetFlux      prometheus.Gauge
	Absorbed     prometheus.Gauge
	Outgoing     prometheus.Gauge
	Forcing      prometheus.Gauge
	CO2          prometheus.Gauge
	Steps        prometheus.Counter
	NonFinite    prometheus.Counter
	ParamUpdates prometheus.Counter
}

// NewMetrics creates the metrics and registers them with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "temperature_celsius",
			Help:      "Current surface temperature.",
		}),
		NetFlux: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "net_flux_watts",
			Help:      "Net energy imbalance at the last step, W/m^2.",
		}),
		Absorbed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "absorbed_flux_watts",
			Help:      "Absorbed shortwave flux, W/m^2.",
		}),
		Outgoing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outgoing_flux_watts",
			Help:      "Outgoing longwave flux, W/m^2.",
		}),
		Forcing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "radiative_forcing_watts",
			Help:      "CO2 radiative forcing relative to 280 ppm, W/m^2.",
		}),
		CO2: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "co2_ppm",
			Help:      "CO2 concentration parameter.",
		}),
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Accepted integration steps.",
		}),
		NonFinite: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nonfinite_steps_total",
			Help:      "Steps rolled back because they produced NaN or Inf.",
		}),
		ParamUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "param_updates_total",
			Help:      "Parameter updates received, counted before merging.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Temperature,
			m.NetFlux,
			m.Absorbed,
			m.Outgoing,
			m.Forcing,
			m.CO2,
			m.Steps,
			m.NonFinite,
			m.ParamUpdates,
		)
	}

	return m
}

// ObserveStep records an accepted step.
func (m *Metrics) ObserveStep(p climate.Params, s climate.Snapshot) {
	if m == nil {
		return
	}
	m.Steps.Inc()
	m.Temperature.Set(s.Temperature)
	m.NetFlux.Set(s.Net)
	m.Absorbed.Set(s.Absorbed)
	m.Outgoing.Set(s.Outgoing)
	m.Forcing.Set(s.Forcing)
	m.CO2.Set(p.CO2)
}

func (m *Metrics) ObserveNonFinite() {
	if m == nil {
		return
	}
	m.NonFinite.Inc()
}

func (m *Metrics) ObserveParamUpdate() {
	if m == nil {
		return
	}
	m.ParamUpdates.Inc()
}
