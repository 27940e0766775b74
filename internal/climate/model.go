package climate

import (
	"math"

	"github.com/san-kum/climsim/internal/dynamo"
	"github.com/san-kum/climsim/internal/integrators"
)

// Snapshot is the outcome of one step: the post-step temperature and the
// fluxes (W/m^2) that produced it.
type Snapshot struct {
	Temperature float64 `json:"temperature"`
	Net         float64 `json:"net"`
	Absorbed    float64 `json:"absorbed"`
	Reflected   float64 `json:"reflected"`
	Outgoing    float64 `json:"outgoing"`
	Incoming    float64 `json:"incoming"`
	Forcing     float64 `json:"forcing"`
	Emissivity  float64 `json:"emissivity"`
}

// Finite reports whether the temperature and every energy flux are finite.
// Forcing is excluded: co2 == 0 drives it to -Inf while the clamped
// emissivity, and so the balance, stays finite.
func (s Snapshot) Finite() bool {
	return dynamo.State{s.Temperature, s.Net, s.Absorbed, s.Reflected, s.Outgoing, s.Incoming}.IsValid()
}

// Model is the climate state and its stepper.
type Model struct {
	params      Params
	temperature float64
	initialTemp float64
	t           float64
	integrator  dynamo.Integrator
}

var (
	_ dynamo.System       = (*Model)(nil)
	_ dynamo.Configurable = (*Model)(nil)
)

// New returns a model at temperature integrated by forward Euler.
func New(params Params, temperature float64) *Model {
	return &Model{
		params:      params,
		temperature: temperature,
		initialTemp: temperature,
		integrator:  integrators.NewEuler(),
	}
}

// SetIntegrator swaps the integrator. Euler reproduces the reference update
// T += net/50*dt exactly; others trade that for accuracy at large dt.
func (m *Model) SetIntegrator(integ dynamo.Integrator) {
	if integ != nil {
		m.integrator = integ
	}
}

func (m *Model) Integrator() dynamo.Integrator { return m.integrator }

func (m *Model) Params() Params           { return m.params }
func (m *Model) Temperature() float64     { return m.temperature }
func (m *Model) Time() float64            { return m.t }
func (m *Model) SetTemperature(c float64) { m.temperature = c }

// SetInitialTemperature changes the temperature Reset returns to.
func (m *Model) SetInitialTemperature(c float64) { m.initialTemp = c }

func (m *Model) InitialTemperature() float64 { return m.initialTemp }

// Reset restores the initial temperature and model time. Parameters keep
// their latest values.
func (m *Model) Reset() {
	m.temperature = m.initialTemp
	m.t = 0
}

// Restore rewinds the integrated state to a previous temperature and time.
func (m *Model) Restore(temperature, t float64) {
	m.temperature = temperature
	m.t = t
}

// UpdateParams overwrites every field present in p, without validation.
func (m *Model) UpdateParams(p Partial) {
	m.params = p.Apply(m.params)
}

func (m *Model) GetParams() map[string]float64 {
	return m.params.Map()
}

func (m *Model) SetParam(name string, value float64) error {
	p, err := PartialFor(name, value)
	if err != nil {
		return err
	}
	m.UpdateParams(p)
	return nil
}

// Fluxes evaluates the energy balance at the current temperature without
// advancing it.
func (m *Model) Fluxes() Snapshot {
	return m.balance(m.temperature)
}

func (m *Model) balance(celsius float64) Snapshot {
	incoming := m.params.SolarIntensity / 4
	absorbed := incoming * (1 - m.params.Albedo)
	forcing := Forcing(m.params.CO2)
	emissivity := Emissivity(forcing)
	outgoing := Outgoing(emissivity, celsius)

	return Snapshot{
		Temperature: celsius,
		Net:         absorbed - outgoing,
		Absorbed:    absorbed,
		Reflected:   incoming * m.params.Albedo,
		Outgoing:    outgoing,
		Incoming:    incoming,
		Forcing:     forcing,
		Emissivity:  emissivity,
	}
}

// Derive implements dynamo.System: dT/dt = net/HeatCapacity.
func (m *Model) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{m.balance(x[0]).Net / HeatCapacity}
}

func (m *Model) StateDim() int { return 1 }

// Step advances the temperature by dt and returns the fluxes evaluated at
// the pre-step temperature together with the new temperature.
func (m *Model) Step(dt float64) Snapshot {
	snap := m.balance(m.temperature)
	next := m.integrator.Step(m, dynamo.State{m.temperature}, m.t, dt)
	m.temperature = next[0]
	m.t += dt
	snap.Temperature = m.temperature
	return snap
}

// Equilibrium returns the temperature at which net is zero for the current
// parameters.
func (m *Model) Equilibrium() float64 {
	s := m.balance(0)
	return math.Pow(s.Absorbed/(s.Emissivity*StefanBoltzmann), 0.25) - KelvinOffset
}
