// Package dynamo provides the numeric primitives shared by the climate
// stepper and its integrators.
//
// The package defines:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical integrator interface
//   - [Configurable]: name-keyed parameter access for sliders and scripts
//
// # Example
//
//	m := climate.New(climate.DefaultParams(), climate.DefaultTemperature)
//	x := integrators.NewEuler().Step(m, dynamo.State{m.Temperature()}, 0, 0.1)
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent mutation. A state vector
// belongs to the loop that advances it.
package dynamo
