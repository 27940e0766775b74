package httpapi

import (
	"math"
	"time"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/sim"
)

// state is the /api/state body. JSON has no NaN or Inf, so non-finite
// values are sent as null.
type state struct {
	Step        int                 `json:"step"`
	Time        float64             `json:"time"`
	At          time.Time           `json:"at"`
	Params      climate.Params      `json:"params"`
	Snapshot    map[string]*float64 `json:"snapshot"`
	Equilibrium *float64            `json:"equilibrium"`
	Finite      bool                `json:"finite"`
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func newState(latest sim.Sample) state {
	s := latest.Snapshot
	return state{
		Step:   latest.Step,
		Time:   latest.Time,
		At:     latest.At,
		Params: latest.Params,
		Snapshot: map[string]*float64{
			"temperature": finite(s.Temperature),
			"net":         finite(s.Net),
			"absorbed":    finite(s.Absorbed),
			"reflected":   finite(s.Reflected),
			"outgoing":    finite(s.Outgoing),
			"incoming":    finite(s.Incoming),
			"forcing":     finite(s.Forcing),
			"emissivity":  finite(s.Emissivity),
		},
		Equilibrium: finite(climate.New(latest.Params, 0).Equilibrium()),
		Finite:      s.Finite(),
	}
}
