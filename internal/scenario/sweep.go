package scenario

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/dynamo"
	"github.com/san-kum/climsim/internal/sim"
)

// Sweep varies one parameter across a range and records where the model
// settles for each value.
type Sweep struct {
	Param  string
	Min    float64
	Max    float64
	Points int
	// Steps simulated per point; zero skips simulation and reports only
	// the analytic equilibrium.
	Steps int
	Dt    float64
}

// SweepResult is one sweep point. Final is NaN and Diverged is set when a
// simulated step produced NaN or Inf.
type SweepResult struct {
	Value       float64
	Equilibrium float64
	Final       float64
	Diverged    bool
}

// RunSweep evaluates the sweep on copies of base starting at temperature.
func RunSweep(ctx context.Context, sw Sweep, base climate.Params, temperature float64) ([]SweepResult, error) {
	if sw.Points < 2 {
		return nil, fmt.Errorf("%w: sweep needs at least 2 points, got %d", dynamo.ErrInvalidConfig, sw.Points)
	}
	if _, err := climate.PartialFor(sw.Param, 0); err != nil {
		return nil, err
	}

	step := (sw.Max - sw.Min) / float64(sw.Points-1)
	results := make([]SweepResult, sw.Points)
	errs := make([]error, sw.Points)

	// Points share nothing, so each gets its own goroutine and model.
	var wg sync.WaitGroup
	for i := 0; i < sw.Points; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = sweepPoint(ctx, sw, base, temperature, sw.Min+float64(idx)*step)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func sweepPoint(ctx context.Context, sw Sweep, base climate.Params, temperature, v float64) (SweepResult, error) {
	p, _ := climate.PartialFor(sw.Param, v)
	model := climate.New(p.Apply(base), temperature)
	r := SweepResult{Value: v, Equilibrium: model.Equilibrium(), Final: temperature}
	if sw.Steps == 0 {
		return r, nil
	}

	cfg := sim.DefaultConfig()
	cfg.Steps = sw.Steps
	if sw.Dt > 0 {
		cfg.Dt = sw.Dt
	}
	res, err := sim.Simulate(ctx, model, cfg)
	if err != nil {
		return r, fmt.Errorf("sweep %s=%g: %w", sw.Param, v, err)
	}
	if len(res.Errors) > 0 {
		r.Diverged = true
		r.Final = math.NaN()
		return r, nil
	}
	r.Final = model.Temperature()
	return r, nil
}
