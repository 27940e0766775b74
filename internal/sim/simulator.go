package sim

import (
	"context"
	"errors"

	"github.com/jonboulle/clockwork"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/dynamo"
)

// Simulate runs cfg.Steps ticks against model without a wall clock. Sample
// timestamps start at cfg.Start and advance by cfg.Interval.
//
// With validation on, a rejected step ends the run unless a schedule is
// present, since a later phase may move the parameters back into range.
func Simulate(ctx context.Context, model *climate.Model, cfg Config, metrics ...Metric) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clock := clockwork.NewFakeClockAt(cfg.Start)
	recorder := &recorder{samples: make([]Sample, 0, cfg.Steps)}
	loop := NewLoop(model, cfg.Dt, WithClock(clock), WithValidation(cfg.ValidateState), WithSinks(recorder))

	result := &Result{
		Metrics:            make(map[string]float64),
		InitialTemperature: model.Temperature(),
	}

	for _, m := range metrics {
		m.Reset()
		if s, ok := m.(Starter); ok {
			s.Start(loop.Last())
		}
		loop.AddSink(m)
	}

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			result.Samples = recorder.samples
			return result, ctx.Err()
		default:
		}

		if cfg.Schedule != nil {
			if p, ok := cfg.Schedule(i); ok {
				loop.Queue(p)
			}
		}

		clock.Advance(cfg.Interval)
		if _, err := loop.Tick(); err != nil {
			result.Errors = append(result.Errors, err)
			if errors.Is(err, dynamo.ErrInvalidState) && cfg.Schedule == nil {
				break
			}
			continue
		}
		result.StepsTaken++
	}

	result.Samples = recorder.samples
	for _, m := range metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

type recorder struct {
	samples []Sample
}

func (r *recorder) Observe(s Sample) { r.samples = append(r.samples, s) }
