package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/dynamo"
)

// Sample is one accepted tick: the parameters in force, the step outcome,
// the model time and the wall-clock instant it was taken.
type Sample struct {
	Step     int              `json:"step"`
	Time     float64          `json:"time"`
	At       time.Time        `json:"at"`
	Params   climate.Params   `json:"params"`
	Snapshot climate.Snapshot `json:"snapshot"`
}

// Sink consumes samples on the loop goroutine.
type Sink interface {
	Observe(s Sample)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Sample)

func (f SinkFunc) Observe(s Sample) { f(s) }

// Resetter is implemented by sinks that hold history.
type Resetter interface {
	Reset()
}

// Starter is implemented by metrics that need the state before the first
// step.
type Starter interface {
	Start(initial Sample)
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Schedule returns the parameter change to apply before a given step.
type Schedule func(step int) (climate.Partial, bool)

type Config struct {
	Dt            float64
	Steps         int
	ValidateState bool
	// Start and Interval timestamp samples as if ticked live.
	Start    time.Time
	Interval time.Duration
	Schedule Schedule
}

const (
	DefaultDt       = 0.1
	DefaultSteps    = 1000
	DefaultInterval = 33 * time.Millisecond
	DefaultWindow   = 50
)

func DefaultConfig() Config {
	return Config{
		Dt:            DefaultDt,
		Steps:         DefaultSteps,
		ValidateState: true,
		Interval:      DefaultInterval,
	}
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidConfig, c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", dynamo.ErrInvalidConfig, c.Steps)
	}
	if c.Interval < 0 {
		return fmt.Errorf("%w: interval must not be negative, got %s", dynamo.ErrInvalidConfig, c.Interval)
	}
	return nil
}

type Result struct {
	Samples            []Sample
	Metrics            map[string]float64
	Errors             []error
	StepsTaken         int
	InitialTemperature float64
}

// Final returns the last accepted sample.
func (r *Result) Final() (Sample, bool) {
	if r == nil || len(r.Samples) == 0 {
		return Sample{}, false
	}
	return r.Samples[len(r.Samples)-1], true
}
