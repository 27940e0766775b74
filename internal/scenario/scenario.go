// Package scenario scripts parameter changes over a simulation run.
package scenario

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/dynamo"
	"github.com/san-kum/climsim/internal/logger"
	"github.com/san-kum/climsim/internal/sim"
)

// Scenario is an ordered list of phases run back to back on one model.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Phases      []Phase `yaml:"phases"`
}

type Phase struct {
	Name    string            `yaml:"name"`
	Steps   int               `yaml:"steps"`
	Targets map[string]Target `yaml:"targets"`
}

// Target is the value a parameter reaches by the end of a phase. A jump
// applies it before the phase's first step; a ramp moves there linearly,
// arriving on the phase's last step.
type Target struct {
	To   float64 `yaml:"to"`
	Ramp bool    `yaml:"ramp"`
}

// UnmarshalYAML accepts a bare number as shorthand for a jump.
func (t *Target) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.Ramp = false
		return node.Decode(&t.To)
	}
	type plain Target
	return node.Decode((*plain)(t))
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) Validate() error {
	if len(s.Phases) == 0 {
		return fmt.Errorf("%w: scenario %q has no phases", dynamo.ErrInvalidConfig, s.Name)
	}
	for i, p := range s.Phases {
		if p.Steps <= 0 {
			return fmt.Errorf("%w: phase %d: steps must be positive, got %d", dynamo.ErrInvalidConfig, i+1, p.Steps)
		}
		for name := range p.Targets {
			if _, err := climate.PartialFor(name, 0); err != nil {
				return fmt.Errorf("phase %d: %w", i+1, err)
			}
		}
	}
	return nil
}

// TotalSteps is the sum of the phase lengths.
func (s *Scenario) TotalSteps() int {
	n := 0
	for _, p := range s.Phases {
		n += p.Steps
	}
	return n
}

// PhaseAt returns the index of the phase containing step, or -1 past the end.
func (s *Scenario) PhaseAt(step int) int {
	for i, p := range s.Phases {
		if step < p.Steps {
			return i
		}
		step -= p.Steps
	}
	return -1
}

// Schedule compiles the phases into per-step parameter changes starting
// from base.
func (s *Scenario) Schedule(base climate.Params) sim.Schedule {
	plan := make([]climate.Partial, s.TotalSteps())
	current := base
	offset := 0

	for _, phase := range s.Phases {
		from := current
		for name, target := range phase.Targets {
			if !target.Ramp {
				p, _ := climate.PartialFor(name, target.To)
				plan[offset] = plan[offset].Merge(p)
				continue
			}
			start, _ := from.Get(name)
			for j := 0; j < phase.Steps; j++ {
				v := start + (target.To-start)*float64(j+1)/float64(phase.Steps)
				p, _ := climate.PartialFor(name, v)
				plan[offset+j] = plan[offset+j].Merge(p)
			}
		}
		for j := 0; j < phase.Steps; j++ {
			current = plan[offset+j].Apply(current)
		}
		offset += phase.Steps
	}

	return func(step int) (climate.Partial, bool) {
		if step < 0 || step >= len(plan) || plan[step].Empty() {
			return climate.Partial{}, false
		}
		return plan[step], true
	}
}

// Run executes every phase on model through sim.Simulate. cfg.Steps and
// cfg.Schedule are replaced by the scenario's.
func Run(ctx context.Context, s *Scenario, model *climate.Model, cfg sim.Config, metrics ...sim.Metric) (*sim.Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	ctx = logger.WithName(ctx, "scenario")

	cfg.Steps = s.TotalSteps()
	cfg.Schedule = s.Schedule(model.Params())
	offset := 0
	for i, p := range s.Phases {
		logger.InfoKV(ctx, "phase", "index", i+1, "name", p.Name, "from_step", offset, "steps", p.Steps)
		offset += p.Steps
	}

	result, err := sim.Simulate(ctx, model, cfg, metrics...)
	if err != nil {
		return result, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	logger.InfoKV(ctx, "scenario finished", "name", s.Name, "steps", result.StepsTaken, "errors", len(result.Errors))
	return result, nil
}
