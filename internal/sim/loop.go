package sim

import (
	"github.com/jonboulle/clockwork"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/dynamo"
	"github.com/san-kum/climsim/internal/observability"
)

// Loop advances one climate model a fixed dt per tick and fans each sample
// out to its sinks. It is not safe for concurrent use; Runner serializes
// access for multi-goroutine callers.
type Loop struct {
	model    *climate.Model
	dt       float64
	clock    clockwork.Clock
	sinks    []Sink
	metrics  *observability.Metrics
	validate bool

	step    int
	pending climate.Partial
	last    Sample
}

type Option func(*Loop)

func WithClock(c clockwork.Clock) Option {
	return func(l *Loop) { l.clock = c }
}

func WithSinks(sinks ...Sink) Option {
	return func(l *Loop) { l.sinks = append(l.sinks, sinks...) }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(l *Loop) { l.metrics = m }
}

// WithValidation toggles rollback of steps that produce NaN or Inf.
func WithValidation(on bool) Option {
	return func(l *Loop) { l.validate = on }
}

func NewLoop(model *climate.Model, dt float64, opts ...Option) *Loop {
	l := &Loop{
		model:    model,
		dt:       dt,
		clock:    clockwork.NewRealClock(),
		validate: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.last = l.initial()
	return l
}

func (l *Loop) initial() Sample {
	return Sample{
		Time:     l.model.Time(),
		At:       l.clock.Now(),
		Params:   l.model.Params(),
		Snapshot: l.model.Fluxes(),
	}
}

func (l *Loop) Model() *climate.Model { return l.model }
func (l *Loop) Dt() float64           { return l.dt }
func (l *Loop) Steps() int            { return l.step }

// Last returns the most recent accepted sample, or the pre-step fluxes
// before the first tick.
func (l *Loop) Last() Sample { return l.last }

func (l *Loop) AddSink(s Sink) { l.sinks = append(l.sinks, s) }

// Queue records a parameter update to apply at the start of the next tick.
// Successive updates merge; the latest value for a field wins.
func (l *Loop) Queue(p climate.Partial) {
	if p.Empty() {
		return
	}
	l.pending = l.pending.Merge(p)
	l.metrics.ObserveParamUpdate()
}

// Tick applies queued updates and advances the model by dt. With
// validation on, a step yielding NaN or Inf is rolled back and reported as
// a *dynamo.SimError wrapping dynamo.ErrInvalidState; the previous sample
// stays current.
func (l *Loop) Tick() (Sample, error) {
	if !l.pending.Empty() {
		l.model.UpdateParams(l.pending)
		l.pending = climate.Partial{}
	}

	prevTemp, prevTime := l.model.Temperature(), l.model.Time()
	snap := l.model.Step(l.dt)

	if l.validate && !snap.Finite() {
		l.model.Restore(prevTemp, prevTime)
		l.metrics.ObserveNonFinite()
		return l.last, &dynamo.SimError{Step: l.step + 1, Time: prevTime, Wrapped: dynamo.ErrInvalidState}
	}

	l.step++
	s := Sample{
		Step:     l.step,
		Time:     l.model.Time(),
		At:       l.clock.Now(),
		Params:   l.model.Params(),
		Snapshot: snap,
	}
	l.last = s
	l.metrics.ObserveStep(s.Params, snap)

	for _, sink := range l.sinks {
		sink.Observe(s)
	}
	return s, nil
}

// Reset restores the model's initial temperature, drops queued updates and
// clears sinks that keep history.
func (l *Loop) Reset() {
	l.model.Reset()
	l.pending = climate.Partial{}
	l.step = 0
	l.last = l.initial()
	for _, sink := range l.sinks {
		if r, ok := sink.(Resetter); ok {
			r.Reset()
		}
	}
}
