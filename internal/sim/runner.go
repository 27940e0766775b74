package sim

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/logger"
)

// Runner drives a Loop from a ticker on a single goroutine. Other
// goroutines talk to it through Update and Reset, which hand work to the
// loop goroutine, and read results through Latest.
type Runner struct {
	loop     *Loop
	clock    clockwork.Clock
	interval time.Duration

	updates chan climate.Partial
	resets  chan struct{}

	mu     sync.RWMutex
	latest Sample
}

func NewRunner(loop *Loop, interval time.Duration, clock clockwork.Clock) *Runner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Runner{
		loop:     loop,
		clock:    clock,
		interval: interval,
		updates:  make(chan climate.Partial, 16),
		resets:   make(chan struct{}, 1),
		latest:   loop.Last(),
	}
}

// Run ticks until ctx is done and returns ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	logger.InfoKV(ctx, "runner started", "interval", r.interval, "dt", r.loop.Dt())

	diverged := false
	for {
		select {
		case <-ctx.Done():
			logger.InfoKV(ctx, "runner stopped", "steps", r.loop.Steps())
			return ctx.Err()
		case p := <-r.updates:
			r.loop.Queue(p)
		case <-r.resets:
			r.loop.Reset()
			r.publish(r.loop.Last())
			diverged = false
		case <-ticker.Chan():
			s, err := r.loop.Tick()
			if err != nil {
				// Log once per divergent stretch, not once per tick.
				if !diverged {
					logger.WarnKV(ctx, "step rejected", "error", err, "params", r.loop.Model().Params())
				}
				diverged = true
				continue
			}
			if diverged {
				logger.InfoKV(ctx, "step accepted again", "step", s.Step)
				diverged = false
			}
			r.publish(s)
		}
	}
}

func (r *Runner) publish(s Sample) {
	r.mu.Lock()
	r.latest = s
	r.mu.Unlock()
}

// Update queues a parameter change for the loop goroutine.
func (r *Runner) Update(ctx context.Context, p climate.Partial) error {
	if p.Empty() {
		return errors.New("sim: empty parameter update")
	}
	select {
	case r.updates <- p:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reset asks the loop goroutine to restore the initial state. Resets that
// arrive while one is already pending collapse into it.
func (r *Runner) Reset(ctx context.Context) error {
	select {
	case r.resets <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// Latest returns the most recently published sample.
func (r *Runner) Latest() Sample {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}
