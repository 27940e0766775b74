package sim_test

import (
	"errors"
	"math"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/dynamo"
	"github.com/san-kum/climsim/internal/observability"
	"github.com/san-kum/climsim/internal/sim"
)

type collectSink struct {
	samples []sim.Sample
	resets  int
}

func (c *collectSink) Observe(s sim.Sample) { c.samples = append(c.samples, s) }
func (c *collectSink) Reset()               { c.samples = nil; c.resets++ }

var _ = Describe("Loop", func() {
	var (
		model   *climate.Model
		clock   *clockwork.FakeClock
		sink    *collectSink
		metrics *observability.Metrics
		loop    *sim.Loop
	)

	BeforeEach(func() {
		model = climate.New(climate.DefaultParams(), climate.DefaultTemperature)
		clock = clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		sink = &collectSink{}
		metrics = observability.NewMetrics(prometheus.NewRegistry())
		loop = sim.NewLoop(model, 0.1, sim.WithClock(clock), sim.WithSinks(sink), sim.WithMetrics(metrics))
	})

	It("exposes pre-step fluxes before the first tick", func() {
		last := loop.Last()
		Expect(last.Step).To(BeZero())
		Expect(last.Snapshot.Temperature).To(Equal(15.0))
		Expect(last.Snapshot.Incoming).To(BeNumerically("~", 340.25, 1e-9))
	})

	It("fans each tick out to sinks with timestamps", func() {
		first, err := loop.Tick()
		Expect(err).NotTo(HaveOccurred())
		clock.Advance(33 * time.Millisecond)
		second, err := loop.Tick()
		Expect(err).NotTo(HaveOccurred())

		Expect(sink.samples).To(HaveLen(2))
		Expect(first.Step).To(Equal(1))
		Expect(second.Step).To(Equal(2))
		Expect(second.At.Sub(first.At)).To(Equal(33 * time.Millisecond))
		Expect(second.Time).To(BeNumerically("~", 0.2, 1e-12))
		Expect(testutil.ToFloat64(metrics.Steps)).To(Equal(2.0))
	})

	It("matches stepping the model directly", func() {
		reference := climate.New(climate.DefaultParams(), climate.DefaultTemperature)
		for i := 0; i < 20; i++ {
			s, err := loop.Tick()
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Snapshot).To(Equal(reference.Step(0.1)))
		}
	})

	It("applies queued updates at the next tick with the latest value winning", func() {
		loop.Queue(climate.Partial{CO2: climate.Ptr(400), Albedo: climate.Ptr(0.25)})
		loop.Queue(climate.Partial{CO2: climate.Ptr(560)})
		Expect(model.Params().CO2).To(Equal(280.0))

		s, err := loop.Tick()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Params.CO2).To(Equal(560.0))
		Expect(s.Params.Albedo).To(Equal(0.25))
		Expect(testutil.ToFloat64(metrics.ParamUpdates)).To(Equal(2.0))
	})

	It("ignores empty updates", func() {
		loop.Queue(climate.Partial{})
		Expect(testutil.ToFloat64(metrics.ParamUpdates)).To(BeZero())
	})

	It("rolls back a step that produces NaN", func() {
		_, err := loop.Tick()
		Expect(err).NotTo(HaveOccurred())
		before := model.Temperature()

		loop.Queue(climate.Partial{CO2: climate.Ptr(-10)})
		s, err := loop.Tick()

		var simErr *dynamo.SimError
		Expect(errors.As(err, &simErr)).To(BeTrue())
		Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
		Expect(simErr.Step).To(Equal(2))
		Expect(s.Step).To(Equal(1))
		Expect(model.Temperature()).To(Equal(before))
		Expect(loop.Steps()).To(Equal(1))
		Expect(sink.samples).To(HaveLen(1))
		Expect(testutil.ToFloat64(metrics.NonFinite)).To(Equal(1.0))

		loop.Queue(climate.Partial{CO2: climate.Ptr(280)})
		s, err = loop.Tick()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Step).To(Equal(2))
	})

	It("lets NaN through when validation is off", func() {
		loop = sim.NewLoop(model, 0.1, sim.WithValidation(false))
		loop.Queue(climate.Partial{CO2: climate.Ptr(-10)})

		s, err := loop.Tick()
		Expect(err).NotTo(HaveOccurred())
		Expect(math.IsNaN(s.Snapshot.Temperature)).To(BeTrue())
	})

	It("resets the model and history sinks", func() {
		for i := 0; i < 5; i++ {
			_, _ = loop.Tick()
		}
		loop.Queue(climate.Partial{CO2: climate.Ptr(1000)})
		loop.Reset()

		Expect(loop.Steps()).To(BeZero())
		Expect(model.Temperature()).To(Equal(15.0))
		Expect(sink.resets).To(Equal(1))
		Expect(sink.samples).To(BeEmpty())

		s, _ := loop.Tick()
		Expect(s.Params.CO2).To(Equal(280.0))
	})
})
