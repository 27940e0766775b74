package sim_test

import (
	"context"
	"math"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/logger"
	"github.com/san-kum/climsim/internal/observability"
	"github.com/san-kum/climsim/internal/sim"
)

var _ = Describe("Runner", func() {
	const interval = 33 * time.Millisecond

	var (
		clock   *clockwork.FakeClock
		metrics *observability.Metrics
		runner  *sim.Runner
		ctx     context.Context
		cancel  context.CancelFunc
		done    chan error
	)

	tick := func() { clock.Advance(interval) }

	BeforeEach(func() {
		clock = clockwork.NewFakeClock()
		metrics = observability.NewMetrics(prometheus.NewRegistry())
		model := climate.New(climate.DefaultParams(), climate.DefaultTemperature)
		loop := sim.NewLoop(model, 0.1, sim.WithClock(clock), sim.WithMetrics(metrics))
		runner = sim.NewRunner(loop, interval, clock)

		ctx, cancel = context.WithCancel(logger.ToContext(context.Background(), zap.NewNop().Sugar()))
		done = make(chan error, 1)
		go func() { done <- runner.Run(ctx) }()

		Expect(clock.BlockUntilContext(ctx, 1)).To(Succeed())
	})

	AfterEach(func() {
		cancel()
		Eventually(done).Should(Receive(MatchError(context.Canceled)))
	})

	It("steps once per interval", func() {
		Expect(runner.Latest().Step).To(BeZero())

		tick()
		Eventually(func() int { return runner.Latest().Step }).Should(Equal(1))

		tick()
		Eventually(func() int { return runner.Latest().Step }).Should(Equal(2))
	})

	It("applies updates on the loop goroutine", func() {
		Expect(runner.Update(ctx, climate.Partial{CO2: climate.Ptr(560)})).To(Succeed())

		Eventually(func() float64 {
			tick()
			return runner.Latest().Params.CO2
		}).Should(Equal(560.0))
	})

	It("rejects empty updates", func() {
		Expect(runner.Update(ctx, climate.Partial{})).To(HaveOccurred())
	})

	It("resets to the initial state", func() {
		for i := 1; i <= 3; i++ {
			tick()
			Eventually(func() int { return runner.Latest().Step }).Should(Equal(i))
		}

		Expect(runner.Reset(ctx)).To(Succeed())
		Eventually(func() int { return runner.Latest().Step }).Should(BeZero())
		Expect(runner.Latest().Snapshot.Temperature).To(Equal(15.0))
	})

	It("keeps the published temperature finite through bad parameters", func() {
		tick()
		Eventually(func() int { return runner.Latest().Step }).Should(Equal(1))

		Expect(runner.Update(ctx, climate.Partial{CO2: climate.Ptr(-1)})).To(Succeed())
		Eventually(func() float64 {
			tick()
			return testutil.ToFloat64(metrics.NonFinite)
		}).Should(BeNumerically(">=", 1))

		Expect(math.IsNaN(runner.Latest().Snapshot.Temperature)).To(BeFalse())

		Expect(runner.Update(ctx, climate.Partial{CO2: climate.Ptr(280)})).To(Succeed())
		Eventually(func() int {
			tick()
			return runner.Latest().Step
		}).Should(BeNumerically(">", 1))
	})
})
