package sim_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/dynamo"
	"github.com/san-kum/climsim/internal/sim"
)

var _ = Describe("Simulate", func() {
	var model *climate.Model

	BeforeEach(func() {
		model = climate.New(climate.DefaultParams(), climate.DefaultTemperature)
	})

	It("records one sample per step", func() {
		cfg := sim.DefaultConfig()
		cfg.Steps = 100

		result, err := sim.Simulate(context.Background(), model, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Samples).To(HaveLen(100))
		Expect(result.StepsTaken).To(Equal(100))
		Expect(result.InitialTemperature).To(Equal(15.0))

		final, ok := result.Final()
		Expect(ok).To(BeTrue())
		Expect(final.Time).To(BeNumerically("~", 10, 1e-9))
	})

	It("spaces timestamps by the interval", func() {
		start := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
		cfg := sim.Config{Dt: 0.1, Steps: 3, Start: start, Interval: time.Second, ValidateState: true}

		result, err := sim.Simulate(context.Background(), model, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Samples[0].At).To(Equal(start.Add(time.Second)))
		Expect(result.Samples[2].At).To(Equal(start.Add(3 * time.Second)))
	})

	DescribeTable("rejects invalid configs",
		func(cfg sim.Config) {
			_, err := sim.Simulate(context.Background(), model, cfg)
			Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
		},
		Entry("zero dt", sim.Config{Dt: 0, Steps: 10}),
		Entry("negative dt", sim.Config{Dt: -0.1, Steps: 10}),
		Entry("zero steps", sim.Config{Dt: 0.1, Steps: 0}),
		Entry("negative interval", sim.Config{Dt: 0.1, Steps: 1, Interval: -time.Second}),
	)

	It("computes metrics", func() {
		model.UpdateParams(climate.Partial{CO2: climate.Ptr(560)})
		cfg := sim.DefaultConfig()
		cfg.Steps = 2000

		result, err := sim.Simulate(context.Background(), model, cfg, sim.DefaultMetrics()...)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Metrics).To(HaveKey("mean_temperature"))
		Expect(result.Metrics["warming"]).To(BeNumerically(">", 1))
		Expect(result.Metrics["peak_imbalance"]).To(BeNumerically(">", 3))
	})

	It("stops at the first invalid state without a schedule", func() {
		model.UpdateParams(climate.Partial{CO2: climate.Ptr(-1)})

		result, err := sim.Simulate(context.Background(), model, sim.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Errors).To(HaveLen(1))
		Expect(result.Samples).To(BeEmpty())
	})

	It("follows a schedule and survives a bad phase", func() {
		cfg := sim.Config{Dt: 0.1, Steps: 30, ValidateState: true}
		cfg.Schedule = func(step int) (climate.Partial, bool) {
			switch step {
			case 10:
				return climate.Partial{CO2: climate.Ptr(-1)}, true
			case 20:
				return climate.Partial{CO2: climate.Ptr(400)}, true
			}
			return climate.Partial{}, false
		}

		result, err := sim.Simulate(context.Background(), model, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Errors).To(HaveLen(10))
		Expect(result.StepsTaken).To(Equal(20))
		final, _ := result.Final()
		Expect(final.Params.CO2).To(Equal(400.0))
	})

	It("honors cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := sim.Simulate(ctx, model, sim.DefaultConfig())
		Expect(err).To(MatchError(context.Canceled))
	})
})
