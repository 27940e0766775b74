package sim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/sim"
)

func sampleAt(temp, net float64) sim.Sample {
	return sim.Sample{Snapshot: climate.Snapshot{Temperature: temp, Net: net}}
}

var _ = Describe("Metrics", func() {
	DescribeTable("report zero before any sample",
		func(m sim.Metric) {
			Expect(m.Value()).To(BeZero())
		},
		Entry("mean", sim.NewMeanTemperature()),
		Entry("peak", sim.NewPeakImbalance()),
		Entry("warming", sim.NewWarming()),
	)

	It("averages temperature", func() {
		m := sim.NewMeanTemperature()
		m.Observe(sampleAt(10, 0))
		m.Observe(sampleAt(20, 0))
		Expect(m.Value()).To(BeNumerically("~", 15, 1e-12))
	})

	It("keeps the largest imbalance of either sign", func() {
		m := sim.NewPeakImbalance()
		m.Observe(sampleAt(15, 2))
		m.Observe(sampleAt(15, -5))
		m.Observe(sampleAt(15, 3))
		Expect(m.Value()).To(Equal(5.0))
	})

	It("measures warming from the first sample", func() {
		m := sim.NewWarming()
		m.Observe(sampleAt(14, 0))
		m.Observe(sampleAt(15, 0))
		m.Observe(sampleAt(16.5, 0))
		Expect(m.Value()).To(BeNumerically("~", 2.5, 1e-12))
	})

	It("measures warming from the start sample when given one", func() {
		m := sim.NewWarming()
		m.Start(sampleAt(14, 0))
		m.Observe(sampleAt(14.4, 0))
		Expect(m.Value()).To(BeNumerically("~", 0.4, 1e-12))
	})

	It("includes the first step in a simulated run", func() {
		model := climate.New(climate.Params{CO2: 560, Albedo: 0.3, SolarIntensity: 1361}, climate.DefaultTemperature)
		cfg := sim.DefaultConfig()
		cfg.Steps = 1

		result, err := sim.Simulate(context.Background(), model, cfg, sim.NewWarming())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Metrics["warming"]).NotTo(BeZero())
		Expect(result.Metrics["warming"]).To(BeNumerically("~", model.Temperature()-climate.DefaultTemperature, 1e-12))
	})

	It("clears on reset", func() {
		for _, m := range sim.DefaultMetrics() {
			m.Observe(sampleAt(10, 4))
			m.Observe(sampleAt(12, 1))
			m.Reset()
			Expect(m.Value()).To(BeZero(), m.Name())
		}
	})
})
