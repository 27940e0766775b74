package scenario_test

import (
	"context"
	"math"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/dynamo"
	"github.com/san-kum/climsim/internal/scenario"
	"github.com/san-kum/climsim/internal/sim"
)

const doubling = `
name: doubling
description: ramp to 560 ppm then clear forests
phases:
  - name: ramp
    steps: 10
    targets:
      co2: {to: 560, ramp: true}
  - name: deforest
    steps: 5
    targets:
      forest_cover: 0
      albedo: {to: 0.32}
`

var _ = Describe("Scenario", func() {
	var s *scenario.Scenario

	BeforeEach(func() {
		var err error
		s, err = scenario.Parse([]byte(doubling))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Parse", func() {
		It("reads phases and both target forms", func() {
			Expect(s.Name).To(Equal("doubling"))
			Expect(s.Phases).To(HaveLen(2))
			Expect(s.Phases[0].Targets["co2"]).To(Equal(scenario.Target{To: 560, Ramp: true}))
			Expect(s.Phases[1].Targets["forest_cover"]).To(Equal(scenario.Target{To: 0}))
			Expect(s.Phases[1].Targets["albedo"]).To(Equal(scenario.Target{To: 0.32}))
			Expect(s.TotalSteps()).To(Equal(15))
		})

		It("rejects a scenario without phases", func() {
			_, err := scenario.Parse([]byte("name: empty\n"))
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("rejects a phase without steps", func() {
			_, err := scenario.Parse([]byte("phases:\n  - steps: 0\n"))
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("rejects unknown parameters", func() {
			_, err := scenario.Parse([]byte("phases:\n  - steps: 3\n    targets:\n      methane: 2\n"))
			Expect(err).To(MatchError(dynamo.ErrUnknownParam))
		})

		It("loads from a file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "s.yaml")
			Expect(os.WriteFile(path, []byte(doubling), 0644)).To(Succeed())
			loaded, err := scenario.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(s))
		})
	})

	Describe("PhaseAt", func() {
		It("maps steps to phases", func() {
			Expect(s.PhaseAt(0)).To(Equal(0))
			Expect(s.PhaseAt(9)).To(Equal(0))
			Expect(s.PhaseAt(10)).To(Equal(1))
			Expect(s.PhaseAt(15)).To(Equal(-1))
		})
	})

	Describe("Schedule", func() {
		var schedule sim.Schedule

		BeforeEach(func() {
			schedule = s.Schedule(climate.DefaultParams())
		})

		It("ramps linearly and lands on the target", func() {
			p, ok := schedule(0)
			Expect(ok).To(BeTrue())
			Expect(*p.CO2).To(BeNumerically("~", 308, 1e-9))

			p, ok = schedule(9)
			Expect(ok).To(BeTrue())
			Expect(*p.CO2).To(BeNumerically("~", 560, 1e-9))
		})

		It("applies jumps once at the start of their phase", func() {
			p, ok := schedule(10)
			Expect(ok).To(BeTrue())
			Expect(*p.ForestCover).To(Equal(0.0))
			Expect(*p.Albedo).To(Equal(0.32))
			Expect(p.CO2).To(BeNil())

			_, ok = schedule(11)
			Expect(ok).To(BeFalse())
		})

		It("starts a ramp from the value left by the previous phase", func() {
			two, err := scenario.Parse([]byte(`
phases:
  - steps: 2
    targets: {co2: 400}
  - steps: 4
    targets: {co2: {to: 600, ramp: true}}
`))
			Expect(err).NotTo(HaveOccurred())
			sched := two.Schedule(climate.DefaultParams())
			p, _ := sched(2)
			Expect(*p.CO2).To(BeNumerically("~", 450, 1e-9))
		})

		It("returns nothing outside the scenario", func() {
			_, ok := schedule(-1)
			Expect(ok).To(BeFalse())
			_, ok = schedule(100)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Run", func() {
		It("drives the model through every phase", func() {
			model := climate.New(climate.DefaultParams(), climate.DefaultTemperature)
			result, err := scenario.Run(context.Background(), s, model, sim.DefaultConfig(), sim.DefaultMetrics()...)
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Samples).To(HaveLen(15))
			Expect(result.Samples[9].Params.CO2).To(BeNumerically("~", 560, 1e-9))
			Expect(model.Params()).To(Equal(climate.Params{CO2: 560, Albedo: 0.32, SolarIntensity: 1361, ForestCover: 0}))
			Expect(result.Metrics).To(HaveKey("warming"))
		})
	})
})

var _ = Describe("RunSweep", func() {
	It("reports higher equilibria for more CO2", func() {
		results, err := scenario.RunSweep(context.Background(), scenario.Sweep{
			Param: climate.ParamCO2, Min: 280, Max: 1120, Points: 3, Steps: 50,
		}, climate.DefaultParams(), climate.DefaultTemperature)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(results[1].Value).To(BeNumerically("~", 700, 1e-9))
		Expect(results[0].Equilibrium).To(BeNumerically("<", results[1].Equilibrium))
		Expect(results[1].Equilibrium).To(BeNumerically("<", results[2].Equilibrium))
		Expect(results[2].Final).To(BeNumerically(">", climate.DefaultTemperature))
	})

	It("marks a point whose simulation produced NaN", func() {
		results, err := scenario.RunSweep(context.Background(), scenario.Sweep{
			Param: climate.ParamCO2, Min: -200, Max: 280, Points: 2, Steps: 100,
		}, climate.DefaultParams(), climate.DefaultTemperature)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(2))

		Expect(results[0].Diverged).To(BeTrue())
		Expect(math.IsNaN(results[0].Final)).To(BeTrue())

		Expect(results[1].Diverged).To(BeFalse())
		Expect(results[1].Final).To(BeNumerically("~", climate.DefaultTemperature, 2))
	})

	It("needs two points", func() {
		_, err := scenario.RunSweep(context.Background(), scenario.Sweep{Param: climate.ParamCO2, Points: 1}, climate.DefaultParams(), 15)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})

	It("rejects unknown parameters", func() {
		_, err := scenario.RunSweep(context.Background(), scenario.Sweep{Param: "methane", Points: 2}, climate.DefaultParams(), 15)
		Expect(err).To(MatchError(dynamo.ErrUnknownParam))
	})
})
