package climate_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/dynamo"
	"github.com/san-kum/climsim/internal/integrators"
)

var _ = Describe("Forcing", func() {
	It("is zero at the pre-industrial baseline", func() {
		Expect(climate.Forcing(280)).To(BeZero())
	})

	It("is about 3.7 W/m^2 for doubled CO2", func() {
		Expect(climate.Forcing(560)).To(BeNumerically("~", 3.708, 1e-3))
	})

	It("is negative below the baseline", func() {
		Expect(climate.Forcing(140)).To(BeNumerically("<", 0))
	})
})

var _ = Describe("Emissivity", func() {
	It("is 0.61 with no forcing", func() {
		Expect(climate.Emissivity(0)).To(BeNumerically("~", 0.61, 1e-12))
	})

	DescribeTable("stays within [0.5, 0.7]",
		func(forcing float64) {
			e := climate.Emissivity(forcing)
			Expect(e).To(BeNumerically(">=", climate.MinEmissivity))
			Expect(e).To(BeNumerically("<=", climate.MaxEmissivity))
		},
		Entry("huge positive forcing", 1e6),
		Entry("huge negative forcing", -1e6),
		Entry("positive infinity", math.Inf(1)),
		Entry("negative infinity", math.Inf(-1)),
		Entry("moderate forcing", 10.0),
	)

	It("propagates NaN", func() {
		Expect(math.IsNaN(climate.Emissivity(math.NaN()))).To(BeTrue())
	})
})

var _ = Describe("Model", func() {
	var m *climate.Model

	BeforeEach(func() {
		m = climate.New(climate.DefaultParams(), climate.DefaultTemperature)
	})

	Describe("Step", func() {
		It("computes the fluxes in order", func() {
			snap := m.Step(1)

			Expect(snap.Incoming).To(BeNumerically("~", 340.25, 1e-9))
			Expect(snap.Absorbed).To(BeNumerically("~", 238.175, 1e-9))
			Expect(snap.Reflected).To(BeNumerically("~", 102.075, 1e-9))
			Expect(snap.Forcing).To(BeZero())
			Expect(snap.Emissivity).To(BeNumerically("~", 0.61, 1e-12))

			outgoing := 0.61 * climate.StefanBoltzmann * math.Pow(15+273.15, 4)
			Expect(snap.Outgoing).To(BeNumerically("~", outgoing, 1e-9))
			Expect(snap.Net).To(BeNumerically("~", 238.175-outgoing, 1e-9))
			Expect(snap.Temperature).To(BeNumerically("~", 15+(238.175-outgoing)/50, 1e-12))
			Expect(m.Temperature()).To(Equal(snap.Temperature))
		})

		It("scales the temperature change with dt", func() {
			other := climate.New(climate.DefaultParams(), climate.DefaultTemperature)
			one := m.Step(1)
			half := other.Step(0.5)

			Expect(one.Temperature - 15).To(BeNumerically("~", 2*(half.Temperature-15), 1e-12))
		})

		It("is deterministic for identical state and dt", func() {
			params := climate.Params{CO2: 415, Albedo: 0.28, SolarIntensity: 1365, ForestCover: 10}
			a := climate.New(params, 12.5)
			b := climate.New(params, 12.5)

			for i := 0; i < 100; i++ {
				Expect(a.Step(0.1)).To(Equal(b.Step(0.1)))
			}
		})

		It("holds the temperature when net is zero", func() {
			eq := m.Equilibrium()
			m.SetTemperature(eq)

			for i := 0; i < 500; i++ {
				snap := m.Step(0.1)
				Expect(snap.Net).To(BeNumerically("~", 0, 1e-9))
			}
			Expect(m.Temperature()).To(BeNumerically("~", eq, 1e-9))
		})

		It("relaxes toward equilibrium", func() {
			m.UpdateParams(climate.Partial{CO2: climate.Ptr(560)})
			eq := m.Equilibrium()
			Expect(eq).To(BeNumerically(">", 15))

			for i := 0; i < 5000; i++ {
				m.Step(0.1)
			}
			Expect(m.Temperature()).To(BeNumerically("~", eq, 1e-3))
		})

		It("ignores forest cover", func() {
			lush := climate.New(climate.DefaultParams(), 15)
			lush.UpdateParams(climate.Partial{ForestCover: climate.Ptr(100)})

			Expect(lush.Step(1)).To(Equal(m.Step(1)))
		})

		It("returns NaN rather than failing for negative CO2", func() {
			m.UpdateParams(climate.Partial{CO2: climate.Ptr(-1)})
			snap := m.Step(1)

			Expect(math.IsNaN(snap.Temperature)).To(BeTrue())
			Expect(snap.Finite()).To(BeFalse())
		})

		It("keeps the balance finite for zero CO2", func() {
			m.UpdateParams(climate.Partial{CO2: climate.Ptr(0)})
			snap := m.Step(1)

			Expect(math.IsInf(snap.Forcing, -1)).To(BeTrue())
			Expect(snap.Emissivity).To(Equal(climate.MaxEmissivity))
			Expect(snap.Finite()).To(BeTrue())
		})

		It("matches the RK4 integrator near equilibrium", func() {
			rk := climate.New(climate.DefaultParams(), 15)
			rk.SetIntegrator(integrators.NewRK4())
			for i := 0; i < 100; i++ {
				m.Step(0.1)
				rk.Step(0.1)
			}
			Expect(rk.Temperature()).To(BeNumerically("~", m.Temperature(), 1e-4))
			Expect(rk.Integrator().Name()).To(Equal("rk4"))
		})
	})

	Describe("UpdateParams", func() {
		It("overwrites only provided fields", func() {
			m.UpdateParams(climate.Partial{CO2: climate.Ptr(400)})

			Expect(m.Params().CO2).To(Equal(400.0))
			Expect(m.Params().Albedo).To(Equal(0.3))
			Expect(m.Params().SolarIntensity).To(Equal(1361.0))
		})

		It("lets a negative albedo through unchanged", func() {
			m.UpdateParams(climate.Partial{Albedo: climate.Ptr(-0.5)})
			snap := m.Step(1)

			Expect(m.Params().Albedo).To(Equal(-0.5))
			Expect(snap.Absorbed).To(BeNumerically("~", 340.25*1.5, 1e-9))
		})

		It("does not touch the temperature", func() {
			m.UpdateParams(climate.Full(climate.Params{CO2: 1000, Albedo: 0.1, SolarIntensity: 2000}))
			Expect(m.Temperature()).To(Equal(15.0))
		})
	})

	Describe("SetParam", func() {
		It("sets named parameters", func() {
			Expect(m.SetParam(climate.ParamSolarIntensity, 1000)).To(Succeed())
			Expect(m.GetParams()).To(HaveKeyWithValue(climate.ParamSolarIntensity, 1000.0))
		})

		It("rejects unknown names", func() {
			err := m.SetParam("methane", 2)
			Expect(errors.Is(err, dynamo.ErrUnknownParam)).To(BeTrue())
		})
	})

	Describe("Reset", func() {
		It("restores the initial temperature and keeps parameters", func() {
			m.UpdateParams(climate.Partial{CO2: climate.Ptr(800)})
			m.Step(10)
			m.Reset()

			Expect(m.Temperature()).To(Equal(15.0))
			Expect(m.Time()).To(BeZero())
			Expect(m.Params().CO2).To(Equal(800.0))
		})

		It("returns to a replaced initial temperature", func() {
			m.SetInitialTemperature(-30)
			m.Step(1)
			m.Reset()

			Expect(m.Temperature()).To(Equal(-30.0))
			Expect(m.InitialTemperature()).To(Equal(-30.0))
		})
	})

	Describe("Fluxes", func() {
		It("does not advance the state", func() {
			snap := m.Fluxes()
			Expect(snap.Temperature).To(Equal(15.0))
			Expect(m.Temperature()).To(Equal(15.0))
			Expect(m.Time()).To(BeZero())
		})
	})
})

var _ = Describe("Partial", func() {
	It("reports emptiness", func() {
		Expect(climate.Partial{}.Empty()).To(BeTrue())
		Expect(climate.Partial{Albedo: climate.Ptr(0)}.Empty()).To(BeFalse())
	})

	It("merges with later fields winning", func() {
		merged := climate.Partial{CO2: climate.Ptr(300), Albedo: climate.Ptr(0.2)}.
			Merge(climate.Partial{CO2: climate.Ptr(500)})

		Expect(*merged.CO2).To(Equal(500.0))
		Expect(*merged.Albedo).To(Equal(0.2))
	})
})
