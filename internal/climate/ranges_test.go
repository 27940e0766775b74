package climate_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/dynamo"
)

var _ = Describe("Ranges", func() {
	It("covers every parameter", func() {
		for _, name := range climate.ParamNames {
			Expect(climate.Ranges).To(HaveKey(name))
		}
	})

	It("accepts the defaults", func() {
		Expect(climate.Full(climate.DefaultParams()).Validate()).To(Succeed())
		Expect(climate.Partial{}.Validate()).To(Succeed())
	})

	DescribeTable("rejects out-of-range values",
		func(p climate.Partial) {
			Expect(p.Validate()).To(MatchError(dynamo.ErrOutOfRange))
		},
		Entry("albedo above one", climate.Partial{Albedo: climate.Ptr(1.2)}),
		Entry("negative co2", climate.Partial{CO2: climate.Ptr(-1)}),
		Entry("forest over 100%", climate.Partial{ForestCover: climate.Ptr(101)}),
		Entry("NaN solar", climate.Partial{SolarIntensity: climate.Ptr(math.NaN())}),
	)

	It("clamps", func() {
		r := climate.Ranges[climate.ParamAlbedo]
		Expect(r.Clamp(-0.5)).To(Equal(0.0))
		Expect(r.Clamp(0.4)).To(Equal(0.4))
		Expect(r.Clamp(3)).To(Equal(1.0))
	})
})
