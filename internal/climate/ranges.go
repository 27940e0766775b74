package climate

import (
	"fmt"
	"math"

	"github.com/san-kum/climsim/internal/dynamo"
)

// Range bounds a parameter and sets its slider increment.
type Range struct {
	Min, Max, Step float64
}

// Clamp limits v to the range.
func (r Range) Clamp(v float64) float64 { return math.Max(r.Min, math.Min(r.Max, v)) }

func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

var Ranges = map[string]Range{
	ParamCO2:            {Min: 0, Max: 5000, Step: 10},
	ParamAlbedo:         {Min: 0, Max: 1, Step: 0.01},
	ParamSolarIntensity: {Min: 0, Max: 3000, Step: 10},
	ParamForestCover:    {Min: 0, Max: 100, Step: 1},
}

// Validate rejects set fields that are not finite or fall outside Ranges.
func (p Partial) Validate() error {
	fields := map[string]*float64{
		ParamCO2:            p.CO2,
		ParamAlbedo:         p.Albedo,
		ParamSolarIntensity: p.SolarIntensity,
		ParamForestCover:    p.ForestCover,
	}
	for _, name := range ParamNames {
		v := fields[name]
		if v == nil {
			continue
		}
		r := Ranges[name]
		if math.IsNaN(*v) || !r.Contains(*v) {
			return fmt.Errorf("%w: %s=%g, want [%g, %g]", dynamo.ErrOutOfRange, name, *v, r.Min, r.Max)
		}
	}
	return nil
}
