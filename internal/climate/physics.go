package climate

import "math"

const (
	StefanBoltzmann = 5.670374419e-8 // W m^-2 K^-4
	KelvinOffset    = 273.15

	ReferenceCO2       = 280.0 // pre-industrial ppm
	ForcingCoefficient = 5.35  // W/m^2 per e-fold of CO2

	BaseEmissivity       = 0.61
	EmissivityPerForcing = 0.005
	MinEmissivity        = 0.5
	MaxEmissivity        = 0.7

	// HeatCapacity converts W/m^2 of imbalance into degrees per unit time.
	HeatCapacity = 50.0
)

// Forcing returns the CO2 radiative forcing relative to ReferenceCO2.
func Forcing(co2 float64) float64 {
	return ForcingCoefficient * math.Log(co2/ReferenceCO2)
}

// Emissivity returns the effective emissivity for a forcing, clamped to
// [MinEmissivity, MaxEmissivity]. NaN forcing yields NaN.
func Emissivity(forcing float64) float64 {
	return clamp(BaseEmissivity-forcing*EmissivityPerForcing, MinEmissivity, MaxEmissivity)
}

// Outgoing returns the longwave flux emitted at a surface temperature in °C.
func Outgoing(emissivity, celsius float64) float64 {
	return emissivity * StefanBoltzmann * math.Pow(celsius+KelvinOffset, 4)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
