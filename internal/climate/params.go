package climate

import (
	"fmt"

	"github.com/san-kum/climsim/internal/dynamo"
)

// Parameter names accepted by SetParam and returned by GetParams.
const (
	ParamCO2            = "co2"
	ParamAlbedo         = "albedo"
	ParamSolarIntensity = "solar_intensity"
	ParamForestCover    = "forest_cover"
)

// ParamNames lists the parameters in slider order.
var ParamNames = []string{ParamCO2, ParamAlbedo, ParamSolarIntensity, ParamForestCover}

const DefaultTemperature = 15.0

// Params are the user-set inputs. ForestCover is cosmetic and never enters
// the energy balance.
type Params struct {
	CO2            float64 `yaml:"co2" json:"co2"`
	Albedo         float64 `yaml:"albedo" json:"albedo"`
	SolarIntensity float64 `yaml:"solar_intensity" json:"solar_intensity"`
	ForestCover    float64 `yaml:"forest_cover" json:"forest_cover"`
}

func DefaultParams() Params {
	return Params{
		CO2:            ReferenceCO2,
		Albedo:         0.3,
		SolarIntensity: 1361,
		ForestCover:    30,
	}
}

// Partial is a sparse parameter update. Nil fields are left untouched.
type Partial struct {
	CO2            *float64 `yaml:"co2,omitempty" json:"co2,omitempty"`
	Albedo         *float64 `yaml:"albedo,omitempty" json:"albedo,omitempty"`
	SolarIntensity *float64 `yaml:"solar_intensity,omitempty" json:"solar_intensity,omitempty"`
	ForestCover    *float64 `yaml:"forest_cover,omitempty" json:"forest_cover,omitempty"`
}

// Ptr returns a pointer to v, for building a Partial inline.
func Ptr(v float64) *float64 { return &v }

// Full returns a Partial that sets every field of p.
func Full(p Params) Partial {
	return Partial{
		CO2:            Ptr(p.CO2),
		Albedo:         Ptr(p.Albedo),
		SolarIntensity: Ptr(p.SolarIntensity),
		ForestCover:    Ptr(p.ForestCover),
	}
}

func (p Partial) Empty() bool {
	return p.CO2 == nil && p.Albedo == nil && p.SolarIntensity == nil && p.ForestCover == nil
}

// Apply returns base with every provided field of p copied over verbatim.
func (p Partial) Apply(base Params) Params {
	if p.CO2 != nil {
		base.CO2 = *p.CO2
	}
	if p.Albedo != nil {
		base.Albedo = *p.Albedo
	}
	if p.SolarIntensity != nil {
		base.SolarIntensity = *p.SolarIntensity
	}
	if p.ForestCover != nil {
		base.ForestCover = *p.ForestCover
	}
	return base
}

// Merge overlays next onto p; fields set in next win.
func (p Partial) Merge(next Partial) Partial {
	if next.CO2 != nil {
		p.CO2 = next.CO2
	}
	if next.Albedo != nil {
		p.Albedo = next.Albedo
	}
	if next.SolarIntensity != nil {
		p.SolarIntensity = next.SolarIntensity
	}
	if next.ForestCover != nil {
		p.ForestCover = next.ForestCover
	}
	return p
}

// Get returns the named parameter.
func (p Params) Get(name string) (float64, error) {
	switch name {
	case ParamCO2:
		return p.CO2, nil
	case ParamAlbedo:
		return p.Albedo, nil
	case ParamSolarIntensity:
		return p.SolarIntensity, nil
	case ParamForestCover:
		return p.ForestCover, nil
	}
	return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownParam, name)
}

// PartialFor builds a single-field update for the named parameter.
func PartialFor(name string, v float64) (Partial, error) {
	switch name {
	case ParamCO2:
		return Partial{CO2: Ptr(v)}, nil
	case ParamAlbedo:
		return Partial{Albedo: Ptr(v)}, nil
	case ParamSolarIntensity:
		return Partial{SolarIntensity: Ptr(v)}, nil
	case ParamForestCover:
		return Partial{ForestCover: Ptr(v)}, nil
	}
	return Partial{}, fmt.Errorf("%w: %q", dynamo.ErrUnknownParam, name)
}

func (p Params) Map() map[string]float64 {
	return map[string]float64{
		ParamCO2:            p.CO2,
		ParamAlbedo:         p.Albedo,
		ParamSolarIntensity: p.SolarIntensity,
		ParamForestCover:    p.ForestCover,
	}
}
