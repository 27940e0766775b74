package config

import (
	"sort"

	"github.com/san-kum/climsim/internal/climate"
)

type Preset struct {
	Name               string
	Description        string
	Params             climate.Params
	InitialTemperature float64
}

var Presets = map[string]Preset{
	"preindustrial": {
		Name:               "preindustrial",
		Description:        "280 ppm CO2, the 1850 baseline",
		Params:             climate.Params{CO2: 280, Albedo: 0.3, SolarIntensity: 1361, ForestCover: 35},
		InitialTemperature: 14,
	},
	"present": {
		Name:               "present",
		Description:        "420 ppm CO2 with today's forest cover",
		Params:             climate.Params{CO2: 420, Albedo: 0.3, SolarIntensity: 1361, ForestCover: 31},
		InitialTemperature: 15,
	},
	"doubled": {
		Name:               "doubled",
		Description:        "560 ppm, twice the pre-industrial concentration",
		Params:             climate.Params{CO2: 560, Albedo: 0.3, SolarIntensity: 1361, ForestCover: 30},
		InitialTemperature: 15,
	},
	"snowball": {
		Name:               "snowball",
		Description:        "ice-covered planet reflecting most sunlight",
		Params:             climate.Params{CO2: 280, Albedo: 0.6, SolarIntensity: 1361, ForestCover: 0},
		InitialTemperature: -30,
	},
	"faint_sun": {
		Name:               "faint_sun",
		Description:        "early Earth under a sun 30% dimmer",
		Params:             climate.Params{CO2: 280, Albedo: 0.3, SolarIntensity: 952.7, ForestCover: 0},
		InitialTemperature: 15,
	},
	"hothouse": {
		Name:               "hothouse",
		Description:        "1500 ppm CO2 and dark, forested continents",
		Params:             climate.Params{CO2: 1500, Albedo: 0.25, SolarIntensity: 1361, ForestCover: 60},
		InitialTemperature: 25,
	},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
