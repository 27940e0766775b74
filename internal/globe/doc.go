// Package globe draws the planet as a rotating braille wireframe whose
// colors follow the simulated climate: ocean tint by temperature, polar
// ice, forest share of land and an atmosphere shell sized by CO2 forcing.
package globe
