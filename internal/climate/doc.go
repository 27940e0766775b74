// Package climate implements a single-node energy-balance model of a planet.
//
// One scalar, the surface temperature, is integrated forward in time from the
// balance between absorbed sunlight and outgoing longwave radiation:
//
//	incoming   = S / 4
//	absorbed   = incoming * (1 - albedo)
//	forcing    = 5.35 * ln(co2 / 280)
//	emissivity = clamp(0.61 - 0.005*forcing, 0.5, 0.7)
//	outgoing   = emissivity * sigma * (T + 273.15)^4
//	dT/dt      = (absorbed - outgoing) / 50
//
// The parameters (CO2, albedo, solar intensity, forest cover) carry no
// memory: an update overwrites them verbatim and no range is enforced.
// Out-of-domain inputs such as co2 < 0 yield NaN, which [Snapshot.Finite]
// reports but [Model.Step] does not reject.
//
// A [Model] is owned by exactly one goroutine.
package climate
