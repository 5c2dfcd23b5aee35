package rho

import "math"

// Precomputed tuning constants. Each row was solved offline from the
// calibration equations of its family; the lookup is tolerance-based
// (tableTol) so float formatting of the request does not matter.

// hyperbolicRow carries the interdependent constants of the tanh
// estimator for one (efficiency, k) pair.
type hyperbolicRow struct {
	eff        float64
	k          float64
	c, a, b, d float64
}

var hyperbolicTable = []hyperbolicRow{
	{eff: 0.85, k: 4.5, c: 3.212991, a: 0.570479, b: 0.696182, d: 1.310733},
	{eff: 0.90, k: 4.5, c: 3.312803, a: 0.685625, b: 0.783822, d: 1.440715},
	{eff: 0.95, k: 4.5, c: 4.044708, a: 0.857044, b: 0.911135, d: 1.687612},
	{eff: 0.975, k: 4.5, c: 4.638236, a: 0.911935, b: 0.948481, d: 1.769455},
	{eff: 0.99, k: 4.5, c: 5.686477, a: 0.959218, b: 0.979278, d: 1.829688},
}

func lookupHyperbolic(eff, k float64) ([4]float64, bool) {
	for _, row := range hyperbolicTable {
		if math.Abs(row.eff-eff) < tableTol && math.Abs(row.k-k) < tableTol {
			return [4]float64{row.c, row.a, row.b, row.d}, true
		}
	}
	return [4]float64{}, false
}

// scalarRow tabulates a single tuning constant for a scalar-tuned
// family at the default shape parameters and location efficiency.
type scalarRow struct {
	family Family
	eff    float64
	tune   float64
}

// Location-efficiency constants for the default configurations. Rows
// for Hampel ratios other than 2:4:8 go through the root finder, so
// only the default ratio appears here.
var scalarTable = []scalarRow{
	{family: Bisquare, eff: 0.85, tune: 3.443689},
	{family: Bisquare, eff: 0.90, tune: 3.882662},
	{family: Bisquare, eff: 0.95, tune: 4.685061},
	{family: Bisquare, eff: 0.99, tune: 7.041392},
}

func lookupTuning(family Family, eff float64, cfg calibrateConfig) (float64, bool) {
	if cfg.shape {
		return 0, false
	}
	if family == Hampel && cfg.hampelBreaks != [3]float64{DefaultHampelA, DefaultHampelB, DefaultHampelC} {
		return 0, false
	}
	for _, row := range scalarTable {
		if row.family == family && math.Abs(row.eff-eff) < tableTol {
			return row.tune, true
		}
	}
	return 0, false
}
