package rho

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat/distuv"
)

// Expectations under the standard normal model. The integrands are
// piecewise smooth, so the integral is split at the branch points of
// the rho function and each segment handled by a fixed Gauss-Legendre
// rule. Mass beyond +-gaussTail is below 1e-15 and ignored.

const (
	gaussTail     = 8.0
	gaussSegNodes = 60
)

// normalExpect approximates E[g(Z)] for Z standard normal, splitting
// the integration range at the supplied break points.
func normalExpect(g func(float64) float64, breaks []float64) float64 {
	edges := []float64{-gaussTail, gaussTail}
	for _, b := range breaks {
		if b > -gaussTail && b < gaussTail {
			edges = append(edges, b)
		}
	}
	sort.Float64s(edges)

	integrand := func(x float64) float64 {
		return g(x) * distuv.UnitNormal.Prob(x)
	}

	var total float64
	for i := 0; i+1 < len(edges); i++ {
		lo, hi := edges[i], edges[i+1]
		if hi-lo < 1e-14 {
			continue
		}
		total += quad.Fixed(integrand, lo, hi, gaussSegNodes, quad.Legendre{}, 0)
	}
	return total
}

// bisect solves g(x) == 0 on [lo, hi] where g changes sign across the
// bracket. gonum has no scalar root finder, so this is the classic
// halving loop with a tolerance on the bracket width.
func bisect(g func(float64) float64, lo, hi, tol float64) (float64, error) {
	glo, ghi := g(lo), g(hi)
	if glo == 0 {
		return lo, nil
	}
	if ghi == 0 {
		return hi, nil
	}
	if math.Signbit(glo) == math.Signbit(ghi) {
		return 0, fmt.Errorf("root not bracketed on [%g, %g]", lo, hi)
	}

	for i := 0; i < 200 && hi-lo > tol; i++ {
		mid := 0.5 * (lo + hi)
		gm := g(mid)
		if gm == 0 {
			return mid, nil
		}
		if math.Signbit(gm) == math.Signbit(glo) {
			lo, glo = mid, gm
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi), nil
}
