package rho

import "math"

// Minimum density power divergence loss with exponent alpha > 0. The
// weight exp(-alpha*r^2/2) is strictly positive everywhere; alpha -> 0
// recovers least squares.

func mdpdRho(r, alpha float64) float64 {
	return (1 - math.Exp(-alpha*r*r/2)) / alpha
}

func mdpdPsi(r, alpha float64) float64 {
	return r * math.Exp(-alpha*r*r/2)
}

func mdpdPsiDeriv(r, alpha float64) float64 {
	return (1 - alpha*r*r) * math.Exp(-alpha*r*r/2)
}

func mdpdWeight(r, alpha float64) float64 {
	return math.Exp(-alpha * r * r / 2)
}
