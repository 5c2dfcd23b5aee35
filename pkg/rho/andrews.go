package rho

import "math"

// Andrew's sine. Sinusoidal on [0, a*pi], zero beyond.

func andrewRho(r, a float64) float64 {
	if math.Abs(r) > a*math.Pi {
		return 2 * a * a
	}
	return a * a * (1 - math.Cos(r/a))
}

func andrewPsi(r, a float64) float64 {
	if math.Abs(r) > a*math.Pi {
		return 0
	}
	return a * math.Sin(r/a)
}

func andrewPsiDeriv(r, a float64) float64 {
	if math.Abs(r) > a*math.Pi {
		return 0
	}
	return math.Cos(r / a)
}

func andrewWeight(r, a float64) float64 {
	if r > a*math.Pi {
		return 0
	}
	return a * math.Sin(r/a) / r
}
