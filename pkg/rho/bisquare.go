package rho

import "math"

// Tukey's biweight. Redescends to zero at |r| == c.

func bisquareRho(r, c float64) float64 {
	if math.Abs(r) > c {
		return c * c / 6
	}
	t := r / c
	u := 1 - t*t
	return c * c / 6 * (1 - u*u*u)
}

func bisquarePsi(r, c float64) float64 {
	if math.Abs(r) > c {
		return 0
	}
	t := r / c
	u := 1 - t*t
	return r * u * u
}

func bisquarePsiDeriv(r, c float64) float64 {
	if math.Abs(r) > c {
		return 0
	}
	t2 := (r / c) * (r / c)
	return (1 - t2) * (1 - 5*t2)
}

func bisquareWeight(r, c float64) float64 {
	if r > c {
		return 0
	}
	t := r / c
	u := 1 - t*t
	return u * u
}
