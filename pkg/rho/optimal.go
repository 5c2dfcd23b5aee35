package rho

import "math"

// Yohai-Zamar optimal loss, scaled so that psi'(0) == 1 and the weight
// is exactly 1 on |r| <= 2c. The middle branch is a degree-6 even
// polynomial in r/c joining 1 at 2c and 0 at 3c.

func optimalWeight(r, c float64) float64 {
	t := math.Abs(r) / c
	switch {
	case t <= 2:
		return 1
	case t <= 3:
		t2 := t * t
		return -1.944 + t2*(1.728+t2*(-0.312+t2*0.016))
	default:
		return 0
	}
}

func optimalPsi(r, c float64) float64 {
	return r * optimalWeight(r, c)
}

func optimalPsiDeriv(r, c float64) float64 {
	t := math.Abs(r) / c
	switch {
	case t <= 2:
		return 1
	case t <= 3:
		t2 := t * t
		return -1.944 + t2*(5.184+t2*(-1.56+t2*0.112))
	default:
		return 0
	}
}

func optimalRho(r, c float64) float64 {
	t := math.Abs(r) / c
	switch {
	case t <= 2:
		return r * r / 2
	case t <= 3:
		t2 := t * t
		return c * c * (1.792 + t2*(-0.972+t2*(0.432+t2*(-0.052+t2*0.002))))
	default:
		return 3.25 * c * c
	}
}
