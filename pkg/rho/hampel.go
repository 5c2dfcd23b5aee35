package rho

import "math"

// Hampel's three-part redescending loss with breakpoints a < b < c.
// Linear on [0,a], flat on (a,b], descending to zero on (b,c].

func hampelPsi(r, a, b, c float64) float64 {
	x := math.Abs(r)
	s := math.Copysign(1, r)
	switch {
	case x <= a:
		return r
	case x <= b:
		return a * s
	case x <= c:
		return a * (c - x) / (c - b) * s
	default:
		return 0
	}
}

func hampelPsiDeriv(r, a, b, c float64) float64 {
	x := math.Abs(r)
	switch {
	case x <= a:
		return 1
	case x <= b:
		return 0
	case x <= c:
		return -a / (c - b)
	default:
		return 0
	}
}

func hampelRho(r, a, b, c float64) float64 {
	x := math.Abs(r)
	switch {
	case x <= a:
		return x * x / 2
	case x <= b:
		return a*x - a*a/2
	case x <= c:
		return a*b - a*a/2 + a/(c-b)*(c*(x-b)-(x*x-b*b)/2)
	default:
		return a * (b + c - a) / 2
	}
}
