package rho

import "math"

// Hyperbolic tangent estimator of Hampel, Rousseeuw and Ronchetti.
// Identity on [0,d], a scaled tanh of (c-|r|) on (d,c], zero beyond c.
// The A, B, d constants are tied to (c, k) by continuity at d and by
// the change-of-variance bound k; Calibrate supplies consistent sets.

func (f Function) hyperbolicPsi(r float64) float64 {
	x := math.Abs(r)
	switch {
	case x <= f.hypD:
		return r
	case x <= f.c:
		return f.hypSqAk * math.Tanh(f.hypM*(f.c-x)) * math.Copysign(1, r)
	default:
		return 0
	}
}

func (f Function) hyperbolicPsiDeriv(r float64) float64 {
	x := math.Abs(r)
	switch {
	case x <= f.hypD:
		return 1
	case x <= f.c:
		th := math.Tanh(f.hypM * (f.c - x))
		return -f.hypSqAk * f.hypM * (1 - th*th)
	default:
		return 0
	}
}

func (f Function) hyperbolicRho(r float64) float64 {
	x := math.Abs(r)
	logCoshD := logCosh(f.hypM * (f.c - f.hypD))
	switch {
	case x <= f.hypD:
		return x * x / 2
	case x <= f.c:
		return f.hypD*f.hypD/2 + f.hypSqAk/f.hypM*(logCoshD-logCosh(f.hypM*(f.c-x)))
	default:
		return f.hypD*f.hypD/2 + f.hypSqAk/f.hypM*logCoshD
	}
}

// logCosh avoids overflow of cosh for large arguments.
func logCosh(x float64) float64 {
	x = math.Abs(x)
	if x > 20 {
		return x - math.Ln2
	}
	return math.Log(math.Cosh(x))
}
