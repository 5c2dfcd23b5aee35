package rho

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnsupportedFamily = errors.New("unsupported rho family")
	ErrInvalidTuning     = errors.New("invalid tuning parameters")
)

// Family identifies a robust loss function. The set is closed; every
// dispatch site switches exhaustively over these values.
type Family int

const (
	Bisquare Family = iota
	Optimal
	Hyperbolic
	Hampel
	MDPD
	AndrewSine
)

// Default shape parameters.
const (
	DefaultHyperbolicK = 4.5

	DefaultHampelA = 2.0
	DefaultHampelB = 4.0
	DefaultHampelC = 8.0
)

func (f Family) String() string {
	switch f {
	case Bisquare:
		return "bisquare"
	case Optimal:
		return "optimal"
	case Hyperbolic:
		return "hyperbolic"
	case Hampel:
		return "hampel"
	case MDPD:
		return "mdpd"
	case AndrewSine:
		return "andrews"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// ParseFamily maps a textual tag to its Family value.
func ParseFamily(tag string) (Family, error) {
	switch tag {
	case "bisquare":
		return Bisquare, nil
	case "optimal":
		return Optimal, nil
	case "hyperbolic":
		return Hyperbolic, nil
	case "hampel":
		return Hampel, nil
	case "mdpd":
		return MDPD, nil
	case "andrews", "as":
		return AndrewSine, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFamily, tag)
	}
}

// epsTiny is the smallest residual magnitude fed into the weight
// functions. Anything closer to zero is clamped before dividing by it.
const epsTiny = 2.220446049250313e-16

// Function is a fully parameterized member of a rho family. The zero
// value is not usable; construct through New or Calibrate.
type Function struct {
	family Family

	// c is the main tuning constant: the cutoff for bisquare, optimal,
	// Andrew's sine and hyperbolic, the scaling of the a/b/c breaks for
	// Hampel, and the divergence exponent alpha for MDPD.
	c float64

	// Hyperbolic internals.
	k       float64
	hypA    float64
	hypB    float64
	hypD    float64
	hypSqAk float64 // sqrt(A*(k-1))
	hypM    float64 // 0.5*sqrt((k-1)*B*B/A)

	// Hampel breakpoints after scaling by c.
	hampA float64
	hampB float64
	hampC float64
}

// New builds a Function for the given family and tuning constant.
//
// Extra parameters by family:
//
//	Hampel:     optional a, b, c breakpoints (default 2, 4, 8), each
//	            multiplied by the tuning constant.
//	Hyperbolic: k, A, B, d. These are interdependent and normally come
//	            out of Calibrate; New only validates ordering.
func New(family Family, tune float64, extra ...float64) (Function, error) {
	fn := Function{family: family, c: tune}

	switch family {
	case Bisquare, Optimal, AndrewSine:
		if tune <= 0 || len(extra) != 0 {
			return Function{}, fmt.Errorf("%w: %s requires a single positive constant", ErrInvalidTuning, family)
		}
	case MDPD:
		if tune <= 0 || len(extra) != 0 {
			return Function{}, fmt.Errorf("%w: mdpd requires a positive exponent", ErrInvalidTuning)
		}
	case Hampel:
		a, b, c := DefaultHampelA, DefaultHampelB, DefaultHampelC
		switch len(extra) {
		case 0:
		case 3:
			a, b, c = extra[0], extra[1], extra[2]
		default:
			return Function{}, fmt.Errorf("%w: hampel takes zero or three breakpoints", ErrInvalidTuning)
		}
		if tune <= 0 || !(0 < a && a < b && b < c) {
			return Function{}, fmt.Errorf("%w: hampel breakpoints must satisfy 0 < a < b < c", ErrInvalidTuning)
		}
		fn.hampA, fn.hampB, fn.hampC = a*tune, b*tune, c*tune
	case Hyperbolic:
		if len(extra) != 4 {
			return Function{}, fmt.Errorf("%w: hyperbolic requires k, A, B and d", ErrInvalidTuning)
		}
		k, A, B, d := extra[0], extra[1], extra[2], extra[3]
		if tune <= 0 || k <= 1 || A <= 0 || B <= 0 || d <= 0 || d >= tune {
			return Function{}, fmt.Errorf("%w: hyperbolic requires k > 1, positive A, B and 0 < d < c", ErrInvalidTuning)
		}
		fn.k, fn.hypA, fn.hypB, fn.hypD = k, A, B, d
		fn.hypSqAk = math.Sqrt(A * (k - 1))
		fn.hypM = 0.5 * math.Sqrt((k-1)*B*B/A)
	default:
		return Function{}, fmt.Errorf("%w: %s", ErrUnsupportedFamily, family)
	}

	return fn, nil
}

// Family reports which family the function belongs to.
func (f Function) Family() Family { return f.family }

// Tuning reports the main tuning constant the function was built with.
func (f Function) Tuning() float64 { return f.c }

// Rho evaluates the loss at a scaled residual.
func (f Function) Rho(r float64) float64 {
	switch f.family {
	case Bisquare:
		return bisquareRho(r, f.c)
	case Optimal:
		return optimalRho(r, f.c)
	case Hyperbolic:
		return f.hyperbolicRho(r)
	case Hampel:
		return hampelRho(r, f.hampA, f.hampB, f.hampC)
	case MDPD:
		return mdpdRho(r, f.c)
	case AndrewSine:
		return andrewRho(r, f.c)
	}
	panic("rho: unreachable family " + f.family.String())
}

// Psi evaluates the influence function, the derivative of Rho.
func (f Function) Psi(r float64) float64 {
	switch f.family {
	case Bisquare:
		return bisquarePsi(r, f.c)
	case Optimal:
		return optimalPsi(r, f.c)
	case Hyperbolic:
		return f.hyperbolicPsi(r)
	case Hampel:
		return hampelPsi(r, f.hampA, f.hampB, f.hampC)
	case MDPD:
		return mdpdPsi(r, f.c)
	case AndrewSine:
		return andrewPsi(r, f.c)
	}
	panic("rho: unreachable family " + f.family.String())
}

// PsiDeriv evaluates the derivative of Psi.
func (f Function) PsiDeriv(r float64) float64 {
	switch f.family {
	case Bisquare:
		return bisquarePsiDeriv(r, f.c)
	case Optimal:
		return optimalPsiDeriv(r, f.c)
	case Hyperbolic:
		return f.hyperbolicPsiDeriv(r)
	case Hampel:
		return hampelPsiDeriv(r, f.hampA, f.hampB, f.hampC)
	case MDPD:
		return mdpdPsiDeriv(r, f.c)
	case AndrewSine:
		return andrewPsiDeriv(r, f.c)
	}
	panic("rho: unreachable family " + f.family.String())
}

// Weight evaluates Psi(r)/r, extended by continuity to Weight(0) == 1.
// Residual magnitudes below machine epsilon are clamped to machine
// epsilon first; Weight is even, so the sign of r is irrelevant.
func (f Function) Weight(r float64) float64 {
	r = math.Abs(r)
	if r < epsTiny {
		r = epsTiny
	}
	switch f.family {
	case Bisquare:
		return bisquareWeight(r, f.c)
	case Optimal:
		return optimalWeight(r, f.c)
	case Hyperbolic:
		return f.hyperbolicPsi(r) / r
	case Hampel:
		return hampelPsi(r, f.hampA, f.hampB, f.hampC) / r
	case MDPD:
		return mdpdWeight(r, f.c)
	case AndrewSine:
		return andrewWeight(r, f.c)
	}
	panic("rho: unreachable family " + f.family.String())
}

// Weights fills dst with Weight(r) for every entry of r. dst and r must
// have the same length; Weights allocates when dst is nil.
func (f Function) Weights(dst, r []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(r))
	}
	for i, v := range r {
		dst[i] = f.Weight(v)
	}
	return dst
}

// breaks lists the points where the function changes its closed-form
// branch. The calibration integrals split at these points so each
// quadrature segment sees a smooth integrand.
func (f Function) breaks() []float64 {
	switch f.family {
	case Bisquare:
		return []float64{-f.c, f.c}
	case Optimal:
		return []float64{-3 * f.c, -2 * f.c, 2 * f.c, 3 * f.c}
	case Hyperbolic:
		return []float64{-f.c, -f.hypD, f.hypD, f.c}
	case Hampel:
		return []float64{-f.hampC, -f.hampB, -f.hampA, f.hampA, f.hampB, f.hampC}
	case MDPD:
		return nil
	case AndrewSine:
		cutoff := f.c * math.Pi
		return []float64{-cutoff, cutoff}
	}
	panic("rho: unreachable family " + f.family.String())
}
