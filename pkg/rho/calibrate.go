package rho

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedEfficiency marks an efficiency, shape or parameter
	// combination for which no tuning constant can be produced.
	ErrUnsupportedEfficiency = errors.New("unsupported efficiency request")
)

// Requested parameters within tableTol of a tabulated combination are
// served from the embedded tables instead of the root finder.
const tableTol = 1e-6

// rootTol is the bracket width at which the calibration bisection stops.
const rootTol = 1e-9

type calibrateConfig struct {
	hyperbolicK  float64
	hampelBreaks [3]float64
	shape        bool
}

type CalibrateOption func(*calibrateConfig)

// WithHyperbolicK overrides the change-of-variance bound used for the
// hyperbolic family. Default 4.5.
func WithHyperbolicK(k float64) CalibrateOption {
	return func(c *calibrateConfig) {
		c.hyperbolicK = k
	}
}

// WithHampelBreaks overrides the a, b, c breakpoint ratios scaled by
// the Hampel tuning constant. Default 2, 4, 8.
func WithHampelBreaks(a, b, c float64) CalibrateOption {
	return func(cfg *calibrateConfig) {
		cfg.hampelBreaks = [3]float64{a, b, c}
	}
}

// WithShapeEfficiency calibrates against the efficiency of the
// associated M-scale rather than the location estimator.
func WithShapeEfficiency() CalibrateOption {
	return func(c *calibrateConfig) {
		c.shape = true
	}
}

// Calibrate solves for the tuning constant giving the requested
// asymptotic efficiency at the standard normal model and returns the
// ready-to-use Function. eff must lie in [0.5, 0.999).
//
// Hyperbolic constants come from the embedded table; combinations not
// tabulated within 1e-6 are rejected, since the A, B, d internals have
// no scalar root-finding reduction. All other families are solved by
// bisection over the efficiency integral, with the table consulted
// first when a matching entry exists.
func Calibrate(family Family, eff float64, opts ...CalibrateOption) (Function, error) {
	cfg := calibrateConfig{
		hyperbolicK:  DefaultHyperbolicK,
		hampelBreaks: [3]float64{DefaultHampelA, DefaultHampelB, DefaultHampelC},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if eff < 0.5 || eff >= 0.999 {
		return Function{}, fmt.Errorf("%w: efficiency %g outside [0.5, 0.999)", ErrUnsupportedEfficiency, eff)
	}

	switch family {
	case Hyperbolic:
		if cfg.shape {
			return Function{}, fmt.Errorf("%w: shape efficiency is not available for the hyperbolic family", ErrUnsupportedEfficiency)
		}
		consts, ok := lookupHyperbolic(eff, cfg.hyperbolicK)
		if !ok {
			return Function{}, fmt.Errorf("%w: hyperbolic eff=%g k=%g is not tabulated", ErrUnsupportedEfficiency, eff, cfg.hyperbolicK)
		}
		return New(Hyperbolic, consts[0], cfg.hyperbolicK, consts[1], consts[2], consts[3])
	case Bisquare, Optimal, Hampel, MDPD, AndrewSine:
		if c, ok := lookupTuning(family, eff, cfg); ok {
			return newCalibrated(family, c, cfg)
		}
		return solveTuning(family, eff, cfg)
	default:
		return Function{}, fmt.Errorf("%w: %s", ErrUnsupportedFamily, family)
	}
}

// newCalibrated builds the Function for a scalar-tuned family.
func newCalibrated(family Family, tune float64, cfg calibrateConfig) (Function, error) {
	if family == Hampel {
		return New(Hampel, tune, cfg.hampelBreaks[0], cfg.hampelBreaks[1], cfg.hampelBreaks[2])
	}
	return New(family, tune)
}

// solveTuning runs the bisection over the efficiency integral.
func solveTuning(family Family, eff float64, cfg calibrateConfig) (Function, error) {
	lo, hi := tuningBracket(family)

	g := func(tune float64) float64 {
		fn, err := newCalibrated(family, tune, cfg)
		if err != nil {
			return -1
		}
		if cfg.shape {
			return fn.ShapeEfficiency() - eff
		}
		return fn.Efficiency() - eff
	}

	tune, err := bisect(g, lo, hi, rootTol)
	if err != nil {
		return Function{}, fmt.Errorf("%w: %s eff=%g: %v", ErrUnsupportedEfficiency, family, eff, err)
	}
	return newCalibrated(family, tune, cfg)
}

// tuningBracket spans efficiencies well past (0.5, 0.999) for every
// scalar-tuned family.
func tuningBracket(family Family) (lo, hi float64) {
	switch family {
	case MDPD:
		// Efficiency decreases in the exponent.
		return 1e-6, 10
	case Hampel:
		return 0.05, 6
	case Optimal:
		return 0.2, 6
	default: // Bisquare, AndrewSine
		return 0.4, 20
	}
}

// Efficiency evaluates the asymptotic efficiency of the location
// M-estimator defined by f at the standard normal model,
// (E[psi'])^2 / E[psi^2].
func (f Function) Efficiency() float64 {
	breaks := f.breaks()
	num := normalExpect(f.PsiDeriv, breaks)
	den := normalExpect(func(x float64) float64 {
		p := f.Psi(x)
		return p * p
	}, breaks)
	return num * num / den
}

// ShapeEfficiency evaluates the asymptotic efficiency of the M-scale
// defined by f relative to the normal maximum likelihood scale,
// (E[r psi])^2 / (2 Var[rho]).
func (f Function) ShapeEfficiency() float64 {
	breaks := f.breaks()
	num := normalExpect(func(x float64) float64 {
		return x * f.Psi(x)
	}, breaks)
	meanRho := normalExpect(f.Rho, breaks)
	meanRhoSq := normalExpect(func(x float64) float64 {
		r := f.Rho(x)
		return r * r
	}, breaks)
	return num * num / (2 * (meanRhoSq - meanRho*meanRho))
}
