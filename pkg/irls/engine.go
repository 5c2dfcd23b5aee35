// Package irls implements the fixed-scale iteratively reweighted least
// squares refinement used by MM-estimators: starting from a
// high-breakdown fit, repeated weighted least squares solves converge
// to the efficient M-estimate while the scale stays frozen.
package irls

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/peter-kozarec/robfit/pkg/rho"
)

var (
	ErrDimensionMismatch      = errors.New("dimension mismatch")
	ErrNonPositiveScale       = errors.New("scale must be positive")
	ErrSingularWeightedDesign = errors.New("weighted design matrix is singular")
)

// Result is the terminal state of one refinement run. Exhausting the
// iteration budget is not an error; the last iterate is still the best
// available estimate and Converged reports false.
type Result struct {
	Beta       []float64
	Weights    []float64
	Residuals  []float64 // scaled by the input sigma
	Iterations int
	Converged  bool
	Crit       float64 // max abs coordinate change of the last step
}

// Fit refines beta0 on the fixed scale sigma.
//
// Each iteration scales the residuals by sigma, clamps magnitudes below
// machine epsilon, derives weights from fn, and solves the
// sqrt(weight)-scaled least squares problem by QR. Iteration stops when
// the largest coordinate change drops to the tolerance or the step
// budget runs out. A rank-deficient weighted design surfaces as
// ErrSingularWeightedDesign; columns are never dropped silently.
func Fit(y *mat.VecDense, x *mat.Dense, beta0 []float64, sigma float64, fn rho.Function, opts ...Option) (*Result, error) {
	n, p := x.Dims()
	if y.Len() != n || len(beta0) != p {
		return nil, fmt.Errorf("%w: y has %d rows, x is %dx%d, beta0 has %d entries",
			ErrDimensionMismatch, y.Len(), n, p, len(beta0))
	}
	if sigma <= 0 || math.IsNaN(sigma) {
		return nil, fmt.Errorf("%w: got %g", ErrNonPositiveScale, sigma)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	res := &Result{
		Beta:      append([]float64(nil), beta0...),
		Weights:   make([]float64, n),
		Residuals: make([]float64, n),
		Crit:      math.Inf(1),
	}

	scaledResiduals(res.Residuals, y, x, res.Beta, sigma)

	betaNew := make([]float64, p)
	xw := mat.NewDense(n, p, nil)
	yw := mat.NewVecDense(n, nil)
	betaVec := mat.NewVecDense(p, nil)
	var qr mat.QR

	for res.Iterations < cfg.refSteps && res.Crit > cfg.refTol {
		fn.Weights(res.Weights, res.Residuals)

		// Row-scale the design and response by sqrt(w).
		for i := 0; i < n; i++ {
			s := math.Sqrt(res.Weights[i])
			yw.SetVec(i, s*y.AtVec(i))
			for j := 0; j < p; j++ {
				xw.Set(i, j, s*x.At(i, j))
			}
		}

		qr.Factorize(xw)
		if err := qr.SolveVecTo(betaVec, false, yw); err != nil {
			return nil, fmt.Errorf("%w at iteration %d: %v", ErrSingularWeightedDesign, res.Iterations, err)
		}
		copy(betaNew, betaVec.RawVector().Data)

		res.Crit = floats.Distance(betaNew, res.Beta, math.Inf(1))
		copy(res.Beta, betaNew)
		res.Iterations++

		scaledResiduals(res.Residuals, y, x, res.Beta, sigma)
	}

	res.Converged = res.Crit <= cfg.refTol
	fn.Weights(res.Weights, res.Residuals)
	return res, nil
}

// scaledResiduals fills dst with (y - x*beta)/sigma, clamping
// magnitudes below machine epsilon so the weight functions never divide
// by a vanishing residual.
func scaledResiduals(dst []float64, y *mat.VecDense, x *mat.Dense, beta []float64, sigma float64) {
	n, p := x.Dims()
	for i := 0; i < n; i++ {
		fit := 0.0
		for j := 0; j < p; j++ {
			fit += x.At(i, j) * beta[j]
		}
		r := (y.AtVec(i) - fit) / sigma
		if math.Abs(r) < machineEps {
			r = machineEps
		}
		dst[i] = r
	}
}

const machineEps = 2.220446049250313e-16
