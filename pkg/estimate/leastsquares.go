// Package estimate provides the starting fits consumed by the
// refinement loop: coefficients plus a residual scale from an estimator
// that does not depend on the tuning constants being swept.
package estimate

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/peter-kozarec/robfit/pkg/dataset"
	"github.com/peter-kozarec/robfit/pkg/utility/stats"
)

var (
	ErrSingularDesign    = errors.New("design matrix is singular")
	ErrZeroResidualScale = errors.New("residual scale is zero")
)

// madConsistency rescales the raw MAD to estimate sigma at the normal
// model.
const madConsistency = 1.4826

// Fit is a starting point for the refinement loop.
type Fit struct {
	Beta      []float64
	Scale     float64
	Residuals []float64 // raw, not scaled
}

// Estimator produces a starting fit from a cleaned observation set.
type Estimator interface {
	Fit(set *dataset.Set) (*Fit, error)
}

// LeastSquares is the ordinary least squares starting estimator with a
// normalized-MAD residual scale. It has no outlier resistance of its
// own; substitute a high-breakdown estimator when contamination may be
// heavy enough to break the starting point.
type LeastSquares struct{}

func (LeastSquares) Fit(set *dataset.Set) (*Fit, error) {
	n, p := set.Dims()

	var qr mat.QR
	qr.Factorize(set.X)
	beta := mat.NewVecDense(p, nil)
	if err := qr.SolveVecTo(beta, false, set.Y); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularDesign, err)
	}

	fit := &Fit{
		Beta:      append([]float64(nil), beta.RawVector().Data...),
		Residuals: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		pred := 0.0
		for j := 0; j < p; j++ {
			pred += set.X.At(i, j) * fit.Beta[j]
		}
		fit.Residuals[i] = set.Y.AtVec(i) - pred
	}

	fit.Scale = madConsistency * stats.MAD(fit.Residuals)
	if fit.Scale <= 0 {
		return nil, fmt.Errorf("%w: more than half of the residuals vanish", ErrZeroResidualScale)
	}
	return fit, nil
}
