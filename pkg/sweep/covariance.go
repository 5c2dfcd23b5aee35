package sweep

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/peter-kozarec/robfit/pkg/rho"
)

var ErrSingularCovariance = errors.New("covariance matrix is singular")

// CovarianceEstimator turns a converged fit into a coefficient
// covariance matrix. Implementations must not mutate their inputs.
type CovarianceEstimator interface {
	Covariance(x *mat.Dense, scaledResiduals []float64, sigma float64, fn rho.Function) (*mat.SymDense, error)
}

// Sandwich is the standard M-estimator covariance
//
//	sigma^2 * n/(n-p) * mean(psi(r)^2) / mean(psi'(r))^2 * (X'X)^-1
//
// evaluated at the scaled residuals of the converged fit.
type Sandwich struct{}

func (Sandwich) Covariance(x *mat.Dense, scaledResiduals []float64, sigma float64, fn rho.Function) (*mat.SymDense, error) {
	n, p := x.Dims()
	if len(scaledResiduals) != n {
		return nil, fmt.Errorf("covariance: %d residuals for %d observations", len(scaledResiduals), n)
	}

	psiSq := make([]float64, n)
	psiDeriv := make([]float64, n)
	for i, r := range scaledResiduals {
		psi := fn.Psi(r)
		psiSq[i] = psi * psi
		psiDeriv[i] = fn.PsiDeriv(r)
	}
	meanDeriv := stat.Mean(psiDeriv, nil)
	if meanDeriv == 0 {
		return nil, fmt.Errorf("%w: mean psi derivative vanishes", ErrSingularCovariance)
	}
	scale := sigma * sigma * float64(n) / float64(n-p) * stat.Mean(psiSq, nil) / (meanDeriv * meanDeriv)

	var xtx, inv mat.Dense
	xtx.Mul(x.T(), x)
	if err := inv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularCovariance, err)
	}

	cov := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			cov.SetSym(i, j, scale*inv.At(i, j))
		}
	}
	return cov, nil
}
