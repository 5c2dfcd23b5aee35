package irls

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/peter-kozarec/robfit/pkg/rho"
)

func bisquare95(t *testing.T) rho.Function {
	t.Helper()
	fn, err := rho.Calibrate(rho.Bisquare, 0.95)
	require.NoError(t, err)
	return fn
}

// contaminatedSample draws a seeded Gaussian regression sample with the
// first shifted responses acting as vertical outliers.
func contaminatedSample(n, p, shifted int, shift float64, seed uint64) (*mat.VecDense, *mat.Dense, []float64) {
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}
	beta := make([]float64, p)
	for j := range beta {
		beta[j] = float64(j+1) - float64(p)/2
	}

	x := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		fit := 0.0
		for j := 0; j < p; j++ {
			v := normal.Rand()
			x.Set(i, j, v)
			fit += beta[j] * v
		}
		val := fit + normal.Rand()
		if i < shifted {
			val += shift
		}
		y.SetVec(i, val)
	}
	return y, x, beta
}

// olsOn solves ordinary least squares restricted to the given rows and
// returns coefficients plus the residual standard deviation over those
// rows.
func olsOn(t *testing.T, y *mat.VecDense, x *mat.Dense, rows []int) ([]float64, float64) {
	t.Helper()
	_, p := x.Dims()
	sub := mat.NewDense(len(rows), p, nil)
	suby := mat.NewVecDense(len(rows), nil)
	for i, r := range rows {
		suby.SetVec(i, y.AtVec(r))
		for j := 0; j < p; j++ {
			sub.Set(i, j, x.At(r, j))
		}
	}

	var qr mat.QR
	qr.Factorize(sub)
	beta := mat.NewVecDense(p, nil)
	require.NoError(t, qr.SolveVecTo(beta, false, suby))

	rss := 0.0
	for i, r := range rows {
		fit := 0.0
		for j := 0; j < p; j++ {
			fit += sub.At(i, j) * beta.AtVec(j)
		}
		d := y.AtVec(r) - fit
		rss += d * d
	}
	sigma := math.Sqrt(rss / float64(len(rows)-p))
	return append([]float64(nil), beta.RawVector().Data...), sigma
}

func TestFitDownweightsContamination(t *testing.T) {
	const (
		n       = 200
		p       = 3
		shifted = 10
	)
	y, x, _ := contaminatedSample(n, p, shifted, 7, 1)

	clean := make([]int, 0, n-shifted)
	for i := shifted; i < n; i++ {
		clean = append(clean, i)
	}
	beta0, sigma := olsOn(t, y, x, clean)

	res, err := Fit(y, x, beta0, sigma, bisquare95(t))
	require.NoError(t, err)
	require.True(t, res.Converged)

	others := make([]float64, 0, n-shifted)
	for i := shifted; i < n; i++ {
		others = append(others, res.Weights[i])
	}
	sort.Float64s(others)
	medianClean := others[len(others)/2]

	for i := 0; i < shifted; i++ {
		require.Lessf(t, res.Weights[i], 0.3,
			"contaminated observation %d kept weight %v", i, res.Weights[i])
		require.Less(t, res.Weights[i], medianClean)
	}
	require.Greater(t, medianClean, 0.8)

	// The shifted residuals stay far outside any reasonable band.
	for i := 0; i < shifted; i++ {
		require.Greater(t, math.Abs(res.Residuals[i]), 3.0)
	}
}

func TestFitIdempotentAtConvergence(t *testing.T) {
	y, x, _ := contaminatedSample(120, 3, 6, 7, 2)
	rows := make([]int, 0, 114)
	for i := 6; i < 120; i++ {
		rows = append(rows, i)
	}
	beta0, sigma := olsOn(t, y, x, rows)
	fn := bisquare95(t)

	first, err := Fit(y, x, beta0, sigma, fn)
	require.NoError(t, err)
	require.True(t, first.Converged)

	second, err := Fit(y, x, first.Beta, sigma, fn, WithRefSteps(1))
	require.NoError(t, err)
	require.LessOrEqual(t, second.Crit, 1e-7)
	for j := range first.Beta {
		require.InDelta(t, first.Beta[j], second.Beta[j], 1e-7)
	}
}

func TestFitZeroRefStepsReturnsStart(t *testing.T) {
	y, x, _ := contaminatedSample(50, 2, 0, 0, 3)
	beta0 := []float64{0.25, -1}

	res, err := Fit(y, x, beta0, 1.0, bisquare95(t), WithRefSteps(0))
	require.NoError(t, err)
	require.Equal(t, 0, res.Iterations)
	require.Equal(t, beta0, res.Beta)
	require.False(t, res.Converged)
}

func TestFitSingularWeightedDesign(t *testing.T) {
	// Second column is an exact copy of the first.
	n := 30
	x := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(4)}
	for i := 0; i < n; i++ {
		v := normal.Rand()
		x.Set(i, 0, v)
		x.Set(i, 1, v)
		y.SetVec(i, v+0.1*normal.Rand())
	}

	_, err := Fit(y, x, []float64{0, 0}, 1.0, bisquare95(t))
	require.ErrorIs(t, err, ErrSingularWeightedDesign)
}

func TestFitValidatesInputs(t *testing.T) {
	y, x, _ := contaminatedSample(20, 2, 0, 0, 5)

	_, err := Fit(y, x, []float64{1}, 1.0, bisquare95(t))
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = Fit(y, x, []float64{1, 1}, 0, bisquare95(t))
	require.ErrorIs(t, err, ErrNonPositiveScale)

	_, err = Fit(y, x, []float64{1, 1}, -2, bisquare95(t))
	require.ErrorIs(t, err, ErrNonPositiveScale)
}

func TestFitDoesNotMutateInputs(t *testing.T) {
	y, x, _ := contaminatedSample(40, 2, 4, 7, 6)
	rows := make([]int, 0, 36)
	for i := 4; i < 40; i++ {
		rows = append(rows, i)
	}
	beta0, sigma := olsOn(t, y, x, rows)
	beta0Copy := append([]float64(nil), beta0...)
	yCopy := mat.VecDenseCopyOf(y)
	xCopy := mat.DenseCopyOf(x)

	_, err := Fit(y, x, beta0, sigma, bisquare95(t))
	require.NoError(t, err)

	require.Equal(t, beta0Copy, beta0)
	require.True(t, mat.Equal(yCopy, y))
	require.True(t, mat.Equal(xCopy, x))
}

func TestFitReportsNonConvergenceAsSuccess(t *testing.T) {
	y, x, _ := contaminatedSample(80, 3, 8, 7, 7)
	rows := make([]int, 0, 72)
	for i := 8; i < 80; i++ {
		rows = append(rows, i)
	}
	beta0, sigma := olsOn(t, y, x, rows)

	// One step cannot reach a 1e-7 fixed point from OLS.
	res, err := Fit(y, x, beta0, sigma, bisquare95(t), WithRefSteps(1))
	require.NoError(t, err)
	require.False(t, res.Converged)
	require.Equal(t, 1, res.Iterations)
	require.NotNil(t, res.Beta)
}
