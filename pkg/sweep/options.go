package sweep

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/peter-kozarec/robfit/pkg/outlier"
	"github.com/peter-kozarec/robfit/pkg/rho"
)

type config struct {
	family     rho.Family
	familyOpts []rho.CalibrateOption
	grid       []float64
	conflev    float64
	refSteps   int
	refTol     float64
	workers    int
	continueOn bool
	cov        CovarianceEstimator
	logger     *zap.Logger
}

func defaultConfig() config {
	return config{
		family:   rho.Bisquare,
		grid:     DefaultGrid(),
		conflev:  outlier.DefaultConfidenceLevel,
		refSteps: 100,
		refTol:   1e-7,
		workers:  runtime.GOMAXPROCS(0),
		cov:      Sandwich{},
		logger:   zap.NewNop(),
	}
}

// DefaultGrid spans efficiencies 0.50 through 0.99 in steps of 0.01.
func DefaultGrid() []float64 {
	grid := make([]float64, 0, 50)
	for i := 0; i < 50; i++ {
		grid = append(grid, 0.5+float64(i)*0.01)
	}
	return grid
}

type Option func(*config)

// WithFamily selects the rho family swept over the grid. Default
// bisquare. Calibration options configure family shape parameters or
// shape-efficiency targeting.
func WithFamily(family rho.Family, opts ...rho.CalibrateOption) Option {
	return func(c *config) {
		c.family = family
		c.familyOpts = opts
	}
}

// WithGrid replaces the default efficiency grid. Values are processed
// in the given order and index the rows of the report matrices.
func WithGrid(grid []float64) Option {
	return func(c *config) {
		if len(grid) > 0 {
			c.grid = append([]float64(nil), grid...)
		}
	}
}

// WithConfidenceLevel sets the outlier declaration level. Default 0.975.
func WithConfidenceLevel(conflev float64) Option {
	return func(c *config) {
		c.conflev = conflev
	}
}

// WithRefSteps caps the refinement iterations per grid value.
func WithRefSteps(steps int) Option {
	return func(c *config) {
		if steps >= 0 {
			c.refSteps = steps
		}
	}
}

// WithRefTol sets the refinement convergence tolerance.
func WithRefTol(tol float64) Option {
	return func(c *config) {
		if tol > 0 {
			c.refTol = tol
		}
	}
}

// WithWorkers bounds the number of grid values refined concurrently.
func WithWorkers(workers int) Option {
	return func(c *config) {
		if workers > 0 {
			c.workers = workers
		}
	}
}

// WithContinueOnError records per-grid-value failures in the report
// instead of aborting the whole sweep.
func WithContinueOnError() Option {
	return func(c *config) {
		c.continueOn = true
	}
}

// WithCovariance substitutes the covariance estimator behind the
// t-statistics. Default Sandwich.
func WithCovariance(cov CovarianceEstimator) Option {
	return func(c *config) {
		if cov != nil {
			c.cov = cov
		}
	}
}

// WithLogger attaches a logger for per-grid-value progress and failure
// reporting. Default no-op.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
